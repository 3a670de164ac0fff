package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// RefreshTokenCookie is the name of the HTTP-only cookie carrying the
// refresh token between the API and its clients.
const RefreshTokenCookie = "refreshToken"

// OTPLength is the number of decimal digits in a one-time password.
const OTPLength = 4

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes generated before hex
// encoding, so the resulting string is twice as long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MakeOTPCode generates a code of exactly OTPLength decimal digits using
// crypto/rand. Leading zeros are preserved ("0042" is a valid code).
func MakeOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < OTPLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTPLength, n), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Useful for removing passwords from memory after use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
