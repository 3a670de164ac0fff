// Package cryptox wraps the hashing primitives used for stored secrets:
// bcrypt for user passwords and for one-time-password codes. Plaintext codes
// are never persisted or compared directly; bcrypt's comparison is resistant
// to timing attacks.
package cryptox

import (
	"golang.org/x/crypto/bcrypt"
)

// otpHashCost is lower than the password cost: OTP codes live for minutes
// and are single-use, so the work factor can favor request latency.
const otpHashCost = bcrypt.MinCost

// HashPassword returns the bcrypt hash of a plaintext password at the
// default cost.
func HashPassword(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash []byte, password []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}

// HashOTP returns the bcrypt hash of a one-time-password code.
func HashOTP(code string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(code), otpHashCost)
}

// CheckOTP reports whether code matches the stored bcrypt hash.
func CheckOTP(hash []byte, code string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(code)) == nil
}
