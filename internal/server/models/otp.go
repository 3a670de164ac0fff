package models

import "time"

// OTPTTL is how long an issued one-time password stays valid.
const OTPTTL = 10 * time.Minute

// OTP is a short-lived email-ownership proof. Only the bcrypt hash of the
// code is stored; at most one live record exists per email (the table keys
// on email and new requests upsert over the previous one).
type OTP struct {
	Email     string
	CodeHash  []byte
	ExpiresAt time.Time
}

// Expired reports whether the record is past its TTL at the given time.
func (o *OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
