// Package mail dispatches transactional email through the Brevo HTTP API.
package mail

import "context"

// Mailer sends the one outbound email type the identity flows need: a
// one-time-password code proving control of an address.
type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string) error
}
