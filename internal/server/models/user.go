package models

import "time"

// Role is an account's authorization level. Elevated roles require admin
// approval before login succeeds.
type Role string

const (
	RoleUser           Role = "user"
	RoleProductManager Role = "product_manager"
	RoleAdmin          Role = "admin"
)

// Elevated reports whether the role is gated by admin approval.
func (r Role) Elevated() bool {
	return r == RoleProductManager || r == RoleAdmin
}

// ApprovalStatus is the admin-approval state of an elevated-role account.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// SignupMethod records how the account was created. Accounts created through
// Google OAuth have no password hash.
type SignupMethod string

const (
	SignupEmail  SignupMethod = "email"
	SignupGoogle SignupMethod = "google"
)

// User is a credential-store record. PasswordHash is nil for social-login
// accounts.
type User struct {
	ID                string
	Email             string
	Name              string
	PasswordHash      []byte
	Role              Role
	EmailVerified     bool
	AdminVerification ApprovalStatus
	SignupMethod      SignupMethod
	AvatarURL         string
	CreatedAt         time.Time
}

// Sanitized is the projection of a User safe to return to clients:
// no password hash.
type Sanitized struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	Role              Role   `json:"role"`
	EmailVerified     bool   `json:"emailVerified"`
	AdminVerification string `json:"adminVerification"`
	SignupMethod      string `json:"methodToSignUpLogin"`
	AvatarURL         string `json:"avatarUrl,omitempty"`
}

// Sanitize strips the credential fields from a User.
func (u *User) Sanitize() *Sanitized {
	return &Sanitized{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Role:              u.Role,
		EmailVerified:     u.EmailVerified,
		AdminVerification: string(u.AdminVerification),
		SignupMethod:      string(u.SignupMethod),
		AvatarURL:         u.AvatarURL,
	}
}
