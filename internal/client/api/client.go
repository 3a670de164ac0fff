// Package api is the Gowear HTTP API client used by the terminal app. It
// mirrors the server's JSON surface and translates error responses into
// sentinel errors and typed field errors.
package api

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// User is the sanitized account profile returned by the server.
type User struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	EmailVerified     bool   `json:"emailVerified"`
	AdminVerification string `json:"adminVerification"`
	SignupMethod      string `json:"methodToSignUpLogin"`
	AvatarURL         string `json:"avatarUrl,omitempty"`
}

// Product is one catalog item as served by the listing endpoints.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"categorie"`
	SubCategory string   `json:"sub_categorie"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	CreatedBy   string   `json:"createdBy"`
}

// Session is the result of a successful login: the access token for the
// Authorization header and the refresh token captured from the HTTP-only
// cookie, so the client can renew sessions across restarts.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries the sign-up form fields.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	TermsAccepted   bool
}

// ProductInput carries the add-product form fields.
type ProductInput struct {
	Title       string
	Description string
	Category    string
	SubCategory string
	Price       float64
}

// ImageFile is one product photo to upload.
type ImageFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// ProductFilter narrows a catalog listing request.
type ProductFilter struct {
	Category    string
	SubCategory string
	MinPrice    float64
	MaxPrice    float64
	Page        int
	PerPage     int
}

// APIError is a non-2xx response decoded into its message and optional
// per-field validation messages.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Client is the operation surface of the Gowear server as seen by the
// terminal app. Methods taking a token require an authenticated session.
type Client interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, email, password string, keepLoggedIn bool) (*User, *Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context, token string) (*User, error)

	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, newPassword string) error

	ChangePassword(ctx context.Context, token, current, next string) error
	ChangeEmail(ctx context.Context, token, password, newEmail string) error
	DeleteAccount(ctx context.Context, token, confirmation string) error

	ListUsers(ctx context.Context, token string) ([]*User, error)
	SetApproval(ctx context.Context, token, userID, status string) error

	AddProduct(ctx context.Context, token string, in ProductInput, images []ImageFile) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)
}
