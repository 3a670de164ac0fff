// Package services contains the application services behind the HTTP layer:
// account lifecycle, one-time passwords, and the product catalog.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gowear/gowear/internal/common"
	"github.com/gowear/gowear/internal/cryptox"
	"github.com/gowear/gowear/internal/dbx"
	"github.com/gowear/gowear/internal/server/auth"
	"github.com/gowear/gowear/internal/server/config"
	"github.com/gowear/gowear/internal/server/models"
	"github.com/gowear/gowear/internal/server/oauth"
	"github.com/gowear/gowear/internal/server/repositories/repomanager"
	"github.com/gowear/gowear/internal/validate"
)

// TokenPair is the result of a successful authentication: an access token
// for the Authorization header and a refresh token destined for the
// HTTP-only cookie, with the cookie's lifetime.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
}

// RegisterInput carries the sign-up form fields.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            models.Role
	TermsAccepted   bool
}

// GoogleAction selects between social sign-up and sign-in.
type GoogleAction string

const (
	GoogleSignUp GoogleAction = "signUp"
	GoogleSignIn GoogleAction = "signIn"
)

// UserService orchestrates registration, credential verification, OAuth
// account creation, and account administration.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	google      oauth.Exchanger
	cfg         *config.Config
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer, google oauth.Exchanger, cfg *config.Config) *UserService {
	return &UserService{db: db, repomanager: m, issuer: issuer, google: google, cfg: cfg}
}

// Register creates a new email-method account. The email must be unused and
// every field must pass the shared validators; failures come back as
// common.ErrUserExists or *common.ValidationError.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fields := map[string]string{}
	if msg := validate.Name(in.Name); msg != "" {
		fields["name"] = msg
	}
	if msg := validate.Email(in.Email); msg != "" {
		fields["email"] = msg
	}
	if msg := validate.Password(in.Password); msg != "" {
		fields["password"] = msg
	}
	if msg := validate.ConfirmPassword(in.Password, in.ConfirmPassword); msg != "" {
		fields["confirmPassword"] = msg
	}
	if msg := validate.Role(string(in.Role)); msg != "" {
		fields["role"] = msg
	}
	if msg := validate.Terms(in.TermsAccepted); msg != "" {
		fields["termsAndPolicies"] = msg
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError(fields)
	}

	hash, err := cryptox.HashPassword([]byte(in.Password))
	if err != nil {
		return nil, common.ErrorInternal
	}

	// Plain users need no admin gate; elevated roles start pending.
	approval := models.ApprovalApproved
	if in.Role.Elevated() {
		approval = models.ApprovalPending
	}

	user := &models.User{
		Email:             normalizeEmail(in.Email),
		Name:              strings.TrimSpace(in.Name),
		PasswordHash:      hash,
		Role:              in.Role,
		EmailVerified:     false,
		AdminVerification: approval,
		SignupMethod:      models.SignupEmail,
	}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrUserExists) {
			return nil, common.ErrUserExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies email-method credentials and mints a token pair. The
// refresh token's lifetime depends on keepLoggedIn.
func (s *UserService) Login(ctx context.Context, email, password string, keepLoggedIn bool) (*models.Sanitized, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrUserNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	if user.SignupMethod != models.SignupEmail || user.PasswordHash == nil {
		return nil, nil, common.ErrMethodMismatch
	}
	if !cryptox.CheckPassword(user.PasswordHash, []byte(password)) {
		return nil, nil, common.ErrInvalidCredentials
	}

	if err := s.loginGates(user); err != nil {
		return nil, nil, err
	}

	pair, err := s.mintTokenPair(user, keepLoggedIn)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}
	return user.Sanitize(), pair, nil
}

// GoogleAuth exchanges the OAuth authorization code for a profile and then
// either registers a verified social account (signUp) or performs login
// minus the password check (signIn).
func (s *UserService) GoogleAuth(ctx context.Context, code, redirectURI string, action GoogleAction, keepLoggedIn bool) (*models.Sanitized, *TokenPair, error) {
	profile, err := s.google.Exchange(ctx, code, redirectURI)
	if err != nil {
		return nil, nil, fmt.Errorf("google exchange: %w", err)
	}

	repo := s.repomanager.Users(s.db)

	switch action {
	case GoogleSignUp:
		user := &models.User{
			Email:             normalizeEmail(profile.Email),
			Name:              profile.Name,
			Role:              models.RoleUser,
			EmailVerified:     profile.EmailVerified,
			AdminVerification: models.ApprovalApproved,
			SignupMethod:      models.SignupGoogle,
			AvatarURL:         profile.Picture,
		}
		user, err = repo.Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrUserExists) {
				return nil, nil, common.ErrUserExists
			}
			return nil, nil, common.ErrorInternal
		}
		pair, err := s.mintTokenPair(user, keepLoggedIn)
		if err != nil {
			return nil, nil, common.ErrorInternal
		}
		return user.Sanitize(), pair, nil

	case GoogleSignIn:
		user, err := repo.GetByEmail(ctx, normalizeEmail(profile.Email))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, nil, common.ErrUserNotFound
			}
			return nil, nil, common.ErrorInternal
		}
		if user.SignupMethod != models.SignupGoogle {
			return nil, nil, common.ErrMethodMismatch
		}
		if err := s.loginGates(user); err != nil {
			return nil, nil, err
		}
		pair, err := s.mintTokenPair(user, keepLoggedIn)
		if err != nil {
			return nil, nil, common.ErrorInternal
		}
		return user.Sanitize(), pair, nil

	default:
		return nil, nil, fmt.Errorf("unknown action %q", action)
	}
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// user is re-read so a role or approval change takes effect on the next
// access token, not only at the next login.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.issuer.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := s.issuer.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// GetProfile returns the sanitized profile for the given user id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Sanitized, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}
	return user.Sanitize(), nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return common.ErrUserNotFound
	}
	if user.PasswordHash == nil {
		return common.ErrMethodMismatch
	}
	if !cryptox.CheckPassword(user.PasswordHash, []byte(current)) {
		return common.ErrInvalidCredentials
	}
	if msg := validate.Password(next); msg != "" {
		return common.NewValidationError(map[string]string{"password": msg})
	}

	hash, err := cryptox.HashPassword([]byte(next))
	if err != nil {
		return common.ErrorInternal
	}
	return repo.UpdatePassword(ctx, userID, hash)
}

// ResetPassword replaces the password for an email that just passed OTP
// verification. It does not require the old password.
func (s *UserService) ResetPassword(ctx context.Context, email, next string) error {
	if msg := validate.Password(next); msg != "" {
		return common.NewValidationError(map[string]string{"password": msg})
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return common.ErrUserNotFound
	}
	if user.PasswordHash == nil {
		return common.ErrMethodMismatch
	}

	hash, err := cryptox.HashPassword([]byte(next))
	if err != nil {
		return common.ErrorInternal
	}
	return repo.UpdatePassword(ctx, user.ID, hash)
}

// ChangeEmail re-verifies the password and moves the account to a new
// address. The caller is expected to have completed the OTP confirmation
// flow first.
func (s *UserService) ChangeEmail(ctx context.Context, userID, password, newEmail string) error {
	if msg := validate.Email(newEmail); msg != "" {
		return common.NewValidationError(map[string]string{"email": msg})
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return common.ErrUserNotFound
	}
	if user.PasswordHash == nil {
		return common.ErrMethodMismatch
	}
	if !cryptox.CheckPassword(user.PasswordHash, []byte(password)) {
		return common.ErrInvalidCredentials
	}

	err = repo.UpdateEmail(ctx, userID, normalizeEmail(newEmail))
	if errors.Is(err, common.ErrUserExists) {
		return common.ErrUserExists
	}
	return err
}

// DeleteAccount removes the user and any live OTP rows in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return common.ErrUserNotFound
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.OTPs(tx).Delete(ctx, user.Email); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
}

// ListUsers returns every account, sanitized, for the admin screen.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.Sanitized, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	result := make([]*models.Sanitized, 0, len(users))
	for _, u := range users {
		result = append(result, u.Sanitize())
	}
	return result, nil
}

// SetApproval moves an elevated-role account to approved or rejected.
func (s *UserService) SetApproval(ctx context.Context, userID string, status models.ApprovalStatus) error {
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return common.NewValidationError(map[string]string{"status": "Status must be approved or rejected"})
	}
	err := s.repomanager.Users(s.db).SetApproval(ctx, userID, status)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrUserNotFound
	}
	return err
}

// loginGates applies the checks every successful login must pass after the
// credential itself: verified email, and admin approval for elevated roles.
func (s *UserService) loginGates(user *models.User) error {
	if !user.EmailVerified {
		return common.ErrEmailNotVerified
	}
	if user.Role.Elevated() && user.AdminVerification != models.ApprovalApproved {
		return common.ErrNotApproved
	}
	return nil
}

func (s *UserService) mintTokenPair(user *models.User, keepLoggedIn bool) (*TokenPair, error) {
	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	ttl := s.cfg.RefreshTokenExpiry
	if keepLoggedIn {
		ttl = s.cfg.RefreshTokenExpiryKeepLoggedIn
	}
	refreshToken, err := s.issuer.IssueRefreshToken(user.ID, ttl)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, RefreshTTL: ttl}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
