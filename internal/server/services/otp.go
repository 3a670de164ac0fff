package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gowear/gowear/internal/common"
	"github.com/gowear/gowear/internal/cryptox"
	"github.com/gowear/gowear/internal/dbx"
	"github.com/gowear/gowear/internal/server/mail"
	"github.com/gowear/gowear/internal/server/models"
	"github.com/gowear/gowear/internal/server/repositories/repomanager"
	"github.com/gowear/gowear/internal/validate"
)

// OTPService issues and checks one-time passwords for email verification
// and sensitive-action confirmation.
type OTPService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mail.Mailer

	// now is a seam for expiry tests.
	now func() time.Time
}

func NewOTPService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Mailer) *OTPService {
	return &OTPService{db: db, repomanager: m, mailer: mailer, now: time.Now}
}

// Request generates a fresh code for a registered address, stores its hash,
// and mails the plaintext. A repeat request replaces the previous code, so
// at most one code is live per address.
func (s *OTPService) Request(ctx context.Context, email string) error {
	if msg := validate.Email(email); msg != "" {
		return common.NewValidationError(map[string]string{"email": msg})
	}
	email = normalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return common.ErrorInternal
	}

	code, err := common.MakeOTPCode()
	if err != nil {
		return common.ErrorInternal
	}
	hash, err := cryptox.HashOTP(code)
	if err != nil {
		return common.ErrorInternal
	}

	expiresAt := s.now().Add(models.OTPTTL)
	if err := s.repomanager.OTPs(s.db).Upsert(ctx, email, hash, expiresAt); err != nil {
		return fmt.Errorf("error storing otp: %w", err)
	}

	// The row is already committed. A send failure leaves a live code that
	// a repeat request overwrites, so no cleanup is needed here.
	if err := s.mailer.SendOTP(ctx, email, user.Name, code); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// Verify checks a submitted code and, on success, marks the address
// verified and consumes the code. Expired and missing codes report the
// same failure; a wrong code against a live one reports a distinct one.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	fields := map[string]string{}
	if msg := validate.Email(email); msg != "" {
		fields["email"] = msg
	}
	if msg := validate.OTP(code); msg != "" {
		fields["otp"] = msg
	}
	if len(fields) > 0 {
		return common.NewValidationError(fields)
	}
	email = normalizeEmail(email)

	otp, err := s.repomanager.OTPs(s.db).Find(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrOTPExpired
		}
		return common.ErrorInternal
	}

	if otp.Expired(s.now()) {
		_ = s.repomanager.OTPs(s.db).Delete(ctx, email)
		return common.ErrOTPExpired
	}
	if !cryptox.CheckOTP(otp.CodeHash, code) {
		return common.ErrOTPInvalid
	}

	// Flip the verification flag and consume the code atomically so a
	// concurrent verify cannot reuse it.
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).SetEmailVerified(ctx, email, true); err != nil {
			return err
		}
		return s.repomanager.OTPs(tx).Delete(ctx, email)
	})
}

// PurgeExpired drops stale OTP rows. The app runs it periodically.
func (s *OTPService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repomanager.OTPs(s.db).DeleteExpired(ctx, s.now())
}
