package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/gowear/gowear/internal/common"
	"github.com/gowear/gowear/internal/dbx"
	"github.com/gowear/gowear/internal/server/models"
	"github.com/gowear/gowear/internal/server/oauth"
	"github.com/gowear/gowear/internal/server/repositories/otps"
	"github.com/gowear/gowear/internal/server/repositories/products"
	"github.com/gowear/gowear/internal/server/repositories/users"
)

// fakeRepoManager vends in-memory repositories regardless of the DB handle,
// so service logic can be exercised without SQL.
type fakeRepoManager struct {
	users    *fakeUserRepo
	otps     *fakeOTPRepo
	products *fakeProductRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    &fakeUserRepo{byEmail: map[string]*models.User{}},
		otps:     &fakeOTPRepo{rows: map[string]*models.OTP{}},
		products: &fakeProductRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository       { return m.users }
func (m *fakeRepoManager) OTPs(dbx.DBTX) otps.Repository         { return m.otps }
func (m *fakeRepoManager) Products(dbx.DBTX) products.Repository { return m.products }

type fakeUserRepo struct {
	byEmail   map[string]*models.User
	createErr error
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.ErrUserExists
	}
	clone := *u
	if clone.ID == "" {
		clone.ID = "user-" + u.Email
	}
	clone.CreatedAt = time.Now()
	r.byEmail[u.Email] = &clone
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*models.User, error) {
	var result []*models.User
	for _, u := range r.byEmail {
		clone := *u
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeUserRepo) SetEmailVerified(_ context.Context, email string, verified bool) error {
	u, ok := r.byEmail[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.EmailVerified = verified
	return nil
}

func (r *fakeUserRepo) SetApproval(_ context.Context, id string, status models.ApprovalStatus) error {
	for _, u := range r.byEmail {
		if u.ID == id {
			u.AdminVerification = status
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id string, hash []byte) error {
	for _, u := range r.byEmail {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeUserRepo) UpdateEmail(_ context.Context, id string, email string) error {
	if _, ok := r.byEmail[email]; ok {
		return common.ErrUserExists
	}
	for old, u := range r.byEmail {
		if u.ID == id {
			delete(r.byEmail, old)
			u.Email = email
			r.byEmail[email] = u
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	for email, u := range r.byEmail {
		if u.ID == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeOTPRepo struct {
	rows      map[string]*models.OTP
	upsertErr error
}

func (r *fakeOTPRepo) Upsert(_ context.Context, email string, codeHash []byte, expiresAt time.Time) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.rows[email] = &models.OTP{Email: email, CodeHash: codeHash, ExpiresAt: expiresAt}
	return nil
}

func (r *fakeOTPRepo) Find(_ context.Context, email string) (*models.OTP, error) {
	otp, ok := r.rows[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *otp
	return &clone, nil
}

func (r *fakeOTPRepo) Delete(_ context.Context, email string) error {
	delete(r.rows, email)
	return nil
}

func (r *fakeOTPRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for email, otp := range r.rows {
		if otp.Expired(now) {
			delete(r.rows, email)
			n++
		}
	}
	return n, nil
}

type fakeProductRepo struct {
	created   []*models.Product
	createErr error
	listTotal int64
	listErr   error
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *p
	clone.ID = "product-1"
	clone.CreatedAt = time.Now()
	r.created = append(r.created, &clone)
	return &clone, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	for _, p := range r.created {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeProductRepo) List(_ context.Context, _ models.ProductFilter) ([]*models.Product, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	return r.created, r.listTotal, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	for i, p := range r.created {
		if p.ID == id {
			r.created = append(r.created[:i], r.created[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	to, name, code string
}

func (m *fakeMailer) SendOTP(_ context.Context, to, name, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: to, name: name, code: code})
	return nil
}

type fakeExchanger struct {
	profile *oauth.Profile
	err     error
}

func (e *fakeExchanger) Exchange(context.Context, string, string) (*oauth.Profile, error) {
	return e.profile, e.err
}

type fakeImageStore struct {
	uploaded  []string
	deleted   []string
	failAfter int // fail the upload once len(uploaded) reaches this; -1 disables
}

var errUploadFailed = errors.New("upload failed")

func (s *fakeImageStore) Upload(_ context.Context, key, _ string, _ io.Reader) error {
	if s.failAfter >= 0 && len(s.uploaded) >= s.failAfter {
		return errUploadFailed
	}
	s.uploaded = append(s.uploaded, key)
	return nil
}

func (s *fakeImageStore) Delete(_ context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys...)
	return nil
}

func (s *fakeImageStore) URL(key string) string { return "http://images.local/" + key }
