package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowear/gowear/internal/client/api"
	"github.com/gowear/gowear/internal/client/session"
	"github.com/gowear/gowear/internal/client/store"
)

// fakeClient implements api.Client with per-method hooks and call recording.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	registerErr   error
	loginUser     *api.User
	loginSession  *api.Session
	loginErr      error
	refreshToken  string
	refreshErr    error
	meUser        *api.User
	meErr         error
	requestOTPErr error
	verifyOTPErr  error
	resetErr      error
	changePassErr error
	changeMailErr error
	deleteErr     error
	users         []*api.User
	listUsersErr  error
	approvalErr   error
	product       *api.Product
	addErr        error
	products      []*api.Product
	total         int64
	listErr       error
}

func (c *fakeClient) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeClient) called() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeClient) Register(ctx context.Context, in api.RegisterInput) error {
	c.record("register:" + in.Email)
	return c.registerErr
}

func (c *fakeClient) Login(ctx context.Context, email, password string, keepLoggedIn bool) (*api.User, *api.Session, error) {
	c.record(fmt.Sprintf("login:%s:%t", email, keepLoggedIn))
	if c.loginErr != nil {
		return nil, nil, c.loginErr
	}
	return c.loginUser, c.loginSession, nil
}

func (c *fakeClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	c.record("refresh")
	return c.refreshToken, c.refreshErr
}

func (c *fakeClient) Logout(ctx context.Context) error {
	c.record("logout")
	return nil
}

func (c *fakeClient) Me(ctx context.Context, token string) (*api.User, error) {
	c.record("me")
	return c.meUser, c.meErr
}

func (c *fakeClient) RequestOTP(ctx context.Context, email string) error {
	c.record("requestOTP:" + email)
	return c.requestOTPErr
}

func (c *fakeClient) VerifyOTP(ctx context.Context, email, code string) error {
	c.record("verifyOTP:" + email + ":" + code)
	return c.verifyOTPErr
}

func (c *fakeClient) ResetPassword(ctx context.Context, email, newPassword string) error {
	c.record("resetPassword:" + email)
	return c.resetErr
}

func (c *fakeClient) ChangePassword(ctx context.Context, token, current, next string) error {
	c.record("changePassword")
	return c.changePassErr
}

func (c *fakeClient) ChangeEmail(ctx context.Context, token, password, newEmail string) error {
	c.record("changeEmail:" + newEmail)
	return c.changeMailErr
}

func (c *fakeClient) DeleteAccount(ctx context.Context, token, confirmation string) error {
	c.record("deleteAccount:" + confirmation)
	return c.deleteErr
}

func (c *fakeClient) ListUsers(ctx context.Context, token string) ([]*api.User, error) {
	c.record("listUsers")
	return c.users, c.listUsersErr
}

func (c *fakeClient) SetApproval(ctx context.Context, token, userID, status string) error {
	c.record("setApproval:" + userID + ":" + status)
	return c.approvalErr
}

func (c *fakeClient) AddProduct(ctx context.Context, token string, in api.ProductInput, images []api.ImageFile) (*api.Product, error) {
	c.record(fmt.Sprintf("addProduct:%s:%d", in.Title, len(images)))
	return c.product, c.addErr
}

func (c *fakeClient) ListProducts(ctx context.Context, filter api.ProductFilter) ([]*api.Product, int64, error) {
	c.record("listProducts:" + filter.Category)
	return c.products, c.total, c.listErr
}

var _ api.Client = (*fakeClient)(nil)

// captureOutput redirects printlnFn into a buffer for the duration of a test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Fprintln(&buf, a...)
	}
	t.Cleanup(func() { printlnFn = orig })
	return &buf
}

// stubPasswords replaces the terminal password reader with a fixed queue.
func stubPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	orig := readPassword
	i := 0
	readPassword = func(fd int) ([]byte, error) {
		if i >= len(passwords) {
			return nil, fmt.Errorf("unexpected password prompt %d", i)
		}
		pw := passwords[i]
		i++
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

// newTestApp builds an App over a fake API client, a throwaway SQLite store
// and scripted keyboard input.
func newTestApp(t *testing.T, client *fakeClient, input string) *App {
	t.Helper()

	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return &App{
		client:  client,
		session: session.NewManager(client, 0),
		store:   st,
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     &bytes.Buffer{},
	}
}
