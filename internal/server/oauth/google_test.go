package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeGoogle stands in for both the token and userinfo endpoints.
func fakeGoogle(t *testing.T, userinfoStatus int, userinfoBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))
		w.WriteHeader(userinfoStatus)
		_, _ = w.Write([]byte(userinfoBody))
	})
	return httptest.NewServer(mux)
}

func newTestService(srv *httptest.Server) *GoogleService {
	s := NewGoogleService("client-id", "client-secret")
	s.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	}
	s.UserInfoURL = srv.URL + "/userinfo"
	return s
}

func TestExchange_Success(t *testing.T) {
	srv := fakeGoogle(t, http.StatusOK,
		`{"email":"alice@example.com","name":"Alice","picture":"http://img","verified_email":true}`)
	defer srv.Close()

	profile, err := newTestService(srv).Exchange(context.Background(), "auth-code", "http://localhost/cb")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "Alice", profile.Name)
	assert.True(t, profile.EmailVerified)
}

func TestExchange_UserinfoError(t *testing.T) {
	srv := fakeGoogle(t, http.StatusForbidden, `{"error":"denied"}`)
	defer srv.Close()

	_, err := newTestService(srv).Exchange(context.Background(), "auth-code", "http://localhost/cb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestExchange_EmptyEmail(t *testing.T) {
	srv := fakeGoogle(t, http.StatusOK, `{"name":"NoEmail"}`)
	defer srv.Close()

	_, err := newTestService(srv).Exchange(context.Background(), "auth-code", "http://localhost/cb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty email")
}

func TestExchange_BadCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := newTestService(srv).Exchange(context.Background(), "bad-code", "http://localhost/cb")
	assert.Error(t, err)
}
