// Package session keeps the client's access token fresh. A background loop
// renews it on an interval so interactive commands never race an expiring
// token, and a persisted refresh token allows silent re-login on start.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gowear/gowear/internal/common"
)

// Refresher is the one server call the manager needs: exchange a refresh
// token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// Manager guards the current token pair behind a mutex. All methods are
// safe for concurrent use; the refresh loop and interactive commands share
// one instance.
type Manager struct {
	client   Refresher
	interval time.Duration

	mu           sync.Mutex
	accessToken  string
	refreshToken string

	// OnExpired runs when a renewal fails permanently and the session is
	// cleared. Optional.
	OnExpired func()
}

func NewManager(client Refresher, interval time.Duration) *Manager {
	return &Manager{client: client, interval: interval}
}

// Set installs a fresh token pair after an interactive login.
func (m *Manager) Set(accessToken, refreshToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = accessToken
	m.refreshToken = refreshToken
}

// AccessToken returns the current access token, empty when logged out.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken
}

// RefreshToken returns the current refresh token, empty when logged out.
func (m *Manager) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshToken
}

// LoggedIn reports whether a session is active.
func (m *Manager) LoggedIn() bool {
	return m.AccessToken() != ""
}

// Clear drops the session, e.g. on logout or permanent refresh failure.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = ""
	m.refreshToken = ""
}

// Bootstrap attempts a silent login from a persisted refresh token. On
// success the session is active without any user interaction.
func (m *Manager) Bootstrap(ctx context.Context, refreshToken string) error {
	access, err := m.client.Refresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	m.Set(access, refreshToken)
	return nil
}

// renew refreshes the access token once. A definitive rejection clears the
// session and reports it; transient errors leave the session as is so the
// next tick can retry.
func (m *Manager) renew(ctx context.Context) {
	refresh := m.RefreshToken()
	if refresh == "" {
		return
	}

	access, err := m.client.Refresh(ctx, refresh)
	if err != nil {
		if errors.Is(err, common.ErrNoRefreshToken) {
			m.Clear()
			if m.OnExpired != nil {
				m.OnExpired()
			}
		}
		return
	}

	m.mu.Lock()
	// Only install the token if the session was not cleared mid-flight.
	if m.refreshToken == refresh {
		m.accessToken = access
	}
	m.mu.Unlock()
}

// Run renews the access token on the configured interval until the context
// is cancelled. Call it in a goroutine.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			renewCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			m.renew(renewCtx)
			cancel()
		case <-ctx.Done():
			return
		}
	}
}
