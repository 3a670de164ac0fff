package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gowear/gowear/internal/common"
)

type fakeRefresher struct {
	mu     sync.Mutex
	tokens []string
	err    error
	calls  int
}

func (f *fakeRefresher) Refresh(_ context.Context, refreshToken string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.tokens) == 0 {
		return "access", nil
	}
	token := f.tokens[0]
	if len(f.tokens) > 1 {
		f.tokens = f.tokens[1:]
	}
	return token, nil
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSetAndClear(t *testing.T) {
	m := NewManager(&fakeRefresher{}, time.Minute)
	assert.False(t, m.LoggedIn())

	m.Set("access-1", "refresh-1")
	assert.True(t, m.LoggedIn())
	assert.Equal(t, "access-1", m.AccessToken())
	assert.Equal(t, "refresh-1", m.RefreshToken())

	m.Clear()
	assert.False(t, m.LoggedIn())
	assert.Empty(t, m.AccessToken())
}

func TestBootstrap(t *testing.T) {
	f := &fakeRefresher{tokens: []string{"access-boot"}}
	m := NewManager(f, time.Minute)

	require.NoError(t, m.Bootstrap(context.Background(), "refresh-persisted"))
	assert.Equal(t, "access-boot", m.AccessToken())
	assert.Equal(t, "refresh-persisted", m.RefreshToken())
}

func TestBootstrap_FailureStaysLoggedOut(t *testing.T) {
	f := &fakeRefresher{err: common.ErrNoRefreshToken}
	m := NewManager(f, time.Minute)

	err := m.Bootstrap(context.Background(), "stale")
	assert.ErrorIs(t, err, common.ErrNoRefreshToken)
	assert.False(t, m.LoggedIn())
}

func TestRun_RenewsOnTicks(t *testing.T) {
	f := &fakeRefresher{tokens: []string{"access-2"}}
	m := NewManager(f, 10*time.Millisecond)
	m.Set("access-1", "refresh-1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return m.AccessToken() == "access-2"
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestRun_PermanentFailureClearsSession(t *testing.T) {
	f := &fakeRefresher{err: common.ErrNoRefreshToken}
	m := NewManager(f, 10*time.Millisecond)
	m.Set("access-1", "refresh-1")

	var expired sync.WaitGroup
	expired.Add(1)
	var once sync.Once
	m.OnExpired = func() { once.Do(expired.Done) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	expired.Wait()
	assert.False(t, m.LoggedIn())
}

func TestRun_TransientFailureKeepsSession(t *testing.T) {
	f := &fakeRefresher{err: errors.New("connection refused")}
	m := NewManager(f, 10*time.Millisecond)
	m.Set("access-1", "refresh-1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	require.Eventually(t, func() bool {
		return f.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	// Still logged in with the old token; the loop keeps retrying.
	assert.True(t, m.LoggedIn())
	assert.Equal(t, "access-1", m.AccessToken())
}

func TestRenew_SkipsWhenLoggedOut(t *testing.T) {
	f := &fakeRefresher{}
	m := NewManager(f, time.Minute)
	m.renew(context.Background())
	assert.Equal(t, 0, f.callCount())
}
