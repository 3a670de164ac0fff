package auth

import (
	"testing"
	"time"

	"github.com/gowear/gowear/internal/common"
	"github.com/gowear/gowear/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return NewIssuer([]byte("access-secret"), []byte("refresh-secret"), time.Minute)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.IssueAccessToken("u-1", models.RoleProductManager)
	require.NoError(t, err)

	userID, role, err := issuer.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, models.RoleProductManager, role)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.IssueRefreshToken("u-1", 12*time.Hour)
	require.NoError(t, err)

	userID, err := issuer.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
}

// A token signed with the refresh secret must not verify as an access token,
// and vice versa.
func TestCrossSecretRejection(t *testing.T) {
	issuer := newTestIssuer()

	refresh, err := issuer.IssueRefreshToken("u-1", time.Hour)
	require.NoError(t, err)
	_, _, err = issuer.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	access, err := issuer.IssueAccessToken("u-1", models.RoleUser)
	require.NoError(t, err)
	_, err = issuer.ParseRefreshToken(access)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestExpiredAccessToken(t *testing.T) {
	issuer := NewIssuer([]byte("access-secret"), []byte("refresh-secret"), -time.Minute)

	token, err := issuer.IssueAccessToken("u-1", models.RoleUser)
	require.NoError(t, err)

	_, _, err = issuer.ParseAccessToken(token)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestMalformedToken(t *testing.T) {
	issuer := newTestIssuer()

	_, _, err := issuer.ParseAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = issuer.ParseRefreshToken("")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
