package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword([]byte("Sup3r$ecret"))
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, []byte("Sup3r$ecret")))
	assert.False(t, CheckPassword(hash, []byte("sup3r$ecret")))
	assert.False(t, CheckPassword(hash, nil))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := HashPassword([]byte("Sup3r$ecret"))
	require.NoError(t, err)
	h2, err := HashPassword([]byte("Sup3r$ecret"))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashOTP_RoundTrip(t *testing.T) {
	hash, err := HashOTP("0428")
	require.NoError(t, err)

	assert.True(t, CheckOTP(hash, "0428"))
	assert.False(t, CheckOTP(hash, "0429"))
	assert.False(t, CheckOTP(hash, ""))
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	assert.False(t, CheckPassword([]byte("not-a-bcrypt-hash"), []byte("x")))
}
