package auth

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f000102030405060708090a0b0c0d0e0f"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testKeyHex, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceKeyValidation(t *testing.T) {
	_, err := NewTokenService("short", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("z", 64), time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestAccessTokenRoundtrip(t *testing.T) {
	svc := newTestTokenService(t)
	user := &domain.User{ID: "usr_1", Email: "alice@example.com"}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "usr_1", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, -time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "usr_1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessTokenWrongKey(t *testing.T) {
	svc := newTestTokenService(t)
	token, err := svc.GenerateAccessToken(&domain.User{ID: "usr_1", Email: "a@b.c"})
	require.NoError(t, err)

	other, err := NewTokenService(strings.Repeat("ff", 32), 15*time.Minute, time.Hour)
	require.NoError(t, err)
	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestRefreshTokenGeneration(t *testing.T) {
	svc := newTestTokenService(t)

	t1, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	t2, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	// Hashing is deterministic and differs from the raw token.
	assert.Equal(t, HashRefreshToken(t1), HashRefreshToken(t1))
	assert.NotEqual(t, t1, HashRefreshToken(t1))
}

func TestLoadOrGenerateKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "access-token.key")

	key1, err := LoadOrGenerateKey(keyPath)
	require.NoError(t, err)
	assert.Len(t, key1, 64)

	// Second load returns the persisted key.
	key2, err := LoadOrGenerateKey(keyPath)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	// The generated key is usable.
	_, err = NewTokenService(key1, time.Minute, time.Hour)
	assert.NoError(t, err)
}
