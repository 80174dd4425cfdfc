// ABOUTME: Tests for credential persistence across process restarts

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := NewTokenStore(path)
	assert.Empty(t, store.Token())

	require.NoError(t, store.Set("tok-abc"))
	assert.Equal(t, "tok-abc", store.Token())

	// A new instance over the same path simulates a process restart.
	restarted := NewTokenStore(path)
	assert.Equal(t, "tok-abc", restarted.Token())
}

func TestTokenStore_ClearReportsPresence(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "credentials.json"))

	assert.False(t, store.Clear(), "clearing an empty store reports nothing to clear")

	require.NoError(t, store.Set("tok"))
	assert.True(t, store.Clear())
	assert.False(t, store.Clear(), "second clear finds nothing")
	assert.Empty(t, store.Token())
}

func TestTokenStore_ClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewTokenStore(path)
	require.NoError(t, store.Set("tok"))

	store.Clear()

	restarted := NewTokenStore(path)
	assert.Empty(t, restarted.Token(), "cleared credential must not survive a restart")
}

func TestTokenStore_UnreadableFileMeansNoCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store := NewTokenStore(path)
	assert.Empty(t, store.Token())
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)

	info, ok := InspectToken(signed)
	require.True(t, ok)
	assert.Equal(t, "42", info.Subject)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.False(t, info.Expired())
}

func TestInspectToken_Opaque(t *testing.T) {
	_, ok := InspectToken("not-a-jwt")
	assert.False(t, ok)
}

func TestInspectToken_NoExpiryNeverExpired(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "7"})
	signed, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)

	info, ok := InspectToken(signed)
	require.True(t, ok)
	assert.False(t, info.Expired())
}
