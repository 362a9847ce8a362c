package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	tok, exp, err := m.GenerateSessionToken("user-1", "opaque-session")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := m.ParseSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "opaque-session", claims.SessionID)
	assert.Same(t, m, DefaultJWT())
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	other := &JWTManager{Secret: []byte("other"), TTL: time.Hour}
	tok, _, err := other.GenerateSessionToken("user-1", "sid")
	require.NoError(t, err)

	_, err = m.ParseSessionToken(tok)
	assert.Error(t, err)

	expired := &JWTManager{Secret: []byte("test-secret"), TTL: -time.Minute}
	tok, _, err = expired.GenerateSessionToken("user-1", "sid")
	require.NoError(t, err)
	_, err = m.ParseSessionToken(tok)
	assert.Error(t, err)

	_, err = m.ParseSessionToken("garbage")
	assert.Error(t, err)
}
