package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/org-management-api/internal/config"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(config.AuthConfig{
		JWTSecret:  "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, pair.AccessTTL)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	userID, err := issuer.Parse(pair.Access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)

	userID, err = issuer.Parse(pair.Refresh, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestTokenIssuer_RejectsWrongType(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.Issue(1)
	require.NoError(t, err)

	_, err = issuer.Parse(pair.Refresh, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := newTestIssuer()
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }

	pair, err := issuer.Issue(1)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(pair.Access, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	pair, err := newTestIssuer().Issue(1)
	require.NoError(t, err)

	other := NewTokenIssuer(config.AuthConfig{JWTSecret: "other", AccessTTL: time.Hour, RefreshTTL: time.Hour})
	_, err = other.Parse(pair.Access, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.Parse("not-a-token", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
