package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(AccessTTL)
	token, err := SignAccess(42, "admin", accessSecret, exp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccess(token, accessSecret)
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)

	id, err := ParseSubject(claims.Subject)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(RefreshTTL)
	token, err := SignRefresh(7, refreshSecret, exp)
	require.NoError(t, err)

	claims, err := ParseRefresh(token, refreshSecret)
	require.NoError(t, err)

	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "refresh", claims.Typ)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestCrossKindVerificationFails(t *testing.T) {
	t.Parallel()

	access, err := SignAccess(1, "client", accessSecret, time.Now().Add(AccessTTL))
	require.NoError(t, err)
	refresh, err := SignRefresh(1, refreshSecret, time.Now().Add(RefreshTTL))
	require.NoError(t, err)

	_, err = ParseRefresh(access, refreshSecret)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ParseAccess(refresh, accessSecret)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAccessTokenAsRefresh_SameSecret(t *testing.T) {
	t.Parallel()

	// Even signed with the refresh secret, a token without the refresh
	// discriminator must not pass refresh verification.
	access, err := SignAccess(1, "client", refreshSecret, time.Now().Add(AccessTTL))
	require.NoError(t, err)

	_, err = ParseRefresh(access, refreshSecret)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestExpiredAccessToken(t *testing.T) {
	t.Parallel()

	token, err := SignAccess(1, "client", accessSecret, time.Now().Add(-time.Second))
	require.NoError(t, err)

	_, err = ParseAccess(token, accessSecret)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestNotYetExpiredAccessToken(t *testing.T) {
	t.Parallel()

	token, err := SignAccess(1, "client", accessSecret, time.Now().Add(2*time.Second))
	require.NoError(t, err)

	_, err = ParseAccess(token, accessSecret)
	assert.NoError(t, err)
}

func TestExpiredRefreshToken(t *testing.T) {
	t.Parallel()

	token, err := SignRefresh(1, refreshSecret, time.Now().Add(-time.Second))
	require.NoError(t, err)

	_, err = ParseRefresh(token, refreshSecret)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestMalformedToken(t *testing.T) {
	t.Parallel()

	_, err := ParseAccess("not-a-jwt", accessSecret)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ParseRefresh("not-a-jwt", refreshSecret)
	assert.ErrorIs(t, err, ErrInvalid)
}
