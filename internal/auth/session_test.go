package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hoster-project/portal-sync/internal/core/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret-key-for-sessions")
	user := &domain.User{
		ID:            uuid.New(),
		Role:          domain.RoleProvider,
		EmailVerified: true,
	}

	token, err := tm.GenerateToken(user, time.Hour)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "provider", claims.Role)
	require.True(t, claims.EmailVerified)

	parsed := claims.User()
	require.Equal(t, domain.RoleProvider, parsed.Role)
	require.True(t, parsed.Verified())
	require.Equal(t, domain.BucketProvider, parsed.Role.Bucket())
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-one")
	other := NewTokenManager("secret-two")

	token, err := tm.GenerateToken(&domain.User{ID: uuid.New(), Role: domain.RoleHost}, time.Hour)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret-key-for-sessions")

	token, err := tm.GenerateToken(&domain.User{ID: uuid.New(), Role: domain.RoleHost}, -time.Minute)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret-key-for-sessions")
	_, err := tm.ValidateToken("not.a.token")
	require.Error(t, err)
}
