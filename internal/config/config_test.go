package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ORIGIN", "https://hoster.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "admin", cfg.Portals.Admin)
	require.Equal(t, "provider", cfg.Portals.Provider)
	require.Equal(t, "hoster", cfg.Portals.Host)
	require.Equal(t, "/sign-in", cfg.Access.SignInPath)
	require.Equal(t, "/verify-email", cfg.Access.VerifyPath)
	require.Equal(t, []string{"/sign-in", "/sign-up"}, cfg.Access.PublicPrefixes)
	require.Equal(t, 500*time.Millisecond, cfg.Realtime.ReconnectBase)
	require.Equal(t, 10*time.Second, cfg.Realtime.ReconnectCap)
	require.Equal(t, 30*time.Second, cfg.Sound.PollInterval)
	require.True(t, cfg.IsDevelopment())
}

func TestLoad_RequiresSecretAndPushSource(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ORIGIN", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("REALTIME_URL", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET is required")
	require.Contains(t, err.Error(), "APP_ORIGIN")
}

func TestLoad_ProductionHardening(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("REALTIME_URL", "wss://api.example.com/realtime")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "at least 32 characters")
	require.Contains(t, err.Error(), "GATEWAY_ALLOWED_ORIGINS")
}

func TestValidate_ReconnectOrdering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ORIGIN", "https://hoster.example.com")
	t.Setenv("REALTIME_RECONNECT_BASE", "20s")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "REALTIME_RECONNECT_BASE")
}

func TestString_RedactsSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secret-value")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("APP_ORIGIN", "")
	t.Setenv("REALTIME_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	s := cfg.String()
	require.NotContains(t, s, "super-secret-value")
	require.Contains(t, s, "api-base")
}
