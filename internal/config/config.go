package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Realtime connection configuration
	Realtime RealtimeConfig

	// Portal subdomain tokens
	Portals PortalConfig

	// Access guard configuration
	Access AccessConfig

	// JWT configuration
	JWT JWTConfig

	// Notification sound configuration
	Sound SoundConfig

	// Push gateway configuration (cmd/pushgw only)
	Gateway GatewayConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// RealtimeConfig holds the push connection configuration
type RealtimeConfig struct {
	// URL, when set, is used verbatim and wins over derivation.
	URL string

	// APIBase is the REST base the push URL is derived from when URL is empty.
	APIBase string

	// Origin is the last-resort derivation source (the app's own origin).
	Origin string

	// DevPort replaces the origin's port during development derivation.
	DevPort string

	ReconnectBase time.Duration
	ReconnectCap  time.Duration
}

// PortalConfig holds the positional subdomain tokens for each portal
type PortalConfig struct {
	Admin    string
	Provider string
	Host     string
}

// AccessConfig holds the access guard's route configuration
type AccessConfig struct {
	SignInPath     string
	VerifyPath     string
	PublicPrefixes []string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// SoundConfig holds the notification sound configuration
type SoundConfig struct {
	// PlayerCommand is the external command used to play audio files.
	PlayerCommand string

	// AssetPath is the primary notification sound file.
	AssetPath string

	// PrefsPath is where user preferences are persisted.
	PrefsPath string

	PollInterval time.Duration
	Throttle     time.Duration
}

// GatewayConfig holds the push gateway's HTTP configuration
type GatewayConfig struct {
	Port            string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Realtime: RealtimeConfig{
			URL:           os.Getenv("REALTIME_URL"),
			APIBase:       os.Getenv("API_BASE_URL"),
			Origin:        os.Getenv("APP_ORIGIN"),
			DevPort:       getEnvOrDefault("REALTIME_DEV_PORT", "8080"),
			ReconnectBase: getDurationOrDefault("REALTIME_RECONNECT_BASE", 500*time.Millisecond),
			ReconnectCap:  getDurationOrDefault("REALTIME_RECONNECT_CAP", 10*time.Second),
		},
		Portals: PortalConfig{
			Admin:    getEnvOrDefault("PORTAL_ADMIN", "admin"),
			Provider: getEnvOrDefault("PORTAL_PROVIDER", "provider"),
			Host:     getEnvOrDefault("PORTAL_HOST", "hoster"),
		},
		Access: AccessConfig{
			SignInPath:     getEnvOrDefault("SIGN_IN_PATH", "/sign-in"),
			VerifyPath:     getEnvOrDefault("VERIFY_EMAIL_PATH", "/verify-email"),
			PublicPrefixes: getStringSliceOrDefault("PUBLIC_PREFIXES", []string{"/sign-in", "/sign-up"}),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			AccessTokenTTL: getDurationOrDefault("JWT_ACCESS_TOKEN_TTL", 1*time.Hour),
		},
		Sound: SoundConfig{
			PlayerCommand: getEnvOrDefault("SOUND_PLAYER_COMMAND", ""),
			AssetPath:     getEnvOrDefault("SOUND_ASSET_PATH", ""),
			PrefsPath:     getEnvOrDefault("PREFS_PATH", "preferences.json"),
			PollInterval:  getDurationOrDefault("UNREAD_POLL_INTERVAL", 30*time.Second),
			Throttle:      getDurationOrDefault("SOUND_THROTTLE", 1*time.Second),
		},
		Gateway: GatewayConfig{
			Port:            getEnvOrDefault("GATEWAY_PORT", ":8080"),
			AllowedOrigins:  getStringSliceOrDefault("GATEWAY_ALLOWED_ORIGINS", []string{}),
			ReadTimeout:     getDurationOrDefault("GATEWAY_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("GATEWAY_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDurationOrDefault("GATEWAY_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("GATEWAY_SHUTDOWN_TIMEOUT", 30*time.Second),
			RateLimitRPS:    getFloatOrDefault("RATE_LIMIT_RPS", 10),
			RateLimitBurst:  getIntOrDefault("RATE_LIMIT_BURST", 20),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "portal-sync"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.JWT.Secret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	if c.Realtime.URL == "" && c.Realtime.APIBase == "" && c.Realtime.Origin == "" {
		errs = append(errs, "one of REALTIME_URL, API_BASE_URL or APP_ORIGIN is required")
	}

	// Security validations
	if c.App.Environment == "production" {
		if len(c.JWT.Secret) < 32 {
			errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
		}

		if len(c.Gateway.AllowedOrigins) == 0 {
			errs = append(errs, "GATEWAY_ALLOWED_ORIGINS must be set in production")
		}
	}

	// Logical validations
	if c.Sound.PollInterval <= 0 {
		errs = append(errs, "UNREAD_POLL_INTERVAL must be positive")
	}

	if c.Realtime.ReconnectBase > c.Realtime.ReconnectCap {
		errs = append(errs, "REALTIME_RECONNECT_BASE cannot be greater than REALTIME_RECONNECT_CAP")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Realtime: %s, Portals: %s/%s/%s, JWT: [REDACTED], Environment: %s}",
		c.pushSource(),
		c.Portals.Admin, c.Portals.Provider, c.Portals.Host,
		c.App.Environment,
	)
}

// pushSource names which derivation source the push URL will come from.
func (c *Config) pushSource() string {
	switch {
	case c.Realtime.URL != "":
		return "override"
	case c.Realtime.APIBase != "":
		return "api-base"
	default:
		return "origin"
	}
}
