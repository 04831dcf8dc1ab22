package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/hoster-project/portal-sync/internal/adapters/audio"
	memcache "github.com/hoster-project/portal-sync/internal/adapters/cache"
	"github.com/hoster-project/portal-sync/internal/adapters/prefs"
	"github.com/hoster-project/portal-sync/internal/adapters/unread"
	"github.com/hoster-project/portal-sync/internal/auth"
	"github.com/hoster-project/portal-sync/internal/config"
	"github.com/hoster-project/portal-sync/internal/core/domain"
	"github.com/hoster-project/portal-sync/internal/infrastructure/logging"
	"github.com/hoster-project/portal-sync/internal/notify"
	"github.com/hoster-project/portal-sync/internal/realtime/bus"
	"github.com/hoster-project/portal-sync/internal/realtime/conn"
	"github.com/hoster-project/portal-sync/internal/realtime/invalidate"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	defer func() {
		if r := recover(); r != nil {
			logging.LogPanic(logger, r)
			os.Exit(1)
		}
	}()

	logger.Info("starting sync agent",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Resolve the push URL and session token
	pushURL, err := conn.ResolveURL(conn.URLConfig{
		Override:    cfg.Realtime.URL,
		APIBase:     cfg.Realtime.APIBase,
		Origin:      cfg.Realtime.Origin,
		DevPort:     cfg.Realtime.DevPort,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		logger.Error("failed to resolve push URL", "error", err)
		os.Exit(1)
	}

	token := os.Getenv("SESSION_TOKEN")
	if token == "" {
		// No external session: mint one against the shared gateway secret.
		tokenManager := auth.NewTokenManager(cfg.JWT.Secret)
		token, err = tokenManager.GenerateToken(&domain.User{
			ID:            uuid.New(),
			Role:          domain.RoleHost,
			EmailVerified: true,
		}, cfg.JWT.AccessTokenTTL)
		if err != nil {
			logger.Error("failed to mint session token", "error", err)
			os.Exit(1)
		}
	}

	// 4. Dependency Injection (Wiring the Hexagon)

	// Query cache and the invalidation coalescer draining into it
	queryCache := memcache.NewMemory()
	coalescer := invalidate.New(queryCache, invalidate.DefaultDelay, logger)

	// Event bus and the push connection feeding it
	eventBus := bus.New()
	manager := conn.New(pushURL, token, eventBus, coalescer, logger)
	manager.SetBackoff(cfg.Realtime.ReconnectBase, cfg.Realtime.ReconnectCap)

	// Persisted preferences (sound toggle lives here)
	preferences, err := prefs.Load(cfg.Sound.PrefsPath)
	if err != nil {
		logger.Error("failed to load preferences", "error", err, "path", cfg.Sound.PrefsPath)
		os.Exit(1)
	}

	// Unread source polled between pushes
	apiBase := cfg.Realtime.APIBase
	if apiBase == "" {
		apiBase = cfg.Realtime.Origin
	}
	unreadClient := unread.NewClient(apiBase, token)

	// Notifier: primary asset player with the synthesized fallback tone
	notifier := notify.New(notify.Config{
		Source: unreadClient,
		Player: &audio.CommandPlayer{
			Command: cfg.Sound.PlayerCommand,
			Asset:   cfg.Sound.AssetPath,
		},
		Fallback:     &audio.TonePlayer{Command: cfg.Sound.PlayerCommand},
		Prefs:        preferences,
		Bus:          eventBus,
		PollInterval: cfg.Sound.PollInterval,
		Throttle:     cfg.Sound.Throttle,
	}, logger)

	// 5. Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go notifier.Run(ctx)

	logger.Info("push connection starting", "url", pushURL)
	manager.Run(ctx)

	logger.Info("sync agent shutdown complete")
}
