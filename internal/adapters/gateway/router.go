package gateway

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RouterConfig holds the HTTP-level gateway configuration.
type RouterConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter assembles the gateway's routes and middleware chain.
func NewRouter(h *Handler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.RateLimitRPS > 0 {
		limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(limiter.Middleware)
	}

	r.Get("/health", h.HandleHealth)

	// The websocket route skips nothing: the upgrade happens after the
	// middleware chain, so rejected origins and rate limits apply.
	r.Get("/realtime", h.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/notifications/unread-count", h.HandleUnreadCount)
		r.Post("/emit", h.HandleEmit)
	})

	return r
}
