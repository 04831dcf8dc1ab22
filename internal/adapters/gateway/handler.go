package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/hoster-project/portal-sync/internal/auth"
	"github.com/hoster-project/portal-sync/internal/core/domain"
	apperrors "github.com/hoster-project/portal-sync/internal/core/errors"
)

// Handler exposes the gateway's HTTP surface: the websocket upgrade, the
// unread counter, and the frame-injection endpoint.
type Handler struct {
	hub      *Hub
	tm       *auth.TokenManager
	upgrader websocket.Upgrader
	logger   *slog.Logger

	unread atomic.Int64
}

// HandlerConfig holds configuration for the gateway handler.
type HandlerConfig struct {
	AllowedOrigins []string
	Development    bool
}

// NewHandler creates the gateway handler.
func NewHandler(hub *Hub, tm *auth.TokenManager, cfg HandlerConfig, logger *slog.Logger) *Handler {
	h := &Handler{
		hub:    hub,
		tm:     tm,
		logger: logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.makeOriginChecker(cfg),
	}
	return h
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *Handler) makeOriginChecker(cfg HandlerConfig) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins (but log a warning)
		if cfg.Development {
			if origin != "" {
				h.logger.Warn("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			return false
		}
		originHost := parsedOrigin.Host

		for _, allowed := range cfg.AllowedOrigins {
			// Support wildcard subdomains like "*.example.com", which covers
			// every portal token and tenant prefix at once.
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:]
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
		)
		return false
	}
}

// ServeWS handles websocket connection requests.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	// Authenticate the connection via query parameter.
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		h.logger.Warn("websocket connection rejected: missing token",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
		)
		writeError(w, apperrors.NewUnauthorizedError("Missing authentication token"))
		return
	}

	claims, err := h.tm.ValidateToken(tokenString)
	if err != nil {
		h.logger.Warn("websocket connection rejected: invalid token",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		writeError(w, apperrors.NewUnauthorizedError("Invalid or expired token"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			"request_id", requestID,
			"user_id", claims.UserID,
			"error", err,
		)
		return
	}

	h.logger.Info("websocket connection established",
		"request_id", requestID,
		"user_id", claims.UserID,
		"remote_addr", r.RemoteAddr,
	)

	client := NewClient(h.hub, conn, claims.UserID, h.logger)
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// HandleEmit accepts one push frame and broadcasts it to every connected
// client. Notification frames also move the unread counter so the polled
// source and the push channel tell a consistent story.
func (h *Handler) HandleEmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		writeError(w, apperrors.NewBadRequestError(err, "unreadable body"))
		return
	}

	event, err := domain.ParseFrame(body)
	if err != nil {
		writeError(w, &apperrors.AppError{
			Err:        err,
			Message:    err.Error(),
			Code:       "MALFORMED_FRAME",
			StatusCode: http.StatusUnprocessableEntity,
		})
		return
	}

	if event.Kind == domain.KindNotification {
		switch event.Action {
		case domain.NotificationCreated:
			h.unread.Add(1)
		case domain.NotificationRead, domain.NotificationDeleted:
			if h.unread.Load() > 0 {
				h.unread.Add(-1)
			}
		case domain.NotificationCleared:
			h.unread.Store(0)
		}
	}

	h.hub.Broadcast(event)
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "queued"})
}

// HandleUnreadCount serves the polled unread counter.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{"unreadCount": h.unread.Load()})
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": h.hub.ClientCount(),
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError writes an AppError as the standard JSON error envelope.
func writeError(w http.ResponseWriter, appErr *apperrors.AppError) {
	writeJSON(w, appErr.StatusCode, errorResponse{Error: appErr.Message, Code: appErr.Code})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
