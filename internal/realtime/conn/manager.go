// Package conn owns the persistent push connection for an authenticated
// session: it dials, parses inbound frames, fans them out to the event bus and
// the invalidation coalescer, and reconnects with capped exponential backoff
// until the session context is cancelled.
package conn

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hoster-project/portal-sync/internal/core/domain"
	"github.com/hoster-project/portal-sync/internal/realtime/bus"
	"github.com/hoster-project/portal-sync/internal/realtime/invalidate"
)

const (
	backoffBase = 500 * time.Millisecond
	backoffCap  = 10 * time.Second

	// Time allowed to write a control message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 64 * 1024
)

// Backoff returns the reconnect delay for the given retry counter with the
// default window: min(10s, 500ms * 2^n).
func Backoff(n int) time.Duration {
	return scaledBackoff(backoffBase, backoffCap, n)
}

// scaledBackoff doubles base per retry and clamps at limit.
func scaledBackoff(base, limit time.Duration, n int) time.Duration {
	if n < 0 {
		n = 0
	}
	d := base
	for ; n > 0 && d < limit; n-- {
		d *= 2
	}
	if d > limit {
		d = limit
	}
	return d
}

// Manager runs the push connection state machine:
// idle -> connecting -> open -> closed -> connecting -> ...
// One Manager exists per authenticated session and is torn down with it.
type Manager struct {
	url       string
	token     string
	dialer    *websocket.Dialer
	bus       *bus.Bus
	coalescer *invalidate.Coalescer
	logger    *slog.Logger

	mu          sync.Mutex
	state       domain.ConnState
	retries     int
	backoffBase time.Duration
	backoffCap  time.Duration
}

// New creates a manager for the given push URL. The session token is passed
// to the gateway as a query parameter on connect.
func New(pushURL, token string, b *bus.Bus, c *invalidate.Coalescer, logger *slog.Logger) *Manager {
	return &Manager{
		url:         pushURL,
		token:       token,
		dialer:      websocket.DefaultDialer,
		bus:         b,
		coalescer:   c,
		logger:      logger.With("component", "connection_manager"),
		state:       domain.ConnIdle,
		backoffBase: backoffBase,
		backoffCap:  backoffCap,
	}
}

// SetBackoff overrides the reconnect window. Values that are zero or negative
// keep the defaults; the cap is raised to the base when the two are inverted.
// Call before Run.
func (m *Manager) SetBackoff(base, limit time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if base > 0 {
		m.backoffBase = base
	}
	if limit > 0 {
		m.backoffCap = limit
	}
	if m.backoffCap < m.backoffBase {
		m.backoffCap = m.backoffBase
	}
}

// backoff returns the reconnect delay for retry n under the configured window.
func (m *Manager) backoff(n int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return scaledBackoff(m.backoffBase, m.backoffCap, n)
}

// State returns the current connection state.
func (m *Manager) State() domain.ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Retries returns the current retry counter.
func (m *Manager) Retries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retries
}

// Run drives the connection until ctx is cancelled. On return the socket is
// closed, the coalescer is stopped, and no reconnect timer is left pending.
func (m *Manager) Run(ctx context.Context) {
	defer func() {
		m.coalescer.Stop()
		m.setState(domain.ConnIdle)
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		m.setState(domain.ConnConnecting)
		conn, _, err := m.dialer.DialContext(ctx, m.connectURL(), nil)
		if err != nil {
			m.setState(domain.ConnClosed)
			if ctx.Err() != nil {
				return
			}
			m.logger.Warn("push dial failed", "error", err, "retry_in", m.nextBackoff())
			if !m.waitBackoff(ctx) {
				return
			}
			continue
		}

		m.markOpen()
		m.logger.Info("push connection established", "url", m.url)

		m.readLoop(ctx, conn)
		m.setState(domain.ConnClosed)

		if ctx.Err() != nil {
			return
		}
		m.logger.Warn("push connection lost", "retry_in", m.nextBackoff())
		if !m.waitBackoff(ctx) {
			return
		}
	}
}

// connectURL attaches the session token for the current attempt.
func (m *Manager) connectURL() string {
	if m.token == "" {
		return m.url
	}
	u, err := url.Parse(m.url)
	if err != nil {
		return m.url
	}
	q := u.Query()
	q.Set("token", m.token)
	u.RawQuery = q.Encode()
	return u.String()
}

// readLoop pumps frames from the socket until it closes or ctx is cancelled.
func (m *Manager) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)

	// Close the socket on teardown so the blocked read returns.
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	go m.pingLoop(done, conn)

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				m.logger.Warn("push read error", "error", err)
			}
			_ = conn.Close()
			return
		}

		m.dispatch(data)
	}
}

// dispatch parses one frame and fans it out. Malformed frames are dropped
// without affecting connection state.
func (m *Manager) dispatch(data []byte) {
	ev, err := domain.ParseFrame(data)
	if err != nil {
		m.logger.Debug("dropping malformed frame", "error", err)
		return
	}

	m.bus.Publish(ev)
	for _, key := range invalidate.KeysFor(ev) {
		m.coalescer.Schedule(key)
	}
}

// pingLoop keeps the connection alive until done closes or a write fails.
func (m *Manager) pingLoop(done <-chan struct{}, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// waitBackoff sleeps for the current backoff delay and increments the retry
// counter. It returns false when ctx is cancelled, with the timer stopped.
func (m *Manager) waitBackoff(ctx context.Context) bool {
	m.mu.Lock()
	delay := scaledBackoff(m.backoffBase, m.backoffCap, m.retries)
	m.retries++
	m.mu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (m *Manager) nextBackoff() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return scaledBackoff(m.backoffBase, m.backoffCap, m.retries)
}

func (m *Manager) markOpen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = domain.ConnOpen
	m.retries = 0
}

func (m *Manager) setState(s domain.ConnState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}
