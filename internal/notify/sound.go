// Package notify plays a notification tone when unread work arrives: on every
// increase of the polled unread count after the first observation, and with
// lower latency on pushed notification-created events. Tones are gated by the
// persisted sound preference and by surface visibility.
package notify

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hoster-project/portal-sync/internal/core/domain"
	"github.com/hoster-project/portal-sync/internal/core/ports"
	"github.com/hoster-project/portal-sync/internal/realtime/bus"
)

// PreferenceKey is the persisted settings key for the sound toggle. The value
// "false" disables the tone; anything else (including absence) enables it.
const PreferenceKey = "notificationSound"

// DefaultPollInterval is how often the unread count is re-read.
const DefaultPollInterval = 30 * time.Second

// defaultThrottle keeps a pushed event and the poll that observes the same
// change from playing twice in quick succession.
const defaultThrottle = time.Second

// Config wires a Notifier.
type Config struct {
	Source     ports.UnreadSource
	Player     ports.Player
	Fallback   ports.Player // used when Player fails; optional
	Prefs      ports.Preferences
	Visibility ports.VisibilityProbe
	Bus        *bus.Bus

	PollInterval time.Duration
	Throttle     time.Duration
}

// Notifier tracks the previous unread count and decides when to sound.
type Notifier struct {
	cfg     Config
	limiter *rate.Limiter
	logger  *slog.Logger

	prev   int
	primed bool
}

// New creates a notifier. Run must be called to start polling and the bus
// subscription; the notifier is otherwise inert.
func New(cfg Config, logger *slog.Logger) *Notifier {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Throttle <= 0 {
		cfg.Throttle = defaultThrottle
	}
	return &Notifier{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.Throttle), 1),
		logger:  logger.With("component", "audio_notifier"),
	}
}

// Run polls the unread source and listens for pushed notification events
// until ctx is cancelled. It owns no other goroutines; both triggers run on
// this loop's callbacks.
func (n *Notifier) Run(ctx context.Context) {
	if n.cfg.Bus != nil {
		unsubscribe := n.cfg.Bus.Subscribe(func(ev domain.Event) {
			n.onEvent(ctx, ev)
		})
		defer unsubscribe()
	}

	ticker := time.NewTicker(n.cfg.PollInterval)
	defer ticker.Stop()

	n.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.poll(ctx)
		}
	}
}

// Observe feeds one unread-count reading. The first observation only records
// the baseline, so mounting with unread items does not sound.
func (n *Notifier) Observe(ctx context.Context, count int) {
	if !n.primed {
		n.primed = true
		n.prev = count
		return
	}

	increased := count > n.prev
	n.prev = count
	if increased {
		n.maybePlay(ctx)
	}
}

func (n *Notifier) poll(ctx context.Context) {
	count, err := n.cfg.Source.UnreadCount(ctx)
	if err != nil {
		// Transient by contract: skip the cycle, keep the baseline.
		n.logger.Debug("unread count fetch failed", "error", err)
		return
	}
	n.Observe(ctx, count)
}

// onEvent reacts to pushed notification-created events, decoupled from the
// polled count so a push sounds before the next poll.
func (n *Notifier) onEvent(ctx context.Context, ev domain.Event) {
	if ev.Kind != domain.KindNotification || ev.Action != domain.NotificationCreated {
		return
	}
	n.maybePlay(ctx)
}

func (n *Notifier) maybePlay(ctx context.Context) {
	if !n.enabled() {
		return
	}
	if n.cfg.Visibility != nil && !n.cfg.Visibility.Visible() {
		return
	}
	if !n.limiter.Allow() {
		return
	}

	if err := n.cfg.Player.Play(ctx); err != nil {
		n.logger.Debug("primary tone failed, using fallback", "error", err)
		if n.cfg.Fallback == nil {
			return
		}
		if err := n.cfg.Fallback.Play(ctx); err != nil {
			n.logger.Warn("fallback tone failed", "error", err)
		}
	}
}

func (n *Notifier) enabled() bool {
	if n.cfg.Prefs == nil {
		return true
	}
	value, ok := n.cfg.Prefs.Get(PreferenceKey)
	if !ok {
		return true
	}
	return value != "false"
}
