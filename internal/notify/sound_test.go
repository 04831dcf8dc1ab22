package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hoster-project/portal-sync/internal/core/domain"
	"github.com/hoster-project/portal-sync/internal/core/mocks"
	"github.com/hoster-project/portal-sync/internal/realtime/bus"
)

type fakePlayer struct {
	plays atomic.Int32
	err   error
}

func (f *fakePlayer) Play(context.Context) error {
	f.plays.Add(1)
	return f.err
}

type fakePrefs map[string]string

func (f fakePrefs) Get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

type fakeVisibility struct{ visible bool }

func (f *fakeVisibility) Visible() bool { return f.visible }

type scriptedSource struct {
	mu      sync.Mutex
	counts  []int
	errs    []error
	nextIdx int
}

func (s *scriptedSource) UnreadCount(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.nextIdx
	if i >= len(s.counts) {
		i = len(s.counts) - 1
	} else {
		s.nextIdx++
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.counts[i], err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newNotifier(t *testing.T, cfg Config) *Notifier {
	t.Helper()
	if cfg.Throttle == 0 {
		cfg.Throttle = time.Nanosecond
	}
	return New(cfg, discardLogger())
}

func TestNotifier_FirstObservationIsBaselineOnly(t *testing.T) {
	player := &fakePlayer{}
	n := newNotifier(t, Config{Player: player})
	ctx := context.Background()

	// The canonical sequence: 0 on mount, 0 again, then 3.
	n.Observe(ctx, 0)
	n.Observe(ctx, 0)
	n.Observe(ctx, 3)

	require.Equal(t, int32(1), player.plays.Load())
}

func TestNotifier_NoSoundOnMountEvenWithUnread(t *testing.T) {
	player := &fakePlayer{}
	n := newNotifier(t, Config{Player: player})

	n.Observe(context.Background(), 12)
	require.Equal(t, int32(0), player.plays.Load())
}

func TestNotifier_DecreaseAndSteadyStayQuiet(t *testing.T) {
	player := &fakePlayer{}
	n := newNotifier(t, Config{Player: player})
	ctx := context.Background()

	n.Observe(ctx, 5)
	n.Observe(ctx, 3)
	n.Observe(ctx, 3)
	require.Equal(t, int32(0), player.plays.Load())

	// The lowered value is the new baseline.
	n.Observe(ctx, 4)
	require.Equal(t, int32(1), player.plays.Load())
}

func TestNotifier_DisabledPreferenceSuppressesTone(t *testing.T) {
	player := &fakePlayer{}
	n := newNotifier(t, Config{
		Player: player,
		Prefs:  fakePrefs{PreferenceKey: "false"},
	})
	ctx := context.Background()

	n.Observe(ctx, 0)
	n.Observe(ctx, 3)
	require.Equal(t, int32(0), player.plays.Load())
}

func TestNotifier_AnyOtherPreferenceValueEnables(t *testing.T) {
	player := &fakePlayer{}
	n := newNotifier(t, Config{
		Player: player,
		Prefs:  fakePrefs{PreferenceKey: "true"},
	})
	ctx := context.Background()

	n.Observe(ctx, 0)
	n.Observe(ctx, 1)
	require.Equal(t, int32(1), player.plays.Load())
}

func TestNotifier_HiddenSurfaceSuppressesTone(t *testing.T) {
	player := &fakePlayer{}
	visibility := &fakeVisibility{visible: false}
	n := newNotifier(t, Config{Player: player, Visibility: visibility})
	ctx := context.Background()

	n.Observe(ctx, 0)
	n.Observe(ctx, 3)
	require.Equal(t, int32(0), player.plays.Load())

	visibility.visible = true
	n.Observe(ctx, 6)
	require.Equal(t, int32(1), player.plays.Load())
}

func TestNotifier_FallbackToneOnPrimaryFailure(t *testing.T) {
	primary := &fakePlayer{err: errors.New("asset missing")}
	fallback := &fakePlayer{}
	n := newNotifier(t, Config{Player: primary, Fallback: fallback})
	ctx := context.Background()

	n.Observe(ctx, 0)
	n.Observe(ctx, 1)
	require.Equal(t, int32(1), primary.plays.Load())
	require.Equal(t, int32(1), fallback.plays.Load())
}

func TestNotifier_ThrottleCollapsesRapidTriggers(t *testing.T) {
	player := &fakePlayer{}
	n := newNotifier(t, Config{Player: player, Throttle: time.Minute})
	ctx := context.Background()

	n.Observe(ctx, 0)
	n.Observe(ctx, 1)
	n.Observe(ctx, 2)
	n.Observe(ctx, 3)
	require.Equal(t, int32(1), player.plays.Load())
}

func TestNotifier_PushEventSoundsBeforeNextPoll(t *testing.T) {
	player := &fakePlayer{}
	b := bus.New()
	source := &scriptedSource{counts: []int{0}}
	n := newNotifier(t, Config{
		Player:       player,
		Bus:          b,
		Source:       source,
		PollInterval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, time.Millisecond)

	b.Publish(domain.Event{Kind: domain.KindNotification, Action: domain.NotificationCreated})
	require.Eventually(t, func() bool { return player.plays.Load() == 1 }, time.Second, time.Millisecond)

	// Read and cleared actions never sound.
	b.Publish(domain.Event{Kind: domain.KindNotification, Action: domain.NotificationRead})
	b.Publish(domain.Event{Kind: domain.KindChat, Action: domain.ChatMessage, ChatType: domain.ChatGuest})
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(1), player.plays.Load())
}

func TestNotifier_PollsSourceThroughPort(t *testing.T) {
	source := mocks.NewMockUnreadSource()
	source.On("UnreadCount", mock.Anything).Return(0, nil).Once()
	source.On("UnreadCount", mock.Anything).Return(2, nil)

	played := make(chan struct{}, 1)
	player := mocks.NewMockPlayer()
	player.On("Play", mock.Anything).Run(func(mock.Arguments) {
		select {
		case played <- struct{}{}:
		default:
		}
	}).Return(nil)

	n := newNotifier(t, Config{
		Player:       player,
		Source:       source,
		PollInterval: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	select {
	case <-played:
	case <-time.After(2 * time.Second):
		t.Fatal("increase observed through the port never sounded")
	}
	source.AssertExpectations(t)
}

func TestNotifier_FetchFailureSkipsCycle(t *testing.T) {
	player := &fakePlayer{}
	source := &scriptedSource{
		counts: []int{0, 0, 5},
		errs:   []error{nil, errors.New("gateway timeout"), nil},
	}
	n := newNotifier(t, Config{
		Player:       player,
		Source:       source,
		PollInterval: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	// Baseline 0, one failed cycle (silent), then the jump to 5 sounds.
	require.Eventually(t, func() bool { return player.plays.Load() == 1 }, 2*time.Second, time.Millisecond)
}
