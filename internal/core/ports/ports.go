package ports

import (
	"context"

	"github.com/hoster-project/portal-sync/internal/core/domain"
)

// Cache defines the port to the external query cache. Invalidate marks the
// entry for the given resource key stale so the next read refetches it.
type Cache interface {
	Invalidate(key domain.ResourceKey)
}

// Navigator defines the port to the routing collaborator. Navigate performs
// in-app routing to a same-origin path; Assign performs a full-page navigation
// to an absolute URL (used for cross-origin portal redirects).
type Navigator interface {
	Navigate(path string)
	Assign(absoluteURL string)
}

// Player defines the port to an audio sink. Play is expected to return quickly
// and report failure so the caller can fall back to a synthesized tone.
type Player interface {
	Play(ctx context.Context) error
}

// VisibilityProbe reports whether the user is currently looking at the
// application surface. Tones are suppressed while it reports false.
type VisibilityProbe interface {
	Visible() bool
}

// Preferences defines the port to the persisted user settings store.
type Preferences interface {
	Get(key string) (string, bool)
}

// UnreadSource defines the port to the polled unread-notification counter.
type UnreadSource interface {
	UnreadCount(ctx context.Context) (int, error)
}
