package conn

import (
	"fmt"
	"net"
	"net/url"

	apperrors "github.com/hoster-project/portal-sync/internal/core/errors"
)

// PushPath is the fixed path of the push endpoint when the URL is derived from
// an HTTP origin.
const PushPath = "/realtime"

// URLConfig holds the environment inputs for push-URL resolution.
type URLConfig struct {
	// Override, when set, is used verbatim as the push URL.
	Override string

	// APIBase is the HTTP(S) origin of the platform API; its scheme is
	// upgraded to the matching websocket variant and the path fixed to
	// PushPath.
	APIBase string

	// Origin is the application's own origin, used as the last resort.
	Origin string

	// DevPort substitutes the origin's port in development mode, where the
	// page is served by a dev server on a different port than the push
	// gateway.
	DevPort     string
	Development bool
}

// ResolveURL derives the push connection URL with deterministic precedence:
// explicit override, then the API base origin, then same-origin derivation
// with the development-mode port substitution. It is evaluated once per
// connect attempt.
func ResolveURL(cfg URLConfig) (string, error) {
	if cfg.Override != "" {
		if _, err := url.Parse(cfg.Override); err != nil {
			return "", fmt.Errorf("realtime url override: %w", err)
		}
		return cfg.Override, nil
	}

	if cfg.APIBase != "" {
		return deriveFromOrigin(cfg.APIBase, "")
	}

	if cfg.Origin != "" {
		port := ""
		if cfg.Development {
			port = cfg.DevPort
		}
		return deriveFromOrigin(cfg.Origin, port)
	}

	return "", fmt.Errorf("no push URL source configured: %w", apperrors.ErrBadRequest)
}

func deriveFromOrigin(origin, portOverride string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("push origin %q: %w", origin, err)
	}

	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("push origin %q: unsupported scheme %q", origin, u.Scheme)
	}

	if portOverride != "" {
		u.Host = net.JoinHostPort(u.Hostname(), portOverride)
	}

	u.Path = PushPath
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
