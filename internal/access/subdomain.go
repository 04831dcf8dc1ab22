package access

import (
	"net"
	"strings"

	"github.com/hoster-project/portal-sync/internal/core/domain"
)

// Tokens holds the three portal hostname tokens. They must match the tokens
// the access guard uses for same-origin fallbacks, or redirect decisions
// diverge between deployments.
type Tokens struct {
	Admin    string
	Provider string
	Host     string
}

// DefaultTokens returns the platform defaults.
func DefaultTokens() Tokens {
	return Tokens{Admin: "admin", Provider: "provider", Host: "hoster"}
}

// Token returns the hostname token for a portal.
func (t Tokens) Token(p domain.Portal) (string, bool) {
	switch p {
	case domain.PortalAdmin:
		return t.Admin, true
	case domain.PortalProvider:
		return t.Provider, true
	case domain.PortalHost:
		return t.Host, true
	default:
		return "", false
	}
}

func (t Tokens) known(label string) bool {
	return label == t.Admin || label == t.Provider || label == t.Host
}

// Rewrite maps the current hostname onto the hostname of the target portal by
// positional token matching over dot-separated labels:
//
//  1. label[1] is a portal token (>=4 labels): label[0] is an
//     environment/tenant prefix that survives the rewrite.
//  2. label[0] is a portal token (>=3 labels): no prefix.
//  3. >=3 labels without a recognizable token: label[0] is treated as a
//     tenant prefix over the remaining root domain.
//  4. anything shorter (bare localhost, apex domains): undetermined.
//
// A port suffix is preserved. The boolean is false when the hostname shape is
// not recognized; that is not an error, callers fall back to a same-origin
// path.
func (t Tokens) Rewrite(hostname string, target domain.Portal) (string, bool) {
	token, ok := t.Token(target)
	if !ok {
		return "", false
	}

	host, port := splitHostPort(hostname)
	labels := strings.Split(host, ".")

	var rewritten string
	switch {
	case len(labels) >= 4 && t.known(labels[1]):
		rewritten = labels[0] + "." + token + "." + strings.Join(labels[2:], ".")
	case len(labels) >= 3 && t.known(labels[0]):
		rewritten = token + "." + strings.Join(labels[1:], ".")
	case len(labels) >= 3:
		rewritten = labels[0] + "." + token + "." + strings.Join(labels[1:], ".")
	default:
		return "", false
	}

	if port != "" {
		rewritten = net.JoinHostPort(rewritten, port)
	}
	return rewritten, true
}

// Origin rewrites hostname for the target portal and returns the absolute
// origin with the scheme preserved.
func (t Tokens) Origin(scheme, hostname string, target domain.Portal) (string, bool) {
	host, ok := t.Rewrite(hostname, target)
	if !ok {
		return "", false
	}
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + host, true
}

func splitHostPort(hostname string) (host, port string) {
	h, p, err := net.SplitHostPort(hostname)
	if err != nil {
		return hostname, ""
	}
	return h, p
}
