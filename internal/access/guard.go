// Package access decides, per authenticated user and portal, whether the
// current surface may render or where the user must be sent instead. It embeds
// no navigation itself; callers act on the returned decision through the
// navigator port.
package access

import (
	"log/slog"
	"strings"

	"github.com/hoster-project/portal-sync/internal/config"
	"github.com/hoster-project/portal-sync/internal/core/domain"
	"github.com/hoster-project/portal-sync/internal/core/ports"
)

// AuthPhase is the state of the auth collaborator at evaluation time.
type AuthPhase int

const (
	// AuthLoading means the auth state has not resolved yet.
	AuthLoading AuthPhase = iota
	// AuthAbsent means there is no session.
	AuthAbsent
	// AuthPresent means a user is signed in.
	AuthPresent
)

// Action is what the portal shell must do with the current navigation.
type Action int

const (
	// ActionHold renders a neutral placeholder while auth resolves.
	ActionHold Action = iota
	// ActionRender renders the protected children.
	ActionRender
	// ActionNavigate performs in-app routing to Decision.Target.
	ActionNavigate
	// ActionAssign performs a full-page navigation to the absolute URL in
	// Decision.Target (cross-origin portal redirect).
	ActionAssign
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Action Action
	Target string
}

// Input carries everything the guard consults for one navigation.
type Input struct {
	Phase AuthPhase
	User  *domain.User

	// Portal is the surface being rendered; AllowedRoles defaults to
	// domain.RolesForPortal(Portal) when empty.
	Portal       domain.Portal
	AllowedRoles []domain.Role

	Scheme   string
	Hostname string
	Path     string
}

// Guard gates rendering of a protected portal surface.
type Guard struct {
	tokens     Tokens
	signInPath string
	verifyPath string
	logger     *slog.Logger

	// publicPrefixes bypass the guard entirely (portal login/signup pages).
	publicPrefixes []string
}

// Config holds guard construction parameters.
type Config struct {
	Tokens         Tokens
	SignInPath     string
	VerifyPath     string
	PublicPrefixes []string
}

// NewGuard creates a guard. Zero-value paths get platform defaults.
func NewGuard(cfg Config, logger *slog.Logger) *Guard {
	if cfg.SignInPath == "" {
		cfg.SignInPath = "/sign-in"
	}
	if cfg.VerifyPath == "" {
		cfg.VerifyPath = "/verify-email"
	}
	if cfg.Tokens == (Tokens{}) {
		cfg.Tokens = DefaultTokens()
	}
	if cfg.PublicPrefixes == nil {
		cfg.PublicPrefixes = []string{"/sign-in", "/sign-up"}
	}
	return &Guard{
		tokens:         cfg.Tokens,
		signInPath:     cfg.SignInPath,
		verifyPath:     cfg.VerifyPath,
		publicPrefixes: cfg.PublicPrefixes,
		logger:         logger.With("component", "access_guard"),
	}
}

// NewGuardFromConfig builds a guard from the application configuration, so the
// portal tokens stay shared with the subdomain rewrites and the route paths
// live in one place.
func NewGuardFromConfig(cfg *config.Config, logger *slog.Logger) *Guard {
	return NewGuard(Config{
		Tokens: Tokens{
			Admin:    cfg.Portals.Admin,
			Provider: cfg.Portals.Provider,
			Host:     cfg.Portals.Host,
		},
		SignInPath:     cfg.Access.SignInPath,
		VerifyPath:     cfg.Access.VerifyPath,
		PublicPrefixes: cfg.Access.PublicPrefixes,
	}, logger)
}

// Evaluate runs the guard state machine:
// loading -> {unauthenticated, unverified, wrong-role, authorized}.
func (g *Guard) Evaluate(in Input) Decision {
	if g.isPublic(in.Path) {
		return Decision{Action: ActionRender}
	}

	switch in.Phase {
	case AuthLoading:
		return Decision{Action: ActionHold}
	case AuthAbsent:
		return Decision{Action: ActionNavigate, Target: g.signInPath}
	}

	user := in.User
	if user == nil {
		return Decision{Action: ActionNavigate, Target: g.signInPath}
	}

	// Verification outranks the role check: an unverified user with a
	// disallowed role verifies first, then gets routed to their portal.
	if !user.Verified() {
		if in.Path == g.verifyPath {
			return Decision{Action: ActionRender}
		}
		return Decision{Action: ActionNavigate, Target: g.verifyPath}
	}

	allowed := in.AllowedRoles
	if len(allowed) == 0 {
		allowed = domain.RolesForPortal(in.Portal)
	}
	if roleAllowed(user.Role, allowed) {
		return Decision{Action: ActionRender}
	}

	return g.redirectHome(user, in)
}

// redirectHome sends a verified user with a disallowed role to their home
// portal, cross-origin when the hostname shape allows it.
func (g *Guard) redirectHome(user *domain.User, in Input) Decision {
	home, ok := user.Role.Bucket().HomePortal()
	if !ok {
		// A role outside every bucket has no portal; send it to sign-in
		// rather than looping between surfaces.
		g.logger.Warn("user role maps to no portal", "role", string(user.Role))
		return Decision{Action: ActionNavigate, Target: g.signInPath}
	}

	if origin, ok := g.tokens.Origin(in.Scheme, in.Hostname, home); ok {
		return Decision{Action: ActionAssign, Target: origin + "/"}
	}

	// Hostname shape unrecognized: stay on this origin under the portal's
	// token path.
	token, _ := g.tokens.Token(home)
	return Decision{Action: ActionNavigate, Target: "/" + token}
}

// Apply executes a decision through the navigator. Hold and Render involve no
// navigation and leave the navigator untouched.
func Apply(d Decision, nav ports.Navigator) {
	switch d.Action {
	case ActionNavigate:
		nav.Navigate(d.Target)
	case ActionAssign:
		nav.Assign(d.Target)
	}
}

func (g *Guard) isPublic(path string) bool {
	for _, prefix := range g.publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
