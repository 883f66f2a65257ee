// Package guard decides, per navigation, whether the current session may
// see a route, and where to send it otherwise. It reads the session
// synchronously from an injected provider and never calls the backend:
// a present-but-stale token counts as authenticated until a downstream
// API call fails.
package guard

import (
	"strings"

	"github.com/tinythreads/storefront/internal/session"
)

// Class is the access class of a route.
type Class int

const (
	// Public routes always render.
	Public Class = iota
	// Protected routes require a present session.
	Protected
	// Admin routes require a present session with IsAdmin set.
	Admin
)

// String returns the class name as used in route-table files.
func (c Class) String() string {
	switch c {
	case Protected:
		return "protected"
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

// Route binds a path pattern to an access class. Patterns are matched
// segment by segment; a "{name}" segment matches any single non-empty
// segment, mirroring the router template syntax.
type Route struct {
	Pattern string
	Class   Class
}

// Decision is the outcome of evaluating one navigation. A denied
// navigation carries the redirect target; no return-path state is kept,
// so after logging in the user lands on the default page rather than
// the route that was originally requested.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard evaluates navigations against a route table and a session
// provider.
type Guard struct {
	provider   session.Provider
	routes     []Route
	loginPath  string
	deniedPath string
}

// Option configures a Guard.
type Option func(*Guard)

// WithRoutes replaces the default route table.
func WithRoutes(routes []Route) Option {
	return func(g *Guard) { g.routes = routes }
}

// WithLoginPath sets the redirect target for unauthenticated navigations.
func WithLoginPath(path string) Option {
	return func(g *Guard) { g.loginPath = path }
}

// WithDeniedPath sets the redirect target for authenticated sessions
// hitting an admin route without the privilege.
func WithDeniedPath(path string) Option {
	return func(g *Guard) { g.deniedPath = path }
}

// New creates a guard over the provider. Without options it uses the
// default route table, redirecting to "/login" and "/".
func New(provider session.Provider, opts ...Option) *Guard {
	g := &Guard{
		provider:   provider,
		routes:     DefaultRoutes(),
		loginPath:  "/login",
		deniedPath: "/",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate classifies the path and decides the navigation against the
// session read from the provider right now. Decisions are never cached;
// every navigation re-reads the provider.
func (g *Guard) Evaluate(path string) Decision {
	class := g.Classify(path)
	if class == Public {
		return Decision{Allow: true}
	}

	cur, ok := g.provider.Current()
	if !ok || !cur.Present() {
		return Decision{RedirectTo: g.loginPath}
	}
	if class == Admin && !cur.IsAdmin {
		return Decision{RedirectTo: g.deniedPath}
	}
	return Decision{Allow: true}
}

// Classify returns the access class of a path. Paths matching no route
// are public; what renders there is the host's concern.
func (g *Guard) Classify(path string) Class {
	for _, r := range g.routes {
		if matchPattern(r.Pattern, path) {
			return r.Class
		}
	}
	return Public
}

// matchPattern matches a path against a pattern segment by segment.
// "{name}" segments match any single non-empty segment.
func matchPattern(pattern, path string) bool {
	ps := splitPath(pattern)
	ss := splitPath(path)
	if len(ps) != len(ss) {
		return false
	}
	for i, p := range ps {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if ss[i] == "" {
				return false
			}
			continue
		}
		if p != ss[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
