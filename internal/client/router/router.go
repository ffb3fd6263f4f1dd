// Package router maps the client's surfaces to routes and runs the
// navigation guards on every transition: protected surfaces require an
// authenticated session, the auth surfaces are guest-only, the landing
// page is open.
package router

import (
	"context"
	"sync"

	"github.com/EmySim/mdd/internal/client/guard"
	"github.com/EmySim/mdd/internal/client/session"
	"github.com/EmySim/mdd/internal/logging"
)

type Route string

const (
	RouteLanding  Route = "landing"
	RouteLogin    Route = "login"
	RouteRegister Route = "register"
	RouteFeed     Route = "feed"
	RouteThemes   Route = "themes"
	RouteArticle  Route = "article"
	RouteProfile  Route = "profile"
)

// protected routes are gated by the auth guard and redirect to login;
// guestOnly routes are gated by the guest guard and redirect to the feed.
var (
	protected = map[Route]bool{
		RouteFeed:    true,
		RouteThemes:  true,
		RouteArticle: true,
		RouteProfile: true,
	}
	guestOnly = map[Route]bool{
		RouteLogin:    true,
		RouteRegister: true,
	}
)

type Router struct {
	mu      sync.Mutex
	current Route
	store   *session.Store
	log     logging.Logger
}

func New(store *session.Store, log logging.Logger) *Router {
	return &Router{current: RouteLanding, store: store, log: log}
}

func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate evaluates the target's guard and moves either there or to the
// guard's redirect target. It returns the route actually reached. The
// guard blocks while the session is still unknown, so a navigation issued
// right after startup waits for the first session check instead of
// bouncing a logged-in user to the login page.
func (r *Router) Navigate(ctx context.Context, to Route) (Route, error) {
	switch {
	case protected[to]:
		ok, err := guard.Auth(ctx, r.store)
		if err != nil {
			return r.Current(), err
		}
		if !ok {
			r.log.Info(ctx, "navigation denied", "to", string(to), "redirect", string(RouteLogin))
			to = RouteLogin
		}
	case guestOnly[to]:
		ok, err := guard.Guest(ctx, r.store)
		if err != nil {
			return r.Current(), err
		}
		if !ok {
			r.log.Info(ctx, "navigation denied", "to", string(to), "redirect", string(RouteFeed))
			to = RouteFeed
		}
	}

	r.mu.Lock()
	r.current = to
	r.mu.Unlock()
	return to, nil
}

// ForceLogin jumps straight to the login surface without consulting a
// guard. Used by the interceptor's 401 path and by logout, where the
// session is already known to be anonymous.
func (r *Router) ForceLogin() {
	r.mu.Lock()
	r.current = RouteLogin
	r.mu.Unlock()
}
