package router

import (
	"sync"

	"github.com/minhanh2104/snapfeed-cli/internal/session"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/fx"
)

// Navigation surface.
const (
	RouteRoot   = "/"
	RouteLogin  = "/login"
	RouteSignup = "/signup"
	RouteLogout = "/logout"
	RouteHome   = "/home"
)

// Class is the guard class of a route.
type Class int

const (
	// ClassDispatch redirects by authentication state without rendering.
	ClassDispatch Class = iota
	// ClassPublicOnly renders only for unauthenticated visitors.
	ClassPublicOnly
	// ClassProtected renders only for authenticated visitors.
	ClassProtected
)

var routeClasses = map[string]Class{
	RouteRoot:   ClassDispatch,
	RouteLogin:  ClassPublicOnly,
	RouteSignup: ClassPublicOnly,
	RouteLogout: ClassPublicOnly,
	RouteHome:   ClassProtected,
}

// Navigator gates navigation on session state. Token presence is the sole
// signal: no server round-trip happens at guard time, so a revoked token
// counts as authenticated until a later request returns 401.
type Navigator interface {
	// Resolve returns the route that would actually be rendered for path
	Resolve(path string) string

	// Navigate resolves path and makes the result the current route
	Navigate(path string) string

	// Current returns the route currently rendered
	Current() string
}

type Opts struct {
	fx.In

	Session session.Service
	Logger  logger.Logger
}

type Impl struct {
	session session.Service
	logger  logger.Logger

	mu      sync.Mutex
	current string
}

func New(opts Opts) *Impl {
	r := &Impl{
		session: opts.Session,
		logger:  opts.Logger.WithComponent("Router"),
		current: RouteLogin,
	}

	// The HTTP layer never navigates; it only broadcasts the expiry event,
	// and the router owns the redirect.
	opts.Session.Subscribe(func(ev session.Event) {
		if ev.Kind != session.EventExpired {
			return
		}
		r.mu.Lock()
		r.current = RouteLogin
		r.mu.Unlock()
		r.logger.Info("Session expired, redirecting to login", "reason", ev.Reason)
	})

	return r
}

var _ Navigator = (*Impl)(nil)

// Resolve returns the route that would actually be rendered for path
func (r *Impl) Resolve(path string) string {
	authenticated := r.session.IsAuthenticated()

	class, known := routeClasses[path]
	if !known {
		class = ClassDispatch
	}

	switch class {
	case ClassProtected:
		if !authenticated {
			return RouteLogin
		}
		return path
	case ClassPublicOnly:
		if authenticated {
			return RouteHome
		}
		return path
	default:
		if authenticated {
			return RouteHome
		}
		return RouteLogin
	}
}

// Navigate resolves path and makes the result the current route
func (r *Impl) Navigate(path string) string {
	target := r.Resolve(path)
	r.mu.Lock()
	r.current = target
	r.mu.Unlock()
	return target
}

// Current returns the route currently rendered
func (r *Impl) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
