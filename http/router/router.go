package router

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/http/middleware"
)

// A GuardFn builds the [middleware.Adapter] gating a [Route] that requires auth.
// main reports whether the [Route] is the gated main view.
type GuardFn func(main bool) middleware.Adapter

// A Route maps a path and HTTP method to either a view or a static redirect.
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
type Route struct {
	Path string

	// Name identifies the Route for [*Router.URL].
	Name string

	// Method defaults to [http.MethodGet].
	Method string
	View   http.Handler

	// RequiresAuth gates the Route behind the [GuardFn].
	RequiresAuth bool

	// Main marks the Route as the gated main view,
	// which further requires the questionnaire be completed.
	Main bool

	// Redirect permanently sends requests to the Route to this path, dropping any query.
	// A Route with a Redirect has no View.
	Redirect string

	Middlewares []middleware.Adapter
}

// validate asserts the Route either binds a view or redirects.
func (route Route) validate() error {
	switch {
	case route.Path == "":
		return fmt.Errorf("%w: route %q has no path", compass.ErrMissingData, route.Name)
	case route.Redirect != "" && route.View != nil:
		return fmt.Errorf("%w: redirect route %q cannot have a view", compass.ErrNotValid, route.Path)
	case route.Redirect == "" && route.View == nil:
		return fmt.Errorf("%w: route %q has neither a view nor a redirect", compass.ErrMissingData, route.Path)
	case route.Main && !route.RequiresAuth:
		return fmt.Errorf("%w: main route %q must require auth", compass.ErrNotValid, route.Path)
	}

	return nil
}

// Router routes requests for resources through their middleware stacks to their handlers.
type Router struct {
	Env           compass.Environment
	everyReqStack []middleware.Adapter
	guard         GuardFn
	logReq        middleware.Adapter
	prefix        string
	registry      *registry
	r             *mux.Router
}

// registry tracks registered Routes across a [*Router] and its subrouters.
type registry struct {
	names map[string]string
	paths map[string]struct{}
}

// New constructs a [*Router] for the given environment.
func New(env compass.Environment, opts ...RouterOptFn) *Router {
	r := &Router{
		Env:      env,
		logReq:   middleware.NoopAdapter,
		registry: &registry{names: make(map[string]string), paths: make(map[string]struct{})},
		r:        mux.NewRouter(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) error {
	return r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	r.r.NotFoundHandler = middleware.Chain(
		middleware.ReportPanic(r.Env)(handler),
		r.logReq,
	)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
//
// A Route requiring auth is gated after the every request stack and middlewares
// but before any [middleware.Adapter] already assigned to the Route.
//
// HandleRoutes stops at the first Route that is invalid or whose method and path are already registered.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) error {
	for _, route := range routes {
		if err := route.validate(); err != nil {
			return err
		}

		if route.Method == "" {
			route.Method = http.MethodGet
		}

		full := r.prefix + route.Path
		key := route.Method + " " + full
		if _, ok := r.registry.paths[key]; ok {
			return fmt.Errorf("%w: %s is already registered", compass.ErrNotValid, key)
		}

		if route.Name != "" {
			if _, ok := r.registry.names[route.Name]; ok {
				return fmt.Errorf("%w: route name %q is already registered", compass.ErrNotValid, route.Name)
			}
		}

		mws := append(append([]middleware.Adapter{}, r.everyReqStack...), middlewares...)
		if route.RequiresAuth {
			if r.guard == nil {
				return fmt.Errorf("%w: %s requires auth but no guard is configured", compass.ErrBadConfig, key)
			}

			mws = append(mws, r.guard(route.Main))
		}
		mws = append(mws, route.Middlewares...)

		var handler http.Handler = route.View
		methods := []string{route.Method}
		if route.Redirect != "" {
			handler = redirectTo(route.Redirect)
			methods = []string{http.MethodGet, http.MethodHead}
		}

		r.r.Handle(route.Path, middleware.Chain(middleware.ReportPanic(r.Env)(handler), mws...)).Methods(methods...)

		r.registry.paths[key] = struct{}{}
		if route.Name != "" {
			r.registry.names[route.Name] = full
		}
	}

	return nil
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api") handles requests to endpoints like /api/chat
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		Env:           r.Env,
		everyReqStack: append([]middleware.Adapter{}, r.everyReqStack...),
		guard:         r.guard,
		logReq:        r.logReq,
		prefix:        r.prefix + prefix,
		registry:      r.registry,
		r:             r.r.PathPrefix(prefix).Subrouter(),
	}
}

// URL returns the path of the Route registered under name.
func (r *Router) URL(name string) (string, error) {
	p, ok := r.registry.names[name]
	if !ok {
		return "", fmt.Errorf("%w: no route named %q", compass.ErrNotExist, name)
	}

	return p, nil
}

// redirectTo permanently redirects to target, dropping the request's query.
func redirectTo(target string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}
