package router

import "github.com/xy-planning-network/compass/http/middleware"

// A RouterOptFn configures a [*Router].
type RouterOptFn func(*Router)

// WithGuard sets the [GuardFn] gating Routes that require auth.
func WithGuard(fn GuardFn) RouterOptFn {
	return func(r *Router) {
		r.guard = fn
	}
}

// WithLogRequest sets the [middleware.Adapter] logging requests no Route matched.
func WithLogRequest(a middleware.Adapter) RouterOptFn {
	return func(r *Router) {
		if a != nil {
			r.logReq = a
		}
	}
}
