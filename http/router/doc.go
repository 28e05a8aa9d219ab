/*
Package router defines how compass routes HTTP requests, built on [mux.Router].

A [Router] leverages a standardized data model - a [Route] -
when registering how requests should be routed.
A path and an HTTP method comprise a [Route], which either binds a view
or permanently redirects to another path.
Before a request gets to a view, any middlewares on the [*Router] and the Route
are called in the order they appear.

Routes that set RequiresAuth are gated by the [GuardFn] configured with [WithGuard].
Routes that do not are never gated, so never look up a session.

[Table] describes the application's own navigation:

	rt := router.New(env, router.WithGuard(guard))
	rt.OnEveryRequest(adpts...)
	if err := rt.HandleRoutes(router.Table(views)); err != nil {
		// ...
	}
*/
package router
