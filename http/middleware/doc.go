/*
The middleware package defines what a middleware is in compass and a set of basic middlewares.

The available middlewares are:
- CORS
- ForceHTTPS
- Guard
- InjectAuth
- InjectIPAddress
- InjectSession
- LogRequest
- RateLimit
- ReportPanic
- RequestID

Guard is applied per route by the router, so only routes requiring auth
look up a session. The rest run on every request, in this order:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.ReportPanic(env),
		middleware.RateLimit(vs),
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore),
		middleware.InjectAuth(factory, log),
	}
*/
package middleware
