/*
Package ranger assembles and runs compass.

The main entrypoint to package ranger is the [Ranger] type.
A [Ranger] ought to be constructed with [New] using a [config.Config],
usually the one [config.Load] reads from the environment.

[New] builds the components the [RangerOption] passed in leave unset:
  - the logger, reporting to Sentry when SENTRY_DSN is set
  - the session store, in cookies or Redis
  - where each visitor's tokens are kept, in their session or Redis
  - each visitor's identity provider, a client of the Supabase auth server
  - the Postgres connection profiles are saved to, when DATABASE_URL is set
  - the responder, router and web server

[*Ranger.Guide] begins the web server.
Stop that web server with [*Ranger.Shutdown]
or send a signal [*Ranger.Guide] listens for.
*/
package ranger
