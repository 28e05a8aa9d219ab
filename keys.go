package compass

// A Key stashes values in a context.Context for the lifetime of an HTTP request.
type Key string

const (
	// AuthKey stashes the *auth.Client bound to the visitor making a request.
	AuthKey Key = "AuthKey"

	// CurrentUserKey stashes the *identity.User signed in for an HTTP request.
	CurrentUserKey Key = "CurrentUserKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the visitor session associated with an HTTP request.
	SessionKey Key = "SessionKey"
)

// Key returns k so it can be used as a key in a map[string].
func (k Key) Key() string { return string(k) }

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "compass context key: " + string(k)
}
