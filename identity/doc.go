/*
Package identity defines the contract compass holds with the external identity provider.

The provider issues sessions - an access token and refresh token pair - and notifies subscribers
whenever the state of the session changes.
compass never constructs or validates a [Session] beyond whether one is present.

Implementations of [Provider] live in subpackages; [gotrue] talks to the Supabase auth REST API.
*/
package identity
