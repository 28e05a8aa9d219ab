// Package gotrue implements identity.Provider against the REST API
// of the Supabase auth server.
package gotrue
