/*
Package auth keeps a visitor's credentials and onboarding progress in step with the identity provider.

Tokens

A *Tokens owns the keys persisted to the visitor's local storage:
the access and refresh tokens issued by the provider,
the questionnaire completion flag and the cached questionnaire answers.
Every write passes through it and is serialized.

Client

A *Client composes an identity.Provider with a *Tokens.
It answers whether the visitor is signed in, consumes OAuth redirects,
refreshes tokens and sends authenticated requests to backend APIs,
retrying once with a fresh token when a request is rejected with 401.

Listen subscribes the Client to the provider's auth state changes so the stored tokens follow them.
Release the returned Subscription when the Client is no longer needed.
*/
package auth
