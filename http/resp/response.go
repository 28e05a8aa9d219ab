package resp

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/compass/http/session"
	"github.com/xy-planning-network/compass/identity"
	"github.com/xy-planning-network/compass/logger"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w     http.ResponseWriter
	r     *http.Request
	code  int
	data  any
	tmpls []string
	url   *url.URL
	user  *identity.User
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data stores the provided value for writing to the client.
//
// Used with Responder.Html and Responder.Json.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err sets the status code http.StatusInternalServerError and logs the error.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e != nil {
			d.logger.Error(e.Error(), newLogContext(r.r, e, r.data, r.user))
		}

		r.code = http.StatusInternalServerError
		return nil
	}
}

// Flash sets a flash message in the session.
func Flash(flash session.Flash) Fn {
	return func(d Responder, r *Response) error {
		s, err := d.Session(r.r.Context())
		if err != nil {
			return err
		}

		return s.SetFlash(r.w, r.r, flash)
	}
}

// GenericErr combines Err() and Flash() to log the passed in error
// and set a generic error flash in the session
// using either the string set by WithContactErrMsg or session.DefaultErrMsg.
func GenericErr(e error) Fn {
	return func(d Responder, r *Response) error {
		if err := Err(e)(d, r); err != nil {
			return err
		}

		msg := session.DefaultErrMsg
		if d.contactErrMsg != "" {
			msg = d.contactErrMsg
		}

		return Flash(session.Flash{Class: session.FlashError, Msg: msg})(d, r)
	}
}

// Param adds the query parameter to the response's URL.
//
// Used with Responder.Redirect.
func Param(key, val string) Fn {
	return func(_ Responder, r *Response) error {
		if r.url == nil {
			return fmt.Errorf("%w: Url() has not been called", ErrMissingData)
		}

		q := r.url.Query()
		q.Add(key, val)
		r.url.RawQuery = q.Encode()
		return nil
	}
}

// Success sets a session.FlashSuccess flash in the session with the passed in msg.
func Success(msg string) Fn {
	return func(d Responder, r *Response) error {
		return Flash(session.Flash{Class: session.FlashSuccess, Msg: msg})(d, r)
	}
}

// Tmpls appends to the templates to be rendered.
//
// Used with Responder.Html.
func Tmpls(fps ...string) Fn {
	return func(_ Responder, r *Response) error {
		r.tmpls = append(r.tmpls, fps...)
		return nil
	}
}

// ToRoot sets the response's URL to the Responder's root URL.
func ToRoot() Fn {
	return func(d Responder, r *Response) error {
		r.url = d.RootUrl()
		return nil
	}
}

// User stores the user in the *Response, overriding the one in the *http.Request.Context.
//
// Used with Responder.Html.
func User(u *identity.User) Fn {
	return func(_ Responder, r *Response) error {
		r.user = u
		return nil
	}
}

// Url parses raw the URL string and sets it in the *Response if successful.
//
// A path, like "/chatbot", resolves against the Responder's root URL.
//
// Used with Responder.Redirect.
func Url(u string) Fn {
	return func(d Responder, r *Response) error {
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme == "" && parsed.Path == "" && parsed.RawQuery == "") {
			return fmt.Errorf("%w: %q is not a valid URL: %v", ErrInvalid, u, err)
		}

		r.url = d.RootUrl().ResolveReference(parsed)
		return nil
	}
}

// Warn sets a flash warning in the session and logs the warning.
func Warn(msg string) Fn {
	return func(d Responder, r *Response) error {
		d.logger.Warn(msg, newLogContext(r.r, nil, r.data, r.user))
		return Flash(session.Flash{Class: session.FlashWarning, Msg: msg})(d, r)
	}
}

// newLogContext helps structure a logger.LogContext from the provided parts.
func newLogContext(r *http.Request, err error, data any, user *identity.User) *logger.LogContext {
	ctx := &logger.LogContext{Request: r, Error: err}
	if mapped, ok := data.(map[string]any); ok {
		ctx.Data = mapped
	}

	if user != nil {
		ctx.User = user
	}

	return ctx
}

// populateUser helps pull a user up out of the *Response.r.Context
// and into the *Response itself.
func populateUser(d Responder, r *Response) error {
	if r.user != nil {
		return nil
	}

	u, err := d.CurrentUser(r.r.Context())
	if err != nil {
		return err
	}

	r.user = u
	return nil
}
