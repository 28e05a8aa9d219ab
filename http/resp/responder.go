package resp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	html "html/template"
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/http/session"
	"github.com/xy-planning-network/compass/http/template"
	"github.com/xy-planning-network/compass/identity"
	"github.com/xy-planning-network/compass/logger"
)

const responderFrames = 2

// Responder maintains reusable pieces for responding to HTTP requests.
// It exposes many common methods for writing structured data as an HTTP response.
// These are the forms of response Responder can execute:
//
//	Html
//	Json
//	Redirect
//
// Most oftentimes, setting up a single instance of a Responder suffices for an application.
//
// When handling a specific HTTP request, calling code supplies additional data, structure,
// and so forth through Fn functions.
type Responder struct {
	logger logger.Logger

	// Initialized template parser
	parser template.Parser

	// Pool of *bytes.Buffer to prerender responses into
	pool *sync.Pool

	// Error message to use for "contact us" style client-side error messages,
	// i.e., those set in a session.Flash
	contactErrMsg string

	// Root URL the responder is listening on, also used when in an error state
	rootUrl *url.URL

	templates struct {
		// Root template every page renders inside of
		layout string

		// Root template to render when an error occurs
		// and no other response can be formed
		err string
	}
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		pool:    &sync.Pool{New: func() any { return new(bytes.Buffer) }},
		rootUrl: &url.URL{Path: "/"},
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.NewLogger()
	}

	if l, ok := d.logger.(logger.SkipLogger); ok {
		d.logger = l.AddSkip(l.Skip() + responderFrames)
	}

	if d.parser != nil && d.rootUrl != nil {
		d.parser.AddFn(template.RootUrl(d.rootUrl))
	}

	return d
}

// CurrentUser retrieves the user set in the context.
//
// If the context.Context has no user, ErrNotFound returns.
func (doer Responder) CurrentUser(ctx context.Context) (*identity.User, error) {
	u, ok := ctx.Value(compass.CurrentUserKey).(*identity.User)
	if !ok || u == nil {
		return nil, fmt.Errorf("%w: no user found with %s", ErrNotFound, compass.CurrentUserKey)
	}

	return u, nil
}

// Err wraps http.Error(), logging the error causing the failure state.
//
// Use in exceptional circumstances when no Redirect or Html can occur.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	rr, nested := doer.do(w, r, append(opts, Err(err))...)
	if nested != nil {
		err = fmt.Errorf("%v: %w", err, nested)
	}

	var msg string
	if err != nil {
		msg = err.Error()
	}

	code := http.StatusInternalServerError
	if rr != nil && rr.code != 0 {
		code = rr.code
	}

	http.Error(w, msg, code)
}

// Html renders the templates set by Tmpls inside the layout template.
//
// The templates are executed with this data:
//
//	{
//		Data:    set by Data,
//		Flashes: []session.Flash pulled from the session,
//	}
//
// The "currentUser" template function returns the user set by User,
// or the user in the *http.Request.Context.
func (doer *Responder) Html(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return doer.handleHtmlError(w, r, err)
	}

	if doer.parser == nil {
		return doer.handleHtmlError(w, r, fmt.Errorf("%w: no parser configured", ErrBadConfig))
	}

	if len(rr.tmpls) == 0 {
		return doer.handleHtmlError(w, r, fmt.Errorf("%w: no templates to render", ErrMissingData))
	}

	fps := rr.tmpls
	if doer.templates.layout != "" && fps[0] != doer.templates.layout {
		fps = append([]string{doer.templates.layout}, fps...)
	}

	tmpl, err := doer.parser.Parse(fps...)
	if err != nil {
		return doer.handleHtmlError(w, r, fmt.Errorf("cannot parse: %w", err))
	}

	// NOTE(dlk): a missing user is fine, pages render signed out.
	_ = populateUser(*doer, rr)
	var user any
	if rr.user != nil {
		user = rr.user
	}
	tmpl = tmpl.Funcs(html.FuncMap{"currentUser": func() any { return user }})

	rd := struct {
		Data    any
		Flashes []session.Flash
	}{Data: rr.data}

	s, err := doer.Session(r.Context())
	if err != nil && !errors.Is(err, ErrNotFound) {
		return doer.handleHtmlError(w, r, fmt.Errorf("can't retrieve session: %w", err))
	}

	if err == nil {
		rd.Flashes = s.Flashes(w, r)
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := tmpl.ExecuteTemplate(b, path.Base(fps[0]), rd); err != nil {
		return doer.handleHtmlError(w, r, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if rr.code != 0 {
		w.WriteHeader(rr.code)
	}

	if _, err := b.WriteTo(w); err != nil {
		return err
	}

	return nil
}

// Json responds with the value set by Data encoded as JSON, setting appropriate headers.
// With no Data, the body is an empty JSON object.
//
// The default response status code is 200.
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	var payload any = struct{}{}
	if rr.data != nil {
		payload = rr.data
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := json.NewEncoder(b).Encode(payload); err != nil {
		doer.Err(w, r, err)
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(rr.code)
	if _, err := b.WriteTo(w); err != nil {
		return err
	}

	return nil
}

// Redirect calls http.Redirect, given Url() set the redirect destination.
// If Url() is not passed in opts, then ToRoot() sets the redirect destination.
//
// The default response status code is 302.
//
// If Code() set the status code to something other than standard redirect 3xx statuses,
// Redirect overwrites the status code with an appropriate 3xx status code.
func (doer *Responder) Redirect(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, append([]Fn{ToRoot()}, opts...)...)
	if err != nil {
		return err
	}

	// NOTE(dlk): because of the default ToRoot(),
	// this check safeguards against bugs in the above.
	if rr.url == nil {
		return fmt.Errorf("%w: cannot redirect, no resp.url", ErrMissingData)
	}

	switch {
	case rr.code >= http.StatusMultipleChoices && rr.code <= http.StatusPermanentRedirect:
		// NOTE(dlk): code is already a 3xx, so do nothing
	case rr.code >= http.StatusBadRequest && rr.code < http.StatusInternalServerError:
		rr.code = http.StatusSeeOther
	case rr.code >= http.StatusInternalServerError:
		rr.code = http.StatusTemporaryRedirect
	default:
		rr.code = http.StatusFound
	}

	http.Redirect(w, r, rr.url.String(), rr.code)
	return nil
}

// RootUrl is the URL the Responder redirects to by default.
func (doer Responder) RootUrl() *url.URL {
	u := *doer.rootUrl
	return &u
}

// Session retrieves the session set in the context as a session.Session.
//
// If the context.Context has no session, ErrNotFound returns.
func (doer Responder) Session(ctx context.Context) (session.Session, error) {
	val := ctx.Value(compass.SessionKey)
	if val == nil {
		return session.Session{}, fmt.Errorf("%w: no session found with %s", ErrNotFound, compass.SessionKey)
	}

	s, ok := val.(session.Session)
	if !ok {
		return session.Session{}, fmt.Errorf("%w: is not session.Session, is %T", ErrInvalid, val)
	}

	return s, nil
}

// do applies all options to the passed in http.ResponseWriter and *http.Request in order,
// stopping at the first that errors.
//
// Calling code ought to pass Options in the correct order.
// An option requiring something set by another one should come after.
func (doer *Responder) do(w http.ResponseWriter, r *http.Request, opts ...Fn) (*Response, error) {
	resp := &Response{
		w:     w,
		r:     r,
		tmpls: make([]string, 0),
	}

	for _, opt := range opts {
		select {
		case <-r.Context().Done():
			return nil, fmt.Errorf("%w", ErrDone)
		default:
			if err := opt(*doer, resp); err != nil {
				return resp, err
			}
		}
	}

	return resp, nil
}

// handleHtmlError specially renders the error template set on the Responder
// and reports errors.
func (doer *Responder) handleHtmlError(w http.ResponseWriter, r *http.Request, err error) error {
	doer.logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r})

	if doer.templates.err == "" || doer.parser == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return fmt.Errorf("%w: no error template provided, encountered while handling: %s", ErrBadConfig, err)
	}

	tmpl, nested := doer.parser.Parse(doer.templates.err)
	if nested != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return fmt.Errorf("%w: %s", nested, err)
	}

	msg := session.DefaultErrMsg
	if doer.contactErrMsg != "" {
		msg = doer.contactErrMsg
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if nested = tmpl.Execute(b, map[string]any{"Contact": msg}); nested != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return fmt.Errorf("%w: %s", nested, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(http.StatusInternalServerError)
	if _, nested = b.WriteTo(w); nested != nil {
		return fmt.Errorf("%w: %s", nested, err)
	}

	return err
}
