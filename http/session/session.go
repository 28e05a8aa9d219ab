package session

import (
	"net/http"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/sessions"
)

// visitorKey stores the ID identifying a visitor across requests.
const visitorKey = "compass-visitor"

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	Remove(w http.ResponseWriter, r *http.Request, keys ...string) error
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// The VisitorSessionable identifies the visitor a session belongs to.
type VisitorSessionable interface {
	VisitorID(w http.ResponseWriter, r *http.Request) (string, error)
}

// The CompassSessionable composes session's major interfaces.
type CompassSessionable interface {
	FlashSessionable
	Sessionable
	VisitorSessionable
}

// A Session provides all functionality for managing a fully featured session.
//
// Its functionality is implemented by lightly wrapping a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

// NewSession constructs a new Session from g.
func NewSession(g *gorilla.Session) Session { return Session{s: g} }

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// Flashes retrieves []Flash stored in the session.
func (s Session) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	raw := s.s.Flashes()
	fs := make([]Flash, 0)
	for _, r := range raw {
		f, ok := r.(Flash)
		if !ok {
			continue
		}

		fs = append(fs, f)
	}
	if len(fs) > 0 {
		// NOTE(dlk): Flashes are removed after they are accessed,
		// but the session needs to be saved for them to be finally removed
		if err := s.Save(w, r); err != nil {
			return nil
		}
	}

	return fs
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	return s.s.Values[key]
}

// Remove deletes the values for keys from the session.
func (s Session) Remove(w http.ResponseWriter, r *http.Request, keys ...string) error {
	for _, k := range keys {
		delete(s.s.Values, k)
	}

	return s.Save(w, r)
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}

// SetFlash stores the passed in Flash in the session.
func (s Session) SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error {
	s.s.AddFlash(flash)
	return s.Save(w, r)
}

// VisitorID retrieves the ID of the visitor owning the session,
// assigning a new one to a session without.
func (s Session) VisitorID(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, ok := s.s.Values[visitorKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	if err := s.Set(w, r, visitorKey, id); err != nil {
		return "", err
	}

	return id, nil
}
