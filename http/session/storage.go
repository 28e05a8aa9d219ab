package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/compass/storage"
)

var _ storage.Storage = sessionStorage{}

// Storage exposes s as the visitor's local storage.
// Values stored through it are saved to the session on every write.
//
// w and r are the pair the session was retrieved for.
func (s Session) Storage(w http.ResponseWriter, r *http.Request) storage.Storage {
	return sessionStorage{s: s, w: w, r: r}
}

type sessionStorage struct {
	s Session
	w http.ResponseWriter
	r *http.Request
}

func (ss sessionStorage) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	raw, ok := ss.s.s.Values[key]
	if !ok {
		return "", storage.ErrNotExist
	}

	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q holds %T", ErrNotValid, key, raw)
	}

	return val, nil
}

func (ss sessionStorage) Set(ctx context.Context, key, val string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return ss.s.Set(ss.w, ss.r, key, val)
}

func (ss sessionStorage) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return ss.s.Remove(ss.w, ss.r, keys...)
}
