package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/compass/auth"
	"github.com/xy-planning-network/compass/http/middleware"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/logger"
)

// maxProxyBody caps the size of request bodies forwarded to the worker.
const maxProxyBody = 1 << 20

// forwardedHeaders are copied from the visitor's request onto the one sent to the worker.
var forwardedHeaders = []string{"Accept", "Accept-Language", "Content-Type"}

// hopHeaders are not copied from the worker's response.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Proxy-Connection":  true,
	"Te":                true,
	"Trailer":           true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
	"Content-Length":    true,
}

// Proxy forwards the request to the same path on the worker, authenticated as the visitor,
// and copies the worker's status, headers and body back.
//
// A 401 from the worker refreshes the visitor's tokens and retries once.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, ok := middleware.AuthClient(ctx)
	if !ok {
		h.Json(w, r, resp.Code(http.StatusUnauthorized), resp.Data(map[string]string{"detail": "Not authenticated"}))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxProxyBody+1))
	if err != nil {
		h.Json(w, r, resp.Code(http.StatusBadRequest), resp.Data(map[string]string{"detail": "The request body could not be read."}))
		return
	}

	if len(body) > maxProxyBody {
		h.Json(w, r, resp.Code(http.StatusRequestEntityTooLarge), resp.Data(map[string]string{"detail": "The request is too large."}))
		return
	}

	target := h.worker.ResolveReference(&url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery})
	out, err := http.NewRequestWithContext(ctx, r.Method, target.String(), bytes.NewReader(body))
	if err != nil {
		h.Json(w, r, resp.Err(err))
		return
	}

	for _, k := range forwardedHeaders {
		if v := r.Header.Get(k); v != "" {
			out.Header.Set(k, v)
		}
	}

	res, err := c.Do(out)
	switch {
	case errors.Is(err, auth.ErrNoAccessToken):
		h.Json(w, r, resp.Code(http.StatusUnauthorized), resp.Data(map[string]string{"detail": "Not authenticated"}))
		return
	case err != nil:
		h.log.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
		h.Json(w, r, resp.Code(http.StatusBadGateway), resp.Data(map[string]string{"detail": "The assistant is unavailable."}))
		return
	}
	defer res.Body.Close()

	for k, vs := range res.Header {
		if hopHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}

		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	w.WriteHeader(res.StatusCode)
	if _, err := io.Copy(w, res.Body); err != nil {
		h.log.Warn(err.Error(), &logger.LogContext{Error: err, Request: r})
	}
}
