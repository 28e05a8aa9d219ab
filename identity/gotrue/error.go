package gotrue

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/compass/identity"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// An Error is a failure response from the auth server.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("gotrue: %d: %s", e.Status, e.Message)
	}

	return fmt.Sprintf("gotrue: %d %s: %s", e.Status, e.Code, e.Message)
}

// Is matches identity.ErrUnauthorized when the auth server rejected the credentials presented.
func (e *Error) Is(target error) bool {
	return target == identity.ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// errorBody covers both shapes of error the auth server responds with.
type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Err              string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (eb errorBody) toError(status int) *Error {
	e := &Error{Status: status}
	switch {
	case eb.ErrorCode != "":
		e.Code = eb.ErrorCode
	case eb.Err != "":
		e.Code = eb.Err
	}

	switch {
	case eb.Msg != "":
		e.Message = eb.Msg
	case eb.ErrorDescription != "":
		e.Message = eb.ErrorDescription
	case eb.Message != "":
		e.Message = eb.Message
	default:
		e.Message = http.StatusText(status)
	}

	return e
}
