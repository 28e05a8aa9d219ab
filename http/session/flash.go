package session

import (
	"net/http"
)

const (
	// Default Flash Class
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"

	// Default Flash Msg
	DefaultErrMsg     = "Uh oh! We've run into an issue."
	SignInFailedMsg   = "Hmm... we couldn't sign you in. Please try again."
	SignInRequiredMsg = "Please sign in to continue."
	SessionCheckMsg   = "We couldn't confirm you're signed in. Please sign in again."
	SignedOutMsg      = "You've been signed out."
	NoAccessMsg       = "Oops, sending you back somewhere safe."
	AnswersNeededMsg  = "Please answer each question to continue."
)

type FlashSessionable interface {
	Flashes(w http.ResponseWriter, r *http.Request) []Flash
	SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error
}

type Flash struct {
	Class string `json:"class"`
	Msg   string `json:"msg"`
}
