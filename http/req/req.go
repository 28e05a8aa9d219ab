package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/compass"
)

// A Parser decodes request payloads into structs and validates them.
type Parser struct {
	decoder valuesDecoder
	validator
}

// NewParser constructs a *Parser with default decoding and validation rules.
func NewParser() *Parser {
	return &Parser{
		decoder:   newValuesDecoder(),
		validator: newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in body.
// If successful, ParseBody runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// ParseBody reads the entire body and it can't be read from again.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	var ourFault *json.InvalidUnmarshalError
	err := json.NewDecoder(body).Decode(structPtr)
	if errors.As(err, &ourFault) {
		return fmt.Errorf("compass/http/req: %w: ParseBody called with non-pointer: %s", compass.ErrUnexpected, err)
	}

	if err != nil {
		return fmt.Errorf("compass/http/req: %w: failed decoding request body: %s", compass.ErrBadFormat, err)
	}

	return p.check(structPtr)
}

// ParseForm decodes into a pointer to a struct the URL-encoded form posted in r,
// matching keys with "schema" struct tags.
// If successful, ParseForm runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseForm(r *http.Request, structPtr any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("compass/http/req: %w: failed parsing form: %s", compass.ErrBadFormat, err)
	}

	if err := p.decoder.decode(structPtr, r.PostForm); err != nil {
		return fmt.Errorf("compass/http/req: failed decoding form: %w", err)
	}

	return p.check(structPtr)
}

// ParseQueryParams decodes into a pointer to a struct the query param data in params.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if err := p.decoder.decode(structPtr, params); err != nil {
		return fmt.Errorf("compass/http/req: failed decoding request query params: %w", err)
	}

	return p.check(structPtr)
}

func (p *Parser) check(structPtr any) error {
	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("compass/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}
