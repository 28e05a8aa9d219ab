package req

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
	"github.com/xy-planning-network/compass"
)

// valuesDecoder decodes url.Values, from query params or a posted form, into a struct.
type valuesDecoder struct {
	dec *schema.Decoder
}

func newValuesDecoder() valuesDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return valuesDecoder{dec}
}

// decode fills structPtr from vals, translating schema's errors.
func (d valuesDecoder) decode(structPtr any, vals url.Values) error {
	err := d.dec.Decode(structPtr, vals)
	if err == nil {
		return nil
	}

	// NOTE(dlk): schema reports a non-pointer as a plain error before decoding anything.
	if strings.Contains(err.Error(), "schema: interface must be a pointer to struct") {
		return fmt.Errorf("%w: %s", compass.ErrUnexpected, err)
	}

	return translateDecoderError(err)
}

// translateDecoderError converts an error returned by *schema.Decoder into standardized errors.
// Some *schema.Decoder errors are issues with calling code,
// others mismatches between the url.Values and the expected shape.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", compass.ErrBadFormat, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			idx := err.Index
			if idx < 0 {
				idx = 0
			}

			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				Got:   fmt.Sprintf("bad value at index %d", idx),
				Rule:  "must be " + err.Type.String(),
			})

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: use validate pkg to set "required" fields, not schema`, compass.ErrNotImplemented)

		case schema.UnknownKeyError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			})

		default:
			// NOTE(dlk): a field without a schema.Converter registered
			// only errors once the url.Values sets it.
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", compass.ErrNotImplemented)
			}

			return fmt.Errorf("%w: %s", compass.ErrUnexpected, err)
		}
	}

	return validErrs
}
