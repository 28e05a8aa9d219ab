package postgres

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/xy-planning-network/compass"
	"gorm.io/gorm"
)

var (
	// errSQLSyntax is a very loose aggregation of error codes
	// originating from PostgreSQL itself
	// that are some sort of syntax issue in the statement or datatype mismatch.
	//
	// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
	errSQLSyntax = regexp.MustCompile(`SQLSTATE (42601|22P02)`)

	errConstraintViolation = regexp.MustCompile(`SQLSTATE (23502)`)
	errUniqViolation       = regexp.MustCompile(`SQLSTATE (23505)`)
)

// Translate converts errors returned by GORM or PostgreSQL into compass sentinel errors.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", compass.ErrNotExist, err)
	case errConstraintViolation.MatchString(err.Error()), errUniqViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", compass.ErrNotValid, err)
	case errSQLSyntax.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", compass.ErrBadFormat, err)
	default:
		return fmt.Errorf("%w: %s", compass.ErrUnexpected, err)
	}
}
