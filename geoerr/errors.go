// Package geoerr defines the error taxonomy shared by every geolite package.
//
// Every exported error type implements error and wraps one of the category
// sentinels below, so callers can classify a failure with errors.Is without
// depending on the concrete type.
package geoerr

import (
	"errors"
	"fmt"
)

// Category sentinels. Concrete error values wrap these via Unwrap so
// errors.Is(err, ErrInvalidEwkb) works regardless of the message carried.
var (
	ErrInvalidEwkb           = errors.New("invalid ewkb")
	ErrInvalidInput          = errors.New("invalid input")
	ErrWrongType             = errors.New("wrong geometry type")
	ErrOutOfBounds           = errors.New("index out of bounds")
	ErrUnsupportedDimensions = errors.New("unsupported dimensions")
)

// InvalidEwkb reports a wire-format violation: truncated input, a bad
// byte-order marker, an SRID flag with no SRID bytes, and the like.
type InvalidEwkb struct{ Reason string }

func (e *InvalidEwkb) Error() string { return fmt.Sprintf("invalid EWKB: %s", e.Reason) }
func (e *InvalidEwkb) Unwrap() error { return ErrInvalidEwkb }

// InvalidInput reports a semantic violation: a non-finite coordinate, a
// mismatched SRID, a malformed DE-9IM pattern, out-of-range tile
// coordinates, a non-geographic SRID on a geodetic call, an empty input
// where one is forbidden, or an identifier outside the allowlist.
type InvalidInput struct{ Message string }

func (e *InvalidInput) Error() string { return e.Message }
func (e *InvalidInput) Unwrap() error { return ErrInvalidInput }

// WrongType reports that an operation was invoked on a geometry variant it
// does not accept.
type WrongType struct{ Expected string }

func (e *WrongType) Error() string { return fmt.Sprintf("geometry is not a %s", e.Expected) }
func (e *WrongType) Unwrap() error { return ErrWrongType }

// OutOfBounds reports a 1-based indexed accessor given an index outside
// [1, Length].
type OutOfBounds struct {
	Index, Length int
}

func (e *OutOfBounds) Error() string {
	return fmt.Sprintf("index out of bounds: %d (len %d)", e.Index, e.Length)
}
func (e *OutOfBounds) Unwrap() error { return ErrOutOfBounds }

// UnsupportedDimensions reports a Z/M payload given to an XY-only operation.
type UnsupportedDimensions struct{ Dims string }

func (e *UnsupportedDimensions) Error() string {
	return fmt.Sprintf("unsupported dimensions: %s", e.Dims)
}
func (e *UnsupportedDimensions) Unwrap() error { return ErrUnsupportedDimensions }

// Invalidf builds an *InvalidInput from a format string, the common case
// for algebra functions that need to report an offending value.
func Invalidf(format string, args ...any) error {
	return &InvalidInput{Message: fmt.Sprintf(format, args...)}
}
