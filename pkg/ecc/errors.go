package ecc

import (
	"errors"
	"fmt"
)

// Common errors returned by the field, curve and signature packages.
var (
	ErrNotOnCurve       = errors.New("point is not on curve")
	ErrArithmetic       = errors.New("group operation produced a point off the curve")
	ErrInvalidModulus   = errors.New("modulus must be at least 2")
	ErrNonPrimeModulus  = errors.New("modulus is not prime")
	ErrNotInvertible    = errors.New("element has no multiplicative inverse")
	ErrInvalidScalar    = errors.New("invalid scalar")
	ErrInvalidParams    = errors.New("invalid curve parameters")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnknownCurve     = errors.New("unknown curve")
)

// PointError reports a group operation that was rejected because of one of
// its operands. It allows callers to tell which point was malformed.
type PointError struct {
	Op    string
	Point string
	Err   error
}

func (e *PointError) Error() string {
	if e.Point != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Point, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PointError) Unwrap() error {
	return e.Err
}

// NewPointError creates a new PointError.
func NewPointError(op, point string, err error) *PointError {
	return &PointError{
		Op:    op,
		Point: point,
		Err:   err,
	}
}
