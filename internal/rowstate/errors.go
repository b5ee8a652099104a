package rowstate

import "errors"

var (
	// ErrUnknownRow indicates a row name other than top, mid or btm.
	ErrUnknownRow = errors.New("rowstate: unknown row")

	// ErrUnknownField indicates a field name other than min, pos or max.
	ErrUnknownField = errors.New("rowstate: unknown field")

	// ErrUnknownCoupling indicates an unrecognised coupling name.
	ErrUnknownCoupling = errors.New("rowstate: unknown coupling")
)
