package core

import "errors"

// Sentinel errors handlers translate into the HTTP error policy:
// ErrForbidden becomes a silent redirect, ErrNotFound a generic 404,
// everything else a 400 with the wrapped message.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicate          = errors.New("duplicate")
	ErrValidation         = errors.New("validation")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrHasDependents      = errors.New("has dependents")
	ErrConflict           = errors.New("conflict")
)
