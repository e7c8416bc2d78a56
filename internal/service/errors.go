package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handler layer. Business
// rules wrap these with fmt.Errorf("%w: ...") so the caller can classify
// with errors.Is while keeping a human-readable message.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)
