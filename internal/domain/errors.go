package domain

import "errors"

// Sentinel errors for domain-level error discrimination. Services wrap
// these with %w so handlers can map them to HTTP status codes without
// leaking infrastructure details. ErrConflict doubles as the benign
// signal for a lost conditional-write race on the matches table.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)
