package app

import "errors"

// Service-level error taxonomy. Handlers translate these to HTTP statuses;
// services never see status codes. Existence is always checked before
// ownership, so callers get ErrNotFound for absent entities even when they
// would also lack rights.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUpstream          = errors.New("upstream service failed")
)
