package models

import "errors"

// Error taxonomy shared by services and handlers. Callers wrap these with
// fmt.Errorf("...: %w", err) and handlers map them to HTTP statuses.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrExternalService   = errors.New("external service failure")
	ErrUnauthenticated   = errors.New("not signed in")
	ErrForbidden         = errors.New("admin role required")
	ErrDisplayGroupInUse = errors.New("display group is referenced by artifacts")
	ErrDuplicateName     = errors.New("name already in use")
)
