package services

import "errors"

// Error kinds surfaced by the core services. Handlers map these to HTTP
// status codes; the socket hub maps them to chatError payloads. Raw storage
// errors are wrapped before they cross a service boundary.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrAuth         = errors.New("authentication failed")
)

// ErrorKind returns a short machine-readable code for a service error,
// or "internal" for anything outside the taxonomy.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAuth):
		return "auth"
	}
	return "internal"
}
