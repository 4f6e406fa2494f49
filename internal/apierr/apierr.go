// Package apierr defines the single error shape used across handlers.
// Every failure carries a kind tag that maps onto one HTTP status, so
// the transport translation lives in exactly one place instead of being
// re-decided inside each handler.
package apierr

import "net/http"

// Kind classifies a failure. The zero value is not a valid kind.
type Kind int

const (
	// Auth means the caller presented no credential or an invalid one.
	Auth Kind = iota + 1
	// Forbidden means the caller is authenticated but lacks the role.
	Forbidden
	// Validation means the request body or parameters are not acceptable.
	Validation
	// NotFound means the target record is absent or an update matched zero documents.
	NotFound
	// Conflict means the operation clashes with already-applied state.
	Conflict
	// Internal means an unexpected store or gateway failure.
	Internal
)

// Error is the kind-tagged error returned by handlers and the layers
// beneath them. Message is safe to expose to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status maps the error kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case Auth:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// New builds an Error with an explicit kind.
func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Unauthorized(msg string) *Error { return New(Auth, msg) }
func Forbid(msg string) *Error       { return New(Forbidden, msg) }
func Invalid(msg string) *Error      { return New(Validation, msg) }
func Missing(msg string) *Error      { return New(NotFound, msg) }
func Conflicted(msg string) *Error   { return New(Conflict, msg) }
func Server(msg string) *Error       { return New(Internal, msg) }
