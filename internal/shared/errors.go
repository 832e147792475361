package shared

import "fmt"

// Kind is the stable, machine-readable error code reported to callers.
type Kind string

const (
	KindValidation         Kind = "BAD_USER_INPUT"
	KindNotFound           Kind = "NOT_FOUND"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindConflict           Kind = "CONFLICT"
)

// Error is a caller-facing failure. Sentinels below carry no message and
// match any *Error of the same Kind under errors.Is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "unauthenticated"}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken, Message: "invalid token"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	ErrConflict           = &Error{Kind: KindConflict}
)

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
