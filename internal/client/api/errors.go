package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the designed failure category the UI discriminates on.
// These are deliberate categories, not raw HTTP statuses.
type Kind int

const (
	// KindInvalidCredentials: wrong identifier/password on login.
	KindInvalidCredentials Kind = iota
	// KindValidation: field-level validation failure; Fields carries
	// the field-name to message mapping when the server provides one.
	KindValidation
	// KindConflict: duplicate email/username.
	KindConflict
	// KindServer: 5xx or a malformed server response.
	KindServer
	// KindUnreachable: no response at all (transport failure).
	KindUnreachable
	// KindSessionInvalidated: synthetic, raised on 401 from an
	// authenticated call. Fully handled inside the interceptor; callers
	// only see it if they want to show an extra message.
	KindSessionInvalidated
	// KindNotFound and KindForbidden cover the remaining statuses the
	// interceptor forwards to the notification bus.
	KindNotFound
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	case KindUnreachable:
		return "unreachable"
	case KindSessionInvalidated:
		return "session invalidated"
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is the structured failure returned by the gateway and the
// interceptor. Match on the category with errors.Is and the Kind
// sentinels below, or inspect Fields for per-field validation messages.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Status  int
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

// Is lets errors.Is(err, &Error{Kind: k}) match on category alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is matching.
var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrServer             = &Error{Kind: KindServer}
	ErrUnreachable        = &Error{Kind: KindUnreachable}
	ErrSessionInvalidated = &Error{Kind: KindSessionInvalidated}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrForbidden          = &Error{Kind: KindForbidden}
)

// errorBody is the JSON error payload the backend returns.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// classifyStatus maps a failed HTTP response to the taxonomy. The login
// endpoint is special-cased by the gateway (its 401 means bad credentials,
// not an invalidated session), so this covers the general case.
func classifyStatus(status int, body errorBody) *Error {
	e := &Error{Message: body.Message, Fields: body.Errors, Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindSessionInvalidated
	case status == http.StatusForbidden:
		e.Kind = KindForbidden
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusConflict:
		e.Kind = KindConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}
	return e
}
