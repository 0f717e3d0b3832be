package route

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Registration returns the first three; Decode wraps
// ErrBindBody.
var (
	ErrFrozen               = errors.New("metadata store is frozen")
	ErrMalformedDeclaration = errors.New("malformed declaration")
	ErrDuplicateRoute       = errors.New("duplicate route")
	ErrBindBody             = errors.New("bind body")
)

// malformed describes a declaration that was rejected before writing to
// the store.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedDeclaration, fmt.Sprintf(format, args...))
}

// StatusCoder is an error that knows which HTTP status it should be
// answered with.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is the RFC 9457 body written for every error response. The
// validation step fills Errors with one entry per failed check and Instance
// with the request path.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title,omitempty"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// Error prefers Detail and falls back to Title.
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode reports Status.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// ValidationError is one failed check on one field. A handler's rules all
// run before any are reported, so a response lists every failure in rule
// order; Location names where the value was found, or "any" when a Check
// rule found it nowhere.
type ValidationError struct {
	Field    string   `json:"field"`
	Location Location `json:"location"`
	Message  string   `json:"message"`
	Value    any      `json:"value,omitempty"`
}

// HTTPError is a plain status and message, written as a problem whose title
// is the status text.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns Message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode reports Status.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error builds an *HTTPError.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf builds an *HTTPError with a formatted message.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus finds the first StatusCoder in err's chain. Anything else is
// a 500.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
