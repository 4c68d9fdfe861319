// Package apierr holds the errors surfaced by the HTTP API and their mapping onto responses.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/2beens/fitnesstracker/pkg"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnsupportedMedia   = errors.New("unsupported content type")
	ErrMalformedJSON      = errors.New("malformed json")
)

var detailMessages = map[error]string{
	ErrNotFound:           "Not found.",
	ErrNotAuthenticated:   "Authentication credentials were not provided.",
	ErrInvalidCredentials: "Invalid token.",
	ErrUnsupportedMedia:   "Unsupported content type.",
	ErrMalformedJSON:      "JSON parse error.",
}

const (
	MsgRequired = "This field is required."
	MsgBlank    = "This field may not be blank."

	MsgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

// ValidationError maps field names (JSON names) to their error messages.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field string, messages ...string) *ValidationError {
	return &ValidationError{
		Fields: map[string][]string{field: messages},
	}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// OrNil returns nil when no field error has been added.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError is a store level uniqueness violation, reported as a non field error.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// HTTPError is a resolved status and body for an error.
type HTTPError struct {
	StatusCode int
	Body       any
}

func MapErrorToHTTP(err error) HTTPError {
	var validationErr *ValidationError
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &validationErr):
		return HTTPError{StatusCode: http.StatusBadRequest, Body: validationErr.Fields}
	case errors.As(err, &conflictErr):
		return HTTPError{
			StatusCode: http.StatusBadRequest,
			Body:       map[string][]string{"non_field_errors": {conflictErr.Message}},
		}
	case errors.Is(err, ErrNotFound):
		return detail(http.StatusNotFound, ErrNotFound)
	case errors.Is(err, ErrNotAuthenticated):
		return detail(http.StatusForbidden, ErrNotAuthenticated)
	case errors.Is(err, ErrInvalidCredentials):
		return detail(http.StatusForbidden, ErrInvalidCredentials)
	case errors.Is(err, ErrUnsupportedMedia):
		return detail(http.StatusBadRequest, ErrUnsupportedMedia)
	case errors.Is(err, ErrMalformedJSON):
		return detail(http.StatusBadRequest, ErrMalformedJSON)
	default:
		return HTTPError{
			StatusCode: http.StatusInternalServerError,
			Body:       map[string]string{"detail": "A server error occurred."},
		}
	}
}

func detail(statusCode int, err error) HTTPError {
	return HTTPError{
		StatusCode: statusCode,
		Body:       map[string]string{"detail": detailMessages[err]},
	}
}

// WriteError writes the JSON response for err. Server errors are logged, client errors traced.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Errorf("[%s %s] internal error: %s", r.Method, r.URL.Path, err)
	} else {
		log.Tracef("[%s %s] client error %d: %s", r.Method, r.URL.Path, httpErr.StatusCode, err)
	}
	pkg.WriteJSON(w, httpErr.Body, httpErr.StatusCode)
}
