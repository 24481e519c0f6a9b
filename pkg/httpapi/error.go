package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
)

type ErrorKind string

const (
	// KindNetwork means no response was received: DNS, refused connection, timeout.
	KindNetwork ErrorKind = "network"
	// KindAPI means the server answered with a non-2xx status.
	KindAPI ErrorKind = "api"
	// KindValidation covers request bodies that could not be encoded and responses that could not be decoded.
	KindValidation ErrorKind = "validation"
	// KindConfig is returned at construction and is never worth retrying.
	KindConfig ErrorKind = "config"
)

// Error is the single error type returned by Client. Message is always non-empty.
type Error struct {
	Kind          ErrorKind
	Method        string
	Path          string
	Message       string
	ServerMessage string
	Code          string
	HTTPStatus    int
	Err           error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// ServerMessage returns the message field of the server's error body, if err carries one.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.ServerMessage
	}
	return ""
}

// ErrorEnvelope is the JSON error body of the employee API.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}
