// Package response provides helpers for writing consistent HTTP responses.
//
// Rather than repeating the same three lines (set header, set status,
// encode body) in every handler, we centralise them here. Error responses
// always share one shape so API consumers know what to expect.
package response

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/aanand-mishra/alunos-api/internal/validation"
)

// Response is the standard envelope returned for error cases.
//
//	{ "status": "error", "error": "field nomeCompleto is required" }
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteText writes a plain-text body. Used by the endpoints that only
// acknowledge a request with a fixed message.
func WriteText(w http.ResponseWriter, status int, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := io.WriteString(w, text)
	return err
}

// GeneralError wraps any Go error into the standard Response shape.
// Use this for unexpected errors (DB failures, decode errors, etc.)
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError joins the violation messages into one Response:
//
//	{ "status": "error", "error": "field nomeCompleto is required, field newName must not be blank" }
func ValidationError(violations []validation.Violation) Response {
	messages := make([]string, 0, len(violations))
	for _, v := range violations {
		messages = append(messages, v.Message)
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(messages, ", "),
	}
}
