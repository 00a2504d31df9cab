// Package response provides the uniform JSON response envelope for HTTP handlers.
//
// An Envelope pairs an HTTP status code with either a success payload or an
// error message. The body shape on the wire is decided by the status class
// alone: error-range codes emit {"error_message": ...}, success-range codes
// emit {"data": ...}. Construction is pure; nothing is written until Render
// (or ServeHTTP) is called by the handler.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidStatusCode is returned by New when the status code falls outside
// the accepted ranges [200,300] and [400,600].
var ErrInvalidStatusCode = errors.New("invalid status code")

// Envelope is an immutable response value. It is consumed once by Render and
// carries no state beyond its three fields.
type Envelope struct {
	status     int
	data       any
	errMessage string
}

// New builds an envelope for the given status code. data is the success
// payload (a map, slice, or struct serialized as-is under "data"); errMessage
// is the failure cause emitted under "error_message" for error-range codes.
// The status range check is the only validation: New does not stop a success
// code from carrying an error message or vice versa — the unused field simply
// never reaches the wire.
func New(status int, data any, errMessage string) (*Envelope, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatusCode, status)
	}
	return &Envelope{status: status, data: data, errMessage: errMessage}, nil
}

// validStatus reports whether code lies in [200,300] or [400,600].
func validStatus(code int) bool {
	return (code >= 200 && code <= 300) || (code >= 400 && code <= 600)
}

// StatusCode returns the HTTP status the envelope was built with.
func (e *Envelope) StatusCode() int {
	return e.status
}

// Payload selects the single-key body for the envelope's status class.
// Thresholds are checked from highest to lowest and the first match wins.
// The 5xx and 4xx branches currently produce the same shape; they stay
// separate so they can diverge without touching callers.
func (e *Envelope) Payload() map[string]any {
	switch {
	case e.status >= 500:
		return map[string]any{"error_message": e.errMessage}
	case e.status >= 400:
		return map[string]any{"error_message": e.errMessage}
	default:
		data := e.data
		if data == nil {
			data = map[string]any{}
		}
		return map[string]any{"data": data}
	}
}

// Render writes the JSON-encoded payload with the envelope's status code and
// a Content-Type of application/json. Non-ASCII and HTML characters are
// emitted literally. Render never mutates the envelope; rendering the same
// envelope twice produces byte-identical bodies. The request parameter is
// unused and exists for symmetry with ServeHTTP.
func (e *Envelope) Render(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(e.Payload())
}

// ServeHTTP lets an Envelope be used anywhere an http.Handler is expected;
// it delegates to Render.
func (e *Envelope) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.Render(w, r)
}

// OK builds a 200 envelope with data.
func OK(data any) *Envelope {
	return &Envelope{status: http.StatusOK, data: data}
}

// Created builds a 201 envelope with data.
func Created(data any) *Envelope {
	return &Envelope{status: http.StatusCreated, data: data}
}

// BadRequest builds a 400 envelope.
func BadRequest(message string) *Envelope {
	return &Envelope{status: http.StatusBadRequest, errMessage: message}
}

// Unauthorized builds a 401 envelope.
func Unauthorized(message string) *Envelope {
	return &Envelope{status: http.StatusUnauthorized, errMessage: message}
}

// Forbidden builds a 403 envelope.
func Forbidden(message string) *Envelope {
	return &Envelope{status: http.StatusForbidden, errMessage: message}
}

// NotFound builds a 404 envelope. An empty message falls back to
// "Item not found".
func NotFound(message string) *Envelope {
	if message == "" {
		message = "Item not found"
	}
	return &Envelope{status: http.StatusNotFound, errMessage: message}
}

// Conflict builds a 409 envelope.
func Conflict(message string) *Envelope {
	return &Envelope{status: http.StatusConflict, errMessage: message}
}

// InternalError builds a 500 envelope with a generic message.
func InternalError() *Envelope {
	return &Envelope{status: http.StatusInternalServerError, errMessage: "internal server error"}
}
