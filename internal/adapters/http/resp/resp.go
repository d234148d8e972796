// Package resp provides the {code, data} envelope returned by every admin
// endpoint. Responses are always sent with HTTP 200; failure is signalled by
// a non-zero code and a string message in data.
package resp

import (
	"encoding/json"
	"errors"
	"net/http"
)

const (
	// CodeOK marks a successful response.
	CodeOK uint64 = 0
	// CodeError marks a failed response; data holds the message.
	CodeError uint64 = 100

	successMessage = "success"
)

// Response is the envelope for a payload of type T.
type Response[T any] struct {
	Code uint64 `json:"code"`
	Data T      `json:"data"`
}

// New builds an envelope with an explicit code.
func New[T any](code uint64, data T) Response[T] {
	return Response[T]{Code: code, Data: data}
}

// OK wraps a success payload.
func OK[T any](data T) Response[T] {
	return New(CodeOK, data)
}

// Err wraps a failure message.
func Err(message string) Response[string] {
	return New(CodeError, message)
}

// Success is the reply of mutation endpoints without a payload.
func Success() Response[string] {
	return New(CodeOK, successMessage)
}

// IsOK reports whether the code marks success.
func (r Response[T]) IsOK() bool {
	return r.Code == CodeOK
}

// Write encodes r as JSON with status 200.
func Write[T any](w http.ResponseWriter, r Response[T]) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(r)
}

// Raw is an envelope whose data has not been decoded yet. Clients decode
// into Raw first and only then pick the success or the error shape.
type Raw struct {
	Code uint64          `json:"code"`
	Data json.RawMessage `json:"data"`
}

// IsOK reports whether the code marks success.
func (r Raw) IsOK() bool {
	return r.Code == CodeOK
}

// Message returns the error message of a failed response, or "" on success
// or when data is not a string.
func (r Raw) Message() string {
	if r.IsOK() {
		return ""
	}
	var msg string
	if err := json.Unmarshal(r.Data, &msg); err != nil {
		return ""
	}
	return msg
}

// DecodeData decodes the success payload. A failed response returns its
// message as the error.
func DecodeData[T any](r Raw) (T, error) {
	var out T
	if !r.IsOK() {
		msg := r.Message()
		if msg == "" {
			msg = "admin request failed"
		}
		return out, errors.New(msg)
	}
	err := json.Unmarshal(r.Data, &out)
	return out, err
}
