// Package apiclient executes outbound calls against registered endpoints and
// normalizes every outcome into a Response envelope.
package apiclient

import (
	"fmt"
	"net/http"
)

// Request describes one outbound call. Method defaults to GET.
type Request struct {
	Endpoint string            `json:"endpoint" validate:"required"`
	Path     string            `json:"path"`
	Method   string            `json:"method,omitempty" validate:"omitempty,oneof=GET POST PUT DELETE"`
	Params   map[string]any    `json:"params,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	Body     any               `json:"body,omitempty"`
}

// method returns the effective HTTP method.
func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// Response is the uniform envelope returned to every caller. A successful
// response may carry Data; a failed one always carries Error.
type Response struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// Fail builds a failure envelope.
func Fail(format string, args ...any) Response {
	return Response{Success: false, Error: fmt.Sprintf(format, args...)}
}

// OK builds a success envelope carrying data.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}
