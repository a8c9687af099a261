package ojapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/group38/ojweb/internal/jsonx"
)

// Envelope codes with a fixed meaning.
const (
	CodeSuccess  = 0
	CodeNotLogin = 40100
	CodeNoAuth   = 40101
)

// ErrUndecodable marks a 2xx response whose body is not the expected JSON.
var ErrUndecodable = errors.New("ojapi: undecodable response body")

// RequestError means the request could not be built; nothing was sent.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// ErrorClass tags metrics for requests that were never sent.
func (e *RequestError) ErrorClass() string { return "request" }

// TransportError means no HTTP response was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ojapi: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrorClass tags metrics for calls that never got a response.
func (e *TransportError) ErrorClass() string { return "transport" }

// APIError is a failed call: either a non-2xx status or an envelope with a
// non-zero code. Message is whatever the server said, possibly empty.
type APIError struct {
	// Status is the HTTP status, 0 when the call itself returned 2xx.
	Status  int
	Code    int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("ojapi: status %d: %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("ojapi: status %d", e.Status)
	case e.Message != "":
		return fmt.Sprintf("ojapi: code %d: %s", e.Code, e.Message)
	default:
		return fmt.Sprintf("ojapi: code %d", e.Code)
	}
}

// ErrorClass tags metrics with the status or envelope code.
func (e *APIError) ErrorClass() string {
	if e.Status != 0 {
		return "api_status_" + strconv.Itoa(e.Status)
	}
	return "api_code_" + strconv.Itoa(e.Code)
}

// IsNotLogin reports whether the API rejected the call because nobody is logged in.
func (e *APIError) IsNotLogin() bool {
	return e.Code == CodeNotLogin || e.Status == 401
}

// newStatusError builds an APIError for a non-2xx response, lifting the
// envelope's code and message when the body has one.
func newStatusError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: body}
	var env struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if len(body) > 0 && jsonx.Decode(body, &env) == nil {
		apiErr.Code = env.Code
		apiErr.Message = env.Message
	}
	return apiErr
}
