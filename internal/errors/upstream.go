package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/group38/ojweb/internal/adapters/ojapi"
)

// MapUpstreamError maps judge API client errors to AppError instances:
//   - context deadline / cancellation → Timeout / Canceled
//   - *ojapi.TransportError → Unavailable
//   - *ojapi.APIError with code 40100 or status 401 → Unauthenticated
//   - *ojapi.APIError with code 40101 or status 403 → Forbidden
//   - *ojapi.APIError with status 404 → NotFound
//   - any other *ojapi.APIError → Upstream
//
// The server's message, when it sent one, becomes the AppError message.
// Errors that are already AppErrors and unrecognized errors are returned unchanged.
func MapUpstreamError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}

	var transportErr *ojapi.TransportError
	if errors.As(err, &transportErr) {
		return &AppError{Code: ErrCodeUnavailable, Message: "judge API unreachable", Cause: err}
	}

	var apiErr *ojapi.APIError
	if errors.As(err, &apiErr) {
		return mapAPIError(apiErr, err)
	}

	return err
}

func mapAPIError(apiErr *ojapi.APIError, cause error) *AppError {
	out := &AppError{Code: ErrCodeUpstream, Message: apiErr.Message, Cause: cause, Status: apiErr.Status}
	switch {
	case apiErr.IsNotLogin():
		out.Code = ErrCodeUnauthenticated
	case apiErr.Code == ojapi.CodeNoAuth || apiErr.Status == http.StatusForbidden:
		out.Code = ErrCodeForbidden
	case apiErr.Status == http.StatusNotFound:
		out.Code = ErrCodeNotFound
	}
	if out.Message == "" {
		out.Message = "judge API request failed"
	}
	return out
}
