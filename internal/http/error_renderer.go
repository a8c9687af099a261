package httpx

import (
	"errors"
	"net/http"

	apperrors "github.com/group38/ojweb/internal/errors"
)

const errMsgFixBelow = "Please fix the errors below."

// ErrorRenderer renders a page with the given status and template data.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, status int, data map[string]any)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is the error that occurred (optional, can be nil if only field errors)
	Err error
	// FieldErrors contains field-level validation errors (field name → error message)
	FieldErrors map[string]string
	// Custom replaces the generic text for errors that are not judge API failures.
	Custom   string
	Renderer ErrorRenderer
	PageMeta PageMeta
	// Data preserves form values and dropdown options across the re-render.
	Data map[string]any
	// StatusCode overrides the status derived from Err.
	StatusCode int
}

// DetermineErrorStatus returns the HTTP status of the page reporting err. A
// judge API rejection carried in a 2xx envelope is the caller's fault (400);
// a failing upstream status is a 502.
func DetermineErrorStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	mapped := apperrors.MapUpstreamError(err)
	switch apperrors.GetCode(mapped) {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeUpstream:
		var appErr *apperrors.AppError
		if errors.As(mapped, &appErr) && appErr.Status == 0 {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RenderError re-renders a page with a general error message and any
// field-level errors. A validation error naming a field lands next to that field.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.W, opts.R, opts.PageMeta)

	fieldErrors := opts.FieldErrors
	generalError := ""
	if opts.Err != nil {
		if field := apperrors.GetField(opts.Err); field != "" && apperrors.IsValidation(opts.Err) {
			if fieldErrors == nil {
				fieldErrors = map[string]string{}
			}
			fieldErrors[field] = UserMessage(opts.Err, opts.Custom)
		} else {
			generalError = UserMessage(opts.Err, opts.Custom)
		}
	}

	builder.WithFieldErrors(fieldErrors)
	switch {
	case generalError != "":
		builder.WithError(generalError)
	case len(fieldErrors) > 0:
		builder.WithError(errMsgFixBelow)
	}

	for k, v := range opts.Data {
		builder.With(k, v)
	}

	status := opts.StatusCode
	if status == 0 {
		status = DetermineErrorStatus(opts.Err)
		if opts.Err == nil && len(fieldErrors) > 0 {
			status = http.StatusBadRequest
		}
	}
	opts.Renderer(opts.W, opts.R, status, builder.Build())
}
