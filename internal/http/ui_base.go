package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/group38/ojweb/internal/adapters/ojapi"
	"github.com/group38/ojweb/internal/jsonx"
)

// SubmissionsService is the submission API surface the pages use.
type SubmissionsService interface {
	ListByPage(
		ctx context.Context,
		in ojapi.QuestionSubmitQueryRequest,
		opts ...ojapi.CallOption,
	) (ojapi.Page[ojapi.QuestionSubmitVO], error)
	Submit(ctx context.Context, in ojapi.QuestionSubmitAddRequest, opts ...ojapi.CallOption) (jsonx.ID, error)
}

// ObfuscatorService is the obfuscator API surface the pages use.
type ObfuscatorService interface {
	SupportedSchemes(ctx context.Context, opts ...ojapi.CallOption) (ojapi.SupportedSchemesResponse, error)
	Obfuscate(
		ctx context.Context,
		in ojapi.ObfuscateCodeRequest,
		opts ...ojapi.CallOption,
	) (ojapi.ObfuscateCodeResponse, error)
}

// LoginUserService reads the API's view of the signed-in user.
type LoginUserService interface {
	GetLoginUserEnvelope(ctx context.Context, opts ...ojapi.CallOption) (ojapi.Envelope[ojapi.LoginUserVO], error)
}

// Compile-time interface assertions to ensure the API client satisfies the UI interfaces.
var (
	_ SubmissionsService = (*ojapi.QuestionSubmitService)(nil)
	_ ObfuscatorService  = (*ojapi.ObfuscatorService)(nil)
	_ LoginUserService   = (*ojapi.UserService)(nil)
)

// UIHandlers serves browser-facing pages.
type UIHandlers struct {
	T           *TemplateRenderer
	Submissions SubmissionsService
	Obfuscator  ObfuscatorService
	Users       LoginUserService
	// GatewayCookies are stripped before browser cookies are forwarded to the judge API.
	GatewayCookies []string
	Logger         *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// apiOption forwards the browser's judge API cookies on a call made for r.
func (h *UIHandlers) apiOption(r *http.Request) ojapi.CallOption {
	return ojapi.WithCookieHeader(apiCookieHeader(r, h.GatewayCookies...))
}

// renderPage renders a full page, falling back to a plain error on template failure.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if err := h.T.RenderFull(w, status, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "full page render")
	}
}

// page renders a page that needs no fetched data.
func (h *UIHandlers) page(w http.ResponseWriter, r *http.Request, status int, meta PageMeta) {
	h.renderPage(w, r, status, NewTemplateData(w, r, meta).Build())
}

// renderErrorPage renders the standalone error layout.
func (h *UIHandlers) renderErrorPage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	data := NewTemplateData(w, r, PageMeta{Title: http.StatusText(status)}).
		With("StatusCode", status).
		WithError(msg).
		Build()
	if err := h.T.RenderError(w, status, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "error page render")
	}
}

func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, phase string) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		slog.String("phase", phase),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	http.Error(w, MsgOperationFailed, http.StatusInternalServerError)
}
