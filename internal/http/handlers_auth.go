package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/group38/ojweb/internal/http/validation"
	"github.com/group38/ojweb/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, input service.LoginInput) (*service.LoginResult, error)
	Logout(ctx context.Context, sessionID, cookieHeader string) ([]*http.Cookie, error)
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers serves the sign-in form and sign-out action.
type AuthHandlers struct {
	Svc   AuthServiceInterface
	Pages *UIHandlers
	// GatewayCookies are stripped before browser cookies are forwarded to the judge API.
	GatewayCookies []string
	Logger         *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var loginMeta = PageMeta{Title: "Sign in", CurrentPage: PageLogin}

// LoginPage renders the sign-in form.
// GET /user/login?redirect=<path>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect"))
	if IdentityFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, redirect, http.StatusFound)
		return
	}
	data := NewTemplateData(w, r, loginMeta).With("Account", "").With("Redirect", redirect).Build()
	h.Pages.renderPage(w, r, http.StatusOK, data)
}

// Login signs in with the submitted account and password, then returns the
// browser to the page it was sent away from.
// POST /user/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	account := r.PostFormValue("userAccount")
	password := r.PostFormValue("userPassword")
	redirect := safeRedirectPath(r.PostFormValue("redirect"))
	formData := map[string]any{"Account": account, "Redirect": redirect}

	if errs := validation.LoginForm(account, password); len(errs) > 0 {
		RenderError(ErrorOpts{
			W: w, R: r,
			FieldErrors: errs,
			Renderer:    h.Pages.renderPage,
			PageMeta:    loginMeta,
			Data:        formData,
		})
		return
	}

	result, err := h.Svc.Login(r.Context(), service.LoginInput{
		SessionID:    SessionIDFromContext(r.Context()),
		Account:      account,
		Password:     password,
		CookieHeader: apiCookieHeader(r, h.GatewayCookies...),
	})
	if err != nil {
		h.logger().InfoContext(r.Context(), "login rejected", "error", err)
		RenderError(ErrorOpts{
			W: w, R: r,
			Err:      err,
			Custom:   "login failed",
			Renderer: h.Pages.renderPage,
			PageMeta: loginMeta,
			Data:     formData,
		})
		return
	}

	forwardAPICookies(w, result.Cookies)
	FlashSuccessMsg(w, r, "Welcome, "+result.Identity.UserName)
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// Logout ends the judge API session and forgets the cached identity.
// POST /user/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	cookies, err := h.Svc.Logout(r.Context(), SessionIDFromContext(r.Context()), apiCookieHeader(r, h.GatewayCookies...))
	forwardAPICookies(w, cookies)
	if err != nil {
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		FlashErr(w, r, err, "")
	} else {
		FlashSuccessMsg(w, r, "Signed out")
	}
	http.Redirect(w, r, PathLogin, http.StatusSeeOther)
}

// forwardAPICookies re-issues cookies set by the judge API on the gateway's
// host and root path so every page request carries them back.
func forwardAPICookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		out := *c
		out.Domain = ""
		out.Path = "/"
		http.SetCookie(w, &out)
	}
}
