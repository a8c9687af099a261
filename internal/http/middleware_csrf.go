package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

const (
	// CSRFCookieName holds the token half the browser sends back as a cookie.
	CSRFCookieName = "csrf_token"
	// CSRFFieldName is the form field page forms echo the token in.
	CSRFFieldName = "csrf_token"
	// CSRFHeaderName lets script-driven requests send the token without a form body.
	CSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes = 32
	csrfCookieTTL  = 12 * 3600
)

// CSRFConfig configures CSRFProtection.
type CSRFConfig struct {
	CookieDomain string
	// Reject writes the response for a request that failed validation.
	// Nil writes a plain 403.
	Reject func(w http.ResponseWriter, r *http.Request)
	Logger *slog.Logger
}

// CSRFProtection guards the gateway's page forms with a double-submit token:
// the token lives in a cookie and every state-changing request must repeat it
// in the csrf_token field or the X-Csrf-Token header. Safe methods pass
// through with the token in the request context so pages can embed it.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reject := cfg.Reject
	if reject == nil {
		reject = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "CSRF token validation failed", http.StatusForbidden)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrfCookieToken(r)
			if token == "" {
				var err error
				if token, err = newCSRFToken(); err != nil {
					logger.ErrorContext(r.Context(), "csrf token generation failed", "error", err)
					http.Error(w, MsgOperationFailed, http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					Secure:   isSecureRequest(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   csrfCookieTTL,
				})
			}
			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if isUnsafeMethod(r.Method) && !csrfTokenMatches(r, token) {
				logger.WarnContext(r.Context(), "csrf token rejected",
					"method", r.Method, "path", r.URL.Path)
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func csrfCookieToken(r *http.Request) string {
	c, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// csrfTokenMatches compares the submitted token with the cookie in constant time.
// A freshly minted token never matches: the browser has not seen it yet.
func csrfTokenMatches(r *http.Request, want string) bool {
	if csrfCookieToken(r) == "" {
		return false
	}
	got := r.Header.Get(CSRFHeaderName)
	if got == "" {
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
			strings.HasPrefix(ct, "multipart/form-data") {
			got = r.PostFormValue(CSRFFieldName)
		}
	}
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

type csrfTokenKey struct{}

// CSRFTokenFromContext returns the token pages embed in their forms.
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey{}).(string)
	return token
}
