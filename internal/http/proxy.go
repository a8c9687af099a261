package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// IdentityInvalidator drops a session's cached identity.
type IdentityInvalidator interface {
	Invalidate(ctx context.Context, sessionID string) error
}

// APIProxyConfig configures the /api/ passthrough to the judge API.
type APIProxyConfig struct {
	Target *url.URL
	// Identities is told when a passthrough call may have changed who is logged in.
	Identities     IdentityInvalidator
	GatewayCookies []string
	Logger         *slog.Logger
}

// identityChangingPaths are API calls after which the cached identity is stale.
//
//nolint:gochecknoglobals // static read-only lookup
var identityChangingPaths = []string{
	"/api/user/login",
	"/api/user/logout",
	"/api/user/register",
	"/api/user/update/my",
}

func changesIdentity(path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, p := range identityChangingPaths {
		if path == p {
			return true
		}
	}
	return false
}

// NewAPIProxy returns a reverse proxy that lets browser code call the judge
// API through the gateway's origin. Gateway cookies are not forwarded and the
// API's cookies are re-scoped to the gateway's root path.
func NewAPIProxy(cfg APIProxyConfig) (http.Handler, error) {
	if cfg.Target == nil || cfg.Target.Host == "" {
		return nil, errors.New("api proxy target is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	basePath := strings.TrimSuffix(cfg.Target.Path, "/")

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(cfg.Target)
			pr.SetXForwarded()
			if cookie := apiCookieHeader(pr.In, cfg.GatewayCookies...); cookie != "" {
				pr.Out.Header.Set("Cookie", cookie)
			} else {
				pr.Out.Header.Del("Cookie")
			}
		},
		ModifyResponse: func(resp *http.Response) error {
			rescopeSetCookies(resp.Header)
			ctx := resp.Request.Context()
			sessionID := SessionIDFromContext(ctx)
			apiPath := strings.TrimPrefix(resp.Request.URL.Path, basePath)
			if cfg.Identities == nil || sessionID == "" || !changesIdentity(apiPath) {
				return nil
			}
			if err := cfg.Identities.Invalidate(ctx, sessionID); err != nil {
				logger.WarnContext(ctx, "invalidate identity after api call failed",
					"path", resp.Request.URL.Path, "error", err)
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.WarnContext(r.Context(), "judge api proxy failed", "path", r.URL.Path, "error", err)
			WriteError(w, ErrorParams{
				Code:    http.StatusBadGateway,
				ErrCode: "bad_gateway",
				Err:     errors.New(StatusMessage(http.StatusBadGateway)),
			})
		},
	}
	return rp, nil
}

// rescopeSetCookies rewrites the API's Set-Cookie headers to the gateway host and root path.
func rescopeSetCookies(h http.Header) {
	raw := h.Values("Set-Cookie")
	if len(raw) == 0 {
		return
	}
	cookies := (&http.Response{Header: http.Header{"Set-Cookie": raw}}).Cookies()
	h.Del("Set-Cookie")
	for _, c := range cookies {
		c.Domain = ""
		c.Path = "/"
		if v := c.String(); v != "" {
			h.Add("Set-Cookie", v)
		}
	}
}
