package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/ports"
	"github.com/group38/ojweb/internal/service"
)

// GateConfig wires the navigation gate into the router.
type GateConfig struct {
	Gate       *service.Gate
	Identities *service.IdentityService
	// GatewayCookies are stripped before browser cookies are forwarded to the judge API.
	GatewayCookies []string
	Logger         *slog.Logger
}

// RequireAccess returns a middleware that runs the navigation gate for a page
// declaring the given access tag ("" for undeclared). A proceed decision puts
// the session's identity in the request context and calls next; a redirect
// decision sends the browser to the login or no-authority page.
func RequireAccess(cfg GateConfig, access string) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sessionID := SessionIDFromContext(ctx)

			state := sessionState(cfg, r, sessionID)
			transition := domainauth.Transition{
				Target:   r.URL.RequestURI(),
				Required: access,
				Origin:   originFromReferer(r),
			}
			decision := cfg.Gate.Evaluate(ctx, state, transition)

			if decision.Outcome != domainauth.OutcomeProceed {
				status := http.StatusFound
				if r.Method != http.MethodGet && r.Method != http.MethodHead {
					status = http.StatusSeeOther
				}
				http.Redirect(w, r, decision.Location, status)
				return
			}

			identity := domainauth.Anonymous()
			if cfg.Identities != nil {
				current, err := cfg.Identities.Current(ctx, sessionID)
				if err != nil {
					logger.WarnContext(ctx, "read identity after gate failed", "error", err)
				} else {
					identity = current
				}
			}
			next.ServeHTTP(w, r.WithContext(SetIdentityInContext(ctx, identity)))
		})
	}
}

// sessionState returns the gate's view of the browser session, or a nil
// interface when there is none so the gate reports it as uninitialized.
func sessionState(cfg GateConfig, r *http.Request, sessionID string) ports.SessionState {
	if cfg.Identities == nil || sessionID == "" {
		return nil
	}
	return cfg.Identities.Session(sessionID, apiCookieHeader(r, cfg.GatewayCookies...))
}
