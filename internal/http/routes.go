package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/group38/ojweb"
	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Gate       *service.Gate
	Identities *service.IdentityService
	Auth       AuthServiceInterface

	Submissions SubmissionsService
	Obfuscator  ObfuscatorService
	Users       LoginUserService

	// APIBaseURL is the judge API the /api/ passthrough forwards to. Nil disables it.
	APIBaseURL *url.URL
	Session    SessionCookieConfig

	// TemplateFS overrides the template source (tests). Nil selects embedded
	// templates, or the on-disk copy in dev mode.
	TemplateFS fs.FS
	IsDev      bool
	Logger     *slog.Logger
}

// route is one page with the access level it declares. An empty Access means
// the route declares none.
type route struct {
	Pattern string
	Access  domainauth.AccessLevel
	Handler http.HandlerFunc
}

// pageRoutes is the route table the gate guards.
func pageRoutes(ui *UIHandlers, auth *AuthHandlers) []route {
	routes := []route{
		{Pattern: "GET /{$}", Access: domainauth.AccessNotLogin, Handler: ui.Home},
		{Pattern: "GET " + PathNoAuthority, Access: domainauth.AccessNotLogin, Handler: ui.NoAuthority},
		{Pattern: "GET " + PathQuestionSubmit, Access: domainauth.AccessUser, Handler: ui.QuestionSubmits},
		{Pattern: "POST " + PathQuestionSubmit, Access: domainauth.AccessUser, Handler: ui.SubmitCode},
		{Pattern: "GET " + PathObfuscator, Access: domainauth.AccessUser, Handler: ui.ObfuscatorPage},
		{Pattern: "POST " + PathObfuscator, Access: domainauth.AccessUser, Handler: ui.Obfuscate},
		{Pattern: "GET " + PathAdmin, Access: domainauth.AccessAdmin, Handler: ui.Admin},
	}
	if auth != nil {
		routes = append(routes,
			route{Pattern: "GET " + PathLogin, Access: domainauth.AccessNotLogin, Handler: auth.LoginPage},
			route{Pattern: "POST " + PathLogin, Access: domainauth.AccessNotLogin, Handler: auth.Login},
			route{Pattern: "POST " + PathLogout, Handler: auth.Logout},
		)
	}
	return routes
}

// NewRouter creates the gateway router: gate-guarded pages, the /api/
// passthrough and health checks, behind session and browser detection middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if services.Gate == nil {
		return nil, errors.New("router: gate is required")
	}

	cookieName := services.Session.Name
	if cookieName == "" {
		cookieName = DefaultSessionCookieName
	}
	gatewayCookies := []string{cookieName, FlashCookieName, CSRFCookieName}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:              tr,
		Submissions:    services.Submissions,
		Obfuscator:     services.Obfuscator,
		Users:          services.Users,
		GatewayCookies: gatewayCookies,
		Logger:         logger,
	}
	var auth *AuthHandlers
	if services.Auth != nil {
		auth = &AuthHandlers{Svc: services.Auth, Pages: ui, GatewayCookies: gatewayCookies, Logger: logger}
	}

	gate := GateConfig{
		Gate:           services.Gate,
		Identities:     services.Identities,
		GatewayCookies: gatewayCookies,
		Logger:         logger,
	}

	csrf := CSRFProtection(CSRFConfig{
		CookieDomain: services.Session.Domain,
		Reject:       ui.CSRFRejected,
		Logger:       logger,
	})

	mux := http.NewServeMux()
	for _, rt := range pageRoutes(ui, auth) {
		mux.Handle(rt.Pattern, RequireAccess(gate, string(rt.Access))(csrf(rt.Handler)))
	}

	if services.APIBaseURL != nil {
		var invalidator IdentityInvalidator
		if services.Identities != nil {
			invalidator = services.Identities
		}
		proxy, proxyErr := NewAPIProxy(APIProxyConfig{
			Target:         services.APIBaseURL,
			Identities:     invalidator,
			GatewayCookies: gatewayCookies,
			Logger:         logger,
		})
		if proxyErr != nil {
			return nil, proxyErr
		}
		mux.Handle("/api/", proxy)
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("/", csrf(http.HandlerFunc(ui.NotFound)))

	session := services.Session
	session.Name = cookieName
	return BrowserDetection()(SessionCookie(session)(mux)), nil
}

// templateFS chooses where templates are loaded from.
// In dev mode templates are read from disk for hot editing.
func templateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(ojweb.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}
