package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/group38/ojweb/internal/service"
)

func TestSessionCookie_IssuesAndReuses(t *testing.T) {
	var seen string
	h := SessionCookie(SessionCookieConfig{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	issued := findCookie(rec, DefaultSessionCookieName)
	require.NotNil(t, issued)
	assert.True(t, issued.HttpOnly)
	assert.Equal(t, issued.Value, seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(issued)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, issued.Value, seen)
	assert.Nil(t, findCookie(rec, DefaultSessionCookieName), "valid IDs are not reissued")
}

func TestSessionCookie_ReplacesMalformedID(t *testing.T) {
	var seen string
	h := SessionCookie(SessionCookieConfig{Name: "sid"})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	fresh := findCookie(rec, "sid")
	require.NotNil(t, fresh)
	assert.NotEqual(t, "../../etc", seen)
	assert.Equal(t, fresh.Value, seen)
}

func TestAPICookieHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: "s"})
	req.AddCookie(&http.Cookie{Name: "SESSION", Value: "a"})
	req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: "f"})
	req.AddCookie(&http.Cookie{Name: "lang", Value: "en"})

	assert.Equal(t, "SESSION=a; lang=en", apiCookieHeader(req, DefaultSessionCookieName, FlashCookieName))
	assert.Empty(t, apiCookieHeader(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                      "/",
		"/question_submit?x=1":  "/question_submit?x=1",
		"//evil.example":        "/",
		"https://evil.example/": "/",
		`/\evil.example`:        "/",
		"relative":              "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), in)
	}
}

func TestOriginFromReferer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Referer", "http://gateway.local/question_submit?current=3")
	assert.Equal(t, "/question_submit?current=3", originFromReferer(req))

	req.Header.Set("Referer", "//evil.example/x")
	assert.Empty(t, originFromReferer(req))
}

func TestIsBrowserRequest(t *testing.T) {
	browser := httptest.NewRequest(http.MethodGet, "/", nil)
	browser.Header.Set("Accept", "text/html,application/xhtml+xml")
	assert.True(t, IsBrowserRequest(browser))

	jsonReq := httptest.NewRequest(http.MethodGet, "/", nil)
	jsonReq.Header.Set("Accept", "application/json")
	assert.False(t, IsBrowserRequest(jsonReq))

	assert.False(t, IsBrowserRequest(httptest.NewRequest(http.MethodGet, "/api/user/get/login", nil)))
}

func TestRequireAccess_FailsOpenWithoutSessionState(t *testing.T) {
	called := false
	h := RequireAccess(GateConfig{Gate: service.NewGate(service.GateOptions{})}, "admin")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.False(t, IdentityFromContext(r.Context()).IsAuthenticated())
			w.WriteHeader(http.StatusNoContent)
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathAdmin, nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSessionState(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "SESSION", Value: "abc"})
	req.AddCookie(sessionCookie())

	// A typed nil inside the interface would hide the missing session from the gate.
	assert.True(t, sessionState(GateConfig{}, req, testSessionID) == nil, "no identity service")
	assert.True(t, sessionState(GateConfig{Identities: env.identities}, req, "") == nil, "no session")

	state := sessionState(GateConfig{
		Identities:     env.identities,
		GatewayCookies: []string{DefaultSessionCookieName},
	}, req, testSessionID)
	require.NotNil(t, state)
	handle, ok := state.(*service.SessionHandle)
	require.True(t, ok)
	assert.Equal(t, testSessionID, handle.SessionID())
}

func TestRequireAccess_UnknownTagProceeds(t *testing.T) {
	env := newTestEnv(t)
	called := false
	h := SessionCookie(SessionCookieConfig{})(RequireAccess(GateConfig{
		Gate:       service.NewGate(service.GateOptions{}),
		Identities: env.identities,
	}, "superuser")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/secret", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
