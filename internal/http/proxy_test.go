package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	mu       sync.Mutex
	sessions []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, sessionID)
	return nil
}

func (r *recordingInvalidator) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sessions...)
}

func newProxyUnderTest(t *testing.T, upstream http.Handler, basePath string) (http.Handler, *recordingInvalidator) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL + basePath)
	require.NoError(t, err)

	inv := &recordingInvalidator{}
	proxy, err := NewAPIProxy(APIProxyConfig{
		Target:         target,
		Identities:     inv,
		GatewayCookies: []string{DefaultSessionCookieName, FlashCookieName},
	})
	require.NoError(t, err)
	return SessionCookie(SessionCookieConfig{})(proxy), inv
}

func TestNewAPIProxy_RequiresTarget(t *testing.T) {
	_, err := NewAPIProxy(APIProxyConfig{})
	require.Error(t, err)

	_, err = NewAPIProxy(APIProxyConfig{Target: &url.URL{Path: "/api"}})
	require.Error(t, err)
}

func TestAPIProxy_ForwardsOnlyAPICookies(t *testing.T) {
	var gotCookie, gotPath string
	h, _ := newProxyUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}), "")

	req := httptest.NewRequest(http.MethodGet, "/api/question_submit/list/page", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: testSessionID})
	req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: "x"})
	req.AddCookie(&http.Cookie{Name: "SESSION", Value: "abc"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SESSION=abc", gotCookie)
	assert.Equal(t, "/api/question_submit/list/page", gotPath)
}

func TestAPIProxy_DropsCookieHeaderWhenOnlyGatewayCookies(t *testing.T) {
	var gotCookie string
	sawCookie := false
	h, _ := newProxyUnderTest(t, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		_, sawCookie = r.Header["Cookie"]
	}), "")

	req := httptest.NewRequest(http.MethodGet, "/api/user/get/login", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: testSessionID})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, gotCookie)
	assert.False(t, sawCookie)
}

func TestAPIProxy_RescopesSetCookieAndInvalidatesOnLogin(t *testing.T) {
	h, inv := newProxyUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "fresh", Path: "/judge/api", Domain: "judge.internal"})
		w.WriteHeader(http.StatusOK)
	}), "/judge")

	req := httptest.NewRequest(http.MethodPost, "/api/user/login", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: testSessionID})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	c := findCookie(rec, "SESSION")
	require.NotNil(t, c)
	assert.Equal(t, "fresh", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Empty(t, c.Domain)
	assert.Equal(t, []string{testSessionID}, inv.calls())
}

func TestAPIProxy_ReadOnlyCallsKeepIdentity(t *testing.T) {
	h, inv := newProxyUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), "")

	req := httptest.NewRequest(http.MethodGet, "/api/user/get/login", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: testSessionID})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, inv.calls())
}

func TestAPIProxy_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	srv.Close()

	proxy, err := NewAPIProxy(APIProxyConfig{Target: target})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/get/login", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad_gateway", body["error"])
}

func TestChangesIdentity(t *testing.T) {
	assert.True(t, changesIdentity("/api/user/logout"))
	assert.True(t, changesIdentity("/api/user/login/"))
	assert.False(t, changesIdentity("/api/user/get/login"))
	assert.False(t, changesIdentity("/user/login"))
}
