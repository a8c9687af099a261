package ojapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/jsonx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://api.local/base/"})
	require.NoError(t, err)
	assert.Equal(t, "/base", c.BaseURL().Path)
}

func TestGetLoginUser_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/get/login", r.URL.Path)
		assert.Equal(t, "SESSION=abc", r.Header.Get("Cookie"))
		_, _ = io.WriteString(w, `{"code":0,"data":{"id":9223372036854775807,"userName":"alice","userRole":"admin"},"message":"ok"}`)
	})

	res, err := c.Users().GetLoginUser(context.Background(), "SESSION=abc")
	require.NoError(t, err)
	assert.Equal(t, CodeSuccess, res.Code)
	require.NotNil(t, res.User)
	assert.Equal(t, "9223372036854775807", res.User.ID.String())
	assert.Equal(t, domainauth.AccessAdmin, res.User.Role)
}

func TestGetLoginUser_NotLoggedInIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"code":40100,"data":null,"message":"not logged in"}`)
	})

	res, err := c.Users().GetLoginUser(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, CodeNotLogin, res.Code)
	assert.Nil(t, res.User)
	assert.Equal(t, "not logged in", res.Message)
}

func TestDo_NonSuccessStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"code":50000,"message":"sandbox down"}`)
	})

	_, err := c.Obfuscator().SupportedSchemes(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, 50000, apiErr.Code)
	assert.Equal(t, "sandbox down", apiErr.Message)
}

func TestDo_EnvelopeErrorCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"code":40101,"data":null,"message":"no auth"}`)
	})

	_, err := c.QuestionSubmits().ListByPage(context.Background(), QuestionSubmitQueryRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, CodeNoAuth, apiErr.Code)
	assert.False(t, apiErr.IsNotLogin())
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c, err := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Users().GetLoginUser(context.Background(), "")
	var te *TransportError
	assert.True(t, errors.As(err, &te))
}

func TestDo_UndecodableBodyKeepsRaw(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	})

	var out map[string]any
	resp, err := c.Do(context.Background(), Request{Path: "/api/anything"}, &out)
	assert.ErrorIs(t, err, ErrUndecodable)
	require.NotNil(t, resp)
	assert.Equal(t, "<html>maintenance</html>", string(resp.Body))
}

func TestDo_RejectsRelativePath(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {})
	_, err := c.Do(context.Background(), Request{Path: "api/x"}, nil)
	assert.Error(t, err)
}

func TestLogin_ReturnsCookies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body UserLoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body.UserAccount)
		http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "xyz", Path: "/api"})
		_, _ = io.WriteString(w, `{"code":0,"data":{"id":1,"userName":"alice","userRole":"user"},"message":"ok"}`)
	})

	user, resp, err := c.Users().Login(context.Background(), UserLoginRequest{UserAccount: "alice", UserPassword: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	require.Len(t, resp.Cookies, 1)
	assert.Equal(t, "SESSION", resp.Cookies[0].Name)
}

func TestBigIntegersRoundTripEndToEnd(t *testing.T) {
	const big = "9223372036854775807"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"questionId":`+big)
		_, _ = io.WriteString(w, `{"code":0,"data":{"records":[{"id":`+big+`,"questionId":`+big+`,"userId":"42","status":2,"language":"java"}],"total":1,"size":10,"current":1,"pages":1},"message":"ok"}`)
	})

	page, err := c.QuestionSubmits().ListByPage(context.Background(), QuestionSubmitQueryRequest{
		QuestionID: jsonx.ID(big),
		Current:    1,
		PageSize:   10,
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, big, page.Records[0].ID.String())
	assert.Equal(t, big, page.Records[0].QuestionID.String())
	assert.Equal(t, "42", page.Records[0].UserID.String())
	assert.Equal(t, int64(1), page.Total)
}

func TestSubmit_ReturnsExactID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"code":0,"data":1844674407370955161,"message":"ok"}`)
	})

	id, err := c.QuestionSubmits().Submit(context.Background(), QuestionSubmitAddRequest{
		Language: "java", Code: "class Main {}", QuestionID: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, jsonx.ID("1844674407370955161"), id)
}
