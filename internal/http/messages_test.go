package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/group38/ojweb/internal/adapters/ojapi"
	apperrors "github.com/group38/ojweb/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		custom string
		want   string
	}{
		{"nil", nil, "", ""},
		{
			name: "server message wins",
			err:  &ojapi.APIError{Status: http.StatusBadRequest, Code: 40000, Message: "题目不存在"},
			want: "题目不存在",
		},
		{
			name: "status table",
			err:  fmt.Errorf("list: %w", &ojapi.APIError{Status: http.StatusForbidden}),
			want: "you do not have permission to perform this action",
		},
		{
			name: "gateway timeout",
			err:  &ojapi.APIError{Status: http.StatusGatewayTimeout},
			want: "request timed out, please try again later",
		},
		{
			name: "unknown status",
			err:  &ojapi.APIError{Status: http.StatusTeapot},
			want: "request failed, status code: 418",
		},
		{
			name: "envelope failure with message",
			err:  &ojapi.APIError{Code: 40101, Message: "无权限"},
			want: "无权限",
		},
		{
			name:   "envelope failure without message",
			err:    &ojapi.APIError{Code: 50000},
			custom: "could not submit",
			want:   "could not submit",
		},
		{
			name: "no response",
			err:  &ojapi.TransportError{Method: "GET", URL: "http://x", Err: errors.New("refused")},
			want: MsgNetworkError,
		},
		{
			name: "request build error",
			err:  &ojapi.RequestError{Err: errors.New("ojapi: path must start with '/'")},
			want: "ojapi: path must start with '/'",
		},
		{
			name: "request build error without text",
			err:  &ojapi.RequestError{Err: errors.New("")},
			want: MsgRequestFailed,
		},
		{
			name: "validation",
			err:  apperrors.ValidationField("userAccount", "account is required"),
			want: "account is required",
		},
		{
			name:   "custom fallback",
			err:    errors.New("internal detail"),
			custom: "could not load submissions",
			want:   "could not load submissions",
		},
		{
			name: "default",
			err:  errors.New("internal detail"),
			want: MsgOperationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.custom))
		})
	}
}

func TestStatusMessageTable(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 500, 502, 503, 504} {
		assert.NotEmpty(t, StatusMessage(status), status)
	}
	assert.Empty(t, StatusMessage(http.StatusOK))
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/obfuscator", nil)
	FlashSuccessMsg(rec, req, "")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	next := httptest.NewRequest(http.MethodGet, "/obfuscator", nil)
	next.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()

	f := PopFlash(rec2, next)
	require.NotNil(t, f)
	assert.Equal(t, FlashSuccess, f.Level)
	assert.Equal(t, MsgSuccess, f.Text)

	cleared := rec2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestPopFlash_Garbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: "%%%"})
	assert.Nil(t, PopFlash(httptest.NewRecorder(), req))

	assert.Nil(t, PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestFlashErr(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	FlashErr(rec, req, &ojapi.TransportError{Err: errors.New("x")}, "")

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(rec.Result().Cookies()[0])
	f := PopFlash(httptest.NewRecorder(), next)
	require.NotNil(t, f)
	assert.Equal(t, FlashError, f.Level)
	assert.Equal(t, MsgNetworkError, f.Text)
}
