package httpx

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/group38/ojweb/internal/adapters/ojapi"
	apperrors "github.com/group38/ojweb/internal/errors"
)

// User-facing fallback texts.
const (
	MsgOperationFailed = "operation failed, please try again later"
	MsgNetworkError    = "network error, please check your connection"
	MsgRequestFailed   = "request failed"
	MsgSuccess         = "operation succeeded"
	MsgFormExpired     = "this form has expired, please reload the page and try again"
)

//nolint:gochecknoglobals // read-only lookup
var statusMessages = map[int]string{
	http.StatusBadRequest:          "invalid request parameters, please check your input",
	http.StatusUnauthorized:        "not logged in or session expired, please log in again",
	http.StatusForbidden:           "you do not have permission to perform this action",
	http.StatusNotFound:            "the requested resource does not exist",
	http.StatusInternalServerError: "internal server error, please try again later",
	http.StatusBadGateway:          "gateway error, please try again later",
	http.StatusServiceUnavailable:  "service temporarily unavailable, please try again later",
	http.StatusGatewayTimeout:      "request timed out, please try again later",
}

// StatusMessage returns the friendly text for an HTTP status, or "" when the
// table has none.
func StatusMessage(status int) string {
	return statusMessages[status]
}

// UserMessage turns a failed judge API call into the text shown to the user.
//
// When the API answered with an error status, the server's message wins,
// then the status table, then "request failed, status code: N". When no
// response arrived it is the network error text. When the request could not
// be built it is the error text, or "request failed". Everything else shows
// custom, or the generic failure text when custom is empty.
func UserMessage(err error, custom string) string {
	if err == nil {
		return ""
	}

	var apiErr *ojapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Status != 0 {
			if msg := StatusMessage(apiErr.Status); msg != "" {
				return msg
			}
			return "request failed, status code: " + strconv.Itoa(apiErr.Status)
		}
	}

	var transportErr *ojapi.TransportError
	if errors.As(err, &transportErr) {
		return MsgNetworkError
	}

	var reqErr *ojapi.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Err != nil && reqErr.Err.Error() != "" {
			return reqErr.Err.Error()
		}
		return MsgRequestFailed
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeValidation && appErr.Message != "" {
		return appErr.Message
	}

	if custom != "" {
		return custom
	}
	return MsgOperationFailed
}

// FlashLevel is the style of a one-shot page notice.
type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashWarning FlashLevel = "warning"
	FlashInfo    FlashLevel = "info"
	FlashError   FlashLevel = "error"
)

// Flash is a notice rendered once on the next page.
type Flash struct {
	Level FlashLevel `json:"level"`
	Text  string     `json:"text"`
}

// FlashCookieName names the cookie carrying the pending Flash.
const FlashCookieName = "ojweb_flash"

const flashMaxAge = 60 * time.Second

// SetFlash queues a notice for the next page the browser loads.
func SetFlash(w http.ResponseWriter, r *http.Request, f Flash) {
	if f.Text == "" {
		return
	}
	b, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flashMaxAge.Seconds()),
	})
}

// FlashSuccessMsg queues a success notice, defaulting to the generic text.
func FlashSuccessMsg(w http.ResponseWriter, r *http.Request, text string) {
	if text == "" {
		text = MsgSuccess
	}
	SetFlash(w, r, Flash{Level: FlashSuccess, Text: text})
}

// FlashErr queues the user-facing text for err.
func FlashErr(w http.ResponseWriter, r *http.Request, err error, custom string) {
	SetFlash(w, r, Flash{Level: FlashError, Text: UserMessage(err, custom)})
}

// PopFlash returns the pending notice, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Text == "" {
		return nil
	}
	switch f.Level {
	case FlashSuccess, FlashWarning, FlashInfo, FlashError:
	default:
		f.Level = FlashInfo
	}
	return &f
}
