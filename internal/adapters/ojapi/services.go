package ojapi

import (
	"context"
	"net/http"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/jsonx"
	"github.com/group38/ojweb/internal/ports"
)

// UserService covers /api/user.
type UserService struct{ c *Client }

// QuestionSubmitService covers /api/question_submit.
type QuestionSubmitService struct{ c *Client }

// ObfuscatorService covers /api/obfuscator.
type ObfuscatorService struct{ c *Client }

// Users returns the user endpoints.
func (c *Client) Users() *UserService { return &UserService{c: c} }

// QuestionSubmits returns the submission endpoints.
func (c *Client) QuestionSubmits() *QuestionSubmitService { return &QuestionSubmitService{c: c} }

// Obfuscator returns the obfuscator endpoints.
func (c *Client) Obfuscator() *ObfuscatorService { return &ObfuscatorService{c: c} }

// GetLoginUserEnvelope fetches the current login user and returns the raw
// envelope; code 40100 (not logged in) is not an error here.
func (s *UserService) GetLoginUserEnvelope(ctx context.Context, opts ...CallOption) (Envelope[LoginUserVO], error) {
	var env Envelope[LoginUserVO]
	req := applyOptions(Request{Method: http.MethodGet, Path: "/api/user/get/login"}, opts)
	_, err := s.c.Do(ctx, req, &env)
	return env, err
}

// GetLoginUser implements ports.LoginUserSource.
func (s *UserService) GetLoginUser(ctx context.Context, cookieHeader string) (ports.LoginUserResult, error) {
	env, err := s.GetLoginUserEnvelope(ctx, WithCookieHeader(cookieHeader))
	if err != nil {
		return ports.LoginUserResult{}, err
	}
	result := ports.LoginUserResult{Code: env.Code, Message: env.Message}
	if env.Data != nil {
		identity := env.Data.Identity()
		result.User = &identity
	}
	return result, nil
}

// Login signs in with account and password. The returned Response carries the
// session cookie the API issued.
func (s *UserService) Login(
	ctx context.Context,
	in UserLoginRequest,
	opts ...CallOption,
) (LoginUserVO, *Response, error) {
	req := applyOptions(Request{Method: http.MethodPost, Path: "/api/user/login", Body: in}, opts)
	return call[LoginUserVO](ctx, s.c, req)
}

// Logout ends the API-side session.
func (s *UserService) Logout(ctx context.Context, opts ...CallOption) (*Response, error) {
	req := applyOptions(Request{Method: http.MethodPost, Path: "/api/user/logout"}, opts)
	_, resp, err := call[bool](ctx, s.c, req)
	return resp, err
}

// Submit creates a submission and returns its id.
func (s *QuestionSubmitService) Submit(
	ctx context.Context,
	in QuestionSubmitAddRequest,
	opts ...CallOption,
) (jsonx.ID, error) {
	req := applyOptions(Request{Method: http.MethodPost, Path: "/api/question_submit/", Body: in}, opts)
	id, _, err := call[jsonx.ID](ctx, s.c, req)
	return id, err
}

// ListByPage returns one page of submissions.
func (s *QuestionSubmitService) ListByPage(
	ctx context.Context,
	in QuestionSubmitQueryRequest,
	opts ...CallOption,
) (Page[QuestionSubmitVO], error) {
	req := applyOptions(Request{Method: http.MethodPost, Path: "/api/question_submit/list/page", Body: in}, opts)
	page, _, err := call[Page[QuestionSubmitVO]](ctx, s.c, req)
	return page, err
}

// Obfuscate obfuscates source code with the chosen scheme.
func (s *ObfuscatorService) Obfuscate(
	ctx context.Context,
	in ObfuscateCodeRequest,
	opts ...CallOption,
) (ObfuscateCodeResponse, error) {
	req := applyOptions(Request{Method: http.MethodPost, Path: "/api/obfuscator/obfuscate", Body: in}, opts)
	out, _, err := call[ObfuscateCodeResponse](ctx, s.c, req)
	return out, err
}

// SupportedSchemes lists the obfuscation schemes per language.
func (s *ObfuscatorService) SupportedSchemes(ctx context.Context, opts ...CallOption) (SupportedSchemesResponse, error) {
	req := applyOptions(Request{Method: http.MethodGet, Path: "/api/obfuscator/schemes"}, opts)
	out, _, err := call[SupportedSchemesResponse](ctx, s.c, req)
	return out, err
}

// Identity maps the API's login user onto the domain identity.
func (v LoginUserVO) Identity() domainauth.Identity {
	return domainauth.Identity{
		ID:          v.ID,
		UserName:    v.UserName,
		UserAvatar:  v.UserAvatar,
		UserProfile: v.UserProfile,
		Role:        domainauth.AccessLevel(v.UserRole),
	}
}

// Accounts adapts the user endpoints to ports.AccountGateway.
type Accounts struct{ users *UserService }

// Accounts returns the sign-in/sign-out gateway.
func (c *Client) Accounts() *Accounts { return &Accounts{users: c.Users()} }

// Login implements ports.AccountGateway.
func (a *Accounts) Login(ctx context.Context, account, password, cookieHeader string) (ports.LoginOutcome, error) {
	user, resp, err := a.users.Login(ctx, UserLoginRequest{UserAccount: account, UserPassword: password},
		WithCookieHeader(cookieHeader))
	if err != nil {
		return ports.LoginOutcome{}, err
	}
	out := ports.LoginOutcome{Identity: user.Identity()}
	if resp != nil {
		out.Cookies = resp.Cookies
	}
	return out, nil
}

// Logout implements ports.AccountGateway.
func (a *Accounts) Logout(ctx context.Context, cookieHeader string) ([]*http.Cookie, error) {
	resp, err := a.users.Logout(ctx, WithCookieHeader(cookieHeader))
	if resp == nil {
		return nil, err
	}
	return resp.Cookies, err
}
