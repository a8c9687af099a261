package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	domainauth "github.com/group38/ojweb/internal/domain/auth"
	apperrors "github.com/group38/ojweb/internal/errors"
	"github.com/group38/ojweb/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Accounts   ports.AccountGateway
	Identities *IdentityService
	Logger     *slog.Logger
}

// AuthService signs users in and out of the judge API and keeps the session's
// cached identity in step with the result.
type AuthService struct {
	accounts   ports.AccountGateway
	identities *IdentityService
	logger     *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Accounts == nil {
		return nil, errors.New("account gateway is required")
	}
	if opts.Identities == nil {
		return nil, errors.New("identity service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		accounts:   opts.Accounts,
		identities: opts.Identities,
		logger:     logger.With("component", "auth"),
	}, nil
}

// LoginInput groups parameters for a password sign-in.
type LoginInput struct {
	SessionID    string
	Account      string
	Password     string
	CookieHeader string
}

// LoginResult contains the signed-in identity and the API cookies to hand
// back to the browser.
type LoginResult struct {
	Identity domainauth.Identity
	Cookies  []*http.Cookie
}

// Login signs in against the judge API and caches the returned identity for
// the session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.SessionID == "" {
		return nil, errors.New("session ID is required")
	}
	account := strings.TrimSpace(input.Account)
	if account == "" {
		return nil, apperrors.ValidationField("userAccount", "account is required")
	}
	if input.Password == "" {
		return nil, apperrors.ValidationField("userPassword", "password is required")
	}

	outcome, err := s.accounts.Login(ctx, account, input.Password, input.CookieHeader)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if replaceErr := s.identities.Replace(ctx, input.SessionID, outcome.Identity); replaceErr != nil {
		// The next navigation refetches; the API session is already established.
		s.logger.WarnContext(ctx, "cache identity after login failed", "error", replaceErr)
	}

	return &LoginResult{Identity: outcome.Identity, Cookies: outcome.Cookies}, nil
}

// Logout ends the API session and drops the cached identity. The identity is
// dropped even when the API call fails so the next navigation asks again.
func (s *AuthService) Logout(ctx context.Context, sessionID, cookieHeader string) ([]*http.Cookie, error) {
	cookies, err := s.accounts.Logout(ctx, cookieHeader)

	if sessionID != "" {
		if invErr := s.identities.Invalidate(ctx, sessionID); invErr != nil {
			err = errors.Join(err, invErr)
		}
	}
	if err != nil {
		return cookies, fmt.Errorf("logout: %w", err)
	}
	return cookies, nil
}

// NewSessionID creates a random browser session ID.
func NewSessionID() string {
	return uuid.New().String()
}

// ValidSessionID reports whether id has the shape NewSessionID produces.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
