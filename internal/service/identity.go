package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/observability/metrics"
	"github.com/group38/ojweb/internal/observability/statsd"
	"github.com/group38/ojweb/internal/ports"
	"golang.org/x/sync/singleflight"
)

// IdentityServiceOptions groups dependencies for IdentityService.
type IdentityServiceOptions struct {
	Store   ports.IdentityStore
	Source  ports.LoginUserSource
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// IdentityService owns the per-session identity cache: it reads it, replaces
// it, and refreshes it from the remote API. Concurrent refreshes for the same
// session share a single remote call.
type IdentityService struct {
	store   ports.IdentityStore
	source  ports.LoginUserSource
	logger  *slog.Logger
	sink    statsd.Sink
	flights singleflight.Group
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(opts IdentityServiceOptions) (*IdentityService, error) {
	if opts.Store == nil {
		return nil, errors.New("identity store is required")
	}
	if opts.Source == nil {
		return nil, errors.New("login user source is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityService{
		store:  opts.Store,
		source: opts.Source,
		logger: logger.With("component", "identity"),
		sink:   statsd.OrNop(opts.Metrics),
	}, nil
}

// Current returns the cached identity for a session, or the anonymous
// placeholder when nothing is cached yet.
func (s *IdentityService) Current(ctx context.Context, sessionID string) (domainauth.Identity, error) {
	if sessionID == "" {
		return domainauth.Anonymous(), nil
	}
	identity, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domainauth.Anonymous(), nil
		}
		return domainauth.Identity{}, fmt.Errorf("get identity: %w", err)
	}
	return identity, nil
}

// Replace swaps the session's identity for a new value.
func (s *IdentityService) Replace(ctx context.Context, sessionID string, identity domainauth.Identity) error {
	if err := s.store.Replace(ctx, sessionID, identity); err != nil {
		return fmt.Errorf("replace identity: %w", err)
	}
	return nil
}

// Invalidate drops the cached identity so the next navigation fetches it again.
func (s *IdentityService) Invalidate(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

// Refresh asks the API who is logged in and caches the answer.
//
// Code 0 with a user replaces the identity with that user; code 40100
// replaces it with the not-logged-in identity; any other answer is logged and
// leaves the identity untouched. A failed remote call is returned as a
// *domainauth.Failure of kind FailureFetch, a failed store access as
// FailureDispatch. An answer that arrives after the session was replaced or
// invalidated is dropped. Callers waiting on the same session and credentials
// share one call; the shared call is not canceled when one waiter's context is.
func (s *IdentityService) Refresh(ctx context.Context, sessionID, cookieHeader string) error {
	if sessionID == "" {
		return &domainauth.Failure{Kind: domainauth.FailureUninitialized, Err: errors.New("no session")}
	}
	ch := s.flights.DoChan(flightKey(sessionID, cookieHeader), func() (any, error) {
		return nil, s.refresh(context.WithoutCancel(ctx), sessionID, cookieHeader)
	})
	select {
	case <-ctx.Done():
		return &domainauth.Failure{Kind: domainauth.FailureFetch, Err: ctx.Err()}
	case res := <-ch:
		return res.Err
	}
}

func flightKey(sessionID, cookieHeader string) string {
	return sessionID + "\x00" + cookieHeader
}

func (s *IdentityService) refresh(ctx context.Context, sessionID, cookieHeader string) error {
	gen, err := s.store.Generation(ctx, sessionID)
	if err != nil {
		return &domainauth.Failure{Kind: domainauth.FailureDispatch, Err: fmt.Errorf("read generation: %w", err)}
	}

	start := time.Now()
	res, err := s.source.GetLoginUser(ctx, cookieHeader)
	fetch := metrics.IdentityFetch{Code: res.Code, Duration: time.Since(start), Err: err}
	metrics.EmitIdentityFetch(s.sink, fetch)
	if err != nil {
		s.logger.WarnContext(ctx, "get login user failed", "error", err)
		return &domainauth.Failure{Kind: domainauth.FailureFetch, Err: err}
	}

	var next domainauth.Identity
	switch {
	case res.Code == 0 && res.User != nil:
		next = *res.User
	case res.Code == codeNotLogin:
		next = domainauth.NotLoggedIn()
	default:
		s.logger.WarnContext(ctx, "get login user returned unexpected envelope",
			"code", res.Code, "message", res.Message)
		return nil
	}

	written, replaceErr := s.store.CompareAndReplace(ctx, sessionID, gen, next)
	if replaceErr != nil {
		return &domainauth.Failure{Kind: domainauth.FailureDispatch, Err: fmt.Errorf("replace identity: %w", replaceErr)}
	}
	if !written {
		s.logger.DebugContext(ctx, "dropped stale login user answer", "code", res.Code)
	}
	return nil
}

// codeNotLogin is the envelope code for "nobody is logged in".
const codeNotLogin = 40100

// Session returns the gate's capability over one browser session.
func (s *IdentityService) Session(sessionID, cookieHeader string) *SessionHandle {
	return &SessionHandle{svc: s, sessionID: sessionID, cookieHeader: cookieHeader}
}

// SessionHandle binds IdentityService to one session and the browser's
// credentials for the API. It implements ports.SessionState.
type SessionHandle struct {
	svc          *IdentityService
	sessionID    string
	cookieHeader string
}

// Identity implements ports.SessionState.
func (h *SessionHandle) Identity(ctx context.Context) (domainauth.Identity, error) {
	if h == nil || h.svc == nil {
		return domainauth.Identity{}, errors.New("session state not initialized")
	}
	return h.svc.Current(ctx, h.sessionID)
}

// FetchLoginUser implements ports.SessionState.
func (h *SessionHandle) FetchLoginUser(ctx context.Context) error {
	if h == nil || h.svc == nil {
		return &domainauth.Failure{Kind: domainauth.FailureUninitialized, Err: errors.New("session state not initialized")}
	}
	return h.svc.Refresh(ctx, h.sessionID, h.cookieHeader)
}

// SessionID returns the bound session ID.
func (h *SessionHandle) SessionID() string { return h.sessionID }
