package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/observability/metrics"
	"github.com/group38/ojweb/internal/observability/statsd"
	"github.com/group38/ojweb/internal/ports"
)

// Default redirect targets.
const (
	DefaultLoginPath     = "/user/login"
	DefaultForbiddenPath = "/noAuthority"
)

// recovery is what the gate does after a boundary failure.
type recovery int

const (
	// recoverProceed resolves the transition as proceed.
	recoverProceed recovery = iota
	// recoverUnauthenticated keeps evaluating with the identity as it is.
	recoverUnauthenticated
)

// failurePolicy maps each boundary failure to its recovery. The gate fails
// open: nothing here ever produces a redirect on its own.
//
//nolint:gochecknoglobals // static policy table
var failurePolicy = map[domainauth.FailureKind]recovery{
	domainauth.FailureUninitialized: recoverProceed,
	domainauth.FailureFetch:         recoverUnauthenticated,
	domainauth.FailureDispatch:      recoverProceed,
	domainauth.FailureMetadata:      recoverProceed,
	domainauth.FailurePanic:         recoverProceed,
}

// GateOptions groups dependencies for Gate.
type GateOptions struct {
	LoginPath     string
	ForbiddenPath string
	Logger        *slog.Logger
	Metrics       statsd.Sink
}

// Gate decides, for every navigation, whether to proceed, send the user to
// the login page, or send them to the no-authority page.
type Gate struct {
	loginPath     string
	forbiddenPath string
	logger        *slog.Logger
	sink          statsd.Sink
}

// NewGate constructs a Gate.
func NewGate(opts GateOptions) *Gate {
	g := &Gate{
		loginPath:     opts.LoginPath,
		forbiddenPath: opts.ForbiddenPath,
		logger:        opts.Logger,
		sink:          statsd.OrNop(opts.Metrics),
	}
	if g.loginPath == "" {
		g.loginPath = DefaultLoginPath
	}
	if g.forbiddenPath == "" {
		g.forbiddenPath = DefaultForbiddenPath
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.logger = g.logger.With("component", "gate")
	return g
}

// LoginPath returns the configured login page path.
func (g *Gate) LoginPath() string { return g.loginPath }

// ForbiddenPath returns the configured no-authority page path.
func (g *Gate) ForbiddenPath() string { return g.forbiddenPath }

// Evaluate resolves one transition against the session's identity. It always
// returns a decision; failures inside are handled per failurePolicy.
func (g *Gate) Evaluate(ctx context.Context, state ports.SessionState, t domainauth.Transition) (d domainauth.Decision) {
	defer func() {
		if r := recover(); r != nil {
			d, _ = g.handleFailure(ctx, t, &domainauth.Failure{Kind: domainauth.FailurePanic, Err: fmt.Errorf("%v", r)})
		}
		metrics.EmitGateDecision(g.sink, metrics.GateDecision{Outcome: d.Outcome.String(), Required: t.Required})
	}()
	return g.evaluate(ctx, state, t)
}

func (g *Gate) evaluate(ctx context.Context, state ports.SessionState, t domainauth.Transition) domainauth.Decision {
	if state == nil {
		d, _ := g.handleFailure(ctx, t, &domainauth.Failure{
			Kind: domainauth.FailureUninitialized,
			Err:  errors.New("session state not initialized"),
		})
		return d
	}

	required, err := t.RequiredLevel()
	if err != nil {
		if d, done := g.handleFailure(ctx, t, asFailure(err, domainauth.FailureMetadata)); done {
			return d
		}
	}

	identity, err := state.Identity(ctx)
	if err != nil {
		if d, done := g.handleFailure(ctx, t, asFailure(err, domainauth.FailureUninitialized)); done {
			return d
		}
	}

	if !identity.HasRole() {
		if err = state.FetchLoginUser(ctx); err != nil {
			if d, done := g.handleFailure(ctx, t, asFailure(err, domainauth.FailureDispatch)); done {
				return d
			}
		}
		identity, err = state.Identity(ctx)
		if err != nil {
			if d, done := g.handleFailure(ctx, t, asFailure(err, domainauth.FailureUninitialized)); done {
				return d
			}
		}
	}

	return g.decide(identity, required, t)
}

func (g *Gate) decide(identity domainauth.Identity, required domainauth.AccessLevel, t domainauth.Transition) domainauth.Decision {
	if required == domainauth.AccessNotLogin {
		return domainauth.Proceed()
	}
	if !identity.IsAuthenticated() {
		return domainauth.RedirectToLogin(g.loginPath, t.Target)
	}
	if !domainauth.CheckAccess(identity, required) {
		return domainauth.RedirectToForbidden(g.forbiddenPath)
	}
	return domainauth.Proceed()
}

// handleFailure looks f up in failurePolicy. When done is true, evaluation
// ends with the returned decision; otherwise it continues with the identity it has.
func (g *Gate) handleFailure(
	ctx context.Context,
	t domainauth.Transition,
	f *domainauth.Failure,
) (d domainauth.Decision, done bool) {
	metrics.EmitGateFailure(g.sink, f.Kind.String())

	switch failurePolicy[f.Kind] {
	case recoverUnauthenticated:
		g.logger.WarnContext(ctx, "gate failure, continuing unauthenticated",
			"kind", f.Kind.String(), "target", t.Target, "error", f)
		return domainauth.Decision{}, false
	default:
		g.logger.ErrorContext(ctx, "gate failure, allowing navigation",
			"kind", f.Kind.String(), "target", t.Target, "error", f)
		return domainauth.Proceed(), true
	}
}

// asFailure unwraps a *domainauth.Failure from err, or wraps err as kind.
func asFailure(err error, kind domainauth.FailureKind) *domainauth.Failure {
	var f *domainauth.Failure
	if errors.As(err, &f) {
		return f
	}
	return &domainauth.Failure{Kind: kind, Err: err}
}
