package auth

import (
	"fmt"
	"net/url"
)

// Transition is one attempted navigation.
type Transition struct {
	// Target is the full path (with query) the user is navigating to.
	Target string
	// Required is the raw access tag declared by the target route, empty when undeclared.
	Required string
	// Origin is the path the navigation started from, if known.
	Origin string
}

// RequiredLevel resolves the route's declared access tag. Undeclared routes
// require notLogin; a tag outside the enumeration is a metadata failure.
func (t Transition) RequiredLevel() (AccessLevel, error) {
	if t.Required == "" {
		return AccessNotLogin, nil
	}
	level := AccessLevel(t.Required)
	if !level.Valid() {
		return AccessNotLogin, &Failure{
			Kind: FailureMetadata,
			Err:  fmt.Errorf("unknown access tag %q on route %s", t.Required, t.Target),
		}
	}
	return level, nil
}

// Outcome is the result of evaluating a transition.
type Outcome int

const (
	OutcomeProceed Outcome = iota
	OutcomeLogin
	OutcomeForbidden
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProceed:
		return "proceed"
	case OutcomeLogin:
		return "redirect_to_login"
	case OutcomeForbidden:
		return "redirect_to_forbidden"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is the resolved outcome of a transition.
type Decision struct {
	Outcome Outcome
	// Location is where the browser is sent; empty for OutcomeProceed.
	Location string
	// RedirectTarget is the path the login page should return to after sign-in.
	RedirectTarget string
}

// Proceed lets the navigation continue.
func Proceed() Decision { return Decision{Outcome: OutcomeProceed} }

// RedirectToLogin sends the user to loginPath with the attempted path as the
// redirect query parameter.
func RedirectToLogin(loginPath, target string) Decision {
	q := url.Values{}
	q.Set("redirect", target)
	return Decision{
		Outcome:        OutcomeLogin,
		Location:       loginPath + "?" + q.Encode(),
		RedirectTarget: target,
	}
}

// RedirectToForbidden sends the user to the fixed no-authority page.
func RedirectToForbidden(forbiddenPath string) Decision {
	return Decision{Outcome: OutcomeForbidden, Location: forbiddenPath}
}

// FailureKind classifies what went wrong inside an evaluation.
type FailureKind int

const (
	// FailureUninitialized: session state missing or unreadable.
	FailureUninitialized FailureKind = iota + 1
	// FailureFetch: the remote identity probe failed (network, non-2xx).
	FailureFetch
	// FailureDispatch: the fetch completed but session state could not be updated.
	FailureDispatch
	// FailureMetadata: the route declared an access tag outside the enumeration.
	FailureMetadata
	// FailurePanic: evaluation panicked.
	FailurePanic
)

func (k FailureKind) String() string {
	switch k {
	case FailureUninitialized:
		return "uninitialized"
	case FailureFetch:
		return "fetch"
	case FailureDispatch:
		return "dispatch"
	case FailureMetadata:
		return "metadata"
	case FailurePanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Failure is an error raised at one of the gate's boundaries.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return "gate " + f.Kind.String() + " failure"
	}
	return "gate " + f.Kind.String() + " failure: " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }
