package metrics

import (
	"time"

	obserrors "github.com/group38/ojweb/internal/observability/errors"
	"github.com/group38/ojweb/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// GateDecision captures one navigation decision.
type GateDecision struct {
	Outcome  string
	Required string
}

// EmitGateDecision emits the per-navigation decision counter.
func EmitGateDecision(sink statsd.Sink, in GateDecision) {
	if sink == nil {
		return
	}
	sink.Count("gate.decision", 1, map[string]string{
		"outcome":  in.Outcome,
		"required": in.Required,
	})
}

// EmitGateFailure counts a boundary failure the gate recovered from.
func EmitGateFailure(sink statsd.Sink, kind string) {
	if sink == nil {
		return
	}
	sink.Count("gate.failure", 1, map[string]string{"kind": kind})
}

// IdentityFetch captures details about one remote identity lookup.
type IdentityFetch struct {
	// Code is the envelope code, meaningful only when Err is nil.
	Code     int
	Duration time.Duration
	Err      error
}

// EmitIdentityFetch emits standardised identity fetch metrics.
func EmitIdentityFetch(sink statsd.Sink, in IdentityFetch) {
	if sink == nil {
		return
	}

	tags := map[string]string{"result": ResultSuccess}
	if in.Err != nil {
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(in.Err)
	} else {
		tags["code"] = codeTag(in.Code)
	}

	sink.Count("identity.fetch", 1, tags)

	if in.Duration > 0 {
		sink.Timing("identity.fetch.duration", in.Duration, CloneTags(tags))
	}
}

func codeTag(code int) string {
	switch code {
	case 0:
		return "ok"
	case 40100:
		return "not_login"
	default:
		return "other"
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
