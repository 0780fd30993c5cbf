package policy

import (
	"context"
	"fmt"
	"strings"
)

// Snapshot is the read-only view of store state the engine needs. It is
// implemented by the store adapter and passed in per call; the engine
// itself never writes and never imports the store package (keeping the
// decision rules pure, per §4.2).
type Snapshot interface {
	// IsBlockedIP reports whether ip has an active BlockedIP row.
	IsBlockedIP(ctx context.Context, ip string) (bool, error)
	// ResolveCategory finds the active category for a recipient address
	// (case-insensitive on email_address). ok is false when no active
	// category matches. ambiguous is true when more than one active row
	// shares the address (I3 should prevent this; the engine defends
	// against it anyway and picks the smallest id).
	ResolveCategory(ctx context.Context, recipient string) (categoryID uint64, ok bool, ambiguous bool, err error)
	// HasActiveSubscription reports whether sender holds an active
	// subscription to categoryID.
	HasActiveSubscription(ctx context.Context, sender string, categoryID uint64) (bool, error)
}

// Engine is the deterministic, pure-function core. Given a stage and a
// read-only snapshot, it returns a verdict and the audit details to
// persist. It performs only reads; all writes are committed by the caller.
type Engine struct {
	gatewayIdentity string
	now             func() int64
}

// NewEngine constructs an Engine. gatewayIdentity is the value emitted in
// the X-Processed-By header on accept. now supplies the current Unix
// timestamp (injectable for tests).
func NewEngine(gatewayIdentity string, now func() int64) *Engine {
	return &Engine{gatewayIdentity: gatewayIdentity, now: now}
}

// Evaluate dispatches on in.Stage. Unknown stages are a caller error
// (wire decoding should reject them before reaching here).
func (e *Engine) Evaluate(ctx context.Context, snap Snapshot, in HookInput) (Verdict, AuditDetails, error) {
	switch in.Stage {
	case StageConnect:
		return e.evaluateConnect(ctx, snap, in)
	case StageEHLO:
		return e.evaluateEHLO(in)
	case StageMail:
		return e.evaluateMail(in)
	case StageRcpt:
		return e.evaluateRcpt(ctx, snap, in)
	case StageData:
		return e.evaluateData(ctx, snap, in)
	case StageAuth:
		return e.evaluateAuth(in)
	default:
		return Verdict{}, AuditDetails{}, fmt.Errorf("policy: unknown stage %q", in.Stage)
	}
}

func (e *Engine) evaluateConnect(ctx context.Context, snap Snapshot, in HookInput) (Verdict, AuditDetails, error) {
	blocked, err := snap.IsBlockedIP(ctx, in.Client.IP)
	if err != nil {
		return Verdict{}, AuditDetails{}, err
	}
	if blocked {
		v := Verdict{Outcome: Reject, Code: 550, Reason: "blocked IP"}
		return v, AuditDetails{Stage: StageConnect, Details: v.Reason}, nil
	}
	v := Verdict{Outcome: Accept}
	return v, AuditDetails{Stage: StageConnect, Details: "accepted"}, nil
}

func (e *Engine) evaluateEHLO(in HookInput) (Verdict, AuditDetails, error) {
	if strings.TrimSpace(in.Client.HELO) == "" {
		v := Verdict{Outcome: Reject, Code: 501, Reason: "empty HELO"}
		return v, AuditDetails{Stage: StageEHLO, Details: v.Reason}, nil
	}
	v := Verdict{Outcome: Accept}
	return v, AuditDetails{Stage: StageEHLO, Details: "accepted"}, nil
}

func (e *Engine) evaluateMail(in HookInput) (Verdict, AuditDetails, error) {
	addr := in.Envelope.From.Address
	if addr == "" || strings.Count(addr, "@") != 1 {
		v := Verdict{Outcome: Reject, Code: 550, Reason: "malformed sender address"}
		return v, AuditDetails{Stage: StageMail, Details: v.Reason}, nil
	}
	v := Verdict{Outcome: Accept}
	return v, AuditDetails{Stage: StageMail, Details: "accepted"}, nil
}

func (e *Engine) evaluateRcpt(ctx context.Context, snap Snapshot, in HookInput) (Verdict, AuditDetails, error) {
	if len(in.Envelope.To) == 0 {
		v := Verdict{Outcome: Reject, Code: 550, Reason: "no recipient"}
		return v, AuditDetails{Stage: StageRcpt, Details: v.Reason}, nil
	}
	last := strings.ToLower(strings.TrimSpace(in.Envelope.To[len(in.Envelope.To)-1].Address))
	_, ok, ambiguous, err := snap.ResolveCategory(ctx, last)
	if err != nil {
		return Verdict{}, AuditDetails{}, err
	}
	details := "accepted"
	if ambiguous {
		details = "accepted; warning: multiple active categories share this address, picked smallest id"
	}
	if !ok {
		v := Verdict{Outcome: Reject, Code: 550, Reason: "Unknown recipient"}
		return v, AuditDetails{Stage: StageRcpt, Details: v.Reason}, nil
	}
	v := Verdict{Outcome: Accept}
	return v, AuditDetails{Stage: StageRcpt, Details: details}, nil
}

func (e *Engine) evaluateData(ctx context.Context, snap Snapshot, in HookInput) (Verdict, AuditDetails, error) {
	sender := strings.ToLower(strings.TrimSpace(in.Envelope.From.Address))
	overall := Accept
	reason := "accepted"

	for _, to := range in.Envelope.To {
		recipient := strings.ToLower(strings.TrimSpace(to.Address))
		categoryID, ok, _, err := snap.ResolveCategory(ctx, recipient)
		if err != nil {
			return Verdict{}, AuditDetails{}, err
		}
		if !ok {
			overall = Worse(overall, Reject)
			reason = "one or more recipients resolve to no active category"
			continue
		}
		subscribed, err := snap.HasActiveSubscription(ctx, sender, categoryID)
		if err != nil {
			return Verdict{}, AuditDetails{}, err
		}
		if !subscribed {
			overall = Worse(overall, Quarantine)
			if reason == "accepted" {
				reason = "sender lacks an active subscription for at least one recipient category"
			}
		}
	}

	v := Verdict{Outcome: overall, Reason: reason}
	if overall == Reject {
		v.Code = 550
	}
	if overall == Accept {
		v.Modifications = []Modification{
			{Type: "add_header", Name: "X-Processed-By", Value: e.gatewayIdentity},
			{Type: "add_header", Name: "X-Processing-Time", Value: fmt.Sprintf("%d", e.now())},
		}
	}
	return v, AuditDetails{Stage: StageData, Details: reason}, nil
}

func (e *Engine) evaluateAuth(in HookInput) (Verdict, AuditDetails, error) {
	v := Verdict{Outcome: Accept}
	return v, AuditDetails{Stage: StageAuth, Details: "accepted (placeholder)"}, nil
}
