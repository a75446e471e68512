// Package decision wires the gate, scorer, continuity tracker, preference
// store, outcome ledger and governance engine into one pipeline. A single
// Decide call classifies an instruction, updates history, and produces the
// confirmation verdict plus the execution token.
package decision

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/longkt99/scribe/internal/audit"
	"github.com/longkt99/scribe/internal/binding"
	"github.com/longkt99/scribe/internal/continuity"
	"github.com/longkt99/scribe/internal/gate"
	"github.com/longkt99/scribe/internal/governance"
	"github.com/longkt99/scribe/internal/intent"
	"github.com/longkt99/scribe/internal/outcome"
	"github.com/longkt99/scribe/internal/preference"
	"github.com/longkt99/scribe/internal/stability"
	"github.com/longkt99/scribe/internal/storage"
)

// Engine runs the decision pipeline. All stores fail silently: a storage
// problem degrades learning and history, never routing.
type Engine struct {
	gate       *gate.Gate
	tracker    *continuity.Tracker
	prefs      *preference.Store
	outcomes   *outcome.Store
	governance *governance.Engine
	assessor   stability.Assessor
	audit      *audit.Store
	now        func() time.Time
}

// NewEngine wires the pipeline. The audit store may be nil; auditing is then
// skipped.
func NewEngine(g *gate.Gate, tracker *continuity.Tracker, prefs *preference.Store, outcomes *outcome.Store, gov *governance.Engine, auditStore *audit.Store) *Engine {
	return &Engine{
		gate:       g,
		tracker:    tracker,
		prefs:      prefs,
		outcomes:   outcomes,
		governance: gov,
		assessor:   stability.NewOutcomeAssessor(outcomes, UserFromContext),
		audit:      auditStore,
		now:        time.Now,
	}
}

// WithClock overrides the engine's clock. Used in tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Governance exposes the governance engine for recovery actions.
func (e *Engine) Governance() *governance.Engine {
	return e.governance
}

func intentTypeFor(route intent.Route) continuity.IntentType {
	if route == intent.RouteTransform {
		return continuity.IntentTransform
	}
	return continuity.IntentCreate
}

// scopedKeyBases are the per-user storage key families the pipeline touches.
// A governed session must not reach another user's slice of any of them.
var scopedKeyBases = []string{
	continuity.StorageKeyBase,
	preference.StorageKeyBase,
	outcome.StorageKeyBase,
}

// Decide runs the full pipeline for one instruction. The gate comes first:
// nothing is classified and no store is touched until the event is
// authorized.
func (e *Engine) Decide(ctx context.Context, req Request) Decision {
	ctx = WithUser(ctx, req.UserID)

	b := binding.NewForEvent(req.EventID, req.Text)
	action := gate.ActionGenerate
	if req.HasActiveSource {
		action = gate.ActionTransform
	}
	token, declined := e.gate.Authorize(gate.Request{
		EventID: b.EventID,
		Text:    req.Text,
		Action:  action,
	})
	if declined == nil && !e.governance.ExecutionAllowed(req.Governance) {
		declined = &gate.Decline{
			Reason: gate.DeclineExecutionForbidden,
			Detail: "role " + string(req.Governance.Role) + " may not trigger execution",
		}
	}
	if declined == nil {
		for _, base := range scopedKeyBases {
			if !governance.ValidateKey(base, storage.UserKey(base, req.UserID), req.Governance) {
				declined = &gate.Decline{
					Reason: gate.DeclineScopeMismatch,
					Detail: "request user does not match the governed session",
				}
				break
			}
		}
	}
	if declined != nil {
		e.record(audit.Entry{
			EventID: b.EventID,
			UserID:  req.UserID,
			Action:  audit.ActionDecline,
			Reason:  string(declined.Reason),
			Detail:  declined.Detail,
		})
		return Decision{
			EventID:  b.EventID,
			Binding:  b,
			Declined: declined,
		}
	}

	signals := intent.Detect(req.Text)
	scored := intent.Score(intent.Input{
		Text:             req.Text,
		HasActiveSource:  req.HasActiveSource,
		HasLastAssistant: req.HasLastAssistant,
		Signals:          signals,
	})

	pattern := binding.PatternHash(req.Text)
	assessment := e.assessor.Assess(ctx, pattern)

	state := e.tracker.Append(ctx, req.UserID, continuity.HistoryItem{
		Timestamp:   e.now().UTC(),
		Type:        intentTypeFor(scored.Route),
		PatternHash: pattern,
		RouteHint:   scored.Route,
	})

	suggestsAutoApply := intent.IsHighConfidence(scored.Confidence) && assessment.AutoApplyEligible
	gov := e.governance.ForceConfirmation(req.Governance, governance.Snapshot{
		Route:             scored.Route,
		Confidence:        scored.Confidence,
		SuggestsAutoApply: suggestsAutoApply,
	}, state, assessment.Band)

	skip, skipReason := continuity.SkipConfirmation(continuity.SkipInput{
		State:             state,
		Band:              assessment.Band,
		RouteHint:         scored.Route,
		AutoApplyEligible: assessment.AutoApplyEligible,
	})

	confirm, confirmReason := resolveConfirmation(gov, skip, skipReason, scored.Confidence)

	bias := preference.Bias{Ordering: nil}
	if !gov.Active || gov.BiasAllowed {
		bias = e.prefs.Bias(ctx, req.UserID, preference.BiasContext{
			RouteHint:       scored.Route,
			HasActiveSource: req.HasActiveSource,
		})
	}

	if !gov.Active || gov.LearningAllowed {
		e.prefs.ObserveSignals(ctx, req.UserID, preference.DetectInstructionSignals(req.Text))
	}

	// Open the ledger entry now; feedback signals attach to it later.
	if err := e.outcomes.Put(ctx, req.UserID, outcome.Outcome{
		IntentID:    b.EventID,
		RouteUsed:   scored.Route,
		PatternHash: pattern,
	}); err != nil {
		log.Printf("decision: recording outcome for %s: %v", b.EventID, err)
	}

	e.record(audit.Entry{
		EventID: b.EventID,
		UserID:  req.UserID,
		Action:  audit.ActionDecide,
		Route:   string(scored.Route),
		Reason:  scored.Reason,
		Detail:  fmt.Sprintf("confidence=%.2f mode=%s band=%s confirm=%t", scored.Confidence, state.Mode, assessment.Band, confirm),
	})

	return Decision{
		EventID:              b.EventID,
		Binding:              b,
		Token:                token,
		Route:                scored.Route,
		Confidence:           scored.Confidence,
		Reason:               scored.Reason,
		RequiresConfirmation: confirm,
		ConfirmationReason:   confirmReason,
		Continuity:           state,
		Band:                 assessment.Band,
		Bias:                 bias,
		Governance:           gov,
	}
}

// resolveConfirmation layers the three inputs. Governance force wins over
// everything, a correction cycle wins over any waiver, and when nobody has a
// recommendation the baseline is confidence alone.
func resolveConfirmation(gov governance.Decision, skip continuity.SkipResult, skipReason string, confidence float64) (bool, string) {
	if gov.Active && gov.ConfirmationForced {
		return true, gov.Reason
	}
	if skip == continuity.ShowConfirm {
		return true, skipReason
	}
	if gov.Active && gov.ConfirmationWaived {
		return false, gov.Reason
	}
	if skip == continuity.SkipConfirm {
		return false, skipReason
	}
	if intent.IsHighConfidence(confidence) {
		return false, "high routing confidence"
	}
	return true, "confidence below the skip bar"
}

// RecordFeedback attaches a behavioral signal to an earlier decision. Undo
// also flips the continuity tracker into a correction cycle.
func (e *Engine) RecordFeedback(ctx context.Context, req FeedbackRequest) *outcome.Outcome {
	ctx = WithUser(ctx, req.UserID)

	for _, base := range scopedKeyBases {
		if !governance.ValidateKey(base, storage.UserKey(base, req.UserID), req.Governance) {
			return nil
		}
	}

	o := e.outcomes.AddSignal(ctx, req.UserID, req.EventID, outcome.Signal{
		Type: req.Signal,
		At:   e.now().UTC(),
	})
	if o == nil {
		return nil
	}

	if req.Signal == outcome.SignalUndo {
		e.tracker.MarkUndo(ctx, req.UserID)
	}

	if req.Signal == outcome.SignalAccepted && req.Output != "" && e.learningAllowed(req.Governance) {
		e.prefs.ObserveSignals(ctx, req.UserID, preference.DetectOutputSignals(req.Output))
	}

	e.record(audit.Entry{
		EventID: req.EventID,
		UserID:  req.UserID,
		Action:  audit.ActionFeedback,
		Reason:  string(req.Signal),
	})
	return o
}

// RecordExecution notes that an authorized event actually ran.
func (e *Engine) RecordExecution(ctx context.Context, res ExecutionResult) {
	e.record(audit.Entry{
		EventID: res.EventID,
		UserID:  res.UserID,
		Action:  audit.ActionExecute,
		Detail:  fmt.Sprintf("model=%s output_chars=%d", res.Model, res.OutputChars),
	})
}

func (e *Engine) learningAllowed(gctx governance.Context) bool {
	if !gctx.Active {
		return true
	}
	perms := e.governance.Overrides().Apply(gctx, gctx.Permissions)
	return perms.Learning
}

// record writes an audit entry without blocking the pipeline.
func (e *Engine) record(entry audit.Entry) {
	if e.audit == nil {
		return
	}
	entry.Timestamp = e.now().UTC()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.audit.Log(ctx, entry); err != nil {
			log.Printf("decision: audit log: %v", err)
		}
	}()
}
