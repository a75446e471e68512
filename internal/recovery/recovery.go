// Package recovery implements the always-available escape hatches: undo,
// dismiss, pattern reset, learning kill switch and full reset. Every action
// is idempotent and none of them ever triggers generation.
package recovery

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/longkt99/scribe/internal/audit"
	"github.com/longkt99/scribe/internal/continuity"
	"github.com/longkt99/scribe/internal/governance"
	"github.com/longkt99/scribe/internal/outcome"
	"github.com/longkt99/scribe/internal/preference"
)

// Result is the confirmation returned by every recovery action.
type Result struct {
	Action  string `json:"action"`
	Applied bool   `json:"applied"`
	Message string `json:"message"`
}

// Service bundles the stores a recovery action may touch.
type Service struct {
	tracker    *continuity.Tracker
	prefs      *preference.Store
	outcomes   *outcome.Store
	governance *governance.Engine
	audit      *audit.Store
	now        func() time.Time
}

// NewService wires the recovery actions. The audit store may be nil.
func NewService(tracker *continuity.Tracker, prefs *preference.Store, outcomes *outcome.Store, gov *governance.Engine, auditStore *audit.Store) *Service {
	return &Service{
		tracker:    tracker,
		prefs:      prefs,
		outcomes:   outcomes,
		governance: gov,
		audit:      auditStore,
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Used in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// UndoLast marks the most recent decision as undone. The next decision for
// this user will see a correction cycle.
func (s *Service) UndoLast(ctx context.Context, userID string) Result {
	latest := s.outcomes.Latest(ctx, userID)
	if latest != nil {
		s.outcomes.AddSignal(ctx, userID, latest.IntentID, outcome.Signal{
			Type: outcome.SignalUndo,
			At:   s.now().UTC(),
		})
	}
	marked := s.tracker.MarkUndo(ctx, userID)

	applied := latest != nil || marked
	msg := "nothing to undo"
	if applied {
		msg = "last decision undone"
	}
	s.record(ctx, userID, "undo_last", msg)
	return Result{Action: "undo_last", Applied: applied, Message: msg}
}

// Dismiss records "don't do this again" for the most recent decision and
// resets the track record of its pattern, so it stops earning trust.
func (s *Service) Dismiss(ctx context.Context, userID string) Result {
	latest := s.outcomes.Latest(ctx, userID)
	if latest == nil {
		s.record(ctx, userID, "dismiss", "nothing to dismiss")
		return Result{Action: "dismiss", Applied: false, Message: "nothing to dismiss"}
	}

	s.outcomes.AddSignal(ctx, userID, latest.IntentID, outcome.Signal{
		Type: outcome.SignalDismissed,
		At:   s.now().UTC(),
	})
	cleared := s.outcomes.ResetPattern(ctx, userID, latest.PatternHash)

	msg := fmt.Sprintf("dismissed; %d earlier decisions for this pattern forgotten", cleared)
	s.record(ctx, userID, "dismiss", msg)
	return Result{Action: "dismiss", Applied: true, Message: msg}
}

// ResetPattern forgets the track record of one pattern.
func (s *Service) ResetPattern(ctx context.Context, userID, patternHash string) Result {
	cleared := s.outcomes.ResetPattern(ctx, userID, patternHash)
	msg := fmt.Sprintf("forgot %d decisions for the pattern", cleared)
	s.record(ctx, userID, "reset_pattern", msg)
	return Result{Action: "reset_pattern", Applied: true, Message: msg}
}

// DisableLearning stops preference learning for the user until re-enabled.
// Already-disabled users stay disabled.
func (s *Service) DisableLearning(ctx context.Context, userID string) Result {
	s.governance.Overrides().RestrictUser(userID, governance.Restriction{
		DisableLearning: true,
		DisableBias:     true,
	})
	msg := "preference learning disabled for this session"
	s.record(ctx, userID, "disable_learning", msg)
	return Result{Action: "disable_learning", Applied: true, Message: msg}
}

// EnableLearning lifts a learning restriction. Idempotent.
func (s *Service) EnableLearning(ctx context.Context, userID string) Result {
	s.governance.Overrides().ClearUser(userID)
	msg := "preference learning enabled"
	s.record(ctx, userID, "enable_learning", msg)
	return Result{Action: "enable_learning", Applied: true, Message: msg}
}

// ResetAll forgets everything learned about the user: preferences, intent
// history and the outcome ledger.
func (s *Service) ResetAll(ctx context.Context, userID string) Result {
	s.prefs.ResetAll(ctx, userID)
	s.tracker.Reset(ctx, userID)
	s.outcomes.Reset(ctx, userID)
	msg := "all learned state forgotten"
	s.record(ctx, userID, "reset_all", msg)
	return Result{Action: "reset_all", Applied: true, Message: msg}
}

func (s *Service) record(ctx context.Context, userID, action, detail string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Log(ctx, audit.Entry{
		UserID: userID,
		Action: audit.ActionRecovery,
		Reason: action,
		Detail: detail,
	})
	if err != nil {
		log.Printf("recovery: audit log: %v", err)
	}
}
