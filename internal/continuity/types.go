package continuity

import (
	"time"

	"github.com/longkt99/scribe/internal/intent"
)

// IntentType is the recorded kind of a past routing decision.
type IntentType string

const (
	IntentCreate      IntentType = "create"
	IntentTransform   IntentType = "transform"
	IntentEditInPlace IntentType = "edit_in_place"
)

// Mode is the detected multi-turn conversational shape.
type Mode string

const (
	ModeUnknown     Mode = "unknown"
	ModeCorrection  Mode = "correction_flow"
	ModeRefine      Mode = "refine_flow"
	ModeCreate      Mode = "create_flow"
	ModeExploration Mode = "exploration_flow"
)

// HistoryItem is one past routing decision. It carries a pattern hash in
// place of the user's text.
type HistoryItem struct {
	Timestamp     time.Time    `json:"timestamp"`
	Type          IntentType   `json:"type"`
	PatternHash   string       `json:"pattern_hash"`
	Choice        string       `json:"choice,omitempty"`
	HadUndoSignal bool         `json:"had_undo_signal,omitempty"`
	RouteHint     intent.Route `json:"route_hint,omitempty"`
}

// State is the derived view over the history window. It influences UX gating
// read-only; execution logic never mutates it directly.
type State struct {
	Mode              Mode          `json:"mode"`
	ModeConfidence    float64       `json:"mode_confidence"`
	ConsecutiveCount  int           `json:"consecutive_count"`
	DominantType      IntentType    `json:"dominant_type,omitempty"`
	History           []HistoryItem `json:"history"`
	InCorrectionCycle bool          `json:"in_correction_cycle"`
	Reason            string        `json:"reason"`
}

// EmptyState is the state before any intent has been observed.
func EmptyState() State {
	return State{Mode: ModeUnknown, ModeConfidence: 0, Reason: "no history"}
}
