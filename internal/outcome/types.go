package outcome

import (
	"time"

	"github.com/longkt99/scribe/internal/intent"
)

// SignalType is a recorded post-decision event used to judge, after the
// fact, whether a routing decision was good.
type SignalType string

const (
	SignalAccepted      SignalType = "accepted"
	SignalUndo          SignalType = "undo_within_window"
	SignalEditedAfter   SignalType = "edited_immediately_after"
	SignalDismissed     SignalType = "dismissed"
	SignalRegenerated   SignalType = "regenerated"
)

// Severity grades how strongly a negative outcome should count.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Signal is one appended behavioral observation.
type Signal struct {
	Type SignalType `json:"type"`
	At   time.Time  `json:"at"`
	Note string     `json:"note,omitempty"`
}

// Derived is recomputed from the signal list every time a signal is appended.
type Derived struct {
	Accepted bool     `json:"accepted"`
	Negative bool     `json:"negative"`
	Severity Severity `json:"severity"`
}

// Outcome is the append-only ledger entry for one authorized intent.
type Outcome struct {
	IntentID    string       `json:"intent_id"`
	RouteUsed   intent.Route `json:"route_used"`
	PatternHash string       `json:"pattern_hash"`
	CreatedAt   time.Time    `json:"created_at"`
	Signals     []Signal     `json:"signals"`
	Derived     Derived      `json:"derived"`
}
