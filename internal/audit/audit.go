package audit

import "time"

// Action describes which stage of the decision pipeline produced the entry.
type Action string

const (
	ActionAuthorize Action = "authorize"
	ActionDecline   Action = "decline"
	ActionDecide    Action = "decide"
	ActionExecute   Action = "execute"
	ActionFeedback  Action = "feedback"
	ActionRecovery  Action = "recovery"
)

// Entry is a single decision audit record. Every routing decision, execution
// and recovery action leaves one behind so a session can be reconstructed.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	EventID   string    `json:"event_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Action    Action    `json:"action"`
	Route     string    `json:"route,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
