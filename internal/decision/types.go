package decision

import (
	"context"

	"github.com/longkt99/scribe/internal/binding"
	"github.com/longkt99/scribe/internal/continuity"
	"github.com/longkt99/scribe/internal/gate"
	"github.com/longkt99/scribe/internal/governance"
	"github.com/longkt99/scribe/internal/intent"
	"github.com/longkt99/scribe/internal/outcome"
	"github.com/longkt99/scribe/internal/preference"
	"github.com/longkt99/scribe/internal/stability"
)

// Request carries one user instruction through the decision pipeline. The
// raw text is used for classification and binding only; it is never
// persisted. EventID is the id the client minted when the user initiated
// the action; resubmitting it inside the replay window is refused. When
// empty the pipeline mints one, and replay protection covers only the
// token's own lifetime.
type Request struct {
	EventID          string
	Text             string
	UserID           string
	HasActiveSource  bool
	HasLastAssistant bool
	Governance       governance.Context
}

// Decision is the full verdict for one instruction: where it routes, whether
// the confirmation step shows, and the one-time token that authorizes
// execution. A nil Token with a non-nil Declined means nothing may run.
type Decision struct {
	EventID              string              `json:"event_id"`
	Binding              binding.Binding     `json:"binding"`
	Token                *gate.Token         `json:"token,omitempty"`
	Declined             *gate.Decline       `json:"declined,omitempty"`
	Route                intent.Route        `json:"route,omitempty"`
	Confidence           float64             `json:"confidence"`
	Reason               string              `json:"reason,omitempty"`
	RequiresConfirmation bool                `json:"requires_confirmation"`
	ConfirmationReason   string              `json:"confirmation_reason,omitempty"`
	Continuity           continuity.State    `json:"continuity"`
	Band                 stability.Band      `json:"band,omitempty"`
	Bias                 preference.Bias     `json:"bias"`
	Governance           governance.Decision `json:"governance"`
}

// FeedbackRequest records a post-decision behavioral signal against an
// earlier event.
type FeedbackRequest struct {
	EventID    string
	UserID     string
	Signal     outcome.SignalType
	Output     string
	Governance governance.Context
}

// ExecutionResult reports that an authorized event actually ran.
type ExecutionResult struct {
	EventID     string
	UserID      string
	Model       string
	OutputChars int
}

type userKey struct{}

// WithUser returns a context carrying the acting user id.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFromContext returns the acting user id, or "" when unset.
func UserFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userKey{}).(string); ok {
		return v
	}
	return ""
}
