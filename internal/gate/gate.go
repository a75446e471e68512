// Package gate is the single synchronous checkpoint every execution request
// must clear before any routing, learning, or side effect happens. Declines
// are values, never panics: a rejected request performs zero further work.
package gate

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActionType is the kind of AI request being authorized.
type ActionType string

const (
	ActionGenerate  ActionType = "generate"
	ActionTransform ActionType = "transform"
)

var allowedActions = map[ActionType]bool{
	ActionGenerate:  true,
	ActionTransform: true,
}

// DeclineReason tags why authorization was refused.
type DeclineReason string

const (
	DeclineEmptyInput       DeclineReason = "empty_input"
	DeclineMissingEvent     DeclineReason = "missing_event_id"
	DeclineReplayedEvent    DeclineReason = "replayed_event"
	DeclineActionNotAllowed DeclineReason = "action_not_allowed"

	// Issued by the decision pipeline, not by Authorize: governance can
	// refuse execution for a role, and a request acting on one user under
	// a session governed for another is refused outright.
	DeclineExecutionForbidden DeclineReason = "execution_forbidden"
	DeclineScopeMismatch      DeclineReason = "user_scope_mismatch"
)

// Decline is a terminal, side-effect-free refusal.
type Decline struct {
	Reason DeclineReason `json:"reason"`
	Detail string        `json:"detail,omitempty"`
}

// Request asks the gate to authorize one user-initiated event.
type Request struct {
	EventID string
	Text    string
	Action  ActionType
}

// Token proves the gate approved one specific event. Downstream execution
// refuses to run without a valid token for that exact event.
type Token struct {
	EventID   string    `json:"event_id"`
	Nonce     string    `json:"nonce"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the token covers the given event at the given time.
func (t *Token) Valid(eventID string, now time.Time) bool {
	if t == nil || t.Nonce == "" {
		return false
	}
	if t.EventID == "" || t.EventID != eventID {
		return false
	}
	return !now.After(t.ExpiresAt)
}

// Gate tracks recently authorized events to refuse replays.
type Gate struct {
	mu           sync.Mutex
	seen         map[string]time.Time
	replayWindow time.Duration
	tokenTTL     time.Duration
	now          func() time.Time
}

// Options tune the gate's windows.
type Options struct {
	ReplayWindow time.Duration
	TokenTTL     time.Duration
}

// New creates a gate. Zero options fall back to a five-minute replay window
// and a two-minute token.
func New(opts Options) *Gate {
	if opts.ReplayWindow <= 0 {
		opts.ReplayWindow = 5 * time.Minute
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 2 * time.Minute
	}
	return &Gate{
		seen:         make(map[string]time.Time),
		replayWindow: opts.ReplayWindow,
		tokenTTL:     opts.TokenTTL,
		now:          time.Now,
	}
}

// WithClock overrides the gate's clock. Used in tests.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Authorize validates the request and, on success, issues a one-time token
// scoped to the event. On decline the caller must do no further work.
func (g *Gate) Authorize(req Request) (*Token, *Decline) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &Decline{Reason: DeclineEmptyInput, Detail: "instruction text is empty"}
	}
	if req.EventID == "" {
		return nil, &Decline{Reason: DeclineMissingEvent, Detail: "request carries no event id"}
	}
	if !allowedActions[req.Action] {
		return nil, &Decline{Reason: DeclineActionNotAllowed, Detail: "action " + string(req.Action) + " is not executable"}
	}

	now := g.now().UTC()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(now)
	if _, ok := g.seen[req.EventID]; ok {
		return nil, &Decline{Reason: DeclineReplayedEvent, Detail: "event " + req.EventID + " was already authorized"}
	}
	g.seen[req.EventID] = now

	return &Token{
		EventID:   req.EventID,
		Nonce:     uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(g.tokenTTL),
	}, nil
}

// prune drops seen events older than the replay window. Caller holds the
// lock.
func (g *Gate) prune(now time.Time) {
	for id, at := range g.seen {
		if now.Sub(at) > g.replayWindow {
			delete(g.seen, id)
		}
	}
}
