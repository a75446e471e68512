package llm

import (
	"context"
	"errors"
	"time"

	"github.com/longkt99/scribe/internal/binding"
	"github.com/longkt99/scribe/internal/gate"
)

var (
	// ErrNoToken is returned when execution is attempted without a gate token.
	ErrNoToken = errors.New("execution requires a gate token")
	// ErrTokenMismatch is returned when the token does not cover this event.
	ErrTokenMismatch = errors.New("gate token does not match event")
	// ErrBindingMismatch is returned when the text no longer matches its binding.
	ErrBindingMismatch = errors.New("request text does not match its binding")
)

// Executor performs the model call for an authorized event. It re-checks the
// gate token and the request binding immediately before sending, so a stale
// or tampered request never reaches the provider.
type Executor struct {
	provider Provider
	now      func() time.Time
}

// NewExecutor creates an executor over the given provider.
func NewExecutor(provider Provider) *Executor {
	return &Executor{provider: provider, now: time.Now}
}

// WithClock overrides the executor's clock. Used in tests.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// ExecuteRequest carries everything needed to run one authorized event.
type ExecuteRequest struct {
	EventID     string
	Token       *gate.Token
	Binding     binding.Binding
	Instruction string
	Source      string
	Transform   bool
	Model       string
}

// Execute validates the token and binding, then calls the provider.
func (e *Executor) Execute(ctx context.Context, req ExecuteRequest) (*CompletionResponse, error) {
	if req.Token == nil {
		return nil, ErrNoToken
	}
	if !req.Token.Valid(req.EventID, e.now()) {
		return nil, ErrTokenMismatch
	}
	if !binding.Validate(req.Instruction, req.Binding) {
		return nil, ErrBindingMismatch
	}

	var messages []Message
	if req.Transform {
		messages = TransformRequest(req.Instruction, req.Source)
	} else {
		messages = CreateRequest(req.Instruction)
	}

	return e.provider.Complete(ctx, CompletionRequest{
		Model:    req.Model,
		Messages: messages,
	})
}
