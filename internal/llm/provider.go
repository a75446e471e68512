package llm

import "context"

// Provider is the model backend that turns an authorized instruction into
// generated or transformed text.
type Provider interface {
	// Complete sends one completion request and returns the model output.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name identifies the backend in logs and execution records.
	Name() string
}
