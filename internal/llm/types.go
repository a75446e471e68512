package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

const createSystemPrompt = `You are a writing assistant. Produce new content that follows the user's instruction. Reply with the content only, no preamble.`

const transformSystemPrompt = `You are a writing assistant. Rewrite the provided source text according to the user's instruction. Preserve the source language unless told otherwise. Reply with the rewritten text only.`

// CreateRequest builds the message list for generating new content.
func CreateRequest(instruction string) []Message {
	return []Message{
		{Role: RoleSystem, Content: createSystemPrompt},
		{Role: RoleUser, Content: instruction},
	}
}

// TransformRequest builds the message list for rewriting existing text.
func TransformRequest(instruction, source string) []Message {
	return []Message{
		{Role: RoleSystem, Content: transformSystemPrompt},
		{Role: RoleUser, Content: "Source text:\n\n" + source + "\n\nInstruction: " + instruction},
	}
}
