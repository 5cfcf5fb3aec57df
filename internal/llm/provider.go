package llm

import "context"

// Message is one turn in a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a single prompt submitted to a completion backend.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Messages     []Message
	Temperature  float64
	MaxTokens    int
}

// CompletionResponse is the text returned by a completion backend.
type CompletionResponse struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	DurationMS   int64
}

// Provider is the completion capability shared by the translation and judge
// paths. Implementations must be safe for concurrent use: one slow call must
// not block another caller's ability to issue a request.
//
// Failures are surfaced as *types.ErrorInfo so callers can classify them
// (transport, service 4xx/5xx, malformed response, timeout) without string
// matching.
type Provider interface {
	Name() string
	DefaultModel() string
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}
