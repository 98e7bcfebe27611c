// Package llm provides a single chat-completion abstraction shared by the
// keyword extractor and the summarizer, with two interchangeable providers
// (Anthropic Claude and OpenAI) and a no-op stand-in for tests and local
// development without API keys.
package llm

import "context"

// ChatRequest is one chat-completion call. SystemPrompt and UserMessage are
// kept as separate fields deliberately: providers must send them in distinct
// roles so that text the caller has sanitized as "user content" can never be
// mistaken by the model for an instruction from the operator.
type ChatRequest struct {
	SystemPrompt string
	UserMessage  string
	MaxTokens    int
	// Temperature is the sampling temperature; 0 lets the provider default
	// apply. Summarization uses a low value to favor factual, repeatable
	// output over creative variation.
	Temperature float64
}

// ChatResponse is a completed chat call.
type ChatResponse struct {
	Text string
}

// LLMChat is implemented by every chat-completion provider.
type LLMChat interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// Name identifies the provider for metrics and circuit breaker labeling.
	Name() string
}

// maxUserMessageChars caps the user-role content sent to a provider. Inputs
// longer than this are truncated with an ellipsis marker before the call;
// the truncation happens once, here, so every provider sees the same bound.
const maxUserMessageChars = 8000

func truncateUserMessage(s string) string {
	runes := []rune(s)
	if len(runes) <= maxUserMessageChars {
		return s
	}
	return string(runes[:maxUserMessageChars]) + "...(truncated)"
}
