package llm

import "context"

// NoOp is an LLMChat that echoes a truncated prefix of the user message. It
// exists so the pipeline can run end-to-end without API keys configured, for
// local development and for components that fall back to non-LLM paths.
type NoOp struct {
	MaxEchoChars int
}

// NewNoOp returns a NoOp provider with a 500-character echo window.
func NewNoOp() *NoOp {
	return &NoOp{MaxEchoChars: 500}
}

// Name implements LLMChat.
func (n *NoOp) Name() string { return "noop" }

// Chat implements LLMChat.
func (n *NoOp) Chat(_ context.Context, req ChatRequest) (ChatResponse, error) {
	runes := []rune(req.UserMessage)
	limit := n.MaxEchoChars
	if limit <= 0 || limit > len(runes) {
		limit = len(runes)
	}
	text := string(runes[:limit])
	if limit < len(runes) {
		text += "..."
	}
	return ChatResponse{Text: text}, nil
}
