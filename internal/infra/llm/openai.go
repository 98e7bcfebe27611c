package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"newsdigest/internal/resilience/circuitbreaker"
	"newsdigest/internal/resilience/retry"
)

// OpenAIConfig configures the OpenAI provider.
type OpenAIConfig struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// DefaultOpenAIConfig returns sensible defaults for OpenAI chat calls.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:     openai.GPT4oMini,
		MaxTokens: 1024,
		Timeout:   20 * time.Second,
	}
}

// OpenAI implements LLMChat against OpenAI's chat completions API.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         OpenAIConfig
	metrics        CallMetricsRecorder
}

// NewOpenAI builds an OpenAI provider.
func NewOpenAI(apiKey string, config OpenAIConfig) *OpenAI {
	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
		config:         config,
		metrics:        NewPrometheusCallMetrics(),
	}
}

// Name implements LLMChat.
func (o *OpenAI) Name() string { return "openai" }

// Chat implements LLMChat. The system prompt and user content are sent in
// their own distinct roles, never merged into one message: a summarizer or
// keyword extractor that hands this provider untrusted article text expects
// that text to be treated as data, not as instructions.
func (o *OpenAI) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	userMessage := truncateUserMessage(req.UserMessage)
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = o.config.MaxTokens
	}

	var resp ChatResponse
	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		start := time.Now()
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.call(ctx, req.SystemPrompt, userMessage, maxTokens, req.Temperature)
		})
		duration := time.Since(start)
		o.metrics.RecordDuration(o.Name(), duration)

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.WarnContext(ctx, "openai circuit breaker open")
				return fmt.Errorf("openai unavailable: circuit breaker open")
			}
			return err
		}
		resp = cbResult.(ChatResponse)
		return nil
	})
	if retryErr != nil {
		o.metrics.RecordError(o.Name())
		return ChatResponse{}, fmt.Errorf("openai chat failed after retries: %w", retryErr)
	}
	return resp, nil
}

func (o *OpenAI) call(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float64) (ChatResponse, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	req := openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if temperature > 0 {
		req.Temperature = float32(temperature)
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ChatResponse{}, fmt.Errorf("openai api returned empty response")
	}
	return ChatResponse{Text: resp.Choices[0].Message.Content}, nil
}
