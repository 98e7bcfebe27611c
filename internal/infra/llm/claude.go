package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"newsdigest/internal/resilience/circuitbreaker"
	"newsdigest/internal/resilience/retry"
)

// ClaudeConfig configures the Claude provider.
type ClaudeConfig struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// DefaultClaudeConfig returns sensible defaults for Claude chat calls.
func DefaultClaudeConfig() ClaudeConfig {
	return ClaudeConfig{
		Model:     string(anthropic.ModelClaudeSonnet4_5_20250929),
		MaxTokens: 1024,
		Timeout:   20 * time.Second,
	}
}

// Claude implements LLMChat against Anthropic's Messages API.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         ClaudeConfig
	metrics        CallMetricsRecorder
}

// NewClaude builds a Claude provider with the pipeline's standard retry
// ladder and a dedicated circuit breaker.
func NewClaude(apiKey string, config ClaudeConfig) *Claude {
	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
		config:         config,
		metrics:        NewPrometheusCallMetrics(),
	}
}

// Name implements LLMChat.
func (c *Claude) Name() string { return "claude" }

// Chat implements LLMChat.
func (c *Claude) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	requestID := uuid.New().String()
	userMessage := truncateUserMessage(req.UserMessage)
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	var resp ChatResponse
	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		start := time.Now()
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.call(ctx, req.SystemPrompt, userMessage, maxTokens, req.Temperature)
		})
		duration := time.Since(start)
		c.metrics.RecordDuration(c.Name(), duration)

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.WarnContext(ctx, "claude circuit breaker open",
					slog.String("request_id", requestID))
				return fmt.Errorf("claude unavailable: circuit breaker open")
			}
			return err
		}
		resp = cbResult.(ChatResponse)
		return nil
	})
	if retryErr != nil {
		c.metrics.RecordError(c.Name())
		return ChatResponse{}, fmt.Errorf("claude chat failed after retries: %w", retryErr)
	}
	return resp, nil
}

func (c *Claude) call(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float64) (ChatResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("claude api error: %w", err)
	}
	if len(message.Content) == 0 {
		return ChatResponse{}, fmt.Errorf("claude api returned empty response")
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return ChatResponse{}, fmt.Errorf("claude api returned unexpected response type")
	}
	return ChatResponse{Text: textBlock.Text}, nil
}
