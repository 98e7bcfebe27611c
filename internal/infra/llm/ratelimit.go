package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps an LLMChat with a token-bucket limiter, so the pipeline
// never exceeds a provider's requests-per-second quota even when many
// articles are being summarized concurrently.
type RateLimited struct {
	inner   LLMChat
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with a limiter allowing ratePerSecond requests
// per second and a burst of burst.
func NewRateLimited(inner LLMChat, ratePerSecond float64, burst int) *RateLimited {
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// Name implements LLMChat.
func (r *RateLimited) Name() string { return r.inner.Name() }

// Chat implements LLMChat, blocking until the limiter admits the call or ctx
// is canceled.
func (r *RateLimited) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return ChatResponse{}, fmt.Errorf("rate limit wait for %s: %w", r.inner.Name(), err)
	}
	return r.inner.Chat(ctx, req)
}
