package aggregator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedLimiter_AllowsWithinBudget(t *testing.T) {
	l := NewFeedLimiter()
	ctx := context.Background()

	for i := 0; i < feedLimiterPerPublisher; i++ {
		assert.True(t, l.Allow(ctx, "연합뉴스"))
	}
}

func TestFeedLimiter_DeniesOverBudget(t *testing.T) {
	l := NewFeedLimiter()
	ctx := context.Background()

	for i := 0; i < feedLimiterPerPublisher; i++ {
		l.Allow(ctx, "한겨레")
	}
	assert.False(t, l.Allow(ctx, "한겨레"))
}

func TestFeedLimiter_TracksPublishersIndependently(t *testing.T) {
	l := NewFeedLimiter()
	ctx := context.Background()

	for i := 0; i < feedLimiterPerPublisher; i++ {
		l.Allow(ctx, "조선일보")
	}
	assert.False(t, l.Allow(ctx, "조선일보"))
	assert.True(t, l.Allow(ctx, "중앙일보"))
}
