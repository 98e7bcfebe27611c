package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SlidingWindowAlgorithm counts individual request timestamps within a
// rolling window, rather than bucketing into fixed windows, so it doesn't
// allow the burst-at-the-boundary spikes a fixed window does. It guards
// against clock skew: if the system clock moves backwards for a key, it
// keeps using the last timestamp it saw for that key instead of the new,
// earlier one, so a clock adjustment can't be used to bypass the limit.
type SlidingWindowAlgorithm struct {
	clock Clock

	mu             sync.RWMutex
	lastTimestamps map[string]time.Time

	// windowDuration is set on each IsAllowed call, for GetWindowDuration.
	windowDuration time.Duration
}

// NewSlidingWindowAlgorithm builds a SlidingWindowAlgorithm using clock for
// its time source; a nil clock defaults to SystemClock.
func NewSlidingWindowAlgorithm(clock Clock) *SlidingWindowAlgorithm {
	if clock == nil {
		clock = &SystemClock{}
	}

	return &SlidingWindowAlgorithm{
		clock:          clock,
		lastTimestamps: make(map[string]time.Time),
	}
}

// IsAllowed checks key against limit within window, using store's atomic
// CheckAndAddRequest when it implements AtomicRateLimitStore to avoid a
// check-then-add race between concurrent callers for the same key.
func (a *SlidingWindowAlgorithm) IsAllowed(
	ctx context.Context,
	key string,
	store RateLimitStore,
	limit int,
	window time.Duration,
) (*RateLimitDecision, error) {
	// Store window duration for GetWindowDuration()
	a.windowDuration = window

	// Get validated timestamp with clock skew protection
	now := a.getValidTimestamp(key)

	// Calculate window start time (sliding window)
	cutoff := now.Add(-window)

	// Calculate reset time (when the oldest request will expire)
	resetAt := now.Add(window)

	// Check if store supports atomic operations to prevent TOCTOU race conditions
	if atomicStore, ok := store.(AtomicRateLimitStore); ok {
		return a.isAllowedAtomic(ctx, key, atomicStore, limit, cutoff, now, resetAt)
	}

	// Fall back to non-atomic operation for stores that don't support it
	return a.isAllowedNonAtomic(ctx, key, store, limit, cutoff, now, resetAt)
}

func (a *SlidingWindowAlgorithm) isAllowedAtomic(
	ctx context.Context,
	key string,
	store AtomicRateLimitStore,
	limit int,
	cutoff time.Time,
	now time.Time,
	resetAt time.Time,
) (*RateLimitDecision, error) {
	// Atomically check and add request
	allowed, count, err := store.CheckAndAddRequest(ctx, key, now, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to check and add request: %w", err)
	}

	if allowed {
		// Calculate remaining requests (count is after adding)
		remaining := limit - count

		return NewAllowedDecision(key, "feed_fetch", limit, remaining, resetAt), nil
	}

	// Request is denied - limit exceeded
	retryAfter := resetAt.Sub(now)

	decision := NewDeniedDecision(key, "feed_fetch", limit, resetAt)
	decision.RetryAfter = retryAfter

	return decision, nil
}

// isAllowedNonAtomic is the fallback for stores that don't implement
// AtomicRateLimitStore. It has a check-then-add race under concurrent
// callers for the same key; InMemoryRateLimitStore implements the atomic
// path instead, so this only runs against other RateLimitStore backends.
func (a *SlidingWindowAlgorithm) isAllowedNonAtomic(
	ctx context.Context,
	key string,
	store RateLimitStore,
	limit int,
	cutoff time.Time,
	now time.Time,
	resetAt time.Time,
) (*RateLimitDecision, error) {
	// Get count of requests within the window
	count, err := store.GetRequestCount(ctx, key, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get request count: %w", err)
	}

	// Check if request is allowed
	if count < limit {
		// Request is allowed - record it
		if err := store.AddRequest(ctx, key, now); err != nil {
			return nil, fmt.Errorf("failed to add request: %w", err)
		}

		// Calculate remaining requests
		remaining := limit - count - 1 // -1 for the current request

		return NewAllowedDecision(key, "feed_fetch", limit, remaining, resetAt), nil
	}

	// Request is denied - limit exceeded
	// Calculate retry-after time
	retryAfter := resetAt.Sub(now)

	decision := NewDeniedDecision(key, "feed_fetch", limit, resetAt)
	decision.RetryAfter = retryAfter

	return decision, nil
}

// GetWindowDuration returns the window last passed to IsAllowed.
func (a *SlidingWindowAlgorithm) GetWindowDuration() time.Duration {
	return a.windowDuration
}

// getValidTimestamp returns clock.Now(), clamped forward to the last
// timestamp seen for key if the clock has moved backwards since then.
func (a *SlidingWindowAlgorithm) getValidTimestamp(key string) time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Get current time
	now := a.clock.Now()

	// Get last seen timestamp for this key
	lastSeen, exists := a.lastTimestamps[key]

	if exists && now.Before(lastSeen) {
		// Clock skew detected - current time is before last seen time
		skew := lastSeen.Sub(now)

		slog.Warn("clock skew detected, using last valid timestamp",
			slog.String("key", key),
			slog.Time("now", now),
			slog.Time("last_seen", lastSeen),
			slog.Duration("skew", skew),
		)

		// Use last seen time to prevent rate limit bypass
		return lastSeen
	}

	// Update last seen timestamp
	a.lastTimestamps[key] = now

	return now
}

// CleanupExpiredTimestamps removes clock-skew tracking entries older than
// maxAge and returns the count removed. Call periodically so lastTimestamps
// doesn't grow with every publisher ever seen.
func (a *SlidingWindowAlgorithm) CleanupExpiredTimestamps(maxAge time.Duration) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()
	cutoff := now.Add(-maxAge)
	removed := 0

	for key, timestamp := range a.lastTimestamps {
		if timestamp.Before(cutoff) {
			delete(a.lastTimestamps, key)
			removed++
		}
	}

	if removed > 0 {
		slog.Debug("cleaned up expired timestamp entries",
			slog.Int("removed", removed),
			slog.Int("remaining", len(a.lastTimestamps)),
		)
	}

	return removed
}

// GetTrackedKeysCount returns how many keys are tracked for clock skew
// protection, for monitoring memory use.
func (a *SlidingWindowAlgorithm) GetTrackedKeysCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.lastTimestamps)
}
