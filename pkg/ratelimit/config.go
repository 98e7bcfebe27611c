package ratelimit

import (
	"fmt"
	"time"
)

// PublisherLimitConfig controls how many fetches are allowed against one
// publisher within one sliding window. Most publishers share the default;
// PublisherOverrides exists for the handful known to rate-limit more
// aggressively (or more tolerantly) than the rest of the watchlist.
type PublisherLimitConfig struct {
	DefaultLimit  int
	DefaultWindow time.Duration

	PublisherOverrides []PublisherOverride

	// MaxActiveKeys bounds the in-memory store's tracked-publisher count.
	MaxActiveKeys int
	// CleanupInterval is how often expired entries are swept from the store.
	CleanupInterval time.Duration
	// CleanupMaxAge removes entries idle longer than this, even if the
	// store is well under MaxActiveKeys.
	CleanupMaxAge time.Duration

	Enabled bool
}

// PublisherOverride sets a non-default limit for one publisher.
type PublisherOverride struct {
	Publisher string
	Limit     int
	Window    time.Duration
}

// Validate checks that every field is non-negative and every override
// names a publisher.
func (c *PublisherLimitConfig) Validate() error {
	if c.DefaultLimit < 0 {
		return fmt.Errorf("DefaultLimit must be non-negative, got %d", c.DefaultLimit)
	}
	if c.DefaultWindow < 0 {
		return fmt.Errorf("DefaultWindow must be non-negative, got %s", c.DefaultWindow)
	}
	if c.MaxActiveKeys < 0 {
		return fmt.Errorf("MaxActiveKeys must be non-negative, got %d", c.MaxActiveKeys)
	}
	if c.CleanupInterval < 0 {
		return fmt.Errorf("CleanupInterval must be non-negative, got %s", c.CleanupInterval)
	}
	if c.CleanupMaxAge < 0 {
		return fmt.Errorf("CleanupMaxAge must be non-negative, got %s", c.CleanupMaxAge)
	}

	for i, o := range c.PublisherOverrides {
		if o.Publisher == "" {
			return fmt.Errorf("PublisherOverrides[%d].Publisher cannot be empty", i)
		}
		if o.Limit < 0 {
			return fmt.Errorf("PublisherOverrides[%d].Limit must be non-negative, got %d", i, o.Limit)
		}
		if o.Window < 0 {
			return fmt.Errorf("PublisherOverrides[%d].Window must be non-negative, got %s", i, o.Window)
		}
	}

	return nil
}

// ApplyDefaults fills any zero-valued field with a safe default, so a
// partially-specified config (e.g. only PublisherOverrides set) still
// produces a usable limiter.
func (c *PublisherLimitConfig) ApplyDefaults() {
	if c.DefaultLimit == 0 {
		c.DefaultLimit = 6
	}
	if c.DefaultWindow == 0 {
		c.DefaultWindow = 1 * time.Minute
	}
	if c.MaxActiveKeys == 0 {
		c.MaxActiveKeys = 64
	}
	if c.CleanupInterval == 0 {
		c.CleanupInterval = 5 * time.Minute
	}
	if c.CleanupMaxAge == 0 {
		c.CleanupMaxAge = 1 * time.Hour
	}
	if !c.Enabled {
		c.Enabled = true
	}
}

// LimitFor returns the limit and window that apply to publisher: its
// override if one is configured, otherwise the default.
func (c *PublisherLimitConfig) LimitFor(publisher string) (limit int, window time.Duration) {
	for _, o := range c.PublisherOverrides {
		if o.Publisher == publisher {
			return o.Limit, o.Window
		}
	}
	return c.DefaultLimit, c.DefaultWindow
}

// DefaultConfig returns a PublisherLimitConfig with every field defaulted.
func DefaultConfig() *PublisherLimitConfig {
	cfg := &PublisherLimitConfig{}
	cfg.ApplyDefaults()
	return cfg
}
