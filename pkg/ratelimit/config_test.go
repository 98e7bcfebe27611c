package ratelimit

import (
	"testing"
	"time"
)

func TestPublisherLimitConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *PublisherLimitConfig
		wantErr bool
	}{
		{
			name: "valid config",
			config: &PublisherLimitConfig{
				DefaultLimit:    6,
				DefaultWindow:   1 * time.Minute,
				MaxActiveKeys:   64,
				CleanupInterval: 5 * time.Minute,
				CleanupMaxAge:   1 * time.Hour,
				Enabled:         true,
			},
			wantErr: false,
		},
		{
			name:    "negative default limit",
			config:  &PublisherLimitConfig{DefaultLimit: -1},
			wantErr: true,
		},
		{
			name:    "negative default window",
			config:  &PublisherLimitConfig{DefaultLimit: 6, DefaultWindow: -1 * time.Minute},
			wantErr: true,
		},
		{
			name:    "negative max active keys",
			config:  &PublisherLimitConfig{DefaultLimit: 6, MaxActiveKeys: -1},
			wantErr: true,
		},
		{
			name:    "negative cleanup interval",
			config:  &PublisherLimitConfig{DefaultLimit: 6, CleanupInterval: -1 * time.Minute},
			wantErr: true,
		},
		{
			name:    "negative cleanup max age",
			config:  &PublisherLimitConfig{DefaultLimit: 6, CleanupMaxAge: -1 * time.Hour},
			wantErr: true,
		},
		{
			name: "override with empty publisher",
			config: &PublisherLimitConfig{
				DefaultLimit: 6,
				PublisherOverrides: []PublisherOverride{
					{Publisher: "", Limit: 3, Window: 1 * time.Minute},
				},
			},
			wantErr: true,
		},
		{
			name: "override with negative limit",
			config: &PublisherLimitConfig{
				DefaultLimit: 6,
				PublisherOverrides: []PublisherOverride{
					{Publisher: "연합뉴스", Limit: -1, Window: 1 * time.Minute},
				},
			},
			wantErr: true,
		},
		{
			name: "override with negative window",
			config: &PublisherLimitConfig{
				DefaultLimit: 6,
				PublisherOverrides: []PublisherOverride{
					{Publisher: "연합뉴스", Limit: 3, Window: -1 * time.Minute},
				},
			},
			wantErr: true,
		},
		{
			name:    "zero values pass validation",
			config:  &PublisherLimitConfig{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublisherLimitConfig_ApplyDefaults(t *testing.T) {
	config := &PublisherLimitConfig{}
	config.ApplyDefaults()

	if config.DefaultLimit != 6 {
		t.Errorf("DefaultLimit = %v, want 6", config.DefaultLimit)
	}
	if config.DefaultWindow != 1*time.Minute {
		t.Errorf("DefaultWindow = %v, want 1m", config.DefaultWindow)
	}
	if config.MaxActiveKeys != 64 {
		t.Errorf("MaxActiveKeys = %v, want 64", config.MaxActiveKeys)
	}
	if config.CleanupInterval != 5*time.Minute {
		t.Errorf("CleanupInterval = %v, want 5m", config.CleanupInterval)
	}
	if config.CleanupMaxAge != 1*time.Hour {
		t.Errorf("CleanupMaxAge = %v, want 1h", config.CleanupMaxAge)
	}
	if !config.Enabled {
		t.Error("Enabled should be true by default")
	}
}

func TestPublisherLimitConfig_LimitFor(t *testing.T) {
	config := &PublisherLimitConfig{
		DefaultLimit:  6,
		DefaultWindow: 1 * time.Minute,
		PublisherOverrides: []PublisherOverride{
			{Publisher: "연합뉴스", Limit: 20, Window: 1 * time.Minute},
			{Publisher: "한겨레", Limit: 2, Window: 1 * time.Minute},
		},
	}

	tests := []struct {
		name       string
		publisher  string
		wantLimit  int
		wantWindow time.Duration
	}{
		{"overridden publisher with higher limit", "연합뉴스", 20, 1 * time.Minute},
		{"overridden publisher with lower limit", "한겨레", 2, 1 * time.Minute},
		{"unlisted publisher returns default", "중앙일보", 6, 1 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLimit, gotWindow := config.LimitFor(tt.publisher)
			if gotLimit != tt.wantLimit {
				t.Errorf("LimitFor() limit = %v, want %v", gotLimit, tt.wantLimit)
			}
			if gotWindow != tt.wantWindow {
				t.Errorf("LimitFor() window = %v, want %v", gotWindow, tt.wantWindow)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.DefaultLimit == 0 {
		t.Error("DefaultConfig() should set DefaultLimit")
	}
	if !config.Enabled {
		t.Error("DefaultConfig() should enable rate limiting")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig() should return a valid config, got error: %v", err)
	}
}
