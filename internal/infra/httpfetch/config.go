package httpfetch

import (
	"time"

	pkgconfig "newsdigest/pkg/config"
)

// Config controls the shared HTTP client's limits. All outbound requests in
// the pipeline (feed fetches and article body fetches alike) go through a
// client built from this configuration, so SSRF and size guards apply
// uniformly.
type Config struct {
	Timeout        time.Duration
	MaxRedirects   int
	MaxBodyBytes   int64
	MaxIdleConns   int
	MaxConnsPerHost int
	DenyPrivateIPs bool
}

// DefaultConfig returns the pipeline's default fetch limits: 10s timeout, 3
// redirects, 4 MiB decoded body cap.
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		MaxRedirects:    3,
		MaxBodyBytes:    4 << 20,
		MaxIdleConns:    20,
		MaxConnsPerHost: 10,
		DenyPrivateIPs:  true,
	}
}

// LoadConfigFromEnv overlays DefaultConfig with HTTPFETCH_* environment
// variables, following the teacher's GetEnv* + DefaultConfig overlay pattern.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Timeout = pkgconfig.GetEnvDuration("HTTPFETCH_TIMEOUT", cfg.Timeout)
	cfg.MaxRedirects = pkgconfig.GetEnvInt("HTTPFETCH_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.MaxBodyBytes = int64(pkgconfig.GetEnvInt("HTTPFETCH_MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.DenyPrivateIPs = pkgconfig.GetEnvBool("HTTPFETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	return cfg
}
