package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"newsdigest/internal/domain/entity"
)

// HealthServer exposes the worker's liveness, readiness, and last-crawl
// status over HTTP for Kubernetes probes and ad hoc operator checks.
//   - /health: liveness probe (always returns 200 OK)
//   - /health/ready: readiness probe (200 once the cron loop has started,
//     503 before that or once the failure streak trips degraded)
//   - /health/last-run: JSON snapshot of the most recent crawl's
//     PipelineStats, for diagnosing a run that completed but dropped
//     everything rather than one that never ran
//
// The server supports graceful shutdown via context cancellation.
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	isReady *atomic.Bool
	server  *http.Server

	mu             sync.Mutex
	lastRun        *entity.PipelineStats
	lastRunAt      time.Time
	consecutiveErr int
}

// maxConsecutiveFailures is the number of back-to-back crawl errors after
// which readiness flips to not-ready even though the process is alive,
// so an orchestrator can cycle the pod rather than keep feeding it traffic
// that will only fail the same way.
const maxConsecutiveFailures = 3

// healthResponse is the JSON response format for the liveness/readiness
// endpoints.
type healthResponse struct {
	Status string `json:"status"`
}

// lastRunResponse is the JSON response format for /health/last-run.
type lastRunResponse struct {
	RanAt              time.Time                  `json:"ran_at"`
	FeedsAttempted     int                        `json:"feeds_attempted"`
	FeedsSucceeded     int                        `json:"feeds_succeeded"`
	EntriesDiscovered  int                        `json:"entries_discovered"`
	EntriesFiltered    int                        `json:"entries_filtered"`
	ArticlesExtracted  int                        `json:"articles_extracted"`
	SummariesSucceeded int                        `json:"summaries_succeeded"`
	DroppedByReason    map[entity.DropReason]int  `json:"dropped_by_reason"`
	ConsecutiveErrors  int                        `json:"consecutive_errors"`
}

// NewHealthServer creates a health check server listening on addr, not yet
// started.
func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	isReady := &atomic.Bool{}
	isReady.Store(false) // Start as not ready

	return &HealthServer{
		addr:    addr,
		logger:  logger,
		isReady: isReady,
	}
}

// Start starts the health check HTTP server.
// This is a blocking call that runs until the context is cancelled or an error occurs.
// It supports graceful shutdown with a 5-second timeout.
//
// Endpoints:
//   - GET /health: Liveness probe (always 200 OK)
//   - GET /health/ready: Readiness probe (200 if ready, 503 if not)
//
// Parameters:
//   - ctx: Context for cancellation and shutdown
//
// Returns:
//   - error: http.ErrServerClosed on graceful shutdown, other errors on failure
//
// Example:
//
//	healthServer := NewHealthServer(":9091", logger)
//	go func() {
//	    if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
//	        logger.Error("health server failed", slog.Any("error", err))
//	    }
//	}()
func (h *HealthServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)
	mux.HandleFunc("/health/last-run", h.handleLastRun)

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		if err := h.server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.logger.Info("health server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed

	case err := <-errChan:
		if err == http.ErrServerClosed {
			return err
		}
		h.logger.Error("health server failed", slog.Any("error", err))
		return err
	}
}

// SetReady sets the readiness state of the server.
// This affects the response of the /health/ready endpoint.
//
// Parameters:
//   - ready: true to mark as ready, false to mark as not ready
//
// Example:
//
//	// After initialization is complete
//	healthServer.SetReady(true)
//
//	// Before shutdown
//	healthServer.SetReady(false)
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

// RecordRun records the outcome of one crawl so /health/ready and
// /health/last-run can reflect it. A nil stats with a non-nil err counts as
// a failed run (e.g. the overall deadline expired before any feed was
// fetched); maxConsecutiveFailures of these in a row flips readiness off
// even though the process itself is still alive.
func (h *HealthServer) RecordRun(stats *entity.PipelineStats, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastRun = stats
	h.lastRunAt = time.Now()

	if err != nil || stats == nil || stats.FeedsSucceeded == 0 {
		h.consecutiveErr++
	} else {
		h.consecutiveErr = 0
	}

	if h.consecutiveErr >= maxConsecutiveFailures {
		h.logger.Warn("crawl failure streak exceeded threshold, marking not ready",
			slog.Int("consecutive_failures", h.consecutiveErr))
		h.isReady.Store(false)
	}
}

// handleLiveness handles the /health endpoint (liveness probe).
// Always returns 200 OK with {"status":"ok"}.
//
// This endpoint is used by Kubernetes liveness probes to determine if the
// container should be restarted. It always returns success unless the server
// is completely dead (in which case it won't respond at all).
func (h *HealthServer) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
		h.logger.Error("failed to encode liveness response", slog.Any("error", err))
	}
}

// handleReadiness handles the /health/ready endpoint (readiness probe).
// Returns 200 OK if ready, 503 Service Unavailable if not ready.
//
// This endpoint is used by Kubernetes readiness probes to determine if the
// container should receive traffic. It returns success only when the worker
// is fully initialized and ready to process jobs.
func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.isReady.Load() {
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
			h.logger.Error("failed to encode readiness response", slog.Any("error", err))
		}
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "not ready"}); err != nil {
			h.logger.Error("failed to encode not ready response", slog.Any("error", err))
		}
	}
}

// handleLastRun serves the most recent crawl's PipelineStats as JSON, or
// 404 if no crawl has completed yet.
func (h *HealthServer) handleLastRun(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	stats, ranAt, consecutiveErr := h.lastRun, h.lastRunAt, h.consecutiveErr
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if stats == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(healthResponse{Status: "no crawl has run yet"})
		return
	}

	resp := lastRunResponse{
		RanAt:              ranAt,
		FeedsAttempted:     stats.FeedsAttempted,
		FeedsSucceeded:     stats.FeedsSucceeded,
		EntriesDiscovered:  stats.EntriesDiscovered,
		EntriesFiltered:    stats.EntriesFiltered,
		ArticlesExtracted:  stats.ArticlesExtracted,
		SummariesSucceeded: stats.SummariesSucceeded,
		DroppedByReason:    stats.DroppedByReason,
		ConsecutiveErrors:  consecutiveErr,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode last-run response", slog.Any("error", err))
	}
}
