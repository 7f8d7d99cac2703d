package worker

// insight_worker.go
// Processes dashboard refresh jobs from QueueInsights: recomputes the
// aggregate figures and rewrites the Redis cache so GET /v1/dashboard/insights
// stays a cache hit. Retries transient failures with exponential backoff.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Refresher rebuilds the dashboard aggregates. Implemented by the insight
// service; declared here so the pool does not import the service layer.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// InsightWorker drains refresh jobs. Bursts of writes produce bursts of
// jobs; recomputing is idempotent, so processing each one is just a cheap
// overwrite of the same cache key.
type InsightWorker struct {
	refresher Refresher
}

func NewInsightWorker(refresher Refresher) *InsightWorker {
	return &InsightWorker{refresher: refresher}
}

func (w *InsightWorker) Process(ctx context.Context) {
	err := withRetry(ctx, 3, func(attempt int) error {
		if err := w.refresher.Refresh(ctx); err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("insight_worker: refresh failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("insight_worker: refresh failed after all retries")
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
