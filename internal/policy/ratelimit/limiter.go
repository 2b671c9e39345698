// Package ratelimit implements a token bucket limiter in front of the job source.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/JakeFAU/jobshare/internal/jobs"
	"github.com/JakeFAU/jobshare/internal/metrics"
)

// Config holds rate limiter configuration.
type Config struct {
	RPS   float64
	Burst int
}

// Source wraps a jobs.Source with a process-wide rate limit.
type Source struct {
	next    jobs.Source
	limiter *rate.Limiter
}

// New wraps next. A non-positive RPS disables limiting and returns next unchanged.
func New(next jobs.Source, cfg Config) jobs.Source {
	if next == nil || cfg.RPS <= 0 {
		return next
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Source{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), burst),
	}
}

// FindJob blocks until a token is available, respecting the context, then delegates.
func (s *Source) FindJob(ctx context.Context, id string) (jobs.Record, error) {
	start := time.Now()
	if err := s.limiter.Wait(ctx); err != nil {
		return jobs.Record{}, fmt.Errorf("rate limit wait: %w", err)
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObserveRateLimitDelay(waited)
	}
	rec, err := s.next.FindJob(ctx, id)
	if err != nil {
		return jobs.Record{}, fmt.Errorf("limited source: %w", err)
	}
	return rec, nil
}
