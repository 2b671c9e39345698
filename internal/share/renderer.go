package share

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/jobshare/internal/jobs"
	"github.com/JakeFAU/jobshare/internal/metrics"
)

// DefaultLookupTimeout bounds a single job source call.
const DefaultLookupTimeout = 5 * time.Second

// Reason records which path produced a document.
type Reason int

// Render outcomes.
const (
	ReasonRendered Reason = iota
	ReasonConfigMissing
	ReasonNotFound
	ReasonFetchFailed
	ReasonComposeFailed
	ReasonPanic
)

func (r Reason) String() string {
	switch r {
	case ReasonRendered:
		return "rendered"
	case ReasonConfigMissing:
		return "config_missing"
	case ReasonNotFound:
		return "not_found"
	case ReasonFetchFailed:
		return "fetch_failed"
	case ReasonComposeFailed:
		return "compose_failed"
	case ReasonPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Result is the outcome of Render. Document is always a complete HTML page and
// Status is always http.StatusOK; Reason exists for logs and metrics.
type Result struct {
	Document string
	Status   int
	Reason   Reason
}

// Degraded reports whether the fallback document was served.
func (r Result) Degraded() bool {
	return r.Reason != ReasonRendered
}

// RendererConfig configures a Renderer.
type RendererConfig struct {
	AppBaseURL    string
	LookupTimeout time.Duration
}

// Renderer fetches a job and composes its share document.
type Renderer struct {
	source   jobs.Source
	composer *Composer
	baseURL  string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRenderer wires a Renderer. A nil source is valid and means the job source
// is not configured; every render then serves the fallback document.
func NewRenderer(source jobs.Source, composer *Composer, cfg RendererConfig, logger *zap.Logger) (*Renderer, error) {
	if composer == nil {
		return nil, fmt.Errorf("composer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Renderer{
		source:   source,
		composer: composer,
		baseURL:  cfg.AppBaseURL,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Render produces the share document for jobID. It never fails: every error
// and panic below this call degrades to the fallback document.
func (r *Renderer) Render(ctx context.Context, jobID string) (res Result) {
	rc := RenderContext{JobID: jobID, AppBaseURL: r.baseURL}
	log := r.logger.With(zap.String("job_id", jobID))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("render panicked, serving fallback", zap.Any("panic", rec))
			res = r.fallback(rc, ReasonPanic)
		}
		metrics.ObserveRender(res.Reason.String())
	}()

	if r.source == nil {
		log.Error("job source not configured, serving fallback",
			zap.Stringer("reason", ReasonConfigMissing))
		return r.fallback(rc, ReasonConfigMissing)
	}

	rec, err := r.lookup(ctx, jobID)
	switch {
	case errors.Is(err, jobs.ErrNotFound):
		log.Warn("job not found, serving fallback", zap.Stringer("reason", ReasonNotFound))
		return r.fallback(rc, ReasonNotFound)
	case err != nil:
		log.Error("job fetch failed, serving fallback",
			zap.Stringer("reason", ReasonFetchFailed), zap.Error(err))
		return r.fallback(rc, ReasonFetchFailed)
	}

	doc, err := r.composer.Compose(rec, rc)
	if err != nil {
		log.Error("compose failed, serving fallback",
			zap.Stringer("reason", ReasonComposeFailed), zap.Error(err))
		return r.fallback(rc, ReasonComposeFailed)
	}
	log.Info("generated share document")
	return Result{Document: doc, Status: http.StatusOK, Reason: ReasonRendered}
}

func (r *Renderer) lookup(ctx context.Context, jobID string) (jobs.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	rec, err := r.source.FindJob(ctx, jobID)
	outcome := "found"
	switch {
	case errors.Is(err, jobs.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	metrics.ObserveJobLookup(outcome, time.Since(start))
	if err != nil {
		return jobs.Record{}, fmt.Errorf("find job %q: %w", jobID, err)
	}
	return rec, nil
}

func (r *Renderer) fallback(rc RenderContext, reason Reason) Result {
	return Result{
		Document: r.composer.ComposeFallback(rc),
		Status:   http.StatusOK,
		Reason:   reason,
	}
}
