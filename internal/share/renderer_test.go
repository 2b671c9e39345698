package share

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/jobshare/internal/jobs"
)

type sourceFunc func(ctx context.Context, id string) (jobs.Record, error)

func (f sourceFunc) FindJob(ctx context.Context, id string) (jobs.Record, error) {
	return f(ctx, id)
}

func TestRenderer_Outcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		source     jobs.Source
		wantReason Reason
		wantTitle  string
	}{
		{
			name:       "rendered",
			source:     sourceFunc(func(context.Context, string) (jobs.Record, error) { return jobs.Record{ID: "42", JobTitle: ptr("Picker")}, nil }),
			wantReason: ReasonRendered,
			wantTitle:  "H-2B: Picker - Company | H2 Linker",
		},
		{
			name:       "source not configured",
			source:     nil,
			wantReason: ReasonConfigMissing,
			wantTitle:  "Job Opportunity | H2 Linker",
		},
		{
			name:       "not found",
			source:     sourceFunc(func(context.Context, string) (jobs.Record, error) { return jobs.Record{}, jobs.ErrNotFound }),
			wantReason: ReasonNotFound,
			wantTitle:  "Job Opportunity | H2 Linker",
		},
		{
			name:       "fetch failed",
			source:     sourceFunc(func(context.Context, string) (jobs.Record, error) { return jobs.Record{}, errors.New("status 500") }),
			wantReason: ReasonFetchFailed,
			wantTitle:  "Job Opportunity | H2 Linker",
		},
		{
			name:       "source panics",
			source:     sourceFunc(func(context.Context, string) (jobs.Record, error) { panic("nil map") }),
			wantReason: ReasonPanic,
			wantTitle:  "Job Opportunity | H2 Linker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newTestRenderer(t, tt.source, time.Second)

			res := r.Render(context.Background(), "42")

			require.Equal(t, tt.wantReason, res.Reason)
			require.Equal(t, http.StatusOK, res.Status)
			require.Equal(t, tt.wantReason != ReasonRendered, res.Degraded())
			require.Equal(t, tt.wantTitle, parse(t, res.Document).Find("title").Text())
		})
	}
}

func TestRenderer_LookupTimeout(t *testing.T) {
	t.Parallel()

	source := sourceFunc(func(ctx context.Context, _ string) (jobs.Record, error) {
		<-ctx.Done()
		return jobs.Record{}, ctx.Err()
	})
	r := newTestRenderer(t, source, 20*time.Millisecond)

	start := time.Now()
	res := r.Render(context.Background(), "slow")

	require.Equal(t, ReasonFetchFailed, res.Reason)
	require.Less(t, time.Since(start), 2*time.Second)
	require.Contains(t, res.Document, "https://h2linker.com/job/slow")
}

func TestRenderer_PropagatesCancellation(t *testing.T) {
	t.Parallel()

	var seen error
	source := sourceFunc(func(ctx context.Context, _ string) (jobs.Record, error) {
		seen = ctx.Err()
		return jobs.Record{}, ctx.Err()
	})
	r := newTestRenderer(t, source, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := r.Render(ctx, "42")

	require.ErrorIs(t, seen, context.Canceled)
	require.Equal(t, ReasonFetchFailed, res.Reason)
}

func TestReasonString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "rendered", ReasonRendered.String())
	require.Equal(t, "config_missing", ReasonConfigMissing.String())
	require.Equal(t, "not_found", ReasonNotFound.String())
	require.Equal(t, "fetch_failed", ReasonFetchFailed.String())
	require.Equal(t, "compose_failed", ReasonComposeFailed.String())
	require.Equal(t, "panic", ReasonPanic.String())
	require.Equal(t, "unknown", Reason(99).String())
}

func TestNewRendererRequiresComposer(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer(nil, nil, RendererConfig{}, nil)
	require.Error(t, err)
}

func newTestRenderer(t *testing.T, source jobs.Source, timeout time.Duration) *Renderer {
	t.Helper()
	r, err := NewRenderer(source, newTestComposer(t), RendererConfig{
		AppBaseURL:    "https://h2linker.com",
		LookupTimeout: timeout,
	}, zap.NewNop())
	require.NoError(t, err)
	return r
}
