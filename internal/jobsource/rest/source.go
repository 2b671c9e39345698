// Package rest reads job postings from a PostgREST-compatible HTTP endpoint
// such as the Supabase REST API.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JakeFAU/jobshare/internal/jobs"
)

const (
	defaultTable = "public_jobs"
	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 1 << 20
)

// Config configures a Source.
type Config struct {
	BaseURL string
	APIKey  string
	Table   string
	// HTTPClient defaults to a client with a 10s timeout.
	HTTPClient *http.Client
}

// Source implements jobs.Source over HTTP.
type Source struct {
	endpoint *url.URL
	apiKey   string
	client   *http.Client
}

// New validates cfg and returns a Source.
func New(cfg Config) (*Source, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("job source url and key are required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid job source url %q", cfg.BaseURL)
	}
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Source{
		endpoint: base.JoinPath("rest", "v1", table),
		apiKey:   cfg.APIKey,
		client:   client,
	}, nil
}

// FindJob fetches the job with the given id.
func (s *Source) FindJob(ctx context.Context, id string) (jobs.Record, error) {
	u := *s.endpoint
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", "*")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return jobs.Record{}, fmt.Errorf("build job request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return jobs.Record{}, fmt.Errorf("request job: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return jobs.Record{}, fmt.Errorf("read job response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return jobs.Record{}, fmt.Errorf("job source returned status %d: %s", resp.StatusCode, snippet(body))
	}

	var rows []jobs.Record
	if err := json.Unmarshal(body, &rows); err != nil {
		return jobs.Record{}, fmt.Errorf("decode job response: %w", err)
	}
	if len(rows) == 0 {
		return jobs.Record{}, jobs.ErrNotFound
	}
	return rows[0], nil
}

func snippet(body []byte) string {
	const n = 200
	s := strings.TrimSpace(string(body))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
