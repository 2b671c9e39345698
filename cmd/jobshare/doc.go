// Package main hosts the jobshare service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes health, metrics, the status-check endpoints and the crawler-facing
//     share page at /api/job/{jobId}.
//   - Share rendering: internal/share looks the job up through a jobs.Source (Postgres or the REST API, optionally
//     behind a token bucket), extracts title and description, and renders a complete HTML document carrying Open
//     Graph and Twitter Card tags plus a redirect into the web app. Every failure degrades to a generic document
//     served with 200 so link unfurls never break.
//   - Persistence: status checks are stored as JSONB documents in Postgres (or in memory for local runs). Schema
//     migrations are embedded and applied on startup when status_store.migrate is set.
//   - Configuration & plumbing: Viper populates config from .env, env vars and an optional file; zap provides
//     structured logging; Prometheus metrics are exported via the metrics middleware and /metrics handler.
//
// Quick checklist:
//   - Configure env vars: JOBSHARE_SERVER_PORT or PORT, JOBSHARE_STATUS_STORE_DSN, JOBSHARE_STATUS_STORE_DATABASE,
//     JOBSHARE_JOB_SOURCE_URL and JOBSHARE_JOB_SOURCE_KEY (or JOBSHARE_JOB_SOURCE_DSN), JOBSHARE_SHARE_APP_BASE_URL.
//   - Run locally: go run ./cmd/jobshare -config config.yaml (or rely solely on env overrides).
//   - Cloud Run: container listens on PORT and shuts down cleanly on SIGTERM.
package main
