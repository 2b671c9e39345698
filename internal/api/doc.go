// Package api hosts the HTTP server, middleware, and handlers. Notable routes:
//   - GET /healthz and /readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//   - POST and GET /api/status for client health checks.
//   - GET /api/job/{jobId} for the crawler-facing share document.
package api
