package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// shareJob handles GET and HEAD /api/job/{jobId}. The response is always a
// 200 HTML document, either the job preview or the generic fallback.
func (s *Server) shareJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	// chi routes on RawPath when it is set, leaving the parameter encoded.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(jobID); err == nil {
			jobID = unescaped
		}
	}

	res := s.renderer.Render(r.Context(), jobID)
	if res.Degraded() {
		s.logger.Debug("served fallback share document",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("job_id", jobID),
			zap.Stringer("reason", res.Reason))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Document)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write([]byte(res.Document)); err != nil {
		s.logger.Warn("write share document failed", zap.String("job_id", jobID), zap.Error(err))
	}
}
