package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/jobshare/internal/metrics"
	"github.com/JakeFAU/jobshare/internal/store"
)

type statusCheckRequest struct {
	ClientName string `json:"client_name" validate:"required"`
}

// createStatusCheck handles POST /api/status. It returns the stored record,
// 400 for malformed JSON, 422 when client_name is missing, or 500 when the
// store rejects the write.
func (s *Server) createStatusCheck(w http.ResponseWriter, r *http.Request) {
	var req statusCheckRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	trimmed := req
	trimmed.ClientName = strings.TrimSpace(req.ClientName)
	if err := s.validate.Struct(trimmed); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "client_name is required")
		return
	}

	id, err := s.idGen.NewID()
	if err != nil {
		s.logger.Error("generate status check id failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create status check")
		return
	}
	check := store.StatusCheck{
		ID:         id,
		ClientName: req.ClientName,
		Timestamp:  s.clock.Now(),
	}
	if err := s.statuses.CreateStatusCheck(r.Context(), check); err != nil {
		if errors.Is(err, store.ErrInvalid) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("create status check failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create status check")
		return
	}
	metrics.IncStatusChecksCreated()
	writeJSON(w, http.StatusOK, check)
}

// listStatusChecks handles GET /api/status and always answers with a JSON
// array, empty when nothing has been recorded.
func (s *Server) listStatusChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := s.statuses.ListStatusChecks(r.Context(), store.MaxStatusChecks)
	if err != nil {
		s.logger.Error("list status checks failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list status checks")
		return
	}
	if checks == nil {
		checks = []store.StatusCheck{}
	}
	writeJSON(w, http.StatusOK, checks)
}
