package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/dockgate/internal/api/middleware"
	"github.com/darmiel/dockgate/internal/api/presenter"
	"github.com/darmiel/dockgate/internal/core"
)

// handleAdminAudit serves recent or filtered audit records from the
// queryable auditor. Requires the full-control permission level.
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	principal := middleware.PrincipalCtx(ctx)
	if principal == nil || principal.Level != core.PermFullControl {
		presenter.Error(w, r, "insufficient permission level", http.StatusForbidden)
		return
	}

	if s.query == nil {
		presenter.Error(w, r, "audit queries not available", http.StatusNotImplemented)
		return
	}

	// filters
	q := r.URL.Query()
	limitStr := q.Get("limit")

	filterCorrelationID := q.Get("correlation_id")
	filterOperation := q.Get("operation")
	filterContainer := q.Get("container")

	limit := 50
	if limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			logger.Warn().Err(err).Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	var records []core.AuditRecord
	var err error

	if filterCorrelationID != "" || filterOperation != "" || filterContainer != "" {
		records, err = s.query.Find(func(rec core.AuditRecord) bool {
			if filterCorrelationID != "" && rec.ID != filterCorrelationID {
				return false
			}
			if filterOperation != "" && string(rec.Operation) != filterOperation {
				return false
			}
			if filterContainer != "" && rec.Container != filterContainer {
				return false
			}
			return true
		}, limit)
	} else {
		records, err = s.query.GetRecent(limit)
	}

	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve audit records")
		presenter.Error(w, r, "failed to retrieve audit records", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, records, http.StatusOK)
}
