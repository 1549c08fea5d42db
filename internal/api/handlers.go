package api

import (
	"net/http"

	"github.com/darmiel/dockgate/internal/api/presenter"
	"github.com/darmiel/dockgate/internal/buildinfo"
)

// healthResponse reports config reload staleness and audit sink health so a
// collaborator can observe "config last reloaded at T" / "reload failing
// since T" without polling the filesystem itself.
type healthResponse struct {
	Status           string `json:"status"`
	ConfigLastReload string `json:"config_last_reload"`
	ConfigFailing    string `json:"config_failing_since,omitempty"`
	ConfigLastError  string `json:"config_last_error,omitempty"`
	AuditFailures    uint64 `json:"audit_failures"`
	PendingOutcomes  int    `json:"pending_outcomes"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.store.Health()

	resp := healthResponse{
		Status:           "ok",
		ConfigLastReload: health.LastReload.Format("2006-01-02T15:04:05.000Z07:00"),
		ConfigLastError:  health.LastError,
		AuditFailures:    s.gateway.AuditFailures(),
		PendingOutcomes:  s.gateway.PendingCount(),
	}
	if !health.FailingSince.IsZero() {
		resp.ConfigFailing = health.FailingSince.Format("2006-01-02T15:04:05.000Z07:00")
		resp.Status = "degraded"
	}

	presenter.JSON(w, r, resp, http.StatusOK)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}
