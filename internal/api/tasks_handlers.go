package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/darmiel/dockgate/internal/api/middleware"
	"github.com/darmiel/dockgate/internal/api/presenter"
	"github.com/darmiel/dockgate/internal/core"
	"github.com/darmiel/dockgate/internal/tasks"
)

// requireTaskManager guards the admin maintenance endpoints. Requires the
// full-control permission level, like the audit queries.
func (s *Server) requireTaskManager(w http.ResponseWriter, r *http.Request) bool {
	principal := middleware.PrincipalCtx(r.Context())
	if principal == nil || principal.Level != core.PermFullControl {
		presenter.Error(w, r, "insufficient permission level", http.StatusForbidden)
		return false
	}
	if s.tasks == nil {
		presenter.Error(w, r, "task manager not available", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) handleAdminTasks(w http.ResponseWriter, r *http.Request) {
	if !s.requireTaskManager(w, r) {
		return
	}
	presenter.JSON(w, r, s.tasks.ListStatus(), http.StatusOK)
}

func (s *Server) handleAdminTaskRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireTaskManager(w, r) {
		return
	}

	name := r.PathValue("name")
	if err := s.tasks.Trigger(name); err != nil {
		var notFound tasks.TaskNotFoundError
		status := http.StatusInternalServerError
		if errors.As(err, &notFound) {
			status = http.StatusNotFound
		}
		presenter.Error(w, r, err.Error(), status)
		return
	}

	presenter.JSON(w, r, map[string]string{
		"message": fmt.Sprintf("task %s triggered", name),
	}, http.StatusAccepted)
}

func (s *Server) handleAdminTaskLogs(w http.ResponseWriter, r *http.Request) {
	if !s.requireTaskManager(w, r) {
		return
	}

	logs, err := s.tasks.GetLogs(r.PathValue("name"))
	if err != nil {
		var notFound tasks.TaskNotFoundError
		status := http.StatusInternalServerError
		if errors.As(err, &notFound) {
			status = http.StatusNotFound
		}
		presenter.Error(w, r, err.Error(), status)
		return
	}

	presenter.JSON(w, r, logs, http.StatusOK)
}
