package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/darmiel/dockgate/internal/api/middleware"
	"github.com/darmiel/dockgate/internal/api/presenter"
	"github.com/darmiel/dockgate/internal/core"
	"github.com/darmiel/dockgate/internal/filter"
	"github.com/darmiel/dockgate/internal/policy"
	"github.com/darmiel/dockgate/internal/runtime"
)

// operationParams is the request body for POST /v1/ops/{op}.
type operationParams struct {
	Container string   `json:"container,omitempty"`
	Project   string   `json:"project,omitempty"`
	Services  []string `json:"services,omitempty"`
	All       bool     `json:"all,omitempty"`
	Tail      int      `json:"tail,omitempty"`
}

type operationResult struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// handleOperation authorizes one operation via the gateway, performs the
// runtime call when allowed and reports the outcome back so the audit record
// reflects the real result.
func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	op := core.OperationKind(r.PathValue("op"))
	if _, ok := policy.Classify(op); !ok {
		presenter.Error(w, r, fmt.Sprintf("unknown operation: %s", op), http.StatusNotFound)
		return
	}

	var params operationParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		presenter.Error(w, r, "invalid request body", http.StatusBadRequest)
		return
	}

	if requiresContainer(op) && params.Container == "" {
		presenter.Error(w, r, "container is required for this operation", http.StatusBadRequest)
		return
	}
	if requiresProject(op) && params.Project == "" {
		presenter.Error(w, r, "project is required for this operation", http.StatusBadRequest)
		return
	}

	decision := s.gateway.Authorize(core.Request{
		Operation: op,
		Container: params.Container,
		Services:  params.Services,
		Principal: middleware.PrincipalCtx(r.Context()),
	})
	if !decision.Allow {
		status := http.StatusForbidden
		if decision.Reason == core.ReasonUnauthenticated {
			status = http.StatusUnauthorized
		}
		presenter.Error(w, r, decision.Message, status)
		return
	}

	result, err := s.dispatch(r.Context(), op, params)
	s.gateway.RecordOutcome(decision.ID, err == nil, errDetail(err))

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, runtime.ErrNotFound) {
			status = http.StatusNotFound
		}
		presenter.Error(w, r, err.Error(), status)
		return
	}

	presenter.JSON(w, r, result, http.StatusOK)
}

func (s *Server) dispatch(ctx context.Context, op core.OperationKind, params operationParams) (*operationResult, error) {
	rt := s.runtime

	switch op {
	case core.OpListContainers:
		containers, err := rt.ListContainers(ctx, params.All)
		if err != nil {
			return nil, err
		}
		return &operationResult{Data: s.filterSummaries(containers)}, nil

	case core.OpContainerStatus:
		summary, err := rt.ContainerStatus(ctx, params.Container)
		if err != nil {
			return nil, err
		}
		return &operationResult{Data: summary}, nil

	case core.OpContainerLogs:
		logs, err := rt.ContainerLogs(ctx, params.Container, params.Tail)
		if err != nil {
			return nil, err
		}
		return &operationResult{Data: logs}, nil

	case core.OpContainerStats:
		stats, err := rt.ContainerStats(ctx, params.Container)
		if err != nil {
			return nil, err
		}
		return &operationResult{Data: stats}, nil

	case core.OpContainerHealth:
		health, err := rt.ContainerHealth(ctx, params.Container)
		if err != nil {
			return nil, err
		}
		return &operationResult{Data: health}, nil

	case core.OpListStacks:
		stacks, err := rt.ListStacks(ctx)
		if err != nil {
			return nil, err
		}
		return &operationResult{Data: stacks}, nil

	case core.OpComposeStatus:
		containers, err := rt.ComposeStatus(ctx, params.Project)
		if err != nil {
			return nil, err
		}
		return &operationResult{Data: s.filterSummaries(containers)}, nil

	case core.OpStartContainer:
		if err := rt.StartContainer(ctx, params.Container); err != nil {
			return nil, err
		}
		return &operationResult{Message: fmt.Sprintf("started container %s", params.Container)}, nil

	case core.OpStopContainer:
		if err := rt.StopContainer(ctx, params.Container); err != nil {
			return nil, err
		}
		return &operationResult{Message: fmt.Sprintf("stopped container %s", params.Container)}, nil

	case core.OpRestartContainer:
		if err := rt.RestartContainer(ctx, params.Container); err != nil {
			return nil, err
		}
		return &operationResult{Message: fmt.Sprintf("restarted container %s", params.Container)}, nil

	case core.OpComposeUp:
		if err := rt.ComposeUp(ctx, params.Project, params.Services); err != nil {
			return nil, err
		}
		return &operationResult{Message: fmt.Sprintf("compose up for project %s", params.Project)}, nil

	case core.OpComposeDown:
		if err := rt.ComposeDown(ctx, params.Project); err != nil {
			return nil, err
		}
		return &operationResult{Message: fmt.Sprintf("compose down for project %s", params.Project)}, nil

	case core.OpComposeRestart:
		if err := rt.ComposeRestart(ctx, params.Project, params.Services); err != nil {
			return nil, err
		}
		return &operationResult{Message: fmt.Sprintf("compose restart for project %s", params.Project)}, nil
	}

	return nil, fmt.Errorf("unhandled operation: %s", op)
}

// filterSummaries drops containers the filter denies from listing results,
// so a restricted caller cannot enumerate hidden containers.
func (s *Server) filterSummaries(containers []core.ContainerSummary) []core.ContainerSummary {
	cfg := s.store.Current()

	filtered := make([]core.ContainerSummary, 0, len(containers))
	for _, c := range containers {
		if filter.Decide(c.Name, cfg).Allow {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func requiresContainer(op core.OperationKind) bool {
	switch op {
	case core.OpContainerStatus, core.OpContainerLogs, core.OpContainerStats, core.OpContainerHealth,
		core.OpStartContainer, core.OpStopContainer, core.OpRestartContainer:
		return true
	}
	return false
}

func requiresProject(op core.OperationKind) bool {
	switch op {
	case core.OpComposeStatus, core.OpComposeUp, core.OpComposeDown, core.OpComposeRestart:
		return true
	}
	return false
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
