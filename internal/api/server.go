// Package api exposes the operational HTTP surface: health, the audit query
// endpoint and a thin operation dispatcher that plays the "caller" role in
// front of the authorization gateway.
package api

import (
	"net/http"

	"github.com/darmiel/dockgate/internal/api/middleware"
	"github.com/darmiel/dockgate/internal/auth"
	"github.com/darmiel/dockgate/internal/config"
	"github.com/darmiel/dockgate/internal/core"
	"github.com/darmiel/dockgate/internal/gateway"
	"github.com/darmiel/dockgate/internal/tasks"
)

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/v1/about"
	OperationRoute   = "/v1/ops/{op}"
	ListAuditsRoute  = "/v1/admin/audit"
	ListTasksRoute   = "/v1/admin/tasks"
	TaskRunRoute     = "/v1/admin/tasks/{name}/run"
	TaskLogsRoute    = "/v1/admin/tasks/{name}/logs"
)

type Server struct {
	store   *config.Store
	gateway *gateway.Gateway
	authn   *auth.Authenticator
	runtime core.ContainerRuntime

	// query serves the admin audit endpoint; nil when no queryable auditor
	// is configured.
	query core.AuditQuerier

	// tasks serves the admin maintenance endpoints; nil when no manager is
	// configured.
	tasks *tasks.Manager
}

func NewServer(
	store *config.Store,
	gw *gateway.Gateway,
	authn *auth.Authenticator,
	rt core.ContainerRuntime,
	query core.AuditQuerier,
	taskManager *tasks.Manager,
) *Server {
	return &Server{
		store:   store,
		gateway: gw,
		authn:   authn,
		runtime: rt,
		query:   query,
		tasks:   taskManager,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// authenticated routes
	authed := middleware.Authenticate(s.authn)
	mux.Handle("POST "+OperationRoute, authed(http.HandlerFunc(s.handleOperation)))
	mux.Handle("GET "+ListAuditsRoute, authed(http.HandlerFunc(s.handleAdminAudit)))
	mux.Handle("GET "+ListTasksRoute, authed(http.HandlerFunc(s.handleAdminTasks)))
	mux.Handle("POST "+TaskRunRoute, authed(http.HandlerFunc(s.handleAdminTaskRun)))
	mux.Handle("GET "+TaskLogsRoute, authed(http.HandlerFunc(s.handleAdminTaskLogs)))

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
