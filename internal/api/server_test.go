package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/dockgate/internal/audit"
	"github.com/darmiel/dockgate/internal/auth"
	"github.com/darmiel/dockgate/internal/config"
	"github.com/darmiel/dockgate/internal/core"
	"github.com/darmiel/dockgate/internal/gateway"
	"github.com/darmiel/dockgate/internal/logging"
	"github.com/darmiel/dockgate/internal/runtime"
	"github.com/darmiel/dockgate/internal/tasks"
)

type testEnv struct {
	handler http.Handler
	mem     *audit.InMemoryAuditor
	gate    *gateway.Gateway
}

func newTestEnv(t *testing.T, permissionLevel string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	settings := []byte("auth:\n  enabled: true\n  password: hunter2\n  permission_level: " + permissionLevel + "\nfilter:\n  mode: allow_only\n  allowed:\n    - \"web-*\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.BaseFileName), settings, 0o600))

	store, err := config.NewStore(dir, "")
	require.NoError(t, err)

	mem := audit.NewInMemoryAuditor()
	gate := gateway.New(store, mem)
	t.Cleanup(func() {
		_ = gate.Close()
	})

	rt := runtime.NewStub(
		core.ContainerSummary{Name: "web-1", Image: "nginx:latest", Stack: "shop"},
		core.ContainerSummary{Name: "web-2", Image: "nginx:latest", Stack: "shop"},
		core.ContainerSummary{Name: "db-1", Image: "postgres:16", Stack: "shop"},
	)

	manager := tasks.NewManager()
	t.Cleanup(func() {
		_ = manager.Close()
	})
	manager.Register("noop", 0, func(context.Context, logging.InternalLogger) error {
		return nil
	})

	srv := NewServer(store, gate, auth.New(store), rt, mem, manager)
	return &testEnv{handler: srv.Routes(), mem: mem, gate: gate}
}

func (e *testEnv) request(t *testing.T, method, target, credential string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestOperation_AllowedStart(t *testing.T) {
	env := newTestEnv(t, "full-control")

	rec := env.request(t, http.MethodPost, "/v1/ops/start_container", "hunter2",
		operationParams{Container: "web-1"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeBody[operationResult](t, rec)
	assert.Equal(t, "started container web-1", result.Message)

	// the outcome was reported, so exactly one completed record exists
	recs, err := env.mem.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Allowed)
	require.NotNil(t, recs[0].Success)
	assert.True(t, *recs[0].Success)
	assert.Equal(t, 0, env.gate.PendingCount())
}

func TestOperation_FilterDenied(t *testing.T) {
	env := newTestEnv(t, "full-control")

	rec := env.request(t, http.MethodPost, "/v1/ops/start_container", "hunter2",
		operationParams{Container: "db-1"})

	require.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeBody[map[string]any](t, rec)
	assert.Contains(t, resp["error"], "db-1")
}

func TestOperation_PermissionDenied(t *testing.T) {
	env := newTestEnv(t, "read-only")

	rec := env.request(t, http.MethodPost, "/v1/ops/start_container", "hunter2",
		operationParams{Container: "web-1"})

	require.Equal(t, http.StatusForbidden, rec.Code)

	// read operations still work for the same principal
	rec = env.request(t, http.MethodPost, "/v1/ops/container_status", "hunter2",
		operationParams{Container: "web-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestOperation_Unauthenticated(t *testing.T) {
	env := newTestEnv(t, "full-control")

	for _, credential := range []string{"", "wrong-password"} {
		rec := env.request(t, http.MethodPost, "/v1/ops/list_containers", credential, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestOperation_UnknownOperation(t *testing.T) {
	env := newTestEnv(t, "full-control")

	rec := env.request(t, http.MethodPost, "/v1/ops/self_destruct", "hunter2", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOperation_MissingParameters(t *testing.T) {
	env := newTestEnv(t, "full-control")

	rec := env.request(t, http.MethodPost, "/v1/ops/start_container", "hunter2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.request(t, http.MethodPost, "/v1/ops/compose_up", "hunter2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOperation_ContainerNotFound(t *testing.T) {
	env := newTestEnv(t, "full-control")

	rec := env.request(t, http.MethodPost, "/v1/ops/start_container", "hunter2",
		operationParams{Container: "web-404"})

	require.Equal(t, http.StatusNotFound, rec.Code)

	// the audit record reflects the runtime failure
	recs, err := env.mem.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Allowed)
	require.NotNil(t, recs[0].Success)
	assert.False(t, *recs[0].Success)
	assert.NotEmpty(t, recs[0].Error)
}

func TestOperation_ListHidesFilteredContainers(t *testing.T) {
	env := newTestEnv(t, "read-only")

	rec := env.request(t, http.MethodPost, "/v1/ops/list_containers", "hunter2",
		operationParams{All: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody[struct {
		Data []core.ContainerSummary `json:"data"`
	}](t, rec)

	names := make([]string, 0, len(result.Data))
	for _, c := range result.Data {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"web-1", "web-2"}, names)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	env := newTestEnv(t, "full-control")

	rec := env.request(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	health := decodeBody[healthResponse](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.ConfigLastReload)
	assert.Zero(t, health.AuditFailures)
	assert.Zero(t, health.PendingOutcomes)
}

func TestAboutEndpointIsPublic(t *testing.T) {
	env := newTestEnv(t, "full-control")

	rec := env.request(t, http.MethodGet, "/v1/about", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAudit(t *testing.T) {
	env := newTestEnv(t, "full-control")

	// produce a few records first
	for _, container := range []string{"web-1", "web-2", "db-1"} {
		env.request(t, http.MethodPost, "/v1/ops/restart_container", "hunter2",
			operationParams{Container: container})
	}

	t.Run("Recent", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/v1/admin/audit", "hunter2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		records := decodeBody[[]core.AuditRecord](t, rec)
		assert.Len(t, records, 3)
	})

	t.Run("Filter By Container", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/v1/admin/audit?container=db-1", "hunter2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		records := decodeBody[[]core.AuditRecord](t, rec)
		require.Len(t, records, 1)
		assert.False(t, records[0].Allowed)
	})

	t.Run("Limit", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/v1/admin/audit?limit=2", "hunter2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		records := decodeBody[[]core.AuditRecord](t, rec)
		assert.Len(t, records, 2)
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/v1/admin/audit?limit=abc", "hunter2", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Requires Credential", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/v1/admin/audit", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminAudit_RequiresFullControl(t *testing.T) {
	env := newTestEnv(t, "read-only")

	rec := env.request(t, http.MethodGet, "/v1/admin/audit", "hunter2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminTasks(t *testing.T) {
	env := newTestEnv(t, "full-control")

	t.Run("List", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/v1/admin/tasks", "hunter2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		statuses := decodeBody[[]tasks.TaskStatus](t, rec)
		require.Len(t, statuses, 1)
		assert.Equal(t, "noop", statuses[0].Name)
	})

	t.Run("Run", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/v1/admin/tasks/noop/run", "hunter2", nil)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("Run Unknown", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/v1/admin/tasks/bogus/run", "hunter2", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Logs Unknown", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/v1/admin/tasks/bogus/logs", "hunter2", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminTasks_RequiresFullControl(t *testing.T) {
	env := newTestEnv(t, "read-only")

	rec := env.request(t, http.MethodGet, "/v1/admin/tasks", "hunter2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
