package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/dockgate/internal/core"
)

type discardLogger struct{}

func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}

func TestFileAuditor_Rotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")

	f, err := NewFileAuditor(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = f.Close()
	})

	require.NoError(t, f.Log(core.AuditRecord{ID: "rot-1", Allowed: true}))

	rotated, err := f.Rotate(1 << 20)
	require.NoError(t, err)
	assert.False(t, rotated, "small file must not rotate")

	rotated, err = f.Rotate(1)
	require.NoError(t, err)
	require.True(t, rotated)

	// old content moved aside, active file starts empty
	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	// writes keep going against the fresh file
	require.NoError(t, f.Log(core.AuditRecord{ID: "rot-2", Allowed: true}))
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFileAuditor_Prune(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")

	for _, suffix := range []string{
		".20240101T000000",
		".20240102T000000",
		".20240103T000000",
		".20240104T000000",
	} {
		require.NoError(t, os.WriteFile(path+suffix, []byte("{}\n"), 0o600))
	}

	f, err := NewFileAuditor(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = f.Close()
	})

	removed, err := f.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		path + ".20240103T000000",
		path + ".20240104T000000",
	}, matches)

	// already within the cap, nothing to do
	removed, err = f.Prune(2)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRotationTask(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")

	f, err := NewFileAuditor(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = f.Close()
	})
	require.NoError(t, f.Log(core.AuditRecord{ID: "task-1", Allowed: true}))

	task := RotationTask(f, 1, 0)
	require.NoError(t, task(context.Background(), discardLogger{}))

	// rotated and immediately pruned with keep=0
	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
