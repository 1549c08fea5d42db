package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/dockgate/internal/logging"
)

type testLogger struct{}

func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

var _ logging.InternalLogger = testLogger{}

func waitForReload(t *testing.T, ch <-chan *Config) *Config {
	t.Helper()
	select {
	case cfg := <-ch:
		return cfg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return nil
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	store, dir := newTestStore(t)

	reloads := make(chan *Config, 16)
	store.Subscribe(func(cfg *Config) { reloads <- cfg })

	w, err := StartWatcherDebounced(store, testLogger{}, 50*time.Millisecond)
	require.NoError(t, err)
	defer func() {
		_ = w.Close()
	}()

	writeFile(t, dir, BaseFileName, "server: {port: 9001}")

	cfg := waitForReload(t, reloads)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, 9001, store.Current().Server.Port)
}

func TestWatcher_BadEditKeepsServing(t *testing.T) {
	store, dir := newTestStore(t)
	before := store.Current()

	reloads := make(chan *Config, 16)
	store.Subscribe(func(cfg *Config) { reloads <- cfg })

	w, err := StartWatcherDebounced(store, testLogger{}, 50*time.Millisecond)
	require.NoError(t, err)
	defer func() {
		_ = w.Close()
	}()

	// invalid document: reload fails, previous snapshot stays
	writeFile(t, dir, BaseFileName, "filter: {mode: bogus}")

	deadline := time.After(3 * time.Second)
	for store.Health().FailingSince.IsZero() {
		select {
		case <-deadline:
			t.Fatal("watcher never observed the failing reload")
		case <-time.After(20 * time.Millisecond):
		}
	}
	assert.Same(t, before, store.Current())

	// the watcher survived and picks up the fix
	writeFile(t, dir, BaseFileName, "server: {port: 9002}")
	cfg := waitForReload(t, reloads)
	assert.Equal(t, 9002, cfg.Server.Port)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	store, dir := newTestStore(t)

	reloads := make(chan *Config, 16)
	store.Subscribe(func(cfg *Config) { reloads <- cfg })

	w, err := StartWatcherDebounced(store, testLogger{}, 50*time.Millisecond)
	require.NoError(t, err)
	defer func() {
		_ = w.Close()
	}()

	writeFile(t, dir, "notes.txt", "not a config file")

	select {
	case <-reloads:
		t.Fatal("unexpected reload for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
