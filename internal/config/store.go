package config

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store holds the current configuration snapshot behind an atomically
// swappable pointer. Reads are lock-free; reloads are serialized and publish
// the new snapshot with a single pointer swap, so concurrent readers always
// see either the fully-old or the fully-new snapshot.
type Store struct {
	current atomic.Pointer[Config]

	// mu serializes reloads and subscriber registration.
	mu          sync.Mutex
	subscribers []func(*Config)

	dir string
	env string

	health struct {
		sync.Mutex
		lastReload   time.Time
		failingSince time.Time
		lastError    error
	}
}

// HealthStatus reports reload staleness for health endpoints.
type HealthStatus struct {
	LastReload time.Time `json:"last_reload"`

	// FailingSince is zero while reloads succeed; otherwise the time of the
	// first failure in the current failing streak.
	FailingSince time.Time `json:"failing_since,omitzero"`

	LastError string `json:"last_error,omitempty"`
}

// NewStore loads the initial snapshot from dir (with the given environment
// overlay) and returns a store serving it. A load failure here is fatal: the
// process must not serve traffic without a valid configuration.
func NewStore(dir, env string) (*Store, error) {
	cfg, err := Load(dir, env)
	if err != nil {
		return nil, err
	}
	s := &Store{dir: dir, env: env}
	s.current.Store(cfg)
	s.health.lastReload = time.Now().UTC()
	return s, nil
}

// Current returns the latest successfully validated snapshot. Safe for
// arbitrarily many concurrent readers while a reload is in progress.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Dir returns the configuration directory this store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// Subscribe registers a callback invoked with the new snapshot after every
// successful reload. Callbacks run on the reloader goroutine.
func (s *Store) Subscribe(fn func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Reload re-runs the layered load. On success the new snapshot is published
// atomically and subscribers are notified; on failure the previous snapshot
// stays authoritative and the error is returned for logging.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := Load(s.dir, s.env)
	if err != nil {
		s.recordFailure(err)
		return err
	}

	s.current.Store(cfg)
	s.recordSuccess()

	for _, fn := range s.subscribers {
		fn(cfg)
	}
	return nil
}

// Health returns the current reload health.
func (s *Store) Health() HealthStatus {
	s.health.Lock()
	defer s.health.Unlock()

	status := HealthStatus{
		LastReload:   s.health.lastReload,
		FailingSince: s.health.failingSince,
	}
	if s.health.lastError != nil {
		status.LastError = s.health.lastError.Error()
	}
	return status
}

func (s *Store) recordSuccess() {
	s.health.Lock()
	defer s.health.Unlock()
	s.health.lastReload = time.Now().UTC()
	s.health.failingSince = time.Time{}
	s.health.lastError = nil
}

func (s *Store) recordFailure(err error) {
	s.health.Lock()
	defer s.health.Unlock()
	if s.health.failingSince.IsZero() {
		s.health.failingSince = time.Now().UTC()
	}
	s.health.lastError = err
}
