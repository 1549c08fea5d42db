// Package runtime holds ContainerRuntime implementations. The Docker Engine
// backed implementation lives with the deployment glue; the in-memory stub
// here serves tests and local runs without a Docker socket.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/darmiel/dockgate/internal/core"
)

// ErrNotFound is returned for unknown containers and stacks.
var ErrNotFound = errors.New("not found")

var _ core.ContainerRuntime = (*Stub)(nil)

// Stub is an in-memory ContainerRuntime.
type Stub struct {
	mu         sync.Mutex
	containers map[string]*stubContainer
}

type stubContainer struct {
	summary core.ContainerSummary
	logs    string
	health  string
}

// NewStub creates a stub pre-seeded with the given containers. Seeded
// containers start in the "running" state unless a status is set.
func NewStub(seed ...core.ContainerSummary) *Stub {
	s := &Stub{containers: make(map[string]*stubContainer)}
	for i, c := range seed {
		if c.ID == "" {
			c.ID = fmt.Sprintf("stub-%04d", i)
		}
		if c.Status == "" {
			c.Status = "running"
		}
		s.containers[c.Name] = &stubContainer{summary: c, health: "healthy"}
	}
	return s
}

func (s *Stub) ListContainers(_ context.Context, all bool) ([]core.ContainerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.ContainerSummary
	for _, c := range s.containers {
		if !all && c.summary.Status != "running" {
			continue
		}
		out = append(out, c.summary)
	}
	return out, nil
}

func (s *Stub) ContainerStatus(_ context.Context, name string) (*core.ContainerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[name]
	if !ok {
		return nil, fmt.Errorf("container %q: %w", name, ErrNotFound)
	}
	summary := c.summary
	return &summary, nil
}

func (s *Stub) ContainerLogs(_ context.Context, name string, tail int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[name]
	if !ok {
		return "", fmt.Errorf("container %q: %w", name, ErrNotFound)
	}
	_ = tail
	return c.logs, nil
}

func (s *Stub) ContainerStats(_ context.Context, name string) (*core.ContainerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.containers[name]; !ok {
		return nil, fmt.Errorf("container %q: %w", name, ErrNotFound)
	}
	return &core.ContainerStats{}, nil
}

func (s *Stub) ContainerHealth(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[name]
	if !ok {
		return "", fmt.Errorf("container %q: %w", name, ErrNotFound)
	}
	return c.health, nil
}

func (s *Stub) StartContainer(_ context.Context, name string) error {
	return s.setStatus(name, "running")
}

func (s *Stub) StopContainer(_ context.Context, name string) error {
	return s.setStatus(name, "exited")
}

func (s *Stub) RestartContainer(_ context.Context, name string) error {
	return s.setStatus(name, "running")
}

func (s *Stub) ListStacks(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var stacks []string
	for _, c := range s.containers {
		if c.summary.Stack == "" {
			continue
		}
		if _, ok := seen[c.summary.Stack]; ok {
			continue
		}
		seen[c.summary.Stack] = struct{}{}
		stacks = append(stacks, c.summary.Stack)
	}
	return stacks, nil
}

func (s *Stub) ComposeStatus(_ context.Context, project string) ([]core.ContainerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.ContainerSummary
	for _, c := range s.containers {
		if c.summary.Stack == project {
			out = append(out, c.summary)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("stack %q: %w", project, ErrNotFound)
	}
	return out, nil
}

func (s *Stub) ComposeUp(_ context.Context, project string, services []string) error {
	return s.setStackStatus(project, services, "running")
}

func (s *Stub) ComposeDown(_ context.Context, project string) error {
	return s.setStackStatus(project, nil, "exited")
}

func (s *Stub) ComposeRestart(_ context.Context, project string, services []string) error {
	return s.setStackStatus(project, services, "running")
}

func (s *Stub) setStatus(name, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[name]
	if !ok {
		return fmt.Errorf("container %q: %w", name, ErrNotFound)
	}
	c.summary.Status = status
	return nil
}

func (s *Stub) setStackStatus(project string, services []string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	serviceSet := make(map[string]struct{}, len(services))
	for _, svc := range services {
		serviceSet[svc] = struct{}{}
	}

	found := false
	for _, c := range s.containers {
		if c.summary.Stack != project {
			continue
		}
		if len(serviceSet) > 0 {
			if _, ok := serviceSet[c.summary.Name]; !ok {
				continue
			}
		}
		c.summary.Status = status
		found = true
	}
	if !found {
		return fmt.Errorf("stack %q: %w", project, ErrNotFound)
	}
	return nil
}
