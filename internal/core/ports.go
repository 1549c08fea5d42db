package core

import "context"

// ContainerSummary is the runtime-agnostic view of one container.
type ContainerSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Status string `json:"status"`
	Stack  string `json:"stack,omitempty"`
}

// ContainerStats is a point-in-time resource usage sample.
type ContainerStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryUsage   uint64  `json:"memory_usage"`
	MemoryLimit   uint64  `json:"memory_limit"`
	MemoryPercent float64 `json:"memory_percent"`
}

// ContainerRuntime performs the actual Docker/Compose calls. The gateway
// never invokes it: the transport layer does, after an Allow decision, and
// reports the outcome back for the audit record.
// Implementations: Docker Engine API client, in-memory stub.
type ContainerRuntime interface {
	ListContainers(ctx context.Context, all bool) ([]ContainerSummary, error)
	ContainerStatus(ctx context.Context, name string) (*ContainerSummary, error)
	ContainerLogs(ctx context.Context, name string, tail int) (string, error)
	ContainerStats(ctx context.Context, name string) (*ContainerStats, error)
	ContainerHealth(ctx context.Context, name string) (string, error)

	StartContainer(ctx context.Context, name string) error
	StopContainer(ctx context.Context, name string) error
	RestartContainer(ctx context.Context, name string) error

	ListStacks(ctx context.Context) ([]string, error)
	ComposeStatus(ctx context.Context, project string) ([]ContainerSummary, error)
	ComposeUp(ctx context.Context, project string, services []string) error
	ComposeDown(ctx context.Context, project string) error
	ComposeRestart(ctx context.Context, project string, services []string) error
}
