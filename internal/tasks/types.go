package tasks

import (
	"context"
	"time"

	"github.com/darmiel/dockgate/internal/logging"
)

// TaskFunc is the unit of work. The logger it receives stores the output so
// the last run can be inspected afterwards.
type TaskFunc func(ctx context.Context, logger logging.InternalLogger) error

type TaskStatus struct {
	Name         string    `json:"name,omitempty"`
	Running      bool      `json:"running,omitempty"`
	Runs         int64     `json:"runs"`
	LastRun      time.Time `json:"last_run"`
	LastResult   string    `json:"last_result,omitempty"`
	LastDuration string    `json:"last_duration,omitempty"`
	NextRun      time.Time `json:"next_run"`
}

type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level,omitempty"`
	Message string    `json:"message,omitempty"`
}
