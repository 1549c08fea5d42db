package tasks

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/darmiel/dockgate/internal/logging"
)

var _ logging.InternalLogger = (*TaskStoreLogger)(nil)

// TaskStoreLogger captures log output into the task's log buffer.
type TaskStoreLogger struct {
	Task *RunnableTask
}

func NewTaskStoreLogger(task *RunnableTask) *TaskStoreLogger {
	return &TaskStoreLogger{
		Task: task,
	}
}

func (t *TaskStoreLogger) Info(format string, args ...any) {
	t.Task.AppendLog("info", fmt.Sprintf(format, args...))
}

func (t *TaskStoreLogger) Warn(format string, args ...any) {
	t.Task.AppendLog("warn", fmt.Sprintf(format, args...))
}

func (t *TaskStoreLogger) Error(format string, args ...any) {
	t.Task.AppendLog("error", fmt.Sprintf(format, args...))
}

// NewCompositeLogger logs to zerolog and stores the entry in the task logs.
func NewCompositeLogger(task *RunnableTask, zlog zerolog.Logger) logging.InternalLogger {
	return fanoutLogger{
		logging.NewZLogger(zlog),
		NewTaskStoreLogger(task),
	}
}

type fanoutLogger []logging.InternalLogger

func (f fanoutLogger) Info(format string, args ...any) {
	for _, l := range f {
		l.Info(format, args...)
	}
}

func (f fanoutLogger) Warn(format string, args ...any) {
	for _, l := range f {
		l.Warn(format, args...)
	}
}

func (f fanoutLogger) Error(format string, args ...any) {
	for _, l := range f {
		l.Error(format, args...)
	}
}
