// Package tasks runs named maintenance jobs on an interval and keeps their
// status and last log output around for the admin surface. Dockgate uses it
// for audit log rotation and pruning.
package tasks

import (
	"sort"
	"sync"
	"time"
)

const MaxLogsPerTask = 1000

type Manager struct {
	tasks sync.Map

	done      chan struct{}
	closeOnce sync.Once
}

func NewManager() *Manager {
	return &Manager{done: make(chan struct{})}
}

// Register adds a task. A positive interval schedules it periodically; zero
// means manual trigger only.
func (m *Manager) Register(name string, interval time.Duration, fn TaskFunc) {
	task := &RunnableTask{
		Name:         name,
		Interval:     interval,
		Handler:      fn,
		registeredAt: time.Now(),
		Logs:         make([]LogEntry, 0),
	}
	m.tasks.Store(name, task)

	if interval > 0 {
		go m.scheduler(task)
	}
}

func (m *Manager) scheduler(task *RunnableTask) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			task.Run()
		}
	}
}

// Trigger starts one execution in the background.
func (m *Manager) Trigger(name string) error {
	t, ok := m.tasks.Load(name)
	if !ok {
		return TaskNotFoundError{Name: name}
	}
	go t.(*RunnableTask).Run()
	return nil
}

func (m *Manager) ListStatus() []TaskStatus {
	var list []TaskStatus
	m.tasks.Range(func(_, value any) bool {
		list = append(list, value.(*RunnableTask).Status())
		return true
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

func (m *Manager) GetLogs(name string) ([]LogEntry, error) {
	t, ok := m.tasks.Load(name)
	if !ok {
		return nil, TaskNotFoundError{Name: name}
	}
	return t.(*RunnableTask).GetLogs(), nil
}

// Close stops the schedulers. Registered tasks are kept for status queries.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	return nil
}
