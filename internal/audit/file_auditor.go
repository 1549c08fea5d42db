package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/darmiel/dockgate/internal/core"
)

var _ core.Auditor = (*FileAuditor)(nil)

// FileAuditor appends audit records to a file, one JSON object per line.
// Concurrent callers are serialized by the mutex so records never
// interleave; a record is either fully written or fully dropped.
type FileAuditor struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	encoder *json.Encoder
}

func NewFileAuditor(filePath string) (*FileAuditor, error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating audit log directory: %w", err)
		}
	}
	file, err := openAppend(filePath)
	if err != nil {
		return nil, err
	}
	return &FileAuditor{
		path:    filePath,
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

func openAppend(filePath string) (*os.File, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log file: %w", err)
	}
	return file, nil
}

func (f *FileAuditor) Log(rec core.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.encoder.Encode(rec); err != nil {
		return fmt.Errorf("writing audit record: %w", err)
	}
	return nil
}

// Rotate moves the current file aside to a timestamped sibling and reopens a
// fresh one once it has grown past maxBytes. It reports whether a rotation
// happened. Writers block for the duration, so no record is lost.
func (f *FileAuditor) Rotate(maxBytes int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := f.file.Stat()
	if err != nil {
		return false, fmt.Errorf("stat audit log: %w", err)
	}
	if info.Size() < maxBytes {
		return false, nil
	}

	if err := f.file.Close(); err != nil {
		return false, fmt.Errorf("closing audit log for rotation: %w", err)
	}

	rotated := fmt.Sprintf("%s.%s", f.path, time.Now().UTC().Format("20060102T150405"))
	renameErr := os.Rename(f.path, rotated)

	// reopen even after a failed rename so the auditor keeps working
	file, err := openAppend(f.path)
	if err != nil {
		return false, err
	}
	f.file = file
	f.encoder = json.NewEncoder(file)

	if renameErr != nil {
		return false, fmt.Errorf("rotating audit log: %w", renameErr)
	}
	return true, nil
}

// Prune deletes the oldest rotated audit files beyond keep and returns how
// many were removed. The active file is never touched.
func (f *FileAuditor) Prune(keep int) (int, error) {
	matches, err := filepath.Glob(f.path + ".*")
	if err != nil {
		return 0, fmt.Errorf("listing rotated audit logs: %w", err)
	}
	if len(matches) <= keep {
		return 0, nil
	}

	// the timestamp suffix sorts lexically, oldest first
	sort.Strings(matches)

	removed := 0
	for _, name := range matches[:len(matches)-keep] {
		if err := os.Remove(name); err != nil {
			return removed, fmt.Errorf("removing rotated audit log %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

func (f *FileAuditor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}
