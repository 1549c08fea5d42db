package audit

import (
	"context"

	"github.com/darmiel/dockgate/internal/logging"
)

// RotationTask returns a maintenance job that rotates the audit file once it
// exceeds maxBytes and prunes rotated files beyond keep.
func RotationTask(f *FileAuditor, maxBytes int64, keep int) func(ctx context.Context, logger logging.InternalLogger) error {
	return func(_ context.Context, logger logging.InternalLogger) error {
		rotated, err := f.Rotate(maxBytes)
		if err != nil {
			return err
		}
		if rotated {
			logger.Info("rotated audit log past %d bytes", maxBytes)
		}

		removed, err := f.Prune(keep)
		if err != nil {
			return err
		}
		if removed > 0 {
			logger.Info("pruned %d rotated audit logs", removed)
		}
		return nil
	}
}
