package audit

import "github.com/darmiel/dockgate/internal/core"

// NoopAuditor is used when auditing is disabled. Log must still never fail.
type NoopAuditor struct{}

func NewNoopAuditor() *NoopAuditor {
	return &NoopAuditor{}
}

func (n *NoopAuditor) Log(core.AuditRecord) error {
	// noop
	return nil
}

func (n *NoopAuditor) Close() error {
	// nothing to close
	return nil
}
