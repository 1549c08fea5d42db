package audit

import (
	"errors"

	"github.com/darmiel/dockgate/internal/core"
)

var _ core.Auditor = (*MultiAuditor)(nil)

// MultiAuditor fans one record out to several auditors. The serve command
// uses it to pair the durable file trail with the queryable in-memory one.
type MultiAuditor struct {
	Auditors []core.Auditor
}

func NewMultiAuditor(auditors ...core.Auditor) *MultiAuditor {
	return &MultiAuditor{Auditors: auditors}
}

// Log writes to every auditor and joins the failures; one failing sink does
// not stop the others from receiving the record.
func (m *MultiAuditor) Log(rec core.AuditRecord) error {
	var errs []error
	for _, a := range m.Auditors {
		if err := a.Log(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiAuditor) Close() error {
	var errs []error
	for _, a := range m.Auditors {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
