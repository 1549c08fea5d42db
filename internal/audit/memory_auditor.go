package audit

import (
	"sync"

	"github.com/darmiel/dockgate/internal/core"
)

var (
	_ core.Auditor      = (*InMemoryAuditor)(nil)
	_ core.AuditQuerier = (*InMemoryAuditor)(nil)
)

// InMemoryAuditor keeps audit records in memory. It backs the admin audit
// queries and the tests.
type InMemoryAuditor struct {
	mu      sync.Mutex
	records []core.AuditRecord
}

func NewInMemoryAuditor() *InMemoryAuditor {
	return &InMemoryAuditor{
		records: make([]core.AuditRecord, 0),
	}
}

func (i *InMemoryAuditor) Log(rec core.AuditRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.records = append(i.records, rec)
	return nil
}

func (i *InMemoryAuditor) GetRecent(limit int) ([]core.AuditRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if limit > len(i.records) {
		limit = len(i.records)
	}
	start := len(i.records) - limit
	records := make([]core.AuditRecord, limit)
	copy(records, i.records[start:])

	return records, nil
}

func (i *InMemoryAuditor) Find(filter func(rec core.AuditRecord) bool, limit int) ([]core.AuditRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var matches []core.AuditRecord
	for _, rec := range i.records {
		if filter(rec) {
			matches = append(matches, rec)
		}
	}

	if len(matches) > limit {
		matches = matches[len(matches)-limit:]
	}

	return matches, nil
}

func (i *InMemoryAuditor) Close() error {
	return nil // nothing to close :)
}
