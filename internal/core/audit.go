package core

import "time"

// AuditRecord is one line in the audit trail. The JSON field names and types
// are a stable schema: downstream log consumers depend on them staying
// constant release-to-release.
type AuditRecord struct {
	// ID is the unique request id (X-Correlation-ID).
	ID string `json:"id"`

	// Time is the UTC completion time of the authorize-and-act cycle.
	Time time.Time `json:"time"`

	// Operation that was attempted (e.g. "start_container").
	Operation OperationKind `json:"operation"`

	// Container is the target container, when the operation had one.
	Container string `json:"container,omitempty"`

	// Principal identifies who made the request.
	Principal string `json:"principal"`

	// Allowed is the authorization verdict.
	Allowed bool `json:"allowed"`

	// Success is the runtime outcome: nil when the operation was denied and
	// never reached the runtime.
	Success *bool `json:"success"`

	// MatchedRule is the filter rule behind the filter sub-decision.
	MatchedRule MatchResult `json:"matched_rule"`

	// Error holds the denial reason or the runtime failure detail.
	Error string `json:"error,omitempty"`
}

// Auditor is the sink for audit records.
// Implementations: file (JSONL), in-memory, noop.
type Auditor interface {
	Log(rec AuditRecord) error
	Close() error
}

// AuditQuerier is implemented by auditors that can serve queries over the
// records they hold (the in-memory auditor).
type AuditQuerier interface {
	GetRecent(limit int) ([]AuditRecord, error)
	Find(filter func(rec AuditRecord) bool, limit int) ([]AuditRecord, error)
}
