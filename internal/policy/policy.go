// Package policy maps operations to required permission levels.
package policy

import "github.com/darmiel/dockgate/internal/core"

// Class is the permission class of an operation.
type Class string

const (
	// ClassReadOnly operations inspect state and are allowed for every
	// principal.
	ClassReadOnly Class = "read_only"

	// ClassFullControl operations change container state and require the
	// full-control permission level.
	ClassFullControl Class = "full_control"
)

// classification is the closed table of known operations. An operation not
// listed here is denied regardless of principal (fail closed).
var classification = map[core.OperationKind]Class{
	core.OpListContainers:  ClassReadOnly,
	core.OpContainerStatus: ClassReadOnly,
	core.OpContainerLogs:   ClassReadOnly,
	core.OpContainerStats:  ClassReadOnly,
	core.OpContainerHealth: ClassReadOnly,
	core.OpListStacks:      ClassReadOnly,
	core.OpComposeStatus:   ClassReadOnly,

	core.OpStartContainer:   ClassFullControl,
	core.OpStopContainer:    ClassFullControl,
	core.OpRestartContainer: ClassFullControl,
	core.OpComposeUp:        ClassFullControl,
	core.OpComposeDown:      ClassFullControl,
	core.OpComposeRestart:   ClassFullControl,
}

// Classify returns the class of a known operation, or false for an
// unrecognized one.
func Classify(op core.OperationKind) (Class, bool) {
	class, ok := classification[op]
	return class, ok
}

// Operations returns all operations in the classification table.
func Operations() []core.OperationKind {
	ops := make([]core.OperationKind, 0, len(classification))
	for op := range classification {
		ops = append(ops, op)
	}
	return ops
}

// Decide reports whether the principal may perform the operation. Read-only
// operations are allowed for any principal; full-control operations require
// the full-control level. Unknown operations and nil principals are denied.
func Decide(op core.OperationKind, principal *core.Principal) bool {
	if principal == nil {
		return false
	}
	class, ok := classification[op]
	if !ok {
		return false
	}
	if class == ClassReadOnly {
		return true
	}
	return principal.Level == core.PermFullControl
}
