package core

// PermissionLevel describes how much control a principal has over the
// container runtime.
type PermissionLevel string

const (
	// PermReadOnly allows inspection operations only.
	PermReadOnly PermissionLevel = "read-only"

	// PermFullControl additionally allows lifecycle operations
	// (start/stop/restart and compose up/down/restart).
	PermFullControl PermissionLevel = "full-control"
)

// Valid reports whether the level is one of the known values.
func (l PermissionLevel) Valid() bool {
	return l == PermReadOnly || l == PermFullControl
}

// OperationKind identifies a gateway operation. The set is closed: anything
// not listed here is denied by the permission policy.
type OperationKind string

const (
	OpListContainers  OperationKind = "list_containers"
	OpContainerStatus OperationKind = "container_status"
	OpContainerLogs   OperationKind = "container_logs"
	OpContainerStats  OperationKind = "container_stats"
	OpContainerHealth OperationKind = "container_health"
	OpListStacks      OperationKind = "list_stacks"
	OpComposeStatus   OperationKind = "compose_status"

	OpStartContainer   OperationKind = "start_container"
	OpStopContainer    OperationKind = "stop_container"
	OpRestartContainer OperationKind = "restart_container"
	OpComposeUp        OperationKind = "compose_up"
	OpComposeDown      OperationKind = "compose_down"
	OpComposeRestart   OperationKind = "compose_restart"
)

// Principal represents the authenticated identity of the caller for the
// duration of one request. It is produced by the Authenticator and never
// persisted.
type Principal struct {
	// ID is a short identity label used in audit records
	// (e.g. "operator", "anonymous").
	ID string

	// Level is the permission level attached to this principal.
	Level PermissionLevel

	// Authenticated is false when authentication is disabled and the
	// principal is the implicit anonymous caller.
	Authenticated bool
}

// Request describes one operation attempt presented to the gateway.
type Request struct {
	// Operation is the operation the caller wants to perform.
	Operation OperationKind

	// Container is the target container name. Empty for operations that do
	// not target a single container (e.g. list_containers, compose_up).
	Container string

	// Services are the compose service names targeted by a compose
	// operation. Empty means "the whole project".
	Services []string

	// Principal is the caller identity. A nil principal is always denied.
	Principal *Principal
}

// Reason classifies why a decision came out the way it did.
type Reason string

const (
	ReasonAllowed          Reason = "allowed"
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonPermissionDenied Reason = "permission_denied"
	ReasonFilterDenied     Reason = "filter_denied"
)

// Decision is the result of authorizing one request.
type Decision struct {
	// ID is the correlation id of this attempt. The caller passes it back
	// to RecordOutcome after performing (or failing) the runtime action.
	ID string

	// Allow is the final verdict.
	Allow bool

	// Reason classifies the verdict.
	Reason Reason

	// Message is a caller-facing explanation, safe to surface verbatim.
	// It deliberately does not reveal whether a filtered container exists.
	Message string

	// MatchedRule is the filter rule that determined the filter
	// sub-decision, recorded for audit traceability.
	MatchedRule MatchResult
}

// MatchKind identifies which kind of filter rule determined a decision.
type MatchKind string

const (
	// MatchNoRules means filtering was not in effect for this request
	// (mode allow_all, or no container targeted).
	MatchNoRules MatchKind = "no_rules_configured"

	// MatchAllow means an allow pattern matched the name.
	MatchAllow MatchKind = "matched_allow"

	// MatchDeny means a deny pattern matched the name.
	MatchDeny MatchKind = "matched_deny"

	// MatchImplicitAllow means no deny pattern matched under deny_only.
	MatchImplicitAllow MatchKind = "implicit_allow"

	// MatchImplicitDeny means no allow pattern matched under allow_only.
	MatchImplicitDeny MatchKind = "implicit_deny"
)

// MatchResult is the filter rule (or absence of one) behind a decision.
type MatchResult struct {
	Kind MatchKind `json:"kind"`

	// Pattern is the matching pattern for MatchAllow/MatchDeny.
	Pattern string `json:"pattern,omitempty"`
}

// NoRules is the MatchResult for requests that never hit the filter.
func NoRules() MatchResult { return MatchResult{Kind: MatchNoRules} }
