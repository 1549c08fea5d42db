// Package gateway composes the permission policy, the container filter and
// the audit trail into a single authorization decision per request.
package gateway

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"github.com/darmiel/dockgate/internal/config"
	"github.com/darmiel/dockgate/internal/core"
	"github.com/darmiel/dockgate/internal/filter"
	"github.com/darmiel/dockgate/internal/logging"
	"github.com/darmiel/dockgate/internal/policy"
)

// DefaultPendingTimeout bounds how long an allowed request may stay without
// a reported outcome before its audit record is flushed as failed.
const DefaultPendingTimeout = 30 * time.Second

// Gateway authorizes requests against the current config snapshot and emits
// exactly one audit record per authorize-and-act cycle. Denied requests are
// recorded immediately; allowed ones buffer a pending record until the
// caller reports the runtime outcome via RecordOutcome (or the pending
// timeout elapses).
type Gateway struct {
	store   *config.Store
	auditor core.Auditor
	log     logging.InternalLogger

	pendingTimeout time.Duration

	mu      sync.Mutex
	pending map[string]*pendingRecord

	auditFailures atomic.Uint64

	done      chan struct{}
	closeOnce sync.Once
}

type pendingRecord struct {
	rec     core.AuditRecord
	expires time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithPendingTimeout overrides the outcome timeout.
func WithPendingTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.pendingTimeout = d }
}

// WithLogger sets the internal logger.
func WithLogger(l logging.InternalLogger) Option {
	return func(g *Gateway) { g.log = l }
}

// New creates a Gateway and starts its pending-record janitor. Close stops
// the janitor and flushes any still-pending records.
func New(store *config.Store, auditor core.Auditor, opts ...Option) *Gateway {
	g := &Gateway{
		store:          store,
		auditor:        auditor,
		log:            noopLogger{},
		pendingTimeout: DefaultPendingTimeout,
		pending:        make(map[string]*pendingRecord),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	go g.janitor()
	return g
}

// Authorize produces the decision for one request and registers its audit
// record. It is pure computation over the current snapshot: no I/O, no
// cancellable suspension point.
func (g *Gateway) Authorize(req core.Request) core.Decision {
	cfg := g.store.Current()
	id := xid.New().String()

	fd := g.filterDecision(req, cfg)
	permAllowed := policy.Decide(req.Operation, req.Principal)

	decision := core.Decision{
		ID:          id,
		Allow:       true,
		Reason:      core.ReasonAllowed,
		MatchedRule: fd.Rule,
	}
	switch {
	case req.Principal == nil:
		decision.Allow = false
		decision.Reason = core.ReasonUnauthenticated
		decision.Message = "authentication required"
	case !fd.Allow:
		// deliberately does not reveal whether the container exists
		decision.Allow = false
		decision.Reason = core.ReasonFilterDenied
		decision.Message = fmt.Sprintf("container not allowed by filter: %s", req.Container)
		if req.Container == "" {
			decision.Message = "operation not allowed by filter"
		}
	case !permAllowed:
		decision.Allow = false
		decision.Reason = core.ReasonPermissionDenied
		decision.Message = "insufficient permission level"
	}

	rec := core.AuditRecord{
		ID:          id,
		Operation:   req.Operation,
		Container:   req.Container,
		Principal:   principalID(req.Principal),
		Allowed:     decision.Allow,
		MatchedRule: fd.Rule,
	}

	if !decision.Allow {
		// denied requests never reach the runtime: flush right away
		rec.Error = decision.Message
		g.flush(rec)
		return decision
	}

	g.mu.Lock()
	g.pending[id] = &pendingRecord{
		rec:     rec,
		expires: time.Now().Add(g.pendingTimeout),
	}
	g.mu.Unlock()

	return decision
}

// RecordOutcome completes the audit record for an allowed request after the
// caller performed the runtime action. Unknown or already-flushed ids are
// ignored, so a late outcome can never produce a duplicate record.
func (g *Gateway) RecordOutcome(id string, success bool, errDetail string) {
	g.mu.Lock()
	pr, ok := g.pending[id]
	if ok {
		delete(g.pending, id)
	}
	g.mu.Unlock()
	if !ok {
		return
	}

	pr.rec.Success = &success
	pr.rec.Error = errDetail
	g.flush(pr.rec)
}

// AuditFailures returns how many audit records could not be written. The
// failures never influenced a decision; this counter is the observability
// signal for them.
func (g *Gateway) AuditFailures() uint64 {
	return g.auditFailures.Load()
}

// PendingCount returns the number of allowed requests still awaiting an
// outcome report.
func (g *Gateway) PendingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// Close stops the janitor and flushes every still-pending record as failed.
// It does not close the underlying auditor.
func (g *Gateway) Close() error {
	g.closeOnce.Do(func() {
		close(g.done)
		g.expire(time.Time{}, "shutdown before outcome was reported")
	})
	return nil
}

func (g *Gateway) filterDecision(req core.Request, cfg *config.Config) filter.Decision {
	switch {
	case req.Container != "":
		return filter.Decide(req.Container, cfg)
	case isComposeLifecycle(req.Operation):
		return filter.DecideServices(req.Services, cfg)
	default:
		return filter.Decision{Allow: true, Rule: core.NoRules()}
	}
}

func isComposeLifecycle(op core.OperationKind) bool {
	switch op {
	case core.OpComposeUp, core.OpComposeDown, core.OpComposeRestart:
		return true
	}
	return false
}

// flush stamps and writes one record. A write failure is counted and logged
// but never surfaces to the decision path.
func (g *Gateway) flush(rec core.AuditRecord) {
	rec.Time = time.Now().UTC()
	if err := g.auditor.Log(rec); err != nil {
		g.auditFailures.Add(1)
		g.log.Error("writing audit record %s: %v", rec.ID, err)
	}
}

func (g *Gateway) janitor() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-g.done:
			return
		case now := <-ticker.C:
			g.expire(now, "outcome timeout")
		}
	}
}

// expire flushes every pending record whose deadline passed as a failure.
// A zero deadline expires everything.
func (g *Gateway) expire(deadline time.Time, reason string) {
	g.mu.Lock()
	var expired []*pendingRecord
	for id, pr := range g.pending {
		if deadline.IsZero() || pr.expires.Before(deadline) {
			expired = append(expired, pr)
			delete(g.pending, id)
		}
	}
	g.mu.Unlock()

	failed := false
	for _, pr := range expired {
		pr.rec.Success = &failed
		pr.rec.Error = reason
		g.flush(pr.rec)
	}
}

func principalID(p *core.Principal) string {
	if p == nil {
		return "unknown"
	}
	return p.ID
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
