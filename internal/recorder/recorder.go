package recorder

import "EconomySentinel/internal/model"

// TransactionEvent records the final outcome of a reconciled transaction.
type TransactionEvent struct {
	TransactionID string
	Action        model.Action
	Resource      model.Resource
	Amount        int64
	Outcome       string // "CONFIRMED" or "REVERTED"
	Note          string
}

// SyncEvent records a full-state merge from the server.
type SyncEvent struct {
	Trigger    string // "ROUTINE", "FORCED", "INTEGRITY", "STARTUP"
	Generation uint64
	Checksum   uint32
	Note       string
}

// IntegrityEvent records an integrity verification result.
type IntegrityEvent struct {
	Expected uint32
	Actual   uint32
	Violated bool
	Pending  int
}

// Recorder persists an audit trail of economy activity for analysis.
// Never on a hot path; errors are logged by callers, not fatal.
type Recorder interface {
	RecordTransaction(evt *TransactionEvent) error
	RecordSync(evt *SyncEvent) error
	RecordIntegrity(evt *IntegrityEvent) error
	Close() error
}
