package economy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"EconomySentinel/internal/api"
	"EconomySentinel/internal/ledger"
	"EconomySentinel/internal/model"
	"EconomySentinel/internal/recorder"
)

// Request describes a single user action entering the pipeline.
type Request struct {
	Action   model.Action
	Resource model.Resource
	Amount   int64
	Activity string            // free-form context, e.g. "quiz_start"
	Result   *model.GameResult // set for game-completion transactions
}

// Options configures a Manager.
type Options struct {
	StateFile          string
	SessionToken       string
	MobileClient       bool // integrity verification is skipped on mobile profiles
	RejectionThreshold int
	ResyncCooldown     time.Duration
}

// Manager owns the resource ledger and runs the reconciliation pipeline:
// validate, apply optimistically, submit to the server, then confirm with
// server truth or revert. The cache is eventually consistent with the
// server, never linearizable: concurrent transactions merge independently
// and the last response wins on overlapping keys.
type Manager struct {
	store     *ledger.Store
	validator *ledger.Validator
	backend   api.Backend
	rec       recorder.Recorder
	opts      Options

	// now is swappable for tests.
	now func() time.Time

	mu         sync.Mutex
	pending    map[string]*model.Transaction
	snapshot   ledger.IntegritySnapshot
	rejections int
	generation uint64
	lastForced time.Time
	observers  []func(model.Ledger)
}

// NewManager creates a Manager, seeding the display cache from the state
// file when one exists. The cached values are not authoritative; callers
// should SyncNow at startup.
func NewManager(backend api.Backend, rec recorder.Recorder, opts Options) (*Manager, error) {
	if opts.RejectionThreshold <= 0 {
		opts.RejectionThreshold = 3
	}
	if opts.ResyncCooldown <= 0 {
		opts.ResyncCooldown = 5 * time.Minute
	}

	cached := &CachedState{State: model.NewLedger()}
	if opts.StateFile != "" {
		var err error
		cached, err = LoadState(opts.StateFile)
		if err != nil {
			return nil, fmt.Errorf("load cached state: %w", err)
		}
	}

	store := ledger.NewStore(cached.State)
	m := &Manager{
		store:     store,
		validator: ledger.NewValidator(),
		backend:   backend,
		rec:       rec,
		opts:      opts,
		now:       time.Now,
		pending:   make(map[string]*model.Transaction),
		snapshot:  ledger.TakeSnapshot(store.Snapshot()),
	}
	return m, nil
}

// OnStateChanged registers an observer invoked with a ledger snapshot
// after every cache mutation. Decoupled from any UI runtime.
func (m *Manager) OnStateChanged(fn func(model.Ledger)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Snapshot returns a copy of the current display ledger.
func (m *Manager) Snapshot() model.Ledger {
	return m.store.Snapshot()
}

// PendingCount returns the number of transactions awaiting confirmation.
func (m *Manager) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Perform runs the full pipeline for one user action. Pre-flight errors
// (invalid action/resource/amount, rate limit, unsupported shape) return
// synchronously with no mutation and no network call. After the optimistic
// apply, a transport failure or server rejection reverts the mutation
// before the error is surfaced.
func (m *Manager) Perform(ctx context.Context, req Request) error {
	now := m.now()
	if err := m.validator.Validate(req.Action, req.Resource, req.Amount, now); err != nil {
		return err
	}
	if !supported(req) {
		return fmt.Errorf("%w: %s %s", model.ErrUnsupportedOperation, req.Action, req.Resource)
	}
	m.validator.Record(req.Action, now)

	tx := &model.Transaction{
		ID:             uuid.NewString(),
		Action:         req.Action,
		Resource:       req.Resource,
		Amount:         req.Amount,
		Context:        req.Activity,
		Result:         req.Result,
		CreatedAt:      now,
		SessionToken:   m.opts.SessionToken,
		ClientChecksum: ledger.Checksum(m.store.Snapshot()),
	}

	m.mu.Lock()
	m.pending[tx.ID] = tx
	m.mu.Unlock()

	newValue := m.applyOptimistic(req.Action, req.Resource, req.Amount)
	log.Printf("[INFO] tx %s: optimistic %s %s %d -> %d", tx.ID, req.Action, req.Resource, req.Amount, newValue)
	m.notify()

	result, err := m.submit(ctx, tx)
	if err != nil {
		return m.revert(ctx, tx, err)
	}
	m.confirm(tx, result)
	return nil
}

// supported reports whether a transaction shape routes to an endpoint.
// Everything else is rejected locally, before any mutation or network call.
func supported(req Request) bool {
	if req.Action == model.ActionSpend && req.Resource == model.ResourceEnergy {
		return true
	}
	return req.Result != nil
}

func (m *Manager) submit(ctx context.Context, tx *model.Transaction) (*api.SyncResult, error) {
	if tx.Action == model.ActionSpend && tx.Resource == model.ResourceEnergy && tx.Result == nil {
		return m.backend.SpendEnergy(ctx, tx)
	}
	return m.backend.ProcessResult(ctx, tx)
}

func (m *Manager) applyOptimistic(action model.Action, resource model.Resource, amount int64) int64 {
	switch action {
	case model.ActionSpend, model.ActionPenalty:
		return m.store.Deduct(resource, amount)
	default: // earn, regen, bonus: add unclamped, validator bounded the amount
		return m.store.Add(resource, amount)
	}
}

// confirm merges server truth: returned keys are set, not added, so a
// duplicate confirmation cannot double-apply the delta.
func (m *Manager) confirm(tx *model.Transaction, result *api.SyncResult) {
	m.mu.Lock()
	if _, ok := m.pending[tx.ID]; !ok {
		m.mu.Unlock()
		log.Printf("[WARN] tx %s: duplicate confirmation ignored", tx.ID)
		return
	}
	delete(m.pending, tx.ID)
	m.store.Replace(result.NewState)
	m.snapshot = ledger.TakeSnapshot(m.store.Snapshot())
	m.rejections = 0
	m.mu.Unlock()

	if result.LevelUp {
		log.Printf("[INFO] tx %s: level up, now %d", tx.ID, m.store.Get(model.ResourceLevel))
	}
	m.persist()
	m.notify()
	m.record(&recorder.TransactionEvent{
		TransactionID: tx.ID,
		Action:        tx.Action,
		Resource:      tx.Resource,
		Amount:        tx.Amount,
		Outcome:       "CONFIRMED",
	})
}

// revert undoes the optimistic mutation with the inverse action and
// surfaces the original failure. A regen has no defined inverse; its
// revert fails explicitly rather than silently no-op'ing.
func (m *Manager) revert(ctx context.Context, tx *model.Transaction, cause error) error {
	m.mu.Lock()
	delete(m.pending, tx.ID)
	escalate := false
	if errors.Is(cause, model.ErrServerRejected) {
		m.rejections++
		if m.rejections >= m.opts.RejectionThreshold {
			m.rejections = 0
			escalate = true
		}
	}
	m.mu.Unlock()

	inv, ok := model.InverseAction(tx.Action)
	if !ok {
		log.Printf("[ERROR] tx %s: cannot revert %s, ledger left as applied", tx.ID, tx.Action)
		return fmt.Errorf("%w for %s (submit failed: %v)", model.ErrUnsupportedRevert, tx.Action, cause)
	}

	m.applyOptimistic(inv, tx.Resource, tx.Amount)
	log.Printf("[WARN] tx %s: reverted %s %s %d: %v", tx.ID, tx.Action, tx.Resource, tx.Amount, cause)
	m.notify()
	m.record(&recorder.TransactionEvent{
		TransactionID: tx.ID,
		Action:        tx.Action,
		Resource:      tx.Resource,
		Amount:        tx.Amount,
		Outcome:       "REVERTED",
		Note:          cause.Error(),
	})

	if escalate {
		log.Printf("[WARN] rejection threshold reached, forcing full resync")
		if err := m.ForceFullSync(ctx, "rejections"); err != nil {
			log.Printf("[ERROR] forced resync: %v", err)
		}
	}
	return fmt.Errorf("transaction %s reverted: %w", tx.ID, cause)
}

// SyncNow fetches the authoritative state and merges it. Responses that
// arrive after a newer full resync started are discarded via the
// generation counter.
func (m *Manager) SyncNow(ctx context.Context, trigger string) error {
	m.mu.Lock()
	gen := m.generation
	m.mu.Unlock()

	state, err := m.backend.FetchState(ctx)
	if err != nil {
		return fmt.Errorf("sync (%s): %w", trigger, err)
	}

	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		log.Printf("[WARN] sync (%s): stale response for generation %d discarded", trigger, gen)
		return nil
	}
	m.store.Replace(state)
	m.snapshot = ledger.TakeSnapshot(m.store.Snapshot())
	m.rejections = 0
	sum := m.snapshot.Checksum
	m.mu.Unlock()

	log.Printf("[INFO] sync (%s): merged server state, checksum %08x", trigger, sum)
	m.persist()
	m.notify()
	if err := m.rec.RecordSync(&recorder.SyncEvent{Trigger: trigger, Generation: gen, Checksum: sum}); err != nil {
		log.Printf("[ERROR] record sync: %v", err)
	}
	return nil
}

// ForceFullSync is the disruptive recovery path: it bumps the sync
// generation (discarding in-flight stale responses) and re-fetches the
// full authoritative state. Rate-limited by a cooldown so repeated
// failures cannot flap the cache.
func (m *Manager) ForceFullSync(ctx context.Context, reason string) error {
	now := m.now()
	m.mu.Lock()
	if !m.lastForced.IsZero() && now.Sub(m.lastForced) < m.opts.ResyncCooldown {
		m.mu.Unlock()
		log.Printf("[WARN] forced resync (%s) suppressed by cooldown", reason)
		return nil
	}
	m.lastForced = now
	m.generation++
	m.mu.Unlock()

	return m.SyncNow(ctx, "forced:"+reason)
}

// VerifyIntegrity recomputes the ledger checksum and compares it to the
// last server-confirmed snapshot. Skipped on mobile client profiles and
// while transactions are pending (their optimistic mutations legitimately
// diverge from the snapshot). A mismatch forces a full resync.
func (m *Manager) VerifyIntegrity(ctx context.Context) error {
	if m.opts.MobileClient {
		return nil
	}

	m.mu.Lock()
	pendingCount := len(m.pending)
	expected := m.snapshot.Checksum
	m.mu.Unlock()
	if pendingCount > 0 {
		return nil
	}

	actual := ledger.Checksum(m.store.Snapshot())
	violated := actual != expected
	if err := m.rec.RecordIntegrity(&recorder.IntegrityEvent{
		Expected: expected,
		Actual:   actual,
		Violated: violated,
		Pending:  pendingCount,
	}); err != nil {
		log.Printf("[ERROR] record integrity: %v", err)
	}
	if !violated {
		return nil
	}

	log.Printf("[WARN] integrity violation: checksum %08x, expected %08x", actual, expected)
	if err := m.ForceFullSync(ctx, "integrity"); err != nil {
		log.Printf("[ERROR] integrity resync: %v", err)
	}
	return fmt.Errorf("%w: checksum %08x, expected %08x", model.ErrIntegrityViolation, actual, expected)
}

func (m *Manager) persist() {
	if m.opts.StateFile == "" {
		return
	}
	m.mu.Lock()
	cached := &CachedState{State: m.store.Snapshot(), Checksum: m.snapshot.Checksum}
	m.mu.Unlock()
	if err := SaveState(m.opts.StateFile, cached); err != nil {
		log.Printf("[ERROR] save cached state: %v", err)
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	observers := make([]func(model.Ledger), len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	snap := m.store.Snapshot()
	for _, fn := range observers {
		fn(snap)
	}
}

func (m *Manager) record(evt *recorder.TransactionEvent) {
	if err := m.rec.RecordTransaction(evt); err != nil {
		log.Printf("[ERROR] record transaction: %v", err)
	}
}
