package economy

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"EconomySentinel/internal/api"
	"EconomySentinel/internal/ledger"
	"EconomySentinel/internal/model"
	"EconomySentinel/internal/recorder"
)

func newTestManager(t *testing.T, backend api.Backend) *Manager {
	t.Helper()
	m, err := NewManager(backend, recorder.NewNoopRecorder(), Options{
		SessionToken:       "sess-1",
		RejectionThreshold: 3,
		ResyncCooldown:     5 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

// seed installs server-confirmed state, as a sync would.
func seed(m *Manager, state model.Ledger) {
	m.store.Replace(state)
	m.snapshot = ledger.TakeSnapshot(m.store.Snapshot())
}

func TestPerform_ConfirmMergesServerTruth(t *testing.T) {
	backend := &api.MockBackend{
		Result: &api.SyncResult{NewState: model.Ledger{
			model.ResourceEnergy: 35,
			model.ResourceCoins:  120,
		}},
	}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 50})

	err := m.Perform(context.Background(), Request{
		Action:   model.ActionSpend,
		Resource: model.ResourceEnergy,
		Amount:   10,
		Activity: "quiz_start",
	})
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}

	// Server truth (35) wins over the optimistic value (40).
	if got := m.store.Get(model.ResourceEnergy); got != 35 {
		t.Errorf("energy: expected 35, got %d", got)
	}
	if got := m.store.Get(model.ResourceCoins); got != 120 {
		t.Errorf("coins: expected 120, got %d", got)
	}
	if m.PendingCount() != 0 {
		t.Errorf("expected no pending transactions, got %d", m.PendingCount())
	}
	// The post-confirm state is the new integrity baseline.
	if err := m.VerifyIntegrity(context.Background()); err != nil {
		t.Errorf("integrity after confirm: %v", err)
	}
}

func TestPerform_ServerRejectionReverts(t *testing.T) {
	backend := &api.MockBackend{Err: fmt.Errorf("%w: insufficient energy", model.ErrServerRejected)}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 50})

	err := m.Perform(context.Background(), Request{
		Action:   model.ActionSpend,
		Resource: model.ResourceEnergy,
		Amount:   10,
	})
	if !errors.Is(err, model.ErrServerRejected) {
		t.Fatalf("expected ErrServerRejected, got %v", err)
	}
	if got := m.store.Get(model.ResourceEnergy); got != 50 {
		t.Errorf("expected revert to 50, got %d", got)
	}
	if m.PendingCount() != 0 {
		t.Errorf("expected no pending transactions, got %d", m.PendingCount())
	}
}

func TestPerform_NetworkErrorReverts(t *testing.T) {
	backend := &api.MockBackend{Err: errors.New("connection refused")}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 50, model.ResourceXP: 100})

	err := m.Perform(context.Background(), Request{
		Action:   model.ActionEarn,
		Resource: model.ResourceXP,
		Amount:   25,
		Result:   &model.GameResult{Type: "quiz", CorrectAnswers: 5, TotalQuestions: 5},
	})
	if err == nil {
		t.Fatal("expected error from transport failure")
	}
	// earn reverts via its inverse (spend): back to the pre-action value.
	if got := m.store.Get(model.ResourceXP); got != 100 {
		t.Errorf("expected revert to 100, got %d", got)
	}
}

func TestPerform_PreflightRejections(t *testing.T) {
	backend := &api.MockBackend{}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 50})

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"negative amount", Request{Action: model.ActionSpend, Resource: model.ResourceEnergy, Amount: -5}, model.ErrInvalidAmount},
		{"bad action", Request{Action: "steal", Resource: model.ResourceEnergy, Amount: 5}, model.ErrInvalidAction},
		{"bad resource", Request{Action: model.ActionSpend, Resource: "mana", Amount: 5}, model.ErrInvalidResource},
		{"no endpoint for shape", Request{Action: model.ActionEarn, Resource: model.ResourceCoins, Amount: 5}, model.ErrUnsupportedOperation},
	}
	for _, tt := range tests {
		err := m.Perform(context.Background(), tt.req)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}

	if got := m.store.Get(model.ResourceEnergy); got != 50 {
		t.Errorf("pre-flight failures must not mutate: %d", got)
	}
	if len(backend.Requests) != 0 {
		t.Errorf("pre-flight failures must not reach the network: %d requests", len(backend.Requests))
	}
}

func TestPerform_RateLimited(t *testing.T) {
	backend := &api.MockBackend{
		Result: &api.SyncResult{NewState: model.Ledger{model.ResourceEnergy: 5000}},
	}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 5000})

	req := Request{Action: model.ActionSpend, Resource: model.ResourceEnergy, Amount: 1}
	for i := 0; i < 30; i++ {
		if err := m.Perform(context.Background(), req); err != nil {
			t.Fatalf("spend %d: %v", i+1, err)
		}
	}

	err := m.Perform(context.Background(), req)
	if !errors.Is(err, model.ErrRateLimited) {
		t.Fatalf("31st spend: expected ErrRateLimited, got %v", err)
	}
	if len(backend.Requests) != 30 {
		t.Errorf("rate-limited spend must not reach the network: %d requests", len(backend.Requests))
	}
}

func TestPerform_RegenRevertUnsupported(t *testing.T) {
	backend := &api.MockBackend{Err: errors.New("connection reset")}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 50})

	err := m.Perform(context.Background(), Request{
		Action:   model.ActionRegen,
		Resource: model.ResourceEnergy,
		Amount:   5,
		Result:   &model.GameResult{Type: "practice"},
	})
	if !errors.Is(err, model.ErrUnsupportedRevert) {
		t.Fatalf("expected ErrUnsupportedRevert, got %v", err)
	}
	// No defined inverse: the optimistic regen stays applied.
	if got := m.store.Get(model.ResourceEnergy); got != 55 {
		t.Errorf("expected 55, got %d", got)
	}
	if m.PendingCount() != 0 {
		t.Errorf("pending entry should still be removed, got %d", m.PendingCount())
	}
}

func TestPerform_RejectionThresholdForcesResync(t *testing.T) {
	backend := &api.MockBackend{Err: fmt.Errorf("%w: denied", model.ErrServerRejected)}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 50})

	req := Request{Action: model.ActionSpend, Resource: model.ResourceEnergy, Amount: 1}
	for i := 0; i < 3; i++ {
		if err := m.Perform(context.Background(), req); err == nil {
			t.Fatalf("spend %d: expected rejection", i+1)
		}
	}
	if backend.FetchCalls != 1 {
		t.Fatalf("expected forced resync after 3 rejections, got %d fetches", backend.FetchCalls)
	}
}

func TestVerifyIntegrity_PendingSuppressesCheck(t *testing.T) {
	backend := &api.MockBackend{State: model.Ledger{model.ResourceEnergy: 50}}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 50})

	// Tamper while a transaction is outstanding: no resync.
	m.pending["tx-1"] = &model.Transaction{ID: "tx-1"}
	m.store.Add(model.ResourceEnergy, 999)
	if err := m.VerifyIntegrity(context.Background()); err != nil {
		t.Fatalf("pending transactions should suppress the check: %v", err)
	}
	if backend.FetchCalls != 0 {
		t.Fatalf("no resync expected with pending transactions, got %d fetches", backend.FetchCalls)
	}

	// Same mismatch with zero pending transactions: violation and resync.
	delete(m.pending, "tx-1")
	err := m.VerifyIntegrity(context.Background())
	if !errors.Is(err, model.ErrIntegrityViolation) {
		t.Fatalf("expected ErrIntegrityViolation, got %v", err)
	}
	if backend.FetchCalls != 1 {
		t.Fatalf("expected forced resync, got %d fetches", backend.FetchCalls)
	}
	// Resync restored server truth.
	if got := m.store.Get(model.ResourceEnergy); got != 50 {
		t.Errorf("expected 50 after resync, got %d", got)
	}
}

func TestVerifyIntegrity_SkippedOnMobile(t *testing.T) {
	backend := &api.MockBackend{State: model.Ledger{model.ResourceEnergy: 50}}
	m, err := NewManager(backend, recorder.NewNoopRecorder(), Options{MobileClient: true})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	seed(m, model.Ledger{model.ResourceEnergy: 50})

	m.store.Add(model.ResourceEnergy, 999)
	if err := m.VerifyIntegrity(context.Background()); err != nil {
		t.Fatalf("mobile profile should skip verification: %v", err)
	}
	if backend.FetchCalls != 0 {
		t.Fatalf("no resync expected on mobile, got %d fetches", backend.FetchCalls)
	}
}

func TestForceFullSync_Cooldown(t *testing.T) {
	backend := &api.MockBackend{State: model.Ledger{model.ResourceEnergy: 50}}
	m := newTestManager(t, backend)
	base := time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	if err := m.ForceFullSync(context.Background(), "test"); err != nil {
		t.Fatalf("first forced sync: %v", err)
	}
	if err := m.ForceFullSync(context.Background(), "test"); err != nil {
		t.Fatalf("suppressed sync should not error: %v", err)
	}
	if backend.FetchCalls != 1 {
		t.Fatalf("second forced sync inside cooldown should be suppressed, got %d fetches", backend.FetchCalls)
	}

	m.now = func() time.Time { return base.Add(6 * time.Minute) }
	if err := m.ForceFullSync(context.Background(), "test"); err != nil {
		t.Fatalf("post-cooldown sync: %v", err)
	}
	if backend.FetchCalls != 2 {
		t.Fatalf("expected sync after cooldown, got %d fetches", backend.FetchCalls)
	}
}

func TestSyncNow_DiscardsStaleGeneration(t *testing.T) {
	backend := &api.MockBackend{State: model.Ledger{model.ResourceEnergy: 100}}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 50})

	// A forced resync starts while this response is in flight.
	backend.OnFetch = func() {
		m.mu.Lock()
		m.generation++
		m.mu.Unlock()
	}

	if err := m.SyncNow(context.Background(), "routine"); err != nil {
		t.Fatalf("SyncNow: %v", err)
	}
	if got := m.store.Get(model.ResourceEnergy); got != 50 {
		t.Errorf("stale response must be discarded, got %d", got)
	}
}

func TestConfirm_DuplicateIgnored(t *testing.T) {
	backend := &api.MockBackend{}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceCoins: 100})

	tx := &model.Transaction{ID: "tx-dup", Action: model.ActionEarn, Resource: model.ResourceCoins, Amount: 30}
	m.pending[tx.ID] = tx
	result := &api.SyncResult{NewState: model.Ledger{model.ResourceCoins: 130}}

	m.confirm(tx, result)
	m.confirm(tx, result)

	if got := m.store.Get(model.ResourceCoins); got != 130 {
		t.Fatalf("duplicate confirmation double-applied: %d", got)
	}
}

func TestObservers_NotifiedOnMutation(t *testing.T) {
	backend := &api.MockBackend{
		Result: &api.SyncResult{NewState: model.Ledger{model.ResourceEnergy: 40}},
	}
	m := newTestManager(t, backend)
	seed(m, model.Ledger{model.ResourceEnergy: 50})

	var snapshots []model.Ledger
	m.OnStateChanged(func(l model.Ledger) { snapshots = append(snapshots, l) })

	if err := m.Perform(context.Background(), Request{
		Action:   model.ActionSpend,
		Resource: model.ResourceEnergy,
		Amount:   10,
	}); err != nil {
		t.Fatalf("Perform: %v", err)
	}

	// One notification for the optimistic apply, one for the confirmation.
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(snapshots))
	}
	if snapshots[0][model.ResourceEnergy] != 40 {
		t.Errorf("optimistic notification: expected 40, got %d", snapshots[0][model.ResourceEnergy])
	}
}
