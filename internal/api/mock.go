package api

import (
	"context"

	"EconomySentinel/internal/model"
)

// MockBackend returns controllable fixed data for development and testing.
type MockBackend struct {
	State      model.Ledger
	Result     *SyncResult
	Err        error
	Requests   []*model.Transaction
	FetchCalls int
	OnFetch    func() // runs while a FetchState call is in flight
}

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) FetchState(_ context.Context) (model.Ledger, error) {
	m.FetchCalls++
	if m.OnFetch != nil {
		m.OnFetch()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.State.Clone(), nil
}

func (m *MockBackend) SpendEnergy(_ context.Context, tx *model.Transaction) (*SyncResult, error) {
	return m.record(tx)
}

func (m *MockBackend) ProcessResult(_ context.Context, tx *model.Transaction) (*SyncResult, error) {
	return m.record(tx)
}

func (m *MockBackend) record(tx *model.Transaction) (*SyncResult, error) {
	m.Requests = append(m.Requests, tx)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &SyncResult{NewState: m.State.Clone()}, nil
}
