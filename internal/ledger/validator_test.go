package ledger

import (
	"errors"
	"testing"
	"time"

	"EconomySentinel/internal/model"
)

func TestValidate_Kinds(t *testing.T) {
	v := NewValidator()
	now := time.Now()

	tests := []struct {
		name     string
		action   model.Action
		resource model.Resource
		amount   int64
		wantErr  error
	}{
		{"valid spend", model.ActionSpend, model.ResourceEnergy, 10, nil},
		{"valid earn", model.ActionEarn, model.ResourceCoins, 500, nil},
		{"unknown action", model.Action("steal"), model.ResourceCoins, 1, model.ErrInvalidAction},
		{"unknown resource", model.ActionSpend, model.Resource("mana"), 1, model.ErrInvalidResource},
		{"server-managed resource", model.ActionEarn, model.ResourceLevel, 1, model.ErrInvalidResource},
		{"negative amount", model.ActionSpend, model.ResourceEnergy, -5, model.ErrInvalidAmount},
		{"amount over cap", model.ActionEarn, model.ResourceHearts, 11, model.ErrInvalidAmount},
		{"amount over default cap", model.ActionEarn, model.ResourceRubies, 1001, model.ErrInvalidAmount},
		{"amount at cap", model.ActionEarn, model.ResourceHearts, 10, nil},
	}
	for _, tt := range tests {
		err := v.Validate(tt.action, tt.resource, tt.amount, now)
		if tt.wantErr == nil {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestValidate_RateLimit(t *testing.T) {
	v := NewValidator()
	now := time.Now()

	for i := 0; i < 30; i++ {
		if err := v.Validate(model.ActionSpend, model.ResourceEnergy, 1, now); err != nil {
			t.Fatalf("spend %d: unexpected error: %v", i+1, err)
		}
		v.Record(model.ActionSpend, now)
	}

	err := v.Validate(model.ActionSpend, model.ResourceEnergy, 1, now)
	if !errors.Is(err, model.ErrRateLimited) {
		t.Fatalf("31st spend: expected ErrRateLimited, got %v", err)
	}

	// A different action kind has its own window.
	if err := v.Validate(model.ActionEarn, model.ResourceCoins, 1, now); err != nil {
		t.Errorf("earn should not share the spend window: %v", err)
	}
}

func TestValidate_RateLimitWindowSlides(t *testing.T) {
	v := NewValidator()
	start := time.Now()

	for i := 0; i < 3; i++ {
		v.Record(model.ActionRegen, start)
	}
	if err := v.Validate(model.ActionRegen, model.ResourceEnergy, 1, start); !errors.Is(err, model.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited at quota, got %v", err)
	}

	// 61 seconds later the old entries have left the window.
	later := start.Add(61 * time.Second)
	if err := v.Validate(model.ActionRegen, model.ResourceEnergy, 1, later); err != nil {
		t.Fatalf("expected quota to reset after window, got %v", err)
	}
}

func TestQuota_Defaults(t *testing.T) {
	if q := Quota(model.ActionSpend); q != 30 {
		t.Errorf("spend quota: expected 30, got %d", q)
	}
	if q := Quota(model.Action("other")); q != DefaultQuota {
		t.Errorf("unlisted quota: expected %d, got %d", DefaultQuota, q)
	}
}
