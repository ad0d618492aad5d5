package ledger

import (
	"fmt"
	"sync"
	"time"

	"EconomySentinel/internal/model"
)

// RateWindow is the sliding window over which per-action quotas apply.
const RateWindow = 60 * time.Second

// actionQuotas lists per-minute quotas per action kind.
var actionQuotas = map[model.Action]int{
	model.ActionSpend:   30,
	model.ActionEarn:    50,
	model.ActionPenalty: 20,
	model.ActionRegen:   3,
	model.ActionBonus:   10,
}

// DefaultQuota applies to any action kind without an explicit quota.
const DefaultQuota = 10

// Quota returns the per-window quota for an action kind.
func Quota(a model.Action) int {
	if q, ok := actionQuotas[a]; ok {
		return q
	}
	return DefaultQuota
}

// Validator checks action legality and enforces per-action rate limits
// before any optimistic mutation or network call. The action history is
// in-memory only and rebuilt each session.
type Validator struct {
	mu      sync.Mutex
	history map[model.Action][]time.Time
}

// NewValidator creates a validator with an empty action history.
func NewValidator() *Validator {
	return &Validator{history: make(map[model.Action][]time.Time)}
}

// Validate checks (action, resource, amount) against the enumerated
// kinds, the per-resource amount cap and the sliding-window quota.
// Pure check: it has no side effects. Call Record after the action is
// actually admitted to the pipeline.
func (v *Validator) Validate(action model.Action, resource model.Resource, amount int64, now time.Time) error {
	if !model.ValidAction(action) {
		return fmt.Errorf("%w: %q", model.ErrInvalidAction, action)
	}
	if !model.Actionable(resource) {
		return fmt.Errorf("%w: %q", model.ErrInvalidResource, resource)
	}
	if amount < 0 {
		return fmt.Errorf("%w: %d is negative", model.ErrInvalidAmount, amount)
	}
	if cap := model.ResourceCap(resource); amount > cap {
		return fmt.Errorf("%w: %d exceeds %s cap %d", model.ErrInvalidAmount, amount, resource, cap)
	}
	if v.count(action, now) >= Quota(action) {
		return fmt.Errorf("%w: %s quota %d/min", model.ErrRateLimited, action, Quota(action))
	}
	return nil
}

// Record appends an admitted action to the rate-limit history.
func (v *Validator) Record(action model.Action, now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history[action] = append(v.prune(action, now), now)
}

func (v *Validator) count(action model.Action, now time.Time) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history[action] = v.prune(action, now)
	return len(v.history[action])
}

// prune drops entries older than the window. Caller holds v.mu.
func (v *Validator) prune(action model.Action, now time.Time) []time.Time {
	cutoff := now.Add(-RateWindow)
	entries := v.history[action]
	keep := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			keep = append(keep, ts)
		}
	}
	return keep
}
