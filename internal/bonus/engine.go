package bonus

import (
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"EconomySentinel/internal/model"
)

// Modifiers is the combined view of personal bonuses and global events
// active at a point in time.
type Modifiers struct {
	PersonalBonuses []model.ActiveBonus
	GlobalEvents    []model.GlobalEvent
}

// Engine maintains personal power-ups and derives global events from
// wall-clock time. All output is display-only: authoritative reward
// computation is server-side.
type Engine struct {
	mu         sync.Mutex
	bonuses    []model.ActiveBonus
	lastActive []string
	listeners  []func([]model.GlobalEvent)
}

// NewEngine creates an engine with no active power-ups.
func NewEngine() *Engine {
	return &Engine{}
}

// Activate adds a personal power-up.
func (e *Engine) Activate(b model.ActiveBonus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bonuses = append(e.bonuses, b)
	log.Printf("[INFO] power-up activated: %s (%s) until %s", b.Name, b.Kind, b.ExpiresAt.Format(time.RFC3339))
}

// ActiveModifiers prunes expired power-ups and returns the remaining
// bonuses together with the global events derived from now.
func (e *Engine) ActiveModifiers(now time.Time) Modifiers {
	e.mu.Lock()
	keep := e.bonuses[:0]
	for _, b := range e.bonuses {
		if !b.Expired(now) {
			keep = append(keep, b)
		}
	}
	e.bonuses = keep
	personal := make([]model.ActiveBonus, len(keep))
	copy(personal, keep)
	e.mu.Unlock()

	return Modifiers{PersonalBonuses: personal, GlobalEvents: GlobalEvents(now)}
}

// ApplyModifiers computes a display-only reward estimate: personal
// bonuses first, then global events, each multiplier applied in
// iteration order with flooring after every multiplication.
func (e *Engine) ApplyModifiers(rewards model.Ledger, now time.Time) model.Ledger {
	mods := e.ActiveModifiers(now)
	out := rewards.Clone()

	for _, b := range mods.PersonalBonuses {
		if b.Multiplier <= 0 {
			continue
		}
		for r, v := range out {
			if bonusApplies(b.Kind, r) {
				out[r] = floorMul(v, b.Multiplier)
			}
		}
	}
	for _, ev := range mods.GlobalEvents {
		for target, mult := range ev.Multipliers {
			if target == model.ResourceAll {
				for r, v := range out {
					out[r] = floorMul(v, mult)
				}
				continue
			}
			if v, ok := out[target]; ok {
				out[target] = floorMul(v, mult)
			}
		}
	}
	return out
}

// Refresh recomputes the active event set and notifies listeners only
// when the set changed since the previous refresh.
func (e *Engine) Refresh(now time.Time) bool {
	events := GlobalEvents(now)
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}
	sort.Strings(names)

	e.mu.Lock()
	changed := !equalStrings(e.lastActive, names)
	e.lastActive = names
	listeners := make([]func([]model.GlobalEvent), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()

	if changed {
		log.Printf("[INFO] global event set changed: %v", names)
		for _, fn := range listeners {
			fn(events)
		}
	}
	return changed
}

// OnEventsChanged registers a listener invoked when the active event
// set changes.
func (e *Engine) OnEventsChanged(fn func([]model.GlobalEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func bonusApplies(kind model.BonusKind, r model.Resource) bool {
	switch kind {
	case model.BonusXPBoost:
		return r == model.ResourceXP
	case model.BonusCoinMagnet:
		return r == model.ResourceCoins
	case model.BonusGemFinder:
		switch r {
		case model.ResourceSapphires, model.ResourceEmeralds, model.ResourceRubies,
			model.ResourceAmethysts, model.ResourceDiamonds:
			return true
		}
		return false
	case model.BonusLuckyCharm, model.BonusMultiplier:
		return true
	}
	return false
}

func floorMul(v int64, mult float64) int64 {
	return int64(math.Floor(float64(v) * mult))
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
