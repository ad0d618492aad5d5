package model

import "time"

// BonusKind identifies a personal power-up type.
type BonusKind string

const (
	BonusXPBoost    BonusKind = "xp_boost"
	BonusCoinMagnet BonusKind = "coin_magnet"
	BonusGemFinder  BonusKind = "gem_finder"
	BonusLuckyCharm BonusKind = "lucky_charm"
	BonusMultiplier BonusKind = "multiplier"
)

// ActiveBonus is a time-limited, user-specific reward multiplier.
// Display-only: the authoritative reward computation is server-side.
type ActiveBonus struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Kind        BonusKind `json:"type"`
	Multiplier  float64   `json:"multiplier"`
	Chance      float64   `json:"chance"`
	Bonus       int64     `json:"bonus"`
	ActivatedAt time.Time `json:"activated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the bonus is no longer active at now.
func (b ActiveBonus) Expired(now time.Time) bool {
	return !b.ExpiresAt.After(now)
}

// ResourceAll marks a multiplier that applies to every resource in a reward.
const ResourceAll Resource = "all"

// GlobalEvent is a time-derived reward multiplier. Never persisted;
// recomputed from wall-clock time on each query.
type GlobalEvent struct {
	Name        string
	Multipliers map[Resource]float64
	Category    string // buffed quiz category, empty if none
}
