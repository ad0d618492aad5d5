package model

// Resource identifies a single ledger entry.
type Resource string

const (
	ResourceEnergy    Resource = "energy"
	ResourceHearts    Resource = "hearts"
	ResourceCoins     Resource = "coins"
	ResourceSapphires Resource = "sapphires"
	ResourceEmeralds  Resource = "emeralds"
	ResourceRubies    Resource = "rubies"
	ResourceAmethysts Resource = "amethysts"
	ResourceDiamonds  Resource = "diamonds"
	ResourceXP        Resource = "xp"
	ResourceLevel     Resource = "level"
	ResourceStreak    Resource = "streak"
)

// CanonicalOrder is the fixed serialization order for the ledger.
// The integrity checksum depends on this order; never reorder.
var CanonicalOrder = []Resource{
	ResourceEnergy,
	ResourceHearts,
	ResourceCoins,
	ResourceSapphires,
	ResourceEmeralds,
	ResourceRubies,
	ResourceAmethysts,
	ResourceDiamonds,
	ResourceXP,
	ResourceLevel,
	ResourceStreak,
}

// ActionableResources are the resources a client action may target.
// Level and streak live in the ledger but are server-managed only.
var ActionableResources = []Resource{
	ResourceEnergy,
	ResourceHearts,
	ResourceCoins,
	ResourceSapphires,
	ResourceEmeralds,
	ResourceRubies,
	ResourceAmethysts,
	ResourceDiamonds,
	ResourceXP,
}

// resourceCaps lists explicit per-resource maximums.
var resourceCaps = map[Resource]int64{
	ResourceEnergy: 10000,
	ResourceHearts: 10,
	ResourceCoins:  1000000,
	ResourceXP:     9999999,
	ResourceLevel:  200,
	ResourceStreak: 3650,
}

// DefaultResourceCap applies to any resource without an explicit cap.
const DefaultResourceCap int64 = 1000

// ResourceCap returns the maximum value for a resource.
func ResourceCap(r Resource) int64 {
	if cap, ok := resourceCaps[r]; ok {
		return cap
	}
	return DefaultResourceCap
}

// Actionable reports whether r is a valid target for a client action.
func Actionable(r Resource) bool {
	for _, a := range ActionableResources {
		if a == r {
			return true
		}
	}
	return false
}

// Ledger is the local cache of resource values displayed to the user.
type Ledger map[Resource]int64

// Clone returns an independent copy of the ledger.
func (l Ledger) Clone() Ledger {
	c := make(Ledger, len(l))
	for k, v := range l {
		c[k] = v
	}
	return c
}

// NewLedger returns a ledger with every known resource at zero.
func NewLedger() Ledger {
	l := make(Ledger, len(CanonicalOrder))
	for _, r := range CanonicalOrder {
		l[r] = 0
	}
	return l
}
