package ledger

import (
	"strconv"

	"EconomySentinel/internal/model"
)

// Checksum computes a deterministic 32-bit rolling hash over the ledger
// serialized as "name:value;" pairs in model.CanonicalOrder. The hash is
// order-sensitive: a fixed key order is part of the contract.
func Checksum(l model.Ledger) uint32 {
	var h uint32
	for _, r := range model.CanonicalOrder {
		h = hashString(h, string(r))
		h = h*31 + ':'
		h = hashString(h, strconv.FormatInt(l[r], 10))
		h = h*31 + ';'
	}
	return h
}

func hashString(h uint32, s string) uint32 {
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// IntegritySnapshot is the last server-confirmed ledger state and its
// checksum, used to detect out-of-band local tampering.
type IntegritySnapshot struct {
	State    model.Ledger
	Checksum uint32
}

// TakeSnapshot captures an integrity snapshot of the given ledger state.
func TakeSnapshot(state model.Ledger) IntegritySnapshot {
	return IntegritySnapshot{State: state.Clone(), Checksum: Checksum(state)}
}

// Matches reports whether the live ledger still hashes to the snapshot.
func (s IntegritySnapshot) Matches(live model.Ledger) bool {
	return Checksum(live) == s.Checksum
}
