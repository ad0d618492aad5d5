package economy

import (
	"encoding/json"
	"os"
	"time"

	"EconomySentinel/internal/model"
)

// CachedState is the serialized display cache. It exists only to survive
// restarts; the server remains the source of truth.
type CachedState struct {
	State    model.Ledger `json:"state"`
	Checksum uint32       `json:"checksum"`
	SavedAt  time.Time    `json:"saved_at"`
}

// LoadState reads the cached display state from a JSON file.
// Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*CachedState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &CachedState{State: model.NewLedger()}, nil
		}
		return nil, err
	}
	var state CachedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.State == nil {
		state.State = model.NewLedger()
	}
	return &state, nil
}

// SaveState writes the cached display state to a JSON file.
func SaveState(filePath string, state *CachedState) error {
	state.SavedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
