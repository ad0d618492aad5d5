package notifier

import (
	"log"

	"EconomySentinel/internal/model"
)

// Console logs ledger changes and event transitions. It stands in for
// the UI layer: subscribe it to the manager and the bonus engine.
type Console struct{}

func NewConsole() *Console { return &Console{} }

// StateChanged logs the new ledger snapshot.
func (c *Console) StateChanged(l model.Ledger) {
	log.Printf("[INFO] ledger updated:\n%s", FormatLedger(l))
}

// EventsChanged logs the new active event set.
func (c *Console) EventsChanged(events []model.GlobalEvent) {
	log.Printf("[INFO] events:\n%s", FormatEvents(events))
}
