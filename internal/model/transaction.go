package model

import "time"

// Action is the kind of economy mutation a client may request.
type Action string

const (
	ActionSpend   Action = "spend"
	ActionEarn    Action = "earn"
	ActionPenalty Action = "penalty"
	ActionRegen   Action = "regen"
	ActionBonus   Action = "bonus"
)

// Actions lists all valid action kinds.
var Actions = []Action{ActionSpend, ActionEarn, ActionPenalty, ActionRegen, ActionBonus}

// ValidAction reports whether a is one of the enumerated action kinds.
func ValidAction(a Action) bool {
	for _, v := range Actions {
		if v == a {
			return true
		}
	}
	return false
}

// inverseActions maps an action to the action that undoes it.
// regen has no inverse; reverting a regen is unsupported.
var inverseActions = map[Action]Action{
	ActionSpend:   ActionEarn,
	ActionEarn:    ActionSpend,
	ActionPenalty: ActionEarn,
	ActionBonus:   ActionSpend,
}

// InverseAction returns the action that undoes a, if one is defined.
func InverseAction(a Action) (Action, bool) {
	inv, ok := inverseActions[a]
	return inv, ok
}

// GameResult is the normalized payload for a completed quiz or practice round.
type GameResult struct {
	Type           string `json:"type"` // "quiz" or "practice"
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty"`
	Mode           string `json:"mode"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
	TimeSpent      int    `json:"time_spent"` // seconds
	PerfectScore   bool   `json:"perfect_score"`
	Streak         int    `json:"streak"`
}

// Transaction is a pending optimistic mutation awaiting server confirmation.
type Transaction struct {
	ID             string      `json:"id"`
	Action         Action      `json:"action"`
	Resource       Resource    `json:"resource"`
	Amount         int64       `json:"amount"`
	Context        string      `json:"context"`
	Result         *GameResult `json:"result,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	SessionToken   string      `json:"session_token"`
	ClientChecksum uint32      `json:"client_checksum"`
}
