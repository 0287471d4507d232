package combat

import "fmt"

// Phase names a step of the round state machine.
type Phase string

const (
	PhaseRoundStart Phase = "round_start"
	PhaseAction     Phase = "action"
	PhaseStatusTick Phase = "status_tick"
	PhaseDeathCheck Phase = "death_check"
	PhaseBattleEnd  Phase = "battle_end"
)

// LogEntry is one line of the battle log.
type LogEntry struct {
	Round  int    `json:"round"`
	Phase  Phase  `json:"phase"`
	Actor  string `json:"actor,omitempty"`
	Target string `json:"target,omitempty"`
	Text   string `json:"text"`
}

// String renders the entry for display.
func (e LogEntry) String() string {
	return fmt.Sprintf("[%d %s] %s", e.Round, e.Phase, e.Text)
}
