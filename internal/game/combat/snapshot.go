package combat

import (
	"fmt"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/status"
)

// CombatantSnapshot is the JSON-serializable state of one combatant.
type CombatantSnapshot struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Side          Side                      `json:"side"`
	TemplateID    string                    `json:"template_id,omitempty"`
	Level         int                       `json:"level"`
	Life          int                       `json:"life"`
	MaxLife       int                       `json:"max_life"`
	Mana          int                       `json:"mana"`
	MaxMana       int                       `json:"max_mana"`
	Base          stats.Attributes          `json:"attributes"`
	Bonus         stats.Secondary           `json:"bonus"`
	ElementalType string                    `json:"elemental_type,omitempty"`
	Weight        int                       `json:"weight"`
	Abilities     []string                  `json:"abilities"`
	Weights       map[string]int            `json:"weights,omitempty"`
	Equipment     map[inventory.Slot]string `json:"equipment,omitempty"`
	Modifiers     []stats.Modifier          `json:"modifiers,omitempty"`
	Statuses      []status.Entry            `json:"statuses,omitempty"`
	Usage         map[string]ability.Usage  `json:"usage,omitempty"`
	Protections   []environment.Protection  `json:"protections,omitempty"`
	LastAbility   string                    `json:"last_ability,omitempty"`
	Fled          bool                      `json:"fled,omitempty"`
	Tactic        string                    `json:"tactic,omitempty"`
}

// Snapshot captures c's full mutable state.
//
// Postcondition: the snapshot shares no mutable memory with c.
func (c *Combatant) Snapshot() CombatantSnapshot {
	c.Prepare()
	s := CombatantSnapshot{
		ID:            c.ID,
		Name:          c.Name,
		Side:          c.Side,
		TemplateID:    c.TemplateID,
		Level:         c.Level,
		Life:          c.Life,
		MaxLife:       c.MaxLife,
		Mana:          c.Mana,
		MaxMana:       c.MaxMana,
		Base:          c.Base,
		Bonus:         c.Bonus,
		ElementalType: c.ElementalType,
		Weight:        c.Weight,
		Abilities:     append([]string(nil), c.Abilities...),
		Modifiers:     c.Mods.All(),
		Statuses:      c.Statuses.Entries(),
		Usage:         c.Usage.Entries(),
		Protections:   append([]environment.Protection(nil), c.Protections...),
		LastAbility:   c.LastAbility,
		Fled:          c.Fled,
		Tactic:        c.Tactic,
	}
	if len(c.Weights) > 0 {
		s.Weights = make(map[string]int, len(c.Weights))
		for k, v := range c.Weights {
			s.Weights[k] = v
		}
	}
	if len(c.Equipment) > 0 {
		s.Equipment = make(map[inventory.Slot]string, len(c.Equipment))
		for k, v := range c.Equipment {
			s.Equipment[k] = v
		}
	}
	return s
}

// RestoreCombatant rebuilds a combatant from a snapshot, resolving status
// definitions through p.
//
// Precondition: p must not be nil.
// Postcondition: RestoreCombatant(c.Snapshot(), p) is equivalent to c.
func RestoreCombatant(s CombatantSnapshot, p Provider) (*Combatant, error) {
	set, err := status.RestoreSet(s.Statuses, p.Status)
	if err != nil {
		return nil, fmt.Errorf("restoring combatant %q: %w", s.ID, err)
	}
	c := &Combatant{
		ID:            s.ID,
		Name:          s.Name,
		Side:          s.Side,
		TemplateID:    s.TemplateID,
		Level:         s.Level,
		Life:          s.Life,
		MaxLife:       s.MaxLife,
		Mana:          s.Mana,
		MaxMana:       s.MaxMana,
		Base:          s.Base,
		Bonus:         s.Bonus,
		ElementalType: s.ElementalType,
		Weight:        s.Weight,
		Abilities:     append([]string(nil), s.Abilities...),
		Equipment:     inventory.Equipment{},
		Mods:          stats.NewStack(s.Modifiers...),
		Statuses:      set,
		Usage:         ability.RestoreTracker(s.Usage),
		Protections:   append([]environment.Protection(nil), s.Protections...),
		LastAbility:   s.LastAbility,
		Fled:          s.Fled,
		Tactic:        s.Tactic,
	}
	for k, v := range s.Weights {
		if c.Weights == nil {
			c.Weights = make(map[string]int, len(s.Weights))
		}
		c.Weights[k] = v
	}
	for k, v := range s.Equipment {
		c.Equipment[k] = v
	}
	c.Prepare()
	return c, nil
}

// BattleSnapshot is the JSON-serializable state of a battle between rounds.
type BattleSnapshot struct {
	ID          string                   `json:"id"`
	Round       int                      `json:"round"`
	Outcome     string                   `json:"outcome"`
	Environment *Environment             `json:"environment,omitempty"`
	Combatants  []CombatantSnapshot      `json:"combatants"`
	Backpack    []inventory.ItemInstance `json:"backpack,omitempty"`
	// Seed and Position are set when the battle draws from a dice.SeededSource.
	Seed     int64      `json:"seed,omitempty"`
	Position int64      `json:"position,omitempty"`
	Log      []LogEntry `json:"log,omitempty"`
}
