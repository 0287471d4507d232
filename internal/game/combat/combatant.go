// Package combat implements the turn-based battle engine: the ability
// resolver, the round state machine and the battle session that owns the
// combatants.
package combat

import (
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/status"
)

// Side distinguishes the player party from the enemy group.
type Side int

const (
	SideParty Side = iota
	SideEnemy
)

// String returns a human-readable side label.
func (s Side) String() string {
	switch s {
	case SideParty:
		return "party"
	case SideEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Combatant represents one participant in a battle, cloned from a character
// or enemy template at battle start.
//
// Invariant: 0 <= Life <= MaxLife; 0 <= Mana <= MaxMana.
type Combatant struct {
	ID   string
	Name string
	Side Side
	// TemplateID is the enemy template or character id the combatant was built from.
	TemplateID string
	Level      int

	Life    int
	MaxLife int
	Mana    int
	MaxMana int

	Base          stats.Attributes
	Bonus         stats.Secondary
	ElementalType string
	Weight        int

	// Abilities lists the ability ids the combatant knows, in preference order.
	Abilities []string
	// Weights biases enemy ability selection; missing entries weigh 1.
	Weights   map[string]int
	Equipment inventory.Equipment

	Mods        *stats.Stack
	Statuses    *status.Set
	Usage       *ability.Tracker
	Protections []environment.Protection

	// LastAbility is the id of the ability used on the combatant's previous action.
	LastAbility string
	Fled        bool
	// Tactic names the script zone whose choose_action hook picks enemy actions.
	Tactic string
}

// Prepare initializes the mutable containers a hand-built Combatant may lack
// and clamps life and mana into range. NewBattle prepares every combatant.
//
// Postcondition: Mods, Statuses, Usage and Equipment are non-nil; returns c.
func (c *Combatant) Prepare() *Combatant {
	if c.Mods == nil {
		c.Mods = stats.NewStack()
	}
	if c.Statuses == nil {
		c.Statuses = status.NewSet()
	}
	if c.Usage == nil {
		c.Usage = ability.NewTracker()
	}
	if c.Equipment == nil {
		c.Equipment = inventory.Equipment{}
	}
	c.MaxLife = max(0, c.MaxLife)
	c.MaxMana = max(0, c.MaxMana)
	c.Life = min(max(0, c.Life), c.MaxLife)
	c.Mana = min(max(0, c.Mana), c.MaxMana)
	return c
}

// IsDefeated reports whether the combatant has been reduced to zero life.
//
// Postcondition: Returns true iff Life == 0.
func (c *Combatant) IsDefeated() bool { return c.Life <= 0 }

// Active reports whether the combatant can still take part in the battle.
func (c *Combatant) Active() bool { return !c.IsDefeated() && !c.Fled }

// Knows reports whether id is one of the combatant's abilities.
func (c *Combatant) Knows(id string) bool {
	for _, a := range c.Abilities {
		if a == id {
			return true
		}
	}
	return false
}

// Attributes returns the effective attributes after modifiers.
//
// Postcondition: every score is >= 1.
func (c *Combatant) Attributes() stats.Attributes { return c.Mods.Attributes(c.Base) }

// Secondary returns the effective derived stats after modifiers.
//
// Postcondition: every field other than Accuracy is >= 0.
func (c *Combatant) Secondary() stats.Secondary {
	return c.Mods.Secondary(c.Base, c.Weight, c.Bonus)
}

// Speed returns the effective speed used for initiative.
func (c *Combatant) Speed() int { return c.Secondary().Speed }

// TypeID implements status.Holder.
func (c *Combatant) TypeID() string { return c.ElementalType }

// LifeMax implements status.Holder.
func (c *Combatant) LifeMax() int { return c.MaxLife }

// Modifiers implements status.Holder.
func (c *Combatant) Modifiers() *stats.Stack { return c.Mods }

// Score implements status.Holder.
func (c *Combatant) Score(s stats.Stat) int { return c.Attributes().Get(s) }

// TakeDamage reduces Life by n, flooring at zero.
// Precondition: n must be >= 0.
// Postcondition: Life >= 0; returns the damage actually taken.
func (c *Combatant) TakeDamage(n int) int {
	n = min(max(0, n), c.Life)
	c.Life -= n
	return n
}

// Heal restores up to n life, capped at MaxLife. Defeated combatants cannot be healed.
// Postcondition: Life <= MaxLife; returns the life actually restored.
func (c *Combatant) Heal(n int) int {
	if c.IsDefeated() {
		return 0
	}
	n = min(max(0, n), c.MaxLife-c.Life)
	c.Life += n
	return n
}

// RestoreMana restores up to n mana, capped at MaxMana.
// Postcondition: returns the mana actually restored.
func (c *Combatant) RestoreMana(n int) int {
	n = min(max(0, n), c.MaxMana-c.Mana)
	c.Mana += n
	return n
}

// DrainMana removes up to n mana, flooring at zero.
// Postcondition: returns the mana actually removed.
func (c *Combatant) DrainMana(n int) int {
	n = min(max(0, n), c.Mana)
	c.Mana -= n
	return n
}
