// Package character defines the player character model, its creation from a
// class, and how battles feed back into it.
package character

import (
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
)

// DefaultBackpackSlots is the slot limit of a new character's backpack.
const DefaultBackpackSlots = 20

// CombatantID is the battle id of the player character.
const CombatantID = "player"

// Character represents a player character's persistent state.
type Character struct {
	Name       string
	ClassID    string
	Level      int
	Experience int

	Attributes    stats.Attributes
	MaxLife       int
	Life          int
	MaxMana       int
	Mana          int
	ElementalType string
	Weight        int
	Abilities     []string

	Equipment inventory.Equipment
	Backpack  *inventory.Backpack
	Wallet    *inventory.Wallet
}

// Knows reports whether the character has learned abilityID.
func (c *Character) Knows(abilityID string) bool {
	for _, id := range c.Abilities {
		if id == abilityID {
			return true
		}
	}
	return false
}

// Learn adds abilityID unless already known.
//
// Postcondition: returns true when the ability was new.
func (c *Character) Learn(abilityID string) bool {
	if c.Knows(abilityID) {
		return false
	}
	c.Abilities = append(c.Abilities, abilityID)
	return true
}

// Rest restores life and mana to their maxima.
func (c *Character) Rest() {
	c.Life, c.Mana = c.MaxLife, c.MaxMana
}

// IsDefeated reports whether the character has no life left.
func (c *Character) IsDefeated() bool { return c.Life <= 0 }

// Has reports whether the backpack holds at least one itemID.
func (c *Character) Has(itemID string) bool { return c.Backpack.Has(itemID) }

// Gold returns the wallet balance.
func (c *Character) Gold() int { return c.Wallet.Gold() }
