package command

import (
	"fmt"
	"strings"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
)

// HandleUse processes "use" outside battle. Only healing and mana
// restoration apply; cures, protections and boosts need a battle.
//
// Precondition: c must not be nil; c.Backpack must not be nil.
// Postcondition: one unit is consumed only when it restored something.
func HandleUse(c *character.Character, cat inventory.Catalog, arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "Usage: use <item>"
	}
	def, ok := FindItem(c.Backpack, cat, arg)
	if !ok {
		return fmt.Sprintf("%s: not found in your pack", arg)
	}
	u := def.Use
	if u == nil {
		return fmt.Sprintf("%s cannot be used", def.Name)
	}
	if u.Heal == 0 && u.RestoreMana == 0 {
		return fmt.Sprintf("%s can only be used in battle.", def.Name)
	}

	healed := min(u.Heal, c.MaxLife-c.Life)
	restored := min(u.RestoreMana, c.MaxMana-c.Mana)
	if healed <= 0 && restored <= 0 {
		return "You are already at full strength."
	}
	if err := c.Backpack.Take(def.ID, 1); err != nil {
		return fmt.Sprintf("%s: not found in your pack", def.Name)
	}
	c.Life += max(0, healed)
	c.Mana += max(0, restored)

	var gains []string
	if healed > 0 {
		gains = append(gains, fmt.Sprintf("%d life", healed))
	}
	if restored > 0 {
		gains = append(gains, fmt.Sprintf("%d mana", restored))
	}
	return fmt.Sprintf("You use %s and recover %s.", def.Name, strings.Join(gains, " and "))
}
