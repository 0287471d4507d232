package command

import (
	"fmt"
	"strings"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
)

// HandleEquipment displays every equipment slot of c.
//
// Precondition: c must not be nil.
// Postcondition: Returns one line per slot in display order, "empty" for
// unoccupied slots, followed by the total worn weight.
func HandleEquipment(c *character.Character, cat inventory.Catalog) string {
	var sb strings.Builder
	sb.WriteString("=== Equipment ===\n")
	for _, slot := range validSlots {
		label := slot.DisplayName() + ":"
		sb.WriteString(fmt.Sprintf("  %-11s %s\n", label, formatWorn(cat, c.Equipment[slot])))
	}
	sb.WriteString(fmt.Sprintf("Worn weight: %d", c.Equipment.Weight(cat)))
	return sb.String()
}

// formatWorn describes a worn item and what it grants.
//
// Postcondition: Returns "empty" when id is empty.
func formatWorn(cat inventory.Catalog, id string) string {
	if id == "" {
		return "empty"
	}
	def, ok := cat.Item(id)
	if !ok || def.Equip == nil {
		return id
	}
	var parts []string
	for _, m := range def.Equip.Modifiers {
		parts = append(parts, fmt.Sprintf("%+d %s", m.Delta, m.Stat))
	}
	if p := def.Equip.Protection; p != nil {
		parts = append(parts, p.String())
	}
	if len(parts) == 0 {
		return def.Name
	}
	return fmt.Sprintf("%s (%s)", def.Name, strings.Join(parts, ", "))
}
