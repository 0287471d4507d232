package command

import (
	"fmt"
	"strings"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
)

// HandleInventory lists the backpack contents, slot usage and gold of c.
//
// Precondition: c must not be nil; c.Backpack and c.Wallet must not be nil.
func HandleInventory(c *character.Character, cat inventory.Catalog) string {
	var sb strings.Builder
	items := c.Backpack.Items()
	fmt.Fprintf(&sb, "=== Backpack (%d/%d slots) ===\n", c.Backpack.UsedSlots(), c.Backpack.MaxSlots)
	if len(items) == 0 {
		sb.WriteString("  (empty)\n")
	}
	for _, inst := range items {
		name := itemName(cat, inst.ItemID)
		if inst.Quantity > 1 {
			fmt.Fprintf(&sb, "  %s x%d\n", name, inst.Quantity)
		} else {
			fmt.Fprintf(&sb, "  %s\n", name)
		}
	}
	fmt.Fprintf(&sb, "Gold: %s", inventory.FormatGold(c.Wallet.Gold()))
	return sb.String()
}
