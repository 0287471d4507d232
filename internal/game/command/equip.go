package command

import (
	"fmt"
	"strings"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
)

// FindItem resolves arg against the items in the backpack by id or display
// name, ignoring case, spaces and dashes.
//
// Postcondition: returns (nil, false) when nothing in the backpack matches.
func FindItem(b *inventory.Backpack, cat inventory.Catalog, arg string) (*inventory.ItemDef, bool) {
	want := Normalize(arg)
	if want == "" {
		return nil, false
	}
	for _, inst := range b.Items() {
		def, ok := cat.Item(inst.ItemID)
		if !ok {
			continue
		}
		if def.ID == want || Normalize(def.Name) == want {
			return def, true
		}
	}
	return nil, false
}

// HandleEquip processes the "equip" command. arg names an equipment item in
// the backpack; the item already worn in its slot returns to the backpack.
//
// Precondition: c must not be nil; c.Backpack must not be nil.
// Postcondition: On success the item leaves the backpack and is worn. On
// failure the backpack and equipment are unchanged.
func HandleEquip(c *character.Character, cat inventory.Catalog, arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "Usage: equip <item>"
	}
	def, ok := FindItem(c.Backpack, cat, arg)
	if !ok {
		return fmt.Sprintf("%s: not found in your pack", arg)
	}
	if def.Kind != inventory.KindEquipment || def.Equip == nil {
		return fmt.Sprintf("%s cannot be worn", def.Name)
	}

	// Take the item out first so its slot is free for the previous item.
	if err := c.Backpack.Take(def.ID, 1); err != nil {
		return fmt.Sprintf("%s: not found in your pack", def.Name)
	}
	prev, err := c.Equip(def, cat)
	if err != nil {
		// Restore the backpack to maintain consistency.
		_ = c.Backpack.Add(def.ID, 1, cat)
		return fmt.Sprintf("Cannot equip %s: %v", def.Name, err)
	}

	slot := def.Equip.Slot.DisplayName()
	if prev == "" {
		return fmt.Sprintf("You equip %s (%s).", def.Name, slot)
	}
	prevName := prev
	if pd, ok := cat.Item(prev); ok {
		prevName = pd.Name
	}
	return fmt.Sprintf("You equip %s (%s) and put %s in your pack.", def.Name, slot, prevName)
}
