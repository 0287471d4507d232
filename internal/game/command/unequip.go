package command

import (
	"fmt"
	"strings"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
)

// validSlots lists every slot name accepted by HandleUnequip, in display order.
var validSlots = []inventory.Slot{
	inventory.SlotWeapon,
	inventory.SlotHead,
	inventory.SlotBody,
	inventory.SlotHands,
	inventory.SlotFeet,
	inventory.SlotAccessory,
}

// slotNames returns validSlots as strings.
func slotNames() []string {
	out := make([]string, len(validSlots))
	for i, s := range validSlots {
		out[i] = string(s)
	}
	return out
}

// wornSlot resolves arg to a slot: a slot name, or the id or name of a worn item.
func wornSlot(c *character.Character, cat inventory.Catalog, arg string) (inventory.Slot, bool) {
	want := Normalize(arg)
	if s := inventory.Slot(want); s.Valid() {
		return s, true
	}
	for slot, id := range c.Equipment {
		if id == want {
			return slot, true
		}
		if def, ok := cat.Item(id); ok && Normalize(def.Name) == want {
			return slot, true
		}
	}
	return "", false
}

// HandleUnequip processes the "unequip" command. arg is a slot name or the
// id or name of a worn item.
//
// Precondition: c must not be nil; c.Backpack must not be nil.
// Postcondition: On success the slot is empty and its item is in the
// backpack. A full backpack leaves the item worn.
func HandleUnequip(c *character.Character, cat inventory.Catalog, arg string) string {
	arg = strings.TrimSpace(arg)
	slot, ok := wornSlot(c, cat, arg)
	if !ok {
		return fmt.Sprintf(
			"Unknown slot %q. Valid slots: %s",
			arg,
			strings.Join(slotNames(), ", "),
		)
	}

	id := c.Equipment[slot]
	if id == "" {
		return fmt.Sprintf("Nothing equipped in slot %s.", slot.DisplayName())
	}
	if err := c.Backpack.Add(id, 1, cat); err != nil {
		return fmt.Sprintf("No room in your pack for %s.", itemName(cat, id))
	}
	c.Equipment.Unequip(slot)
	return fmt.Sprintf("Unequipped %s from %s.", itemName(cat, id), slot.DisplayName())
}

// itemName returns the display name of id, or id itself when unknown.
func itemName(cat inventory.Catalog, id string) string {
	if def, ok := cat.Item(id); ok {
		return def.Name
	}
	return id
}
