package inventory

import (
	"fmt"
	"sort"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
)

// Slot identifies an equipment slot.
type Slot string

const (
	SlotWeapon    Slot = "weapon"
	SlotHead      Slot = "head"
	SlotBody      Slot = "body"
	SlotHands     Slot = "hands"
	SlotFeet      Slot = "feet"
	SlotAccessory Slot = "accessory"
)

// slotDisplayNames maps every slot identifier to its human-readable label.
var slotDisplayNames = map[Slot]string{
	SlotWeapon:    "Weapon",
	SlotHead:      "Head",
	SlotBody:      "Body",
	SlotHands:     "Hands",
	SlotFeet:      "Feet",
	SlotAccessory: "Accessory",
}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	_, ok := slotDisplayNames[s]
	return ok
}

// DisplayName returns the human-readable label for s.
func (s Slot) DisplayName() string {
	if n, ok := slotDisplayNames[s]; ok {
		return n
	}
	return string(s)
}

// Equipment maps each slot to the id of the item worn there.
type Equipment map[Slot]string

// Equip places def in its slot and returns the id previously worn there.
//
// Precondition: def.Kind == KindEquipment.
func (e Equipment) Equip(def *ItemDef) (string, error) {
	if def.Kind != KindEquipment || def.Equip == nil {
		return "", fmt.Errorf("inventory: %q is not equipment", def.ID)
	}
	prev := e[def.Equip.Slot]
	e[def.Equip.Slot] = def.ID
	return prev, nil
}

// Unequip empties slot and returns the id that was worn there.
func (e Equipment) Unequip(slot Slot) string {
	prev := e[slot]
	delete(e, slot)
	return prev
}

// Slots returns the occupied slots in sorted order.
func (e Equipment) Slots() []Slot {
	out := make([]Slot, 0, len(e))
	for s := range e {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Modifiers returns the stat modifiers granted by every worn item, attributed
// to the item with Source{Kind: equipment}.
func (e Equipment) Modifiers(cat Catalog) []stats.Modifier {
	var out []stats.Modifier
	for _, slot := range e.Slots() {
		def, ok := cat.Item(e[slot])
		if !ok || def.Equip == nil {
			continue
		}
		for _, d := range def.Equip.Modifiers {
			out = append(out, stats.Modifier{
				Stat:   d.Stat,
				Delta:  d.Delta,
				Source: stats.Source{Kind: stats.SourceEquipment, ID: def.ID},
				Turns:  stats.Forever,
			})
		}
	}
	return out
}

// Protections returns the environment protections granted by every worn item.
func (e Equipment) Protections(cat Catalog) []environment.Protection {
	var out []environment.Protection
	for _, slot := range e.Slots() {
		def, ok := cat.Item(e[slot])
		if !ok || def.Equip == nil || def.Equip.Protection == nil {
			continue
		}
		p := *def.Equip.Protection
		p.Source = def.ID
		out = append(out, p)
	}
	return out
}

// Weight returns the summed weight of every worn item.
func (e Equipment) Weight(cat Catalog) int {
	total := 0
	for _, id := range e {
		if def, ok := cat.Item(id); ok {
			total += def.Weight
		}
	}
	return total
}
