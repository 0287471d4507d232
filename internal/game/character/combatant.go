package character

import (
	"fmt"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
)

// ToCombatant builds the battle combatant for c. Worn equipment adds its
// weight, pushes its modifiers with Source{Kind: equipment} and grants its
// environment protections.
//
// Postcondition: the combatant shares no mutable memory with c.
func (c *Character) ToCombatant(cat inventory.Catalog) *combat.Combatant {
	cb := &combat.Combatant{
		ID:            CombatantID,
		Name:          c.Name,
		Side:          combat.SideParty,
		Level:         c.Level,
		Life:          c.Life,
		MaxLife:       c.MaxLife,
		Mana:          c.Mana,
		MaxMana:       c.MaxMana,
		Base:          c.Attributes,
		ElementalType: c.ElementalType,
		Weight:        c.Weight + c.Equipment.Weight(cat),
		Abilities:     append([]string(nil), c.Abilities...),
		Equipment:     inventory.Equipment{},
	}
	for slot, id := range c.Equipment {
		cb.Equipment[slot] = id
	}
	cb.Prepare()
	for _, m := range c.Equipment.Modifiers(cat) {
		cb.Mods.Push(m)
	}
	cb.Protections = c.Equipment.Protections(cat)
	return cb.Prepare()
}

// Report summarizes what a battle changed on the character.
type Report struct {
	Exp      int
	Gold     int
	LevelUps []LevelUp
	// Looted lists drops that went into the backpack; Lost lists the ones
	// that did not fit.
	Looted []combat.LootItem
	Lost   []combat.LootItem
}

// ApplyResult writes a finished battle back onto c: life and mana from the
// combatant, then on victory experience, gold and loot. A defeated character
// is left with 1 life.
//
// Precondition: cb is the combatant ToCombatant returned for this battle.
// Postcondition: 1 <= Life <= MaxLife.
func (c *Character) ApplyResult(cb *combat.Combatant, res combat.BattleResult, class *Class, cat inventory.Catalog) (Report, error) {
	if cb == nil {
		return Report{}, fmt.Errorf("character %s: no combatant to apply", c.Name)
	}
	c.Life = min(c.MaxLife, max(1, cb.Life))
	c.Mana = min(c.MaxMana, max(0, cb.Mana))

	var rep Report
	if res.Outcome != combat.Victory {
		return rep, nil
	}
	rep.Exp, rep.Gold = res.Exp, res.Gold
	rep.LevelUps = c.GainExp(res.Exp, class)
	c.Wallet.Earn(res.Gold)
	for _, l := range res.Loot {
		if err := c.Backpack.Add(l.ItemID, l.Quantity, cat); err != nil {
			rep.Lost = append(rep.Lost, l)
			continue
		}
		rep.Looted = append(rep.Looted, l)
	}
	return rep, nil
}
