package character

import (
	"errors"
	"fmt"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
)

// baseAttributes starts every attribute at 10 and applies class modifiers.
func baseAttributes(mods map[stats.Stat]int) stats.Attributes {
	a := stats.Attributes{
		Strength: 10, Dexterity: 10, Constitution: 10,
		Intelligence: 10, Wisdom: 10, Charisma: 10,
	}
	for s, delta := range mods {
		if s.IsAttribute() {
			a = a.With(s, a.Get(s)+delta)
		}
	}
	return a
}

// Build constructs a level 1 Character from a name and class.
// Attributes start at 10, class modifiers are applied, then the key attribute
// receives a +2 boost. Life = max(1, class life + constitution modifier);
// Mana = max(0, class mana + intelligence modifier).
//
// Precondition: name must be non-empty; class must be non-nil and valid.
// Postcondition: returns a Character at full life and mana with an empty
// backpack and wallet, or a non-nil error.
func Build(name string, class *Class) (*Character, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if class == nil {
		return nil, errors.New("class must not be nil")
	}
	if err := class.Validate(); err != nil {
		return nil, err
	}

	attrs := baseAttributes(class.Modifiers)
	if class.KeyAttribute != "" {
		attrs = attrs.With(class.KeyAttribute, attrs.Get(class.KeyAttribute)+2)
	}
	attrs = attrs.Clamped()

	maxLife := max(1, class.Life+stats.AbilityMod(attrs.Constitution))
	maxMana := max(0, class.Mana+stats.AbilityMod(attrs.Intelligence))
	c := &Character{
		Name:          name,
		ClassID:       class.ID,
		Level:         1,
		Attributes:    attrs,
		MaxLife:       maxLife,
		Life:          maxLife,
		MaxMana:       maxMana,
		Mana:          maxMana,
		ElementalType: class.ElementalType,
		Equipment:     inventory.Equipment{},
		Backpack:      inventory.NewBackpack(DefaultBackpackSlots),
		Wallet:        inventory.NewWallet(0),
	}
	for _, id := range class.Abilities {
		c.Learn(id)
	}
	for _, id := range class.LearnedAt(1) {
		c.Learn(id)
	}
	return c, nil
}

// Stack is a quantity of one item.
type Stack struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
}

// Loadout is the gold, items and worn equipment a character starts with.
type Loadout struct {
	Gold  int      `yaml:"gold"`
	Items []Stack  `yaml:"items"`
	Equip []string `yaml:"equip"`
}

// Outfit gives l to c: gold is earned, items go into the backpack and
// equipment is worn.
//
// Postcondition: returns the first error; earlier grants are kept.
func (c *Character) Outfit(l Loadout, cat inventory.Catalog) error {
	c.Wallet.Earn(l.Gold)
	for _, s := range l.Items {
		qty := max(1, s.Quantity)
		if err := c.Backpack.Add(s.Item, qty, cat); err != nil {
			return fmt.Errorf("outfitting %s with %d x %q: %w", c.Name, qty, s.Item, err)
		}
	}
	for _, id := range l.Equip {
		def, ok := cat.Item(id)
		if !ok {
			return fmt.Errorf("outfitting %s: %w: %q", c.Name, inventory.ErrUnknownItem, id)
		}
		if _, err := c.Equip(def, cat); err != nil {
			return err
		}
	}
	return nil
}

// Equip wears def. The item previously in its slot moves to the backpack.
//
// Postcondition: returns the id previously worn, possibly empty; on error
// nothing changes.
func (c *Character) Equip(def *inventory.ItemDef, cat inventory.Catalog) (string, error) {
	if def.Kind != inventory.KindEquipment || def.Equip == nil {
		return "", fmt.Errorf("inventory: %q is not equipment", def.ID)
	}
	prev := c.Equipment[def.Equip.Slot]
	if prev != "" {
		if err := c.Backpack.Add(prev, 1, cat); err != nil {
			return "", fmt.Errorf("unequipping %q: %w", prev, err)
		}
	}
	if _, err := c.Equipment.Equip(def); err != nil {
		return "", err
	}
	return prev, nil
}
