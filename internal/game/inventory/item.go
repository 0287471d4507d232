// Package inventory defines items, the party backpack, the gold wallet and
// shop trading.
package inventory

import (
	"fmt"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Kind constants for ItemDef.Kind.
const (
	KindConsumable = "consumable"
	KindEquipment  = "equipment"
	KindJunk       = "junk"
)

// UseEffect is what a consumable does when used in or out of battle.
type UseEffect struct {
	Heal        int      `yaml:"heal"`
	RestoreMana int      `yaml:"restore_mana"`
	Cures       []string `yaml:"cures"`
	// Protection is granted to the user for the rest of the battle, or for its turns.
	Protection *environment.Protection `yaml:"protection"`
	Boosts     []stats.Boost           `yaml:"boosts"`
}

// EquipEffect is what an equipment item grants while worn.
type EquipEffect struct {
	Slot       Slot                    `yaml:"slot"`
	Modifiers  []stats.Delta           `yaml:"modifiers"`
	Protection *environment.Protection `yaml:"protection"`
}

// ItemDef defines the static properties of an inventory item loaded from YAML.
type ItemDef struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Kind        string       `yaml:"kind"`
	Weight      int          `yaml:"weight"`
	Stackable   bool         `yaml:"stackable"`
	MaxStack    int          `yaml:"max_stack"`
	Value       int          `yaml:"value"`
	Use         *UseEffect   `yaml:"use"`
	Equip       *EquipEffect `yaml:"equip"`
}

// StackLimit returns the quantity one backpack slot can hold.
func (d *ItemDef) StackLimit() int {
	if !d.Stackable || d.MaxStack < 1 {
		return 1
	}
	return d.MaxStack
}

// SellPrice is the gold a shop pays for one unit: half the value, rounded down.
func (d *ItemDef) SellPrice() int { return d.Value / 2 }

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid; otherwise a ConfigError per violation.
func (d *ItemDef) Validate() error {
	c := validate.NewCollector("item", d.ID)
	c.Required("id", d.ID)
	c.Required("name", d.Name)
	c.OneOf("kind", d.Kind, KindConsumable, KindEquipment, KindJunk)
	if d.Stackable && d.MaxStack < 1 {
		c.Addf("max_stack", "must be >= 1 for stackable items, got %d", d.MaxStack)
	}
	if d.Weight < 0 {
		c.Addf("weight", "must be >= 0, got %d", d.Weight)
	}
	if d.Value < 0 {
		c.Addf("value", "must be >= 0, got %d", d.Value)
	}
	switch d.Kind {
	case KindConsumable:
		if d.Use == nil {
			c.Addf("use", "is required when kind is consumable")
		} else if u := d.Use; u.Heal < 0 || u.RestoreMana < 0 {
			c.Addf("use", "heal and restore_mana must be >= 0")
		}
	case KindEquipment:
		if d.Equip == nil {
			c.Addf("equip", "is required when kind is equipment")
		} else if !d.Equip.Slot.Valid() {
			c.Addf("equip.slot", "unknown slot %q", d.Equip.Slot)
		}
	}
	if d.Use != nil {
		for i, b := range d.Use.Boosts {
			if !b.Stat.Valid() || b.Turns <= 0 {
				c.Addf(fmt.Sprintf("use.boosts[%d]", i), "needs a known stat and turns > 0")
			}
		}
		if p := d.Use.Protection; p != nil {
			if err := p.Validate("item", d.ID, "use.protection"); err != nil {
				return err
			}
		}
	}
	if d.Equip != nil {
		for i, m := range d.Equip.Modifiers {
			if !m.Stat.Valid() {
				c.Addf(fmt.Sprintf("equip.modifiers[%d].stat", i), "unknown stat %q", m.Stat)
			}
		}
		if p := d.Equip.Protection; p != nil {
			if p.Kind == environment.Temporary {
				c.Addf("equip.protection.kind", "equipment cannot grant temporary protection")
			} else if err := p.Validate("item", d.ID, "equip.protection"); err != nil {
				return err
			}
		}
	}
	return c.Err()
}
