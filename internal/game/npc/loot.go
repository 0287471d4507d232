package npc

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// LootDrop defines a single item entry in a loot table with a drop chance.
// Zero quantities default to 1.
type LootDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// Quantities returns the effective [min, max] quantity range.
func (d LootDrop) Quantities() (int, int) {
	lo := max(1, d.MinQty)
	return lo, max(lo, d.MaxQty)
}

// Rewards is what defeating one enemy yields.
type Rewards struct {
	Exp int `yaml:"exp"`
	// Gold is a dice expression such as "2d6+3" or a flat "15"; empty yields none.
	Gold string     `yaml:"gold"`
	Loot []LootDrop `yaml:"loot"`
}

func (r *Rewards) validate(c *validate.Collector) {
	if r.Exp < 0 {
		c.Addf("rewards.exp", "must be >= 0, got %d", r.Exp)
	}
	if strings.TrimSpace(r.Gold) != "" {
		expr, err := dice.Parse(r.Gold)
		if err != nil {
			c.Addf("rewards.gold", "%v", err)
		} else if expr.Min() < 0 {
			c.Addf("rewards.gold", "%q can roll below zero", r.Gold)
		}
	}
	for i, d := range r.Loot {
		field := fmt.Sprintf("rewards.loot[%d]", i)
		if d.ItemID == "" {
			c.Addf(field+".item", "must not be empty")
		}
		if d.Chance <= 0 || d.Chance > 1 {
			c.Addf(field+".chance", "must be in (0, 1], got %g", d.Chance)
		}
		if d.MinQty < 0 || d.MaxQty < 0 {
			c.Addf(field, "quantities must be >= 0")
		}
		if d.MaxQty > 0 && d.MinQty > d.MaxQty {
			c.Addf(field+".min_qty", "min_qty (%d) must be <= max_qty (%d)", d.MinQty, d.MaxQty)
		}
	}
}

// Roll rolls experience, gold and loot with src.
//
// Precondition: r must have passed validation; src must not be nil.
// Postcondition: Gold >= 0; each loot quantity is within its drop's range.
func (r *Rewards) Roll(src dice.Source) (combat.Spoils, error) {
	sp := combat.Spoils{Exp: r.Exp}
	if strings.TrimSpace(r.Gold) != "" {
		res, err := dice.RollExpr(r.Gold, src)
		if err != nil {
			return combat.Spoils{}, fmt.Errorf("rolling gold: %w", err)
		}
		sp.Gold = max(0, res.Total())
	}
	sp.Loot = GenerateLoot(r.Loot, src)
	return sp, nil
}

// GenerateLoot rolls each drop's chance and quantity with src. Every drop that
// lands gets a fresh instance id.
//
// Precondition: drops must have passed validation.
// Postcondition: each item's Quantity is within the drop's Quantities() range.
func GenerateLoot(drops []LootDrop, src dice.Source) []combat.LootItem {
	var out []combat.LootItem
	for _, d := range drops {
		if !dice.Chance(src, d.Chance) {
			continue
		}
		lo, hi := d.Quantities()
		out = append(out, combat.LootItem{
			InstanceID: uuid.NewString(),
			ItemID:     d.ItemID,
			Quantity:   dice.Between(src, lo, hi),
		})
	}
	return out
}
