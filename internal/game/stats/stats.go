// Package stats defines combatant attributes, the secondary stats derived
// from them, and the per-stat modifier stack that statuses, equipment and
// boosts push onto.
package stats

import "fmt"

// Stat names one attribute or secondary stat.
type Stat string

const (
	Strength     Stat = "strength"
	Dexterity    Stat = "dexterity"
	Constitution Stat = "constitution"
	Intelligence Stat = "intelligence"
	Wisdom       Stat = "wisdom"
	Charisma     Stat = "charisma"

	PhysicalDamage  Stat = "physical_damage"
	MagicDamage     Stat = "magic_damage"
	PhysicalDefense Stat = "physical_defense"
	MagicDefense    Stat = "magic_defense"
	Speed           Stat = "speed"
	Accuracy        Stat = "accuracy"
)

// AttributeStats lists the six base attributes in display order.
var AttributeStats = []Stat{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// SecondaryStats lists the derived stats in display order.
var SecondaryStats = []Stat{PhysicalDamage, MagicDamage, PhysicalDefense, MagicDefense, Speed, Accuracy}

// IsAttribute reports whether s is one of the six base attributes.
func (s Stat) IsAttribute() bool {
	for _, a := range AttributeStats {
		if a == s {
			return true
		}
	}
	return false
}

// IsSecondary reports whether s is a derived stat.
func (s Stat) IsSecondary() bool {
	for _, a := range SecondaryStats {
		if a == s {
			return true
		}
	}
	return false
}

// Valid reports whether s names a known stat.
func (s Stat) Valid() bool { return s.IsAttribute() || s.IsSecondary() }

// MinAttribute is the floor applied to every effective attribute score.
const MinAttribute = 1

// Attributes holds the six base ability scores.
type Attributes struct {
	Strength     int `yaml:"strength" json:"strength"`
	Dexterity    int `yaml:"dexterity" json:"dexterity"`
	Constitution int `yaml:"constitution" json:"constitution"`
	Intelligence int `yaml:"intelligence" json:"intelligence"`
	Wisdom       int `yaml:"wisdom" json:"wisdom"`
	Charisma     int `yaml:"charisma" json:"charisma"`
}

// Get returns the score for s, or 0 when s is not an attribute.
func (a Attributes) Get(s Stat) int {
	switch s {
	case Strength:
		return a.Strength
	case Dexterity:
		return a.Dexterity
	case Constitution:
		return a.Constitution
	case Intelligence:
		return a.Intelligence
	case Wisdom:
		return a.Wisdom
	case Charisma:
		return a.Charisma
	default:
		return 0
	}
}

// With returns a copy of a with stat s set to v.
//
// Precondition: s.IsAttribute().
func (a Attributes) With(s Stat, v int) Attributes {
	switch s {
	case Strength:
		a.Strength = v
	case Dexterity:
		a.Dexterity = v
	case Constitution:
		a.Constitution = v
	case Intelligence:
		a.Intelligence = v
	case Wisdom:
		a.Wisdom = v
	case Charisma:
		a.Charisma = v
	default:
		panic(fmt.Sprintf("stats: %q is not an attribute", s))
	}
	return a
}

// Validate returns an error naming the first attribute below MinAttribute.
func (a Attributes) Validate() error {
	for _, s := range AttributeStats {
		if a.Get(s) < MinAttribute {
			return fmt.Errorf("%s must be >= %d, got %d", s, MinAttribute, a.Get(s))
		}
	}
	return nil
}

// Clamped returns a copy of a with every score floored at MinAttribute.
func (a Attributes) Clamped() Attributes {
	for _, s := range AttributeStats {
		if a.Get(s) < MinAttribute {
			a = a.With(s, MinAttribute)
		}
	}
	return a
}

// AbilityMod computes the standard ability modifier using floor division: floor((score - 10) / 2).
// Postcondition: Returns floor((score - 10) / 2).
func AbilityMod(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// Secondary holds the derived combat stats.
type Secondary struct {
	PhysicalDamage  int `yaml:"physical_damage" json:"physical_damage"`
	MagicDamage     int `yaml:"magic_damage" json:"magic_damage"`
	PhysicalDefense int `yaml:"physical_defense" json:"physical_defense"`
	MagicDefense    int `yaml:"magic_defense" json:"magic_defense"`
	Speed           int `yaml:"speed" json:"speed"`
	Accuracy        int `yaml:"accuracy" json:"accuracy"`
}

// Get returns the value for s, or 0 when s is not a secondary stat.
func (s Secondary) Get(st Stat) int {
	switch st {
	case PhysicalDamage:
		return s.PhysicalDamage
	case MagicDamage:
		return s.MagicDamage
	case PhysicalDefense:
		return s.PhysicalDefense
	case MagicDefense:
		return s.MagicDefense
	case Speed:
		return s.Speed
	case Accuracy:
		return s.Accuracy
	default:
		return 0
	}
}

// Add returns the field-wise sum of s and o.
func (s Secondary) Add(o Secondary) Secondary {
	return Secondary{
		PhysicalDamage:  s.PhysicalDamage + o.PhysicalDamage,
		MagicDamage:     s.MagicDamage + o.MagicDamage,
		PhysicalDefense: s.PhysicalDefense + o.PhysicalDefense,
		MagicDefense:    s.MagicDefense + o.MagicDefense,
		Speed:           s.Speed + o.Speed,
		Accuracy:        s.Accuracy + o.Accuracy,
	}
}

// floored clamps every field but Accuracy at 0. Accuracy is a signed
// adjustment to an ability's hit chance.
func (s Secondary) floored() Secondary {
	return Secondary{
		PhysicalDamage:  max(0, s.PhysicalDamage),
		MagicDamage:     max(0, s.MagicDamage),
		PhysicalDefense: max(0, s.PhysicalDefense),
		MagicDefense:    max(0, s.MagicDefense),
		Speed:           max(0, s.Speed),
		Accuracy:        s.Accuracy,
	}
}

// Derive computes secondary stats from effective attributes, carried weight and
// flat bonuses. Attribute-derived parts are floored at 0 before bonuses are added;
// the final values are floored at 0 as well, except Accuracy, which keeps
// accuracy debuffs.
//
// Postcondition: every field of the result other than Accuracy is >= 0.
func Derive(attrs Attributes, weight int, bonus Secondary) Secondary {
	base := Secondary{
		PhysicalDamage:  max(0, AbilityMod(attrs.Strength)),
		MagicDamage:     max(0, AbilityMod(attrs.Intelligence)),
		PhysicalDefense: max(0, AbilityMod(attrs.Constitution)),
		MagicDefense:    max(0, AbilityMod(attrs.Wisdom)),
		Speed:           max(0, attrs.Dexterity-weight/10),
		Accuracy:        max(0, AbilityMod(attrs.Dexterity)),
	}
	return base.Add(bonus).floored()
}
