package character

import (
	"fmt"
	"sort"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Learned is an ability a class gains on reaching Level.
type Learned struct {
	Level   int    `yaml:"level"`
	Ability string `yaml:"ability"`
}

// Class defines a playable archetype characters are built from.
//
// Precondition: ID, Name and Life must be set after loading.
type Class struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// KeyAttribute receives a +2 boost at creation.
	KeyAttribute stats.Stat `yaml:"key_attribute"`
	// Growth is the attribute raised on every level up; constitution when empty.
	Growth        stats.Stat         `yaml:"growth"`
	Modifiers     map[stats.Stat]int `yaml:"modifiers"`
	Life          int                `yaml:"life"`
	Mana          int                `yaml:"mana"`
	ElementalType string             `yaml:"elemental_type"`
	Abilities     []string           `yaml:"abilities"`
	Learns        []Learned          `yaml:"learns"`
}

// GrowthStat returns the attribute raised per level.
func (c *Class) GrowthStat() stats.Stat {
	if c.Growth == "" {
		return stats.Constitution
	}
	return c.Growth
}

// LearnedAt returns the abilities the class gains on reaching level.
func (c *Class) LearnedAt(level int) []string {
	var out []string
	for _, l := range c.Learns {
		if l.Level == level {
			out = append(out, l.Ability)
		}
	}
	return out
}

// AbilityIDs returns every ability id the class references.
func (c *Class) AbilityIDs() []string {
	out := append([]string(nil), c.Abilities...)
	for _, l := range c.Learns {
		out = append(out, l.Ability)
	}
	return out
}

// Validate checks c's fields.
func (c *Class) Validate() error {
	v := validate.NewCollector("class", c.ID)
	v.Required("id", c.ID)
	v.Required("name", c.Name)
	if c.KeyAttribute != "" && !c.KeyAttribute.IsAttribute() {
		v.Addf("key_attribute", "must be an attribute, got %q", c.KeyAttribute)
	}
	if !c.GrowthStat().IsAttribute() {
		v.Addf("growth", "must be an attribute, got %q", c.Growth)
	}
	for s := range c.Modifiers {
		if !s.IsAttribute() {
			v.Addf("modifiers", "%q is not an attribute", s)
		}
	}
	if c.Life < 1 {
		v.Addf("life", "must be >= 1, got %d", c.Life)
	}
	if c.Mana < 0 {
		v.Addf("mana", "must be >= 0, got %d", c.Mana)
	}
	for i, l := range c.Learns {
		if l.Level < 1 {
			v.Addf(fmt.Sprintf("learns[%d].level", i), "must be >= 1, got %d", l.Level)
		}
		if l.Ability == "" {
			v.Addf(fmt.Sprintf("learns[%d].ability", i), "must not be empty")
		}
	}
	return v.Err()
}

// Registry holds classes by id.
type Registry struct {
	classes map[string]*Class
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// Register validates class and adds it.
//
// Precondition: class must not be nil.
// Postcondition: returns a *validate.ConfigError when class is invalid or its id is taken.
func (r *Registry) Register(class *Class) error {
	if err := class.Validate(); err != nil {
		return err
	}
	if _, dup := r.classes[class.ID]; dup {
		return validate.Errorf("class", class.ID, "id", "duplicate class id")
	}
	r.classes[class.ID] = class
	return nil
}

// Class returns the class with id.
func (r *Registry) Class(id string) (*Class, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// All returns every class sorted by id.
func (r *Registry) All() []*Class {
	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
