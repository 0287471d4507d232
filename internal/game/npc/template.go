// Package npc provides enemy template definitions, spawning and reward generation.
package npc

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// AbilityRef names an ability an enemy knows and how strongly its tactician
// prefers it. A zero Weight uses the tactician default.
//
// In YAML it is either a bare ability id or a mapping {id, weight}.
type AbilityRef struct {
	ID     string `yaml:"id"`
	Weight int    `yaml:"weight"`
}

// UnmarshalYAML accepts a scalar id or a full mapping.
func (r *AbilityRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.ID = node.Value
		return nil
	}
	type plain AbilityRef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = AbilityRef(p)
	return nil
}

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	ID            string           `yaml:"id"`
	Name          string           `yaml:"name"`
	Description   string           `yaml:"description"`
	Level         int              `yaml:"level"`
	Life          int              `yaml:"life"`
	Mana          int              `yaml:"mana"`
	Attributes    stats.Attributes `yaml:"attributes"`
	Bonus         stats.Secondary  `yaml:"bonus"`
	ElementalType string           `yaml:"elemental_type"`
	Weight        int              `yaml:"weight"`
	Abilities     []AbilityRef     `yaml:"abilities"`
	// Tactic is the script zone whose choose_action hook drives this enemy;
	// empty uses weighted selection.
	Tactic  string   `yaml:"tactic"`
	Rewards *Rewards `yaml:"rewards"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: returns nil iff ID and Name are non-empty, Level >= 1,
// Life >= 1, Mana >= 0, every attribute is in range and the rewards are valid;
// otherwise every violation is reported as a *validate.ConfigError.
func (t *Template) Validate() error {
	c := validate.NewCollector("enemy", t.ID)
	c.Required("id", t.ID)
	c.Required("name", t.Name)
	if t.Level < 1 {
		c.Addf("level", "must be >= 1, got %d", t.Level)
	}
	if t.Life < 1 {
		c.Addf("life", "must be >= 1, got %d", t.Life)
	}
	if t.Mana < 0 {
		c.Addf("mana", "must be >= 0, got %d", t.Mana)
	}
	if t.Weight < 0 {
		c.Addf("weight", "must be >= 0, got %d", t.Weight)
	}
	if err := t.Attributes.Validate(); err != nil {
		c.Addf("attributes", "%v", err)
	}
	seen := make(map[string]bool, len(t.Abilities))
	for i, a := range t.Abilities {
		field := fmt.Sprintf("abilities[%d]", i)
		if a.ID == "" {
			c.Addf(field+".id", "must not be empty")
			continue
		}
		if seen[a.ID] {
			c.Addf(field+".id", "duplicate ability %q", a.ID)
		}
		seen[a.ID] = true
		if a.Weight < 0 {
			c.Addf(field+".weight", "must be >= 0, got %d", a.Weight)
		}
	}
	if t.Rewards != nil {
		t.Rewards.validate(c)
	}
	return c.Err()
}

// AbilityIDs returns the ids of every ability the template knows, in order.
func (t *Template) AbilityIDs() []string {
	ids := make([]string, 0, len(t.Abilities))
	for _, a := range t.Abilities {
		ids = append(ids, a.ID)
	}
	return ids
}

// Spawn returns a fresh combatant built from the template.
// An empty id uses the template id.
//
// Postcondition: the combatant is at full life and mana, holds no statuses or
// modifiers, and shares no mutable memory with t.
func (t *Template) Spawn(id string) *combat.Combatant {
	if id == "" {
		id = t.ID
	}
	c := &combat.Combatant{
		ID:            id,
		Name:          t.Name,
		Side:          combat.SideEnemy,
		TemplateID:    t.ID,
		Level:         t.Level,
		Life:          t.Life,
		MaxLife:       t.Life,
		Mana:          t.Mana,
		MaxMana:       t.Mana,
		Base:          t.Attributes,
		Bonus:         t.Bonus,
		ElementalType: t.ElementalType,
		Weight:        t.Weight,
		Abilities:     t.AbilityIDs(),
		Tactic:        t.Tactic,
	}
	for _, a := range t.Abilities {
		if a.Weight > 0 {
			if c.Weights == nil {
				c.Weights = make(map[string]int)
			}
			c.Weights[a.ID] = a.Weight
		}
	}
	return c.Prepare()
}
