// Package element holds elemental type definitions and the type-effectiveness
// table used for damage, status and environment interactions.
package element

import (
	"fmt"
	"sort"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Damage multipliers produced by Effectiveness.
const (
	ImmuneMultiplier    = 0.0
	ResistantMultiplier = 0.7
	WeakMultiplier      = 1.5
	NeutralMultiplier   = 1.0
)

// MaxEnvironmentMultiplier bounds Def.EnvironmentInteractions values.
const MaxEnvironmentMultiplier = 3.0

// CombatProperties lists the attacking types a defender reacts to.
type CombatProperties struct {
	Resistances []string `yaml:"resistances"`
	Weaknesses  []string `yaml:"weaknesses"`
	Immunities  []string `yaml:"immunities"`
}

// StatusInteractions lists status tags a type is immune, resistant or vulnerable to.
type StatusInteractions struct {
	Immune     []string `yaml:"immune"`
	Resistant  []string `yaml:"resistant"`
	Vulnerable []string `yaml:"vulnerable"`
}

// Def is the static definition of one elemental type, loaded from YAML.
type Def struct {
	ID                 string             `yaml:"id"`
	Name               string             `yaml:"name"`
	Description        string             `yaml:"description"`
	CombatProperties   CombatProperties   `yaml:"combat_properties"`
	StatusInteractions StatusInteractions `yaml:"status_interactions"`
	// EnvironmentInteractions maps environment id to the multiplier applied to
	// environmental damage taken by this type.
	EnvironmentInteractions map[string]float64 `yaml:"environment_interactions"`
}

// Validate checks the fields of d that do not depend on other definitions.
func (d *Def) Validate() error {
	c := validate.NewCollector("type", d.ID)
	c.Required("id", d.ID)
	envs := make([]string, 0, len(d.EnvironmentInteractions))
	for env := range d.EnvironmentInteractions {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	for _, env := range envs {
		c.FloatRange("environment_interactions."+env, d.EnvironmentInteractions[env], 0, MaxEnvironmentMultiplier)
	}
	return c.Err()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Interaction is how a type reacts to a given status.
type Interaction int

const (
	Normal Interaction = iota
	Immune
	Resistant
	Vulnerable
)

// String returns the content-facing interaction name.
func (i Interaction) String() string {
	switch i {
	case Immune:
		return "immune"
	case Resistant:
		return "resistant"
	case Vulnerable:
		return "vulnerable"
	default:
		return "normal"
	}
}

// Multiplier returns the duration and damage multiplier for i.
// Postcondition: Immune → 0, Resistant → 0.5, Vulnerable → 1.5, Normal → 1.
func (i Interaction) Multiplier() float64 {
	switch i {
	case Immune:
		return 0
	case Resistant:
		return 0.5
	case Vulnerable:
		return 1.5
	default:
		return 1
	}
}

// Chart is the immutable type-effectiveness table built from all type definitions.
// A nil *Chart behaves as an empty table.
type Chart struct {
	defs map[string]*Def
}

// NewChart validates defs and their cross references and builds a Chart.
//
// Postcondition: on success every type id referenced by a combat property exists.
func NewChart(defs ...*Def) (*Chart, error) {
	ch := &Chart{defs: make(map[string]*Def, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := ch.defs[d.ID]; dup {
			return nil, validate.Errorf("type", d.ID, "id", "duplicate type id")
		}
		ch.defs[d.ID] = d
	}
	for _, id := range ch.IDs() {
		d := ch.defs[id]
		for _, ref := range []struct {
			field string
			ids   []string
		}{
			{"combat_properties.resistances", d.CombatProperties.Resistances},
			{"combat_properties.weaknesses", d.CombatProperties.Weaknesses},
			{"combat_properties.immunities", d.CombatProperties.Immunities},
		} {
			for _, other := range ref.ids {
				if _, ok := ch.defs[other]; !ok {
					return nil, validate.Errorf("type", d.ID, ref.field, "unknown type %q", other)
				}
			}
		}
	}
	return ch, nil
}

// Get returns the Def for id, or (nil, false) if not found.
func (c *Chart) Get(id string) (*Def, bool) {
	if c == nil {
		return nil, false
	}
	d, ok := c.defs[id]
	return d, ok
}

// Has reports whether id is a known type.
func (c *Chart) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// IDs returns every type id in sorted order.
func (c *Chart) IDs() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.defs))
	for id := range c.defs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Effectiveness returns the damage multiplier for an attack of attackerType
// against a defender of defenderType.
// Immunities are checked before resistances, resistances before weaknesses.
// Unknown or empty types are neutral.
//
// Postcondition: returns one of 0.0, 0.7, 1.5, 1.0.
func (c *Chart) Effectiveness(attackerType, defenderType string) float64 {
	if attackerType == "" || defenderType == "" {
		return NeutralMultiplier
	}
	def, ok := c.Get(defenderType)
	if !ok {
		return NeutralMultiplier
	}
	switch {
	case contains(def.CombatProperties.Immunities, attackerType):
		return ImmuneMultiplier
	case contains(def.CombatProperties.Resistances, attackerType):
		return ResistantMultiplier
	case contains(def.CombatProperties.Weaknesses, attackerType):
		return WeakMultiplier
	default:
		return NeutralMultiplier
	}
}

// StatusInteraction returns how a holder of typeID reacts to status tag.
// Immune beats Resistant, Resistant beats Vulnerable.
func (c *Chart) StatusInteraction(typeID, tag string) Interaction {
	def, ok := c.Get(typeID)
	if !ok {
		return Normal
	}
	switch {
	case contains(def.StatusInteractions.Immune, tag):
		return Immune
	case contains(def.StatusInteractions.Resistant, tag):
		return Resistant
	case contains(def.StatusInteractions.Vulnerable, tag):
		return Vulnerable
	default:
		return Normal
	}
}

// EnvironmentMultiplier returns the environmental damage multiplier for typeID in envID.
// Postcondition: returns 1.0 when no interaction is defined.
func (c *Chart) EnvironmentMultiplier(typeID, envID string) float64 {
	def, ok := c.Get(typeID)
	if !ok {
		return NeutralMultiplier
	}
	if m, ok := def.EnvironmentInteractions[envID]; ok {
		return m
	}
	return NeutralMultiplier
}

// String returns a short summary used in debug logs.
func (c *Chart) String() string {
	return fmt.Sprintf("element.Chart(%d types)", len(c.IDs()))
}
