// Package ability defines ability content records and tracks per-combatant
// ability usage (cooldowns and per-battle use limits).
package ability

import (
	"fmt"
	"sort"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Kind is the closed set of ability categories.
type Kind string

const (
	Physical Kind = "physical"
	Magic    Kind = "magic"
	Heal     Kind = "heal"
	Buff     Kind = "buff"
	Status   Kind = "status"
)

// Range is the reach of an ability.
type Range string

const (
	Close  Range = "close"
	Ranged Range = "ranged"
	Self   Range = "self"
)

// Targeting selects which side an ability may target.
type Targeting string

const (
	TargetEnemy Targeting = "enemy"
	TargetAlly  Targeting = "ally"
	TargetSelf  Targeting = "self"
)

// Effect targets.
const (
	EffectOnTarget = "target"
	EffectOnSelf   = "self"
)

// Default critical hit parameters.
const (
	DefaultCritChance     = 0.05
	DefaultCritMultiplier = 2.0
)

// Effect is the secondary status an ability applies.
type Effect struct {
	Status string `yaml:"status"`
	// Chance is a fraction in [0, 1].
	Chance float64 `yaml:"chance"`
	// Turns overrides the status definition's turns when > 0.
	Turns  int    `yaml:"turns"`
	Target string `yaml:"target"` // "target" | "self"
}

// OnSelf reports whether the effect lands on the caster.
func (e *Effect) OnSelf() bool { return e.Target == EffectOnSelf }

// Combo restricts an ability to follow specific prior abilities.
type Combo struct {
	// FollowsFrom lists ability names or ids; the caster's previous action must be one of them.
	FollowsFrom []string `yaml:"follows_from"`
}

// Def is the static definition of an ability, loaded from YAML.
type Def struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	Description    string    `yaml:"description"`
	Kind           Kind      `yaml:"type"`
	Range          Range     `yaml:"range"`
	Targets        Targeting `yaml:"targets"`
	MinDamage      int       `yaml:"min_damage"`
	MaxDamage      int       `yaml:"max_damage"`
	Accuracy       int       `yaml:"accuracy"`
	MPCost         int       `yaml:"mp_cost"`
	Cooldown       int       `yaml:"cooldown"`
	UsesPerBattle  int       `yaml:"uses_per_battle"` // 0 = unlimited
	CritChance     *float64  `yaml:"crit_chance"`
	CritMultiplier *float64  `yaml:"crit_multiplier"`
	Effect         *Effect   `yaml:"effect"`
	Combo          *Combo    `yaml:"combo"`
	RequiresStatus string    `yaml:"requires_status"`
	// LifeSteal is the fraction of dealt damage returned to the caster.
	LifeSteal         float64  `yaml:"life_steal"`
	BreaksDefense     bool     `yaml:"breaks_defense"`
	RemovesStatusSelf []string `yaml:"removes_status_self"`
	// ElementalType overrides the caster's type for effectiveness.
	ElementalType string        `yaml:"elemental_type"`
	Boosts        []stats.Boost `yaml:"boosts"`
	// Scales adds the caster's physical or magic damage stat to the roll.
	Scales bool   `yaml:"scales"`
	OnHit  string `yaml:"on_hit"`
	OnMiss string `yaml:"on_miss"`
	OnCrit string `yaml:"on_crit"`
}

// IsPureStatus reports whether the ability deals no damage and heals nothing.
func (d *Def) IsPureStatus() bool { return d.MinDamage == 0 && d.MaxDamage == 0 }

// Target returns the ability's targeting, defaulting by kind: heal and buff
// target allies, self-range abilities target the caster, everything else targets enemies.
func (d *Def) Target() Targeting {
	if d.Targets != "" {
		return d.Targets
	}
	switch {
	case d.Range == Self:
		return TargetSelf
	case d.Kind == Heal || d.Kind == Buff:
		return TargetAlly
	default:
		return TargetEnemy
	}
}

// CritOr returns the ability's crit chance and multiplier, falling back to
// the given defaults for values the ability does not override.
func (d *Def) CritOr(chance, multiplier float64) (float64, float64) {
	if d.CritChance != nil {
		chance = *d.CritChance
	}
	if d.CritMultiplier != nil {
		multiplier = *d.CritMultiplier
	}
	return chance, multiplier
}

// Capped reports whether the ability has a per-battle use limit.
func (d *Def) Capped() bool { return d.UsesPerBattle > 0 }

// Follows reports whether the combo precondition accepts a previous ability
// with the given id and name. Abilities without a combo always accept.
func (d *Def) Follows(prevID, prevName string) bool {
	if d.Combo == nil || len(d.Combo.FollowsFrom) == 0 {
		return true
	}
	if prevID == "" && prevName == "" {
		return false
	}
	for _, f := range d.Combo.FollowsFrom {
		if f == prevID || f == prevName {
			return true
		}
	}
	return false
}

// DisplayName returns Name, or ID when Name is empty.
func (d *Def) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Validate checks the fields of d that do not depend on other definitions.
func (d *Def) Validate() error {
	c := validate.NewCollector("ability", d.ID)
	c.Required("id", d.ID)
	c.OneOf("type", string(d.Kind), string(Physical), string(Magic), string(Heal), string(Buff), string(Status))
	c.OneOf("range", string(d.Range), string(Close), string(Ranged), string(Self))
	if d.Targets != "" {
		c.OneOf("targets", string(d.Targets), string(TargetEnemy), string(TargetAlly), string(TargetSelf))
	}
	if d.MinDamage < 0 {
		c.Addf("min_damage", "must be >= 0, got %d", d.MinDamage)
	}
	if d.MaxDamage < d.MinDamage {
		c.Addf("max_damage", "must be >= min_damage (%d), got %d", d.MinDamage, d.MaxDamage)
	}
	c.IntRange("accuracy", d.Accuracy, 0, 100)
	if d.MPCost < 0 {
		c.Addf("mp_cost", "must be >= 0, got %d", d.MPCost)
	}
	if d.Cooldown < 0 {
		c.Addf("cooldown", "must be >= 0, got %d", d.Cooldown)
	}
	if d.UsesPerBattle < 0 {
		c.Addf("uses_per_battle", "must be >= 0, got %d", d.UsesPerBattle)
	}
	if d.CritChance != nil {
		c.FloatRange("crit_chance", *d.CritChance, 0, 1)
	}
	if d.CritMultiplier != nil && *d.CritMultiplier < 1 {
		c.Addf("crit_multiplier", "must be >= 1, got %g", *d.CritMultiplier)
	}
	c.FloatRange("life_steal", d.LifeSteal, 0, 1)
	if e := d.Effect; e != nil {
		c.Required("effect.status", e.Status)
		c.FloatRange("effect.chance", e.Chance, 0, 1)
		if e.Turns < 0 {
			c.Addf("effect.turns", "must be >= 0, got %d", e.Turns)
		}
		if e.Target != "" {
			c.OneOf("effect.target", e.Target, EffectOnTarget, EffectOnSelf)
		}
	}
	if (d.Kind == Physical || d.Kind == Magic) && d.IsPureStatus() && d.Effect == nil && len(d.Boosts) == 0 {
		c.Addf("max_damage", "damaging ability must deal damage or apply an effect")
	}
	if d.Kind == Heal && d.MaxDamage == 0 {
		c.Addf("max_damage", "heal ability must restore at least 1 life")
	}
	if d.Kind == Buff && len(d.Boosts) == 0 && d.Effect == nil {
		c.Addf("boosts", "buff ability must define boosts or an effect")
	}
	for i, b := range d.Boosts {
		field := fmt.Sprintf("boosts[%d]", i)
		if !b.Stat.Valid() {
			c.Addf(field+".stat", "unknown stat %q", b.Stat)
		}
		if b.Turns <= 0 {
			c.Addf(field+".turns", "must be > 0, got %d", b.Turns)
		}
	}
	return c.Err()
}

// Registry holds all known ability Defs keyed by id.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register validates def and adds it to the registry.
//
// Precondition: def must not be nil.
// Postcondition: returns a ConfigError when def is invalid or its id is already registered.
func (r *Registry) Register(def *Def) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, dup := r.defs[def.ID]; dup {
		return validate.Errorf("ability", def.ID, "id", "duplicate ability id")
	}
	r.defs[def.ID] = def
	return nil
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered Def sorted by id.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
