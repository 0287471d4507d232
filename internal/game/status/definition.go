// Package status implements status effect definitions and the per-combatant
// status state machine: apply, tick and remove.
package status

import (
	"fmt"
	"math"
	"sort"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Category is the closed set of status behaviours.
type Category string

const (
	// DoT deals damage every tick.
	DoT Category = "dot"
	// StatMod pushes stat modifiers on gain and pops them on removal.
	StatMod Category = "stat"
	// ActionPrevent skips the holder's turn.
	ActionPrevent Category = "action_prevent"
	// Flag has no per-tick effect; it is consulted by other rules (evasion, combos).
	Flag Category = "flag"
)

// Duration types.
const (
	DurationTurns     = "turns"
	DurationPermanent = "permanent"
)

// Permanent is the turns value of a status that never decrements.
const Permanent = -1

// Struggle is the break-free check rolled each tick: d20 + the holder's Stat
// modifier must reach DC.
type Struggle struct {
	Stat stats.Stat `yaml:"stat"`
	DC   int        `yaml:"dc"`
}

// EndsOn lists the special removal conditions of a status.
type EndsOn struct {
	// UsesRange strips the status when its holder uses an ability of one of these ranges.
	UsesRange []string `yaml:"uses_range"`
	// HitByRange strips the status when its holder is hit by an ability of one of these ranges.
	HitByRange []string `yaml:"hit_by_range"`
	// Struggle, when set, lets the holder break free during the tick.
	Struggle *Struggle `yaml:"struggle"`
	// SourceMoveLacksEffect strips the status once its applier acts with an
	// ability that does not apply it again.
	SourceMoveLacksEffect bool `yaml:"source_move_lacks_effect"`
}

// Def is the static definition of a status, loaded from YAML.
type Def struct {
	Tag         string   `yaml:"tag"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category"`
	// Damage is the fixed per-tick damage of a DoT, per stack.
	Damage int `yaml:"damage"`
	// DamagePercent is the per-tick damage of a DoT as a fraction of max life, per stack.
	DamagePercent   float64       `yaml:"damage_percent"`
	Modifiers       []stats.Delta `yaml:"modifiers"`
	Turns           int           `yaml:"turns"`
	DurationType    string        `yaml:"duration_type"` // "turns" | "permanent"
	Stackable       bool          `yaml:"stackable"`
	MaxStacks       int           `yaml:"max_stacks"`
	Refreshable     bool          `yaml:"refreshable"`
	ImmuneTypes     []string      `yaml:"immune_types"`
	ResistantTypes  []string      `yaml:"resistant_types"`
	VulnerableTypes []string      `yaml:"vulnerable_types"`
	PreventsAction  bool          `yaml:"prevents_action"`
	// EvadesRanges lists ability ranges that miss the holder unless the attacker
	// also holds this status.
	EvadesRanges []string `yaml:"evades_ranges"`
	EndsOn       EndsOn   `yaml:"ends_on"`
	OnApply      string   `yaml:"on_apply"`
	OnTick       string   `yaml:"on_tick"`
	OnRemove     string   `yaml:"on_remove"`
}

// IsPermanent reports whether the status never expires on its own.
func (d *Def) IsPermanent() bool {
	return d.DurationType == DurationPermanent || d.Turns == Permanent
}

// StackCap returns the maximum stack count: MaxStacks for stackable statuses
// (unbounded when 0), otherwise 1.
func (d *Def) StackCap() int {
	if !d.Stackable {
		return 1
	}
	if d.MaxStacks <= 0 {
		return math.MaxInt
	}
	return d.MaxStacks
}

// DisplayName returns Name, or Tag when Name is empty.
func (d *Def) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Tag
}

// Validate checks d's fields.
func (d *Def) Validate() error {
	c := validate.NewCollector("status", d.Tag)
	c.Required("tag", d.Tag)
	c.OneOf("category", string(d.Category), string(DoT), string(StatMod), string(ActionPrevent), string(Flag))
	if d.DurationType != "" {
		c.OneOf("duration_type", d.DurationType, DurationTurns, DurationPermanent)
	}
	if !d.IsPermanent() && d.Turns <= 0 {
		c.Addf("turns", "must be > 0 unless duration_type is permanent, got %d", d.Turns)
	}
	if d.MaxStacks < 0 {
		c.Addf("max_stacks", "must be >= 0, got %d", d.MaxStacks)
	}
	if !d.Stackable && d.MaxStacks > 1 {
		c.Addf("max_stacks", "requires stackable: true")
	}
	if d.Damage < 0 {
		c.Addf("damage", "must be >= 0, got %d", d.Damage)
	}
	c.FloatRange("damage_percent", d.DamagePercent, 0, 1)
	if d.Category == DoT && d.Damage == 0 && d.DamagePercent == 0 {
		c.Addf("damage", "dot status must define damage or damage_percent")
	}
	if d.Category != DoT && (d.Damage != 0 || d.DamagePercent != 0) {
		c.Addf("damage", "only dot statuses deal tick damage")
	}
	if d.Category == StatMod && len(d.Modifiers) == 0 {
		c.Addf("modifiers", "stat status must define at least one modifier")
	}
	for i, m := range d.Modifiers {
		if !m.Stat.Valid() {
			c.Addf(fmt.Sprintf("modifiers[%d].stat", i), "unknown stat %q", m.Stat)
		}
	}
	if d.Category == ActionPrevent && !d.PreventsAction {
		c.Addf("prevents_action", "must be true for action_prevent statuses")
	}
	if s := d.EndsOn.Struggle; s != nil {
		if !s.Stat.IsAttribute() {
			c.Addf("ends_on.struggle.stat", "must be an attribute, got %q", s.Stat)
		}
		c.IntRange("ends_on.struggle.dc", s.DC, 1, 40)
	}
	return c.Err()
}

// Registry holds all known status Defs keyed by tag.
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
// Postcondition: returns a ConfigError when def is invalid or its tag is already registered.
func (r *Registry) Register(def *Def) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, dup := r.defs[def.Tag]; dup {
		return validate.Errorf("status", def.Tag, "tag", "duplicate status tag")
	}
	r.defs[def.Tag] = def
	return nil
}

// Get returns the Def for tag, or (nil, false) if not found.
func (r *Registry) Get(tag string) (*Def, bool) {
	d, ok := r.defs[tag]
	return d, ok
}

// All returns every registered Def sorted by tag.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
