// Package environment loads environmental hazard definitions and resolves
// their per-intensity effects on combatants.
package environment

import (
	"fmt"
	"sort"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Intensity bounds. Every category's ranges must partition [MinIntensity, MaxIntensity].
const (
	MinIntensity = 1
	MaxIntensity = 10
)

// Category is one kind of environmental effect.
type Category string

const (
	// Damage deals Value life per round.
	Damage Category = "damage"
	// StatusEffect applies status Type for Value turns at Chance.
	StatusEffect Category = "status_effect"
	// AccuracyPenalty subtracts Value points from accuracy rolls.
	AccuracyPenalty Category = "accuracy_penalty"
	// DamagePenalty reduces outgoing ability damage by the fraction Value.
	DamagePenalty Category = "damage_penalty"
	// BreathLoss drains Value mana per round.
	BreathLoss Category = "breath_loss"
	// LightningStrike deals Value damage at Chance.
	LightningStrike Category = "lightning_strike"
	// Tripping makes the combatant lose its turn at Chance.
	Tripping Category = "tripping"
)

// Categories lists every known category in resolution order.
var Categories = []Category{Damage, StatusEffect, AccuracyPenalty, DamagePenalty, BreathLoss, LightningStrike, Tripping}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Range maps the intensities [Min, Max] to concrete effect values.
type Range struct {
	Min   int     `yaml:"min"`
	Max   int     `yaml:"max"`
	Value float64 `yaml:"value"`
	// Chance is a fraction in [0, 1]; content percentages are converted on load.
	Chance float64 `yaml:"chance"`
	// Type names the status applied by StatusEffect ranges.
	Type string `yaml:"type"`
}

// Contains reports whether intensity lies in [r.Min, r.Max].
func (r Range) Contains(intensity int) bool {
	return intensity >= r.Min && intensity <= r.Max
}

// Effect is the intensity table for one category.
type Effect struct {
	IntensityRanges []Range `yaml:"intensity_ranges"`
}

// Lookup returns the range containing intensity.
func (e Effect) Lookup(intensity int) (Range, bool) {
	for _, r := range e.IntensityRanges {
		if r.Contains(intensity) {
			return r, true
		}
	}
	return Range{}, false
}

// Def is the static definition of an environment, loaded from YAML.
type Def struct {
	ID          string              `yaml:"id"`
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	ImmuneType  string              `yaml:"immune_type"`
	Effects     map[Category]Effect `yaml:"effects"`
}

// Validate checks that every category is known and that its ranges partition
// the intensities 1..10 exactly: contiguous, non-overlapping, starting at 1 and
// ending at 10.
func (d *Def) Validate() error {
	c := validate.NewCollector("environment", d.ID)
	c.Required("id", d.ID)
	for _, cat := range d.categories() {
		field := fmt.Sprintf("effects.%s.intensity_ranges", cat)
		if !cat.Valid() {
			c.Addf("effects."+string(cat), "unknown effect category")
			continue
		}
		ranges := d.Effects[cat].IntensityRanges
		if len(ranges) == 0 {
			c.Addf(field, "must define at least one range")
			continue
		}
		for i, r := range ranges {
			c.FloatRange(fmt.Sprintf("%s[%d].chance", field, i), r.Chance, 0, 1)
			if r.Value < 0 {
				c.Addf(fmt.Sprintf("%s[%d].value", field, i), "must be >= 0, got %g", r.Value)
			}
			if cat == StatusEffect && r.Chance > 0 && r.Type == "" {
				c.Addf(fmt.Sprintf("%s[%d].type", field, i), "must name a status when chance > 0")
			}
			if cat == DamagePenalty && r.Value > 1 {
				c.Addf(fmt.Sprintf("%s[%d].value", field, i), "must be a fraction in [0, 1], got %g", r.Value)
			}
		}
		if err := checkPartition(ranges); err != nil {
			c.Addf(field, "%s", err)
		}
	}
	return c.Err()
}

// categories returns the defined categories in sorted order.
func (d *Def) categories() []Category {
	out := make([]Category, 0, len(d.Effects))
	for cat := range d.Effects {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// checkPartition reports why ranges do not exactly cover MinIntensity..MaxIntensity.
func checkPartition(ranges []Range) error {
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })
	next := MinIntensity
	for _, r := range sorted {
		if r.Min > r.Max {
			return fmt.Errorf("range [%d, %d] has min > max", r.Min, r.Max)
		}
		switch {
		case r.Min < MinIntensity:
			return fmt.Errorf("range [%d, %d] starts below intensity %d", r.Min, r.Max, MinIntensity)
		case r.Min < next:
			return fmt.Errorf("range [%d, %d] overlaps intensity %d", r.Min, r.Max, r.Min)
		case r.Min > next:
			return fmt.Errorf("intensity %d is not covered", next)
		}
		next = r.Max + 1
	}
	if next <= MaxIntensity {
		return fmt.Errorf("intensity %d is not covered", next)
	}
	if next > MaxIntensity+1 {
		return fmt.Errorf("ranges extend past intensity %d", MaxIntensity)
	}
	return nil
}
