package environment

import (
	"math"
	"sort"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/element"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Modifiers is the resolved effect of one environment at one intensity.
// Chances are fractions in [0, 1].
type Modifiers struct {
	Damage          int
	StatusChance    float64
	StatusType      string
	StatusTurns     int
	AccuracyPenalty int
	DamagePenalty   float64
	BreathLoss      int
	LightningChance float64
	LightningDamage int
	TripChance      float64
}

// Exposure is the environment's effect on one combatant after type immunity,
// type interactions and protections.
type Exposure struct {
	Modifiers
	// Immune is set when the combatant's type matches the environment's immune type.
	Immune bool
	// Protected is set when a full or active temporary protection negated every effect.
	Protected bool
	// ActualDamage is the per-round damage after the type's environment multiplier
	// and any partial protection.
	ActualDamage int
}

// Negated reports whether every effect was cancelled.
func (e Exposure) Negated() bool { return e.Immune || e.Protected }

// Resolver resolves environment effects by id and intensity.
type Resolver struct {
	envs  map[string]*Def
	chart *element.Chart
}

// NewResolver validates defs and builds a Resolver. chart may be nil.
//
// Postcondition: on success every def passed Validate.
func NewResolver(chart *element.Chart, defs ...*Def) (*Resolver, error) {
	r := &Resolver{envs: make(map[string]*Def, len(defs)), chart: chart}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.envs[d.ID]; dup {
			return nil, validate.Errorf("environment", d.ID, "id", "duplicate environment id")
		}
		r.envs[d.ID] = d
	}
	return r, nil
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Resolver) Get(id string) (*Def, bool) {
	d, ok := r.envs[id]
	return d, ok
}

// IDs returns every environment id in sorted order.
func (r *Resolver) IDs() []string {
	out := make([]string, 0, len(r.envs))
	for id := range r.envs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Resolve selects, for every category envID defines, the range containing intensity.
// Categories the environment does not define contribute nothing.
//
// Precondition: intensity in [MinIntensity, MaxIntensity].
// Postcondition: returns a ConfigError when envID is unknown, intensity is out
// of bounds or a defined category has no matching range.
func (r *Resolver) Resolve(envID string, intensity int) (Modifiers, error) {
	def, ok := r.envs[envID]
	if !ok {
		return Modifiers{}, validate.Errorf("environment", envID, "id", "unknown environment")
	}
	if intensity < MinIntensity || intensity > MaxIntensity {
		return Modifiers{}, validate.Errorf("environment", envID, "intensity", "must be in [%d, %d], got %d", MinIntensity, MaxIntensity, intensity)
	}
	var m Modifiers
	for _, cat := range def.categories() {
		rng, ok := def.Effects[cat].Lookup(intensity)
		if !ok {
			return Modifiers{}, validate.Errorf("environment", envID, "effects."+string(cat), "no intensity range contains %d", intensity)
		}
		switch cat {
		case Damage:
			m.Damage = int(rng.Value)
		case StatusEffect:
			m.StatusChance = rng.Chance
			m.StatusType = rng.Type
			m.StatusTurns = int(rng.Value)
		case AccuracyPenalty:
			m.AccuracyPenalty = int(rng.Value)
		case DamagePenalty:
			m.DamagePenalty = rng.Value
		case BreathLoss:
			m.BreathLoss = int(rng.Value)
		case LightningStrike:
			m.LightningChance = rng.Chance
			m.LightningDamage = int(rng.Value)
		case Tripping:
			m.TripChance = rng.Chance
		}
	}
	return m, nil
}

// Expose resolves envID at intensity for a combatant of elementalType holding protections.
// Type immunity is checked before range lookup and zeroes everything; a covering
// full or active temporary protection zeroes everything; covering partial
// protections multiply damage and penalties by their factors.
//
// Postcondition: Negated() implies every numeric field is zero.
func (r *Resolver) Expose(envID string, intensity int, elementalType string, protections []Protection) (Exposure, error) {
	def, ok := r.envs[envID]
	if !ok {
		return Exposure{}, validate.Errorf("environment", envID, "id", "unknown environment")
	}
	if def.ImmuneType != "" && elementalType == def.ImmuneType {
		return Exposure{Immune: true}, nil
	}
	m, err := r.Resolve(envID, intensity)
	if err != nil {
		return Exposure{}, err
	}
	factor := 1.0
	for _, p := range protections {
		if !p.Covers(envID) {
			continue
		}
		if p.Negates() {
			return Exposure{Protected: true}, nil
		}
		if p.Kind == Partial {
			factor *= p.Factor
		}
	}
	if factor < 1 {
		m.Damage = scale(m.Damage, factor)
		m.AccuracyPenalty = scale(m.AccuracyPenalty, factor)
		m.DamagePenalty *= factor
		m.BreathLoss = scale(m.BreathLoss, factor)
		m.LightningDamage = scale(m.LightningDamage, factor)
	}
	actual := scale(m.Damage, r.chart.EnvironmentMultiplier(elementalType, envID))
	return Exposure{Modifiers: m, ActualDamage: actual}, nil
}

func scale(v int, f float64) int {
	return int(math.Floor(float64(v)*f + 1e-9))
}
