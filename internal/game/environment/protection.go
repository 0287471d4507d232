package environment

import (
	"fmt"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// ProtectionKind selects how a Protection negates environmental effects.
type ProtectionKind string

const (
	// Full negates every effect, like type immunity.
	Full ProtectionKind = "full"
	// Partial multiplies damage and penalties by Factor.
	Partial ProtectionKind = "partial"
	// Temporary negates every effect while Turns > 0.
	Temporary ProtectionKind = "temporary"
)

// Protection is granted by equipment or consumables and layered on top of type immunity.
type Protection struct {
	// Environment is the environment id covered; empty covers every environment.
	Environment string         `yaml:"environment" json:"environment,omitempty"`
	Kind        ProtectionKind `yaml:"kind" json:"kind"`
	Factor      float64        `yaml:"factor" json:"factor,omitempty"`
	Turns       int            `yaml:"turns" json:"turns,omitempty"`
	// Source is the item id that granted the protection.
	Source string `yaml:"-" json:"source,omitempty"`
}

// Validate checks p's kind-specific fields.
func (p Protection) Validate(kind, id, field string) error {
	c := validate.NewCollector(kind, id)
	c.OneOf(field+".kind", string(p.Kind), string(Full), string(Partial), string(Temporary))
	switch p.Kind {
	case Partial:
		c.FloatRange(field+".factor", p.Factor, 0, 1)
	case Temporary:
		if p.Turns <= 0 {
			c.Addf(field+".turns", "must be > 0 for temporary protection, got %d", p.Turns)
		}
	}
	return c.Err()
}

// Covers reports whether p applies to envID.
func (p Protection) Covers(envID string) bool {
	return p.Environment == "" || p.Environment == envID
}

// Negates reports whether p currently cancels every effect.
func (p Protection) Negates() bool {
	return p.Kind == Full || (p.Kind == Temporary && p.Turns > 0)
}

// String renders p for narration and logs.
func (p Protection) String() string {
	scope := p.Environment
	if scope == "" {
		scope = "all environments"
	}
	switch p.Kind {
	case Partial:
		return fmt.Sprintf("partial protection (x%.2f) from %s", p.Factor, scope)
	case Temporary:
		return fmt.Sprintf("temporary protection (%d turns) from %s", p.Turns, scope)
	default:
		return fmt.Sprintf("full protection from %s", scope)
	}
}

// TickProtections counts every temporary protection down by one turn and drops
// the ones that run out. Other kinds are returned unchanged.
//
// Postcondition: the result holds no temporary protection with Turns <= 0.
func TickProtections(ps []Protection) []Protection {
	out := make([]Protection, 0, len(ps))
	for _, p := range ps {
		if p.Kind == Temporary {
			p.Turns--
			if p.Turns <= 0 {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
