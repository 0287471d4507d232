package npc

import "github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"

// HealthDescription returns a visible health state for c, suitable for
// showing enemies without their exact life.
//
// Postcondition: returns a non-empty string.
func HealthDescription(c *combat.Combatant) string {
	switch {
	case c.Fled:
		return "fled"
	case c.Life <= 0:
		return "defeated"
	case c.MaxLife <= 0:
		return "unharmed"
	}
	pct := float64(c.Life) / float64(c.MaxLife)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
