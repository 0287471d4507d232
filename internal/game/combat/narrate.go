package combat

import (
	"strconv"
	"strings"
)

// Narration placeholders understood by ability and status templates.
const (
	phActor   = "{actor}"
	phTarget  = "{target}"
	phAbility = "{ability}"
	phDamage  = "{damage}"
	phHeal    = "{heal}"
	phStatus  = "{status}"
)

// Default templates used when content provides none.
const (
	defaultHit      = "{actor} uses {ability} on {target} for {damage} damage."
	defaultMiss     = "{actor} uses {ability} but misses {target}."
	defaultCrit     = "Critical hit! {actor}'s {ability} deals {damage} damage to {target}."
	defaultHeal     = "{actor} uses {ability} and restores {heal} life to {target}."
	defaultSupport  = "{actor} uses {ability} on {target}."
	defaultApply    = "{target} is afflicted with {status}."
	defaultTick     = "{target} takes {damage} damage from {status}."
	defaultRemove   = "{target} is no longer affected by {status}."
	defaultEvade    = "{target} evades {actor}'s {ability} thanks to {status}."
	defaultBreakOut = "{target} breaks free of {status}."
)

// narration carries the values substituted into a template.
type narration struct {
	Actor, Target, Ability, Status string
	Damage, Heal                   int
}

// render substitutes n into tmpl, falling back to def when tmpl is empty.
//
// Postcondition: every known placeholder is replaced; unknown text is kept verbatim.
func (n narration) render(tmpl, def string) string {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = def
	}
	r := strings.NewReplacer(
		phActor, n.Actor,
		phTarget, n.Target,
		phAbility, n.Ability,
		phDamage, strconv.Itoa(n.Damage),
		phHeal, strconv.Itoa(n.Heal),
		phStatus, n.Status,
	)
	return r.Replace(tmpl)
}
