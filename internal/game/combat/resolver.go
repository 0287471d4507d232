package combat

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/status"
)

// Rules holds the battle-wide tunables.
type Rules struct {
	// CritChance is the fraction used when an ability does not override it.
	CritChance     float64
	CritMultiplier float64
	// FleeThreshold is the minimum 1d6 roll that lets a combatant flee.
	FleeThreshold int
	// MaxRounds ends a battle as Fled once reached; 0 means unlimited.
	MaxRounds int
}

// DefaultRules returns the standard crit and flee rules with no round limit.
func DefaultRules() Rules {
	return Rules{
		CritChance:     ability.DefaultCritChance,
		CritMultiplier: ability.DefaultCritMultiplier,
		FleeThreshold:  4,
	}
}

// Resolution reports everything one ability use did.
type Resolution struct {
	Ability string
	// Hit is false on a miss or evasion.
	Hit    bool
	Evaded bool
	// EvadedBy is the status that caused the evasion.
	EvadedBy      string
	Damage        int
	Crit          bool
	Effectiveness float64
	Healed        int
	LifeStolen    int
	// StatusApplied is the tag of the secondary effect, empty when none took.
	StatusApplied string
	// SelfRemoved lists statuses the caster lost by using the ability.
	SelfRemoved []string
	// Stripped lists statuses the target lost by being hit.
	Stripped []string
	Lines    []string
}

// Resolver applies one ability use to a caster and target.
// It is not safe for concurrent use.
type Resolver struct {
	provider Provider
	src      dice.Source
	rules    Rules
	logger   *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: provider and src must not be nil.
// Postcondition: a nil logger is replaced with zap.NewNop().
func NewResolver(provider Provider, src dice.Source, rules Rules, logger *zap.Logger) *Resolver {
	if provider == nil {
		panic("combat.NewResolver: provider must not be nil")
	}
	if src == nil {
		panic("combat.NewResolver: src must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{provider: provider, src: src, rules: rules, logger: logger}
}

// Check validates that caster may use abilityID on target right now.
//
// Postcondition: returns an *UnavailableError or *TargetError on failure and
// never mutates either combatant.
func (r *Resolver) Check(caster, target *Combatant, abilityID string) (*ability.Def, error) {
	def, ok := r.provider.Ability(abilityID)
	if !ok {
		return nil, &UnavailableError{Ability: abilityID, Reason: ability.ReasonUnknown}
	}
	unavailable := func(reason ability.Reason) (*ability.Def, error) {
		return nil, &UnavailableError{Ability: abilityID, Reason: reason}
	}
	if !caster.Knows(abilityID) {
		return unavailable(ability.ReasonNotKnown)
	}
	if caster.Mana < def.MPCost {
		return unavailable(ability.ReasonMana)
	}
	if reason, ok := caster.Usage.Check(def); !ok {
		return unavailable(reason)
	}
	if !def.Follows(caster.LastAbility, r.abilityName(caster.LastAbility)) {
		return unavailable(ability.ReasonCombo)
	}
	if err := checkTarget(caster, target, def); err != nil {
		return nil, err
	}
	if def.RequiresStatus != "" && !target.Statuses.Has(def.RequiresStatus) {
		return unavailable(ability.ReasonRequiresStatus)
	}
	return def, nil
}

func (r *Resolver) abilityName(id string) string {
	if id == "" {
		return ""
	}
	if def, ok := r.provider.Ability(id); ok {
		return def.Name
	}
	return ""
}

// checkTarget enforces the ability's targeting rule.
func checkTarget(caster, target *Combatant, def *ability.Def) error {
	if target == nil {
		return &TargetError{Reason: "no target"}
	}
	if !target.Active() {
		return &TargetError{Target: target.ID, Reason: "target is not in the fight"}
	}
	switch def.Target() {
	case ability.TargetSelf:
		if target != caster {
			return &TargetError{Target: target.ID, Reason: "ability targets only its user"}
		}
	case ability.TargetAlly:
		if target.Side != caster.Side {
			return &TargetError{Target: target.ID, Reason: "ability targets allies"}
		}
	default:
		if target.Side == caster.Side {
			return &TargetError{Target: target.ID, Reason: "ability targets enemies"}
		}
	}
	return nil
}

// Resolve uses abilityID from caster on target under the caster's environment
// modifiers.
//
// Resolution order: preconditions, evasion, accuracy, damage (type multiplier,
// environment penalty, defense, crit), life steal, secondary effect, self
// status removal, then mana, cooldown and use consumption. Resources are
// consumed on a miss too.
//
// Precondition: caster and target must not be nil.
// Postcondition: on a recoverable error nothing is consumed or changed; on
// success 0 <= Life <= MaxLife holds for both combatants.
func (r *Resolver) Resolve(caster, target *Combatant, abilityID string, env environment.Modifiers) (Resolution, error) {
	def, err := r.Check(caster, target, abilityID)
	if err != nil {
		return Resolution{}, err
	}
	res := Resolution{Ability: def.ID, Effectiveness: 1}
	n := narration{Actor: caster.Name, Target: target.Name, Ability: def.DisplayName()}
	hostile := def.Target() == ability.TargetEnemy

	if hostile {
		if tag, ok := target.Statuses.Evades(string(def.Range)); ok && !caster.Statuses.Has(tag) {
			res.Evaded, res.EvadedBy = true, tag
			n.Status = tag
			if sd, ok := r.provider.Status(tag); ok {
				n.Status = sd.DisplayName()
			}
			res.Lines = append(res.Lines, n.render("", defaultEvade))
		}
	}
	if !res.Evaded {
		res.Hit = !hostile || r.rollHit(caster, def, env)
		if !res.Hit {
			res.Lines = append(res.Lines, n.render(def.OnMiss, defaultMiss))
		}
	}

	if res.Hit {
		if err := r.land(caster, target, def, env, &res, &n); err != nil {
			return res, err
		}
	}

	for _, tag := range def.RemovesStatusSelf {
		if caster.Statuses.Remove(caster, tag) {
			res.SelfRemoved = append(res.SelfRemoved, tag)
		}
	}
	for _, tag := range caster.Statuses.EndedByUse(string(def.Range)) {
		caster.Statuses.Remove(caster, tag)
		res.SelfRemoved = append(res.SelfRemoved, tag)
	}
	for _, tag := range res.SelfRemoved {
		res.Lines = append(res.Lines, r.removedLine(caster, tag))
	}

	caster.DrainMana(def.MPCost)
	caster.Usage.Consume(def)
	caster.LastAbility = def.ID

	r.logger.Debug("ability resolved",
		zap.String("caster", caster.ID),
		zap.String("target", target.ID),
		zap.String("ability", def.ID),
		zap.Bool("hit", res.Hit),
		zap.Bool("evaded", res.Evaded),
		zap.Int("damage", res.Damage),
		zap.Bool("crit", res.Crit),
		zap.Int("healed", res.Healed),
		zap.String("status", res.StatusApplied),
	)
	return res, nil
}

// rollHit rolls Intn(100) against the effective accuracy, clamped to [0, 100].
func (r *Resolver) rollHit(caster *Combatant, def *ability.Def, env environment.Modifiers) bool {
	acc := def.Accuracy + caster.Secondary().Accuracy - env.AccuracyPenalty
	acc = min(100, max(0, acc))
	return dice.Percent(r.src) < acc
}

// land applies the effects of a successful use.
func (r *Resolver) land(caster, target *Combatant, def *ability.Def, env environment.Modifiers, res *Resolution, n *narration) error {
	switch def.Kind {
	case ability.Heal:
		amount := dice.Between(r.src, def.MinDamage, def.MaxDamage)
		if def.Scales {
			amount += caster.Secondary().MagicDamage
		}
		res.Healed = target.Heal(amount)
		n.Heal = res.Healed
		res.Lines = append(res.Lines, n.render(def.OnHit, defaultHeal))
	case ability.Buff:
		res.Lines = append(res.Lines, n.render(def.OnHit, defaultSupport))
	default:
		if def.IsPureStatus() {
			res.Lines = append(res.Lines, n.render(def.OnHit, defaultSupport))
			break
		}
		r.damage(caster, target, def, env, res)
		n.Damage = res.Damage
		if res.Crit {
			res.Lines = append(res.Lines, n.render(def.OnCrit, defaultCrit))
		} else {
			res.Lines = append(res.Lines, n.render(def.OnHit, defaultHit))
		}
	}

	if def.Target() == ability.TargetEnemy {
		for _, tag := range target.Statuses.EndedByHit(string(def.Range)) {
			target.Statuses.Remove(target, tag)
			res.Stripped = append(res.Stripped, tag)
			res.Lines = append(res.Lines, r.removedLine(target, tag))
		}
	}

	if len(def.Boosts) > 0 {
		recipient := target
		if def.Target() == ability.TargetEnemy {
			recipient = caster
		}
		src := stats.Source{Kind: stats.SourceBoost, ID: def.ID}
		recipient.Mods.RemoveBySource(src)
		for _, b := range def.Boosts {
			recipient.Mods.Push(b.Modifier(src))
		}
	}

	if def.LifeSteal > 0 && res.Damage > 0 {
		res.LifeStolen = caster.Heal(int(math.Floor(float64(res.Damage)*def.LifeSteal + 1e-9)))
	}

	if def.Effect != nil && def.Effect.Status != "" {
		recipient := target
		if def.Effect.OnSelf() {
			recipient = caster
		}
		if recipient.IsDefeated() || !dice.Chance(r.src, def.Effect.Chance) {
			return nil
		}
		sdef, ok := r.provider.Status(def.Effect.Status)
		if !ok {
			return fmt.Errorf("ability %q: effect status %q is not defined", def.ID, def.Effect.Status)
		}
		out := recipient.Statuses.Apply(recipient, status.Application{Def: sdef, Turns: def.Effect.Turns, Source: caster.ID}, r.provider.Chart())
		if out.Outcome.Took() {
			res.StatusApplied = sdef.Tag
			sn := narration{Actor: caster.Name, Target: recipient.Name, Ability: def.DisplayName(), Status: sdef.DisplayName()}
			res.Lines = append(res.Lines, sn.render(sdef.OnApply, defaultApply))
		}
	}
	return nil
}

// damage rolls and deals damage for a physical or magic ability.
func (r *Resolver) damage(caster, target *Combatant, def *ability.Def, env environment.Modifiers, res *Resolution) {
	cs, ts := caster.Secondary(), target.Secondary()
	roll := dice.Between(r.src, def.MinDamage, def.MaxDamage)
	defense := ts.PhysicalDefense
	if def.Kind == ability.Magic {
		defense = ts.MagicDefense
		if def.Scales {
			roll += cs.MagicDamage
		}
	} else if def.Scales {
		roll += cs.PhysicalDamage
	}

	attackType := def.ElementalType
	if attackType == "" {
		attackType = caster.ElementalType
	}
	res.Effectiveness = r.provider.Chart().Effectiveness(attackType, target.ElementalType)

	dmg := float64(roll) * res.Effectiveness * (1 - env.DamagePenalty)
	if !def.BreaksDefense {
		dmg -= float64(defense)
	}
	chance, mult := def.CritOr(r.rules.CritChance, r.rules.CritMultiplier)
	if dice.Chance(r.src, chance) {
		res.Crit = true
		dmg *= mult
	}
	final := max(0, int(math.Floor(dmg+1e-9)))
	res.Damage = target.TakeDamage(final)
}

// removedLine narrates tag leaving c.
func (r *Resolver) removedLine(c *Combatant, tag string) string {
	return statusLine(r.provider, c, tag, func(d *status.Def) string { return d.OnRemove }, defaultRemove, 0)
}

// statusLine renders a status narration for c using the template pick selects.
func statusLine(p Provider, c *Combatant, tag string, pick func(*status.Def) string, def string, damage int) string {
	n := narration{Target: c.Name, Status: tag, Damage: damage}
	tmpl := ""
	if sd, ok := p.Status(tag); ok {
		n.Status = sd.DisplayName()
		tmpl = pick(sd)
	}
	return n.render(tmpl, def)
}
