package combat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/status"
)

// playRound advances the state machine by one round.
func (b *Battle) playRound(ctx context.Context) error {
	b.exposure = make(map[string]environment.Modifiers)
	b.tripped = make(map[string]bool)
	defer func() { b.queued = make(map[string]Action) }()

	if ctx.Err() != nil {
		b.interrupt()
		return nil
	}
	if err := b.roundStart(); err != nil {
		return err
	}
	b.deathCheck()
	if b.decide() {
		return b.finish()
	}

	for _, actor := range InitiativeOrder(b.combatants) {
		if ctx.Err() != nil {
			b.interrupt()
			return nil
		}
		if !actor.Active() {
			continue
		}
		if err := b.act(actor); err != nil {
			return err
		}
		b.deathCheck()
		if b.decide() {
			return b.finish()
		}
	}

	b.statusTick()
	b.deathCheck()
	if !b.decide() && b.rules.MaxRounds > 0 && b.round >= b.rules.MaxRounds {
		b.outcome = Fled
		b.record(PhaseBattleEnd, "", "", "Both sides break off the fight.")
	}
	return b.finish()
}

// interrupt ends the battle as Fled after a cancelled context.
func (b *Battle) interrupt() {
	b.outcome = Fled
	b.record(PhaseBattleEnd, "", "", "The battle was interrupted.")
	b.resolved = b.round
}

// finish closes the round: victory spoils are rolled and the counter advances.
func (b *Battle) finish() error {
	b.resolved = b.round
	if b.outcome == Victory {
		if err := b.collectSpoils(); err != nil {
			return err
		}
	}
	if b.Over() {
		b.logger.Info("battle ended",
			zap.String("battle", b.id),
			zap.String("outcome", b.outcome.String()),
			zap.Int("rounds", b.resolved),
		)
		return nil
	}
	b.round++
	return nil
}

// roundStart applies the environment to every active combatant, then counts
// temporary protections down.
func (b *Battle) roundStart() error {
	if b.env == nil {
		return nil
	}
	envs := b.provider.Environments()
	name := b.env.ID
	if def, ok := envs.Get(b.env.ID); ok && def.Name != "" {
		name = def.Name
	}
	for _, c := range b.combatants {
		if !c.Active() {
			continue
		}
		exp, err := envs.Expose(b.env.ID, b.env.Intensity, c.ElementalType, c.Protections)
		if err != nil {
			return fmt.Errorf("exposing %s to %q: %w", c.ID, b.env.ID, err)
		}
		if exp.Negated() {
			b.logger.Debug("environment negated",
				zap.String("combatant", c.ID),
				zap.Bool("immune", exp.Immune),
				zap.Bool("protected", exp.Protected),
			)
			continue
		}
		b.exposure[c.ID] = exp.Modifiers
		if err := b.expose(c, name, exp); err != nil {
			return err
		}
	}
	for _, c := range b.combatants {
		c.Protections = environment.TickProtections(c.Protections)
	}
	return nil
}

// expose applies one combatant's environmental exposure.
func (b *Battle) expose(c *Combatant, envName string, exp environment.Exposure) error {
	if exp.ActualDamage > 0 {
		taken := c.TakeDamage(exp.ActualDamage)
		b.record(PhaseRoundStart, "", c.ID, fmt.Sprintf("%s takes %d damage from the %s.", c.Name, taken, envName))
	}
	m := exp.Modifiers
	if m.StatusType != "" && dice.Chance(b.src, m.StatusChance) && !c.IsDefeated() {
		def, ok := b.provider.Status(m.StatusType)
		if !ok {
			return fmt.Errorf("environment %q: status %q is not defined", b.env.ID, m.StatusType)
		}
		out := c.Statuses.Apply(c, status.Application{Def: def, Turns: m.StatusTurns}, b.provider.Chart())
		if out.Outcome.Took() {
			n := narration{Actor: envName, Target: c.Name, Status: def.DisplayName()}
			b.record(PhaseRoundStart, "", c.ID, n.render(def.OnApply, defaultApply))
		}
	}
	if m.BreathLoss > 0 {
		if lost := c.DrainMana(m.BreathLoss); lost > 0 {
			b.record(PhaseRoundStart, "", c.ID, fmt.Sprintf("%s struggles for breath and loses %d mana.", c.Name, lost))
		}
	}
	if m.LightningDamage > 0 && dice.Chance(b.src, m.LightningChance) && !c.IsDefeated() {
		taken := c.TakeDamage(m.LightningDamage)
		b.record(PhaseRoundStart, "", c.ID, fmt.Sprintf("Lightning strikes %s for %d damage!", c.Name, taken))
	}
	if dice.Chance(b.src, m.TripChance) && !c.IsDefeated() {
		b.tripped[c.ID] = true
		b.record(PhaseRoundStart, "", c.ID, fmt.Sprintf("%s trips and loses their footing.", c.Name))
	}
	return nil
}

// act performs actor's action for the round.
func (b *Battle) act(actor *Combatant) error {
	actor.Mods.RemoveBySource(defendSource(actor.ID))

	if tag, ok := actor.Statuses.PreventsAction(); ok {
		name := tag
		if def, ok := b.provider.Status(tag); ok {
			name = def.DisplayName()
		}
		b.record(PhaseAction, actor.ID, "", fmt.Sprintf("%s cannot act (%s).", actor.Name, name))
		actor.LastAbility = ""
		return nil
	}
	if b.tripped[actor.ID] {
		b.record(PhaseAction, actor.ID, "", fmt.Sprintf("%s is still getting back up.", actor.Name))
		actor.LastAbility = ""
		return nil
	}

	act, queued := b.queued[actor.ID]
	if !queued {
		act = b.choose(actor)
	}
	b.logger.Debug("action",
		zap.Int("round", b.round),
		zap.String("actor", actor.ID),
		zap.String("kind", act.Kind.String()),
		zap.String("ability", act.Ability),
		zap.String("item", act.Item),
		zap.String("target", act.Target),
	)

	var used *ability.Def
	switch act.Kind {
	case ActionAbility:
		def, err := b.useAbility(actor, act)
		if err != nil {
			return err
		}
		used = def
	case ActionItem:
		if err := b.useItem(actor, act); err != nil {
			return err
		}
	case ActionFlee:
		b.flee(actor)
	case ActionDefend:
		b.defend(actor)
	default:
		b.record(PhaseAction, actor.ID, "", fmt.Sprintf("%s waits.", actor.Name))
	}
	// Combos follow only an ability resolved on the turn right before.
	if used == nil {
		actor.LastAbility = ""
	}
	b.releaseHolds(actor, used)
	return nil
}

// choose asks the actor's tactician for an action. Party members without a
// tactician pass.
func (b *Battle) choose(actor *Combatant) Action {
	t, ok := b.tacticians[actor.ID]
	if !ok {
		if actor.Side == SideParty {
			return Pass()
		}
		t = b.tactician
	}
	sit := Situation{Round: b.round, Source: b.src, resolver: b.resolver}
	for _, c := range b.combatants {
		if !c.Active() {
			continue
		}
		if c.Side == actor.Side {
			sit.Allies = append(sit.Allies, c)
		} else {
			sit.Opponents = append(sit.Opponents, c)
		}
	}
	return t.Choose(actor, sit)
}

// useAbility resolves an ability action. A queued target that fell earlier
// in the round is replaced with the default target; an ability that became
// unusable is logged and skipped.
func (b *Battle) useAbility(actor *Combatant, act Action) (*ability.Def, error) {
	def, ok := b.provider.Ability(act.Ability)
	if !ok {
		b.record(PhaseAction, actor.ID, "", fmt.Sprintf("%s hesitates.", actor.Name))
		return nil, nil
	}
	targetID := act.Target
	if t, ok := b.byID[targetID]; ok && !t.Active() {
		targetID = ""
	}
	target, err := b.targetFor(actor, targetID, def.Target())
	if err != nil {
		b.record(PhaseAction, actor.ID, "", fmt.Sprintf("%s has no one to target.", actor.Name))
		return nil, nil
	}
	res, err := b.resolver.Resolve(actor, target, act.Ability, b.exposure[actor.ID])
	if err != nil {
		if IsRecoverable(err) {
			b.record(PhaseAction, actor.ID, target.ID, fmt.Sprintf("%s cannot use %s: %v.", actor.Name, def.DisplayName(), err))
			return nil, nil
		}
		return nil, err
	}
	for _, line := range res.Lines {
		b.record(PhaseAction, actor.ID, target.ID, line)
	}
	return def, nil
}

// useItem consumes one unit of the item and applies its use effect to the target.
func (b *Battle) useItem(actor *Combatant, act Action) error {
	if err := b.checkItem(act.Item); err != nil {
		b.record(PhaseAction, actor.ID, "", fmt.Sprintf("%s fumbles: %v.", actor.Name, err))
		return nil
	}
	def, _ := b.provider.Item(act.Item)
	target := actor
	if t, ok := b.byID[act.Target]; ok && t.Active() && t.Side == actor.Side {
		target = t
	}
	if err := b.backpack.Take(def.ID, 1); err != nil {
		return fmt.Errorf("taking %q from the backpack: %w", def.ID, err)
	}
	use := def.Use
	b.record(PhaseAction, actor.ID, target.ID, fmt.Sprintf("%s uses %s on %s.", actor.Name, def.Name, target.Name))
	if healed := target.Heal(use.Heal); healed > 0 {
		b.record(PhaseAction, actor.ID, target.ID, fmt.Sprintf("%s recovers %d life.", target.Name, healed))
	}
	if restored := target.RestoreMana(use.RestoreMana); restored > 0 {
		b.record(PhaseAction, actor.ID, target.ID, fmt.Sprintf("%s recovers %d mana.", target.Name, restored))
	}
	for _, tag := range use.Cures {
		if target.Statuses.Remove(target, tag) {
			b.record(PhaseAction, actor.ID, target.ID, b.resolver.removedLine(target, tag))
		}
	}
	if use.Protection != nil {
		p := *use.Protection
		p.Source = def.ID
		target.Protections = append(target.Protections, p)
		b.record(PhaseAction, actor.ID, target.ID, fmt.Sprintf("%s is shielded: %s.", target.Name, p))
	}
	if len(use.Boosts) > 0 {
		src := stats.Source{Kind: stats.SourceBoost, ID: def.ID}
		target.Mods.RemoveBySource(src)
		for _, boost := range use.Boosts {
			target.Mods.Push(boost.Modifier(src))
		}
	}
	return nil
}

// flee rolls 1d6 against the flee threshold.
func (b *Battle) flee(actor *Combatant) {
	roll := b.src.Intn(6) + 1
	if roll < b.rules.FleeThreshold {
		b.record(PhaseAction, actor.ID, "", fmt.Sprintf("%s tries to flee but cannot get away (rolled %d).", actor.Name, roll))
		return
	}
	actor.Fled = true
	b.record(PhaseAction, actor.ID, "", fmt.Sprintf("%s flees the battle (rolled %d).", actor.Name, roll))
	if actor.Side == SideParty {
		b.outcome = Fled
	}
}

func defendSource(id string) stats.Source {
	return stats.Source{Kind: stats.SourceDefend, ID: id}
}

// defend raises both defenses by half, at least 1, until the actor's next turn.
func (b *Battle) defend(actor *Combatant) {
	sec := actor.Secondary()
	src := defendSource(actor.ID)
	actor.Mods.Push(stats.Modifier{Stat: stats.PhysicalDefense, Delta: max(1, sec.PhysicalDefense/2), Source: src, Turns: stats.Forever})
	actor.Mods.Push(stats.Modifier{Stat: stats.MagicDefense, Delta: max(1, sec.MagicDefense/2), Source: src, Turns: stats.Forever})
	b.record(PhaseAction, actor.ID, "", fmt.Sprintf("%s braces for the next attack.", actor.Name))
}

// releaseHolds removes statuses actor applied that end when it acts with a
// move lacking that status.
func (b *Battle) releaseHolds(actor *Combatant, used *ability.Def) {
	for _, c := range b.combatants {
		for _, tag := range c.Statuses.HeldBy(actor.ID) {
			if used != nil && used.Effect != nil && used.Effect.Status == tag {
				continue
			}
			c.Statuses.Remove(c, tag)
			b.record(PhaseAction, actor.ID, c.ID, b.resolver.removedLine(c, tag))
		}
	}
}

// statusTick advances statuses, boosts and cooldowns of every active combatant.
func (b *Battle) statusTick() {
	for _, c := range b.combatants {
		if !c.Active() {
			continue
		}
		for _, ev := range c.Statuses.Tick(c, b.src) {
			if ev.Damage > 0 {
				b.record(PhaseStatusTick, "", c.ID, statusLine(b.provider, c, ev.Tag, func(d *status.Def) string { return d.OnTick }, defaultTick, ev.Damage))
			}
			switch {
			case ev.BrokeFree:
				b.record(PhaseStatusTick, "", c.ID, statusLine(b.provider, c, ev.Tag, func(*status.Def) string { return "" }, defaultBreakOut, 0))
			case ev.Expired:
				b.record(PhaseStatusTick, "", c.ID, b.resolver.removedLine(c, ev.Tag))
			}
		}
		for _, m := range c.Mods.Tick() {
			b.logger.Debug("modifier expired",
				zap.String("combatant", c.ID),
				zap.String("stat", string(m.Stat)),
				zap.String("source", m.Source.ID),
			)
		}
		for _, id := range c.Usage.Tick() {
			b.logger.Debug("ability ready", zap.String("combatant", c.ID), zap.String("ability", id))
		}
	}
}

// deathCheck logs newly defeated combatants and releases what they held.
func (b *Battle) deathCheck() {
	for _, c := range b.combatants {
		if !c.IsDefeated() || b.fallen[c.ID] {
			continue
		}
		b.fallen[c.ID] = true
		b.record(PhaseDeathCheck, "", c.ID, fmt.Sprintf("%s is defeated.", c.Name))
		for _, other := range b.combatants {
			for _, tag := range other.Statuses.HeldBy(c.ID) {
				other.Statuses.Remove(other, tag)
				b.record(PhaseDeathCheck, c.ID, other.ID, b.resolver.removedLine(other, tag))
			}
		}
	}
}

// decide sets the outcome when one side can no longer fight.
// A wiped party is a Defeat even when the enemies fell in the same step.
//
// Postcondition: returns Over().
func (b *Battle) decide() bool {
	if b.Over() {
		return true
	}
	partyUp, partyFled, enemyUp := false, false, false
	for _, c := range b.combatants {
		switch {
		case c.Side == SideParty && c.Active():
			partyUp = true
		case c.Side == SideParty && c.Fled:
			partyFled = true
		case c.Side == SideEnemy && c.Active():
			enemyUp = true
		}
	}
	switch {
	case !partyUp && partyFled:
		b.outcome = Fled
		b.record(PhaseBattleEnd, "", "", "The party escapes.")
	case !partyUp:
		b.outcome = Defeat
		b.record(PhaseBattleEnd, "", "", "The party has been defeated.")
	case !enemyUp:
		b.outcome = Victory
		b.record(PhaseBattleEnd, "", "", "Victory!")
	}
	return b.Over()
}

// collectSpoils rolls the rewards of every defeated enemy.
func (b *Battle) collectSpoils() error {
	if b.rewards == nil {
		return nil
	}
	for _, c := range b.combatants {
		if c.Side != SideEnemy || !c.IsDefeated() {
			continue
		}
		sp, err := b.rewards.Spoils(c, b.src)
		if err != nil {
			return fmt.Errorf("rolling spoils for %s: %w", c.ID, err)
		}
		b.exp += sp.Exp
		b.gold += sp.Gold
		b.loot = append(b.loot, sp.Loot...)
	}
	if b.exp > 0 || b.gold > 0 {
		b.record(PhaseBattleEnd, "", "", fmt.Sprintf("The party earns %d experience and %d gold.", b.exp, b.gold))
	}
	for _, l := range b.loot {
		b.record(PhaseBattleEnd, "", "", fmt.Sprintf("Found %d x %s.", l.Quantity, l.ItemID))
	}
	return nil
}
