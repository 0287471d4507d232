package combat

import (
	"go.uber.org/zap"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/scripting"
)

// Situation is the battlefield view a Tactician decides from.
type Situation struct {
	Round int
	// Opponents and Allies hold only active combatants; Allies includes the actor.
	Opponents []*Combatant
	Allies    []*Combatant
	Source    dice.Source

	resolver *Resolver
}

// Usable returns the actor's abilities that pass every precondition against
// target, in the actor's preference order. Self and ally abilities are
// checked against the actor.
func (s Situation) Usable(actor, target *Combatant) []*ability.Def {
	if s.resolver == nil {
		return nil
	}
	var out []*ability.Def
	for _, id := range actor.Abilities {
		def, ok := s.resolver.provider.Ability(id)
		if !ok {
			continue
		}
		if _, err := s.resolver.Check(actor, targetFor(def, actor, target), id); err == nil {
			out = append(out, def)
		}
	}
	return out
}

// targetFor returns target for hostile abilities and actor otherwise.
func targetFor(def *ability.Def, actor, target *Combatant) *Combatant {
	if def.Target() == ability.TargetEnemy {
		return target
	}
	return actor
}

// Tactician chooses an action for a combatant that has none queued.
type Tactician interface {
	Choose(actor *Combatant, sit Situation) Action
}

// WeightedTactician picks a random active opponent, then one of the usable
// abilities with probability proportional to the actor's configured weight
// (default 1). It passes when nothing is usable.
type WeightedTactician struct{}

// Choose implements Tactician.
func (WeightedTactician) Choose(actor *Combatant, sit Situation) Action {
	if len(sit.Opponents) == 0 {
		return Pass()
	}
	target := sit.Opponents[dice.Between(sit.Source, 0, len(sit.Opponents)-1)]
	usable := sit.Usable(actor, target)

	weights := make([]int, 0, len(usable))
	candidates := make([]*ability.Def, 0, len(usable))
	total := 0
	for _, def := range usable {
		w, ok := actor.Weights[def.ID]
		if !ok {
			w = 1
		}
		if w <= 0 {
			continue
		}
		weights = append(weights, w)
		candidates = append(candidates, def)
		total += w
	}
	if len(candidates) == 0 {
		return Pass()
	}
	pick := 0
	if len(candidates) > 1 {
		roll := sit.Source.Intn(total)
		for i, w := range weights {
			if roll < w {
				pick = i
				break
			}
			roll -= w
		}
	}
	def := candidates[pick]
	return UseAbility(def.ID, targetFor(def, actor, target).ID)
}

// ActionScript is the scripting hook surface a ScriptedTactician calls.
type ActionScript interface {
	ChooseAction(zoneID string, actor scripting.CombatantInfo, opponents, allies []scripting.CombatantInfo) (scripting.Choice, bool, error)
}

// ScriptedTactician asks a Lua choose_action hook for the action and falls
// back when the hook is missing, fails, or names something unusable.
type ScriptedTactician struct {
	Scripts ActionScript
	// Fallback defaults to WeightedTactician when nil.
	Fallback Tactician
	Logger   *zap.Logger
}

// Choose implements Tactician.
func (t ScriptedTactician) Choose(actor *Combatant, sit Situation) Action {
	fallback := t.Fallback
	if fallback == nil {
		fallback = WeightedTactician{}
	}
	logger := t.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if t.Scripts == nil || actor.Tactic == "" {
		return fallback.Choose(actor, sit)
	}

	choice, ok, err := t.Scripts.ChooseAction(actor.Tactic, info(actor), infos(sit.Opponents), infos(sit.Allies))
	if err != nil {
		logger.Warn("tactic script failed", zap.String("combatant", actor.ID), zap.String("zone", actor.Tactic), zap.Error(err))
		return fallback.Choose(actor, sit)
	}
	if !ok {
		return fallback.Choose(actor, sit)
	}
	if act, valid := t.interpret(actor, sit, choice); valid {
		return act
	}
	logger.Debug("tactic script chose an unusable action",
		zap.String("combatant", actor.ID),
		zap.String("action", choice.Action),
		zap.String("ability", choice.Ability),
		zap.String("target", choice.Target),
	)
	return fallback.Choose(actor, sit)
}

// interpret converts a script choice into an Action, validating it against sit.
func (t ScriptedTactician) interpret(actor *Combatant, sit Situation, c scripting.Choice) (Action, bool) {
	switch c.Action {
	case scripting.ChoicePass:
		return Pass(), true
	case scripting.ChoiceDefend:
		return Defend(), true
	case scripting.ChoiceFlee:
		return Flee(), true
	case "", scripting.ChoiceAbility:
	default:
		return Action{}, false
	}
	target := find(sit.Opponents, c.Target)
	if target == nil {
		target = find(sit.Allies, c.Target)
	}
	if target == nil && len(sit.Opponents) > 0 && c.Target == "" {
		target = sit.Opponents[0]
	}
	if target == nil {
		return Action{}, false
	}
	def, ok := sit.resolver.provider.Ability(c.Ability)
	if !ok {
		return Action{}, false
	}
	target = targetFor(def, actor, target)
	if _, err := sit.resolver.Check(actor, target, c.Ability); err != nil {
		return Action{}, false
	}
	return UseAbility(c.Ability, target.ID), true
}

func find(cs []*Combatant, id string) *Combatant {
	if id == "" {
		return nil
	}
	for _, c := range cs {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func info(c *Combatant) scripting.CombatantInfo {
	return scripting.CombatantInfo{
		ID:        c.ID,
		Name:      c.Name,
		Side:      c.Side.String(),
		Life:      c.Life,
		MaxLife:   c.MaxLife,
		Mana:      c.Mana,
		MaxMana:   c.MaxMana,
		Type:      c.ElementalType,
		Statuses:  c.Statuses.Tags(),
		Abilities: append([]string(nil), c.Abilities...),
	}
}

func infos(cs []*Combatant) []scripting.CombatantInfo {
	out := make([]scripting.CombatantInfo, 0, len(cs))
	for _, c := range cs {
		out = append(out, info(c))
	}
	return out
}
