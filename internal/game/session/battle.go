package session

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/command"
)

// startBattle begins the current scene's encounter.
//
// Precondition: the current scene has an encounter and no battle is running.
func (a *Adventure) startBattle() (string, error) {
	e := a.nav.Current().Encounter
	enemies, err := a.lib.Roster().SpawnGroup(e.Enemies)
	if err != nil {
		return "", fmt.Errorf("scene %q: %w", a.nav.Current().ID, err)
	}

	setup := combat.Setup{
		Party:    []*combat.Combatant{a.hero.ToCombatant(a.lib)},
		Enemies:  enemies,
		Provider: a.lib,
		Source:   a.src,
		Backpack: a.hero.Backpack,
		Rewards:  a.lib.Roster(),
		Rules:    a.rules,
		Logger:   a.logger,
	}
	if e.Environment != "" {
		setup.Environment = &combat.Environment{ID: e.Environment, Intensity: e.Intensity}
	}
	if a.scripts != nil {
		setup.Tactician = combat.ScriptedTactician{Scripts: a.scripts, Logger: a.logger}
	}
	if a.auto {
		setup.Tacticians = map[string]combat.Tactician{character.CombatantID: combat.WeightedTactician{}}
	}

	b, err := combat.NewBattle(setup)
	if err != nil {
		return "", fmt.Errorf("starting battle in scene %q: %w", a.nav.Current().ID, err)
	}
	a.battle = b

	names := make([]string, 0, len(enemies))
	for _, c := range enemies {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("Battle! You face %s.\n\n%s", strings.Join(names, ", "), a.renderBattlefield()), nil
}

// attack submits an ability action. args are "[ability words] [target words]";
// no args uses the hero's first ability on the default target.
func (a *Adventure) attack(ctx context.Context, args []string) (string, error) {
	hero, ok := a.battle.Combatant(character.CombatantID)
	if !ok || len(hero.Abilities) == 0 {
		return "You know no abilities.", nil
	}
	def, rest := a.matchAbility(hero, args)
	if def == nil {
		return fmt.Sprintf("You do not know %q. Type abilities for a list.", strings.Join(args, " ")), nil
	}
	target := ""
	if len(rest) > 0 {
		side := combat.SideEnemy
		if def.Target() != ability.TargetEnemy {
			side = combat.SideParty
		}
		id, ok := a.matchTarget(side, strings.Join(rest, " "))
		if !ok {
			return fmt.Sprintf("No target named %q.", strings.Join(rest, " ")), nil
		}
		target = id
	}
	return a.act(ctx, combat.UseAbility(def.ID, target))
}

// matchAbility finds the longest leading run of args naming one of c's
// abilities by id or display name.
func (a *Adventure) matchAbility(c *combat.Combatant, args []string) (*ability.Def, []string) {
	if len(args) == 0 {
		def, ok := a.lib.Ability(c.Abilities[0])
		if !ok {
			return nil, nil
		}
		return def, nil
	}
	for k := len(args); k > 0; k-- {
		want := command.Normalize(strings.Join(args[:k], " "))
		for _, id := range c.Abilities {
			def, ok := a.lib.Ability(id)
			if !ok {
				continue
			}
			if def.ID == want || command.Normalize(def.DisplayName()) == want {
				return def, args[k:]
			}
		}
	}
	return nil, nil
}

// matchTarget resolves arg to the id of an active combatant on side: by id,
// by name, or by its 1-based position in the battlefield listing.
func (a *Adventure) matchTarget(side combat.Side, arg string) (string, bool) {
	cs := a.battle.Side(side)
	if n, ok := command.ParseIndex(arg); ok {
		if n <= len(cs) {
			return cs[n-1].ID, true
		}
		return "", false
	}
	want := command.Normalize(arg)
	for _, c := range cs {
		if c.ID == want || command.Normalize(c.Name) == want {
			return c.ID, true
		}
	}
	return "", false
}

// useInBattle submits an item action on the hero.
func (a *Adventure) useInBattle(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: use <item>", nil
	}
	arg := strings.Join(args, " ")
	def, ok := command.FindItem(a.hero.Backpack, a.lib, arg)
	if !ok {
		return fmt.Sprintf("%s: not found in your pack", arg), nil
	}
	return a.act(ctx, combat.UseItem(def.ID, ""))
}

// act queues the hero's action and resolves the round.
func (a *Adventure) act(ctx context.Context, act combat.Action) (string, error) {
	if err := a.battle.Submit(character.CombatantID, act); err != nil {
		if combat.IsRecoverable(err) {
			return capitalize(err.Error()) + ".", nil
		}
		return "", err
	}
	return a.resolve(ctx)
}

// resolve plays one round and, when it ends the battle, applies the result
// and moves the story on.
func (a *Adventure) resolve(ctx context.Context) (string, error) {
	rep, err := a.battle.ResolveRound(ctx)
	text := renderRound(rep)
	if err != nil {
		a.logger.Error("round failed", zap.String("battle", a.battle.ID()), zap.Error(err))
	}
	if !a.battle.Over() {
		return text, nil
	}
	rest, err := a.finish(ctx)
	return text + "\n\n" + rest, err
}

// finish writes the finished battle back onto the hero, records it and
// follows the encounter branch of its outcome. An aborted battle changes
// nothing on the hero and the encounter starts over.
func (a *Adventure) finish(ctx context.Context) (string, error) {
	b := a.battle
	a.battle = nil
	a.lastLog = b.Log()
	sceneID := a.nav.Current().ID

	res, err := b.Result()
	if err != nil {
		return "", err
	}
	a.logger.Info("battle finished",
		zap.String("battle", res.ID),
		zap.String("scene", sceneID),
		zap.String("outcome", res.Outcome.String()),
		zap.Int("rounds", res.Rounds),
	)
	if res.Outcome == combat.Aborted {
		text, err := a.startBattle()
		return "The battle was interrupted. The encounter begins again.\n\n" + text, err
	}

	cb, _ := b.Combatant(character.CombatantID)
	rep, err := a.hero.ApplyResult(cb, res, a.class, a.lib)
	if err != nil {
		return "", err
	}
	a.record(ctx, sceneID, b, res)

	if _, err := a.nav.ResolveEncounter(res.Outcome); err != nil {
		return "", err
	}
	text, err := a.enter(ctx)
	return a.renderResult(res, rep) + "\n\n" + text, err
}

// record hands the battle to the history store. A failing store is logged
// and does not stop the adventure.
func (a *Adventure) record(ctx context.Context, sceneID string, b *combat.Battle, res combat.BattleResult) {
	if a.history == nil {
		return
	}
	if err := a.history.RecordBattle(ctx, a.story.ID, sceneID, b, res); err != nil {
		a.logger.Warn("recording battle failed", zap.String("battle", res.ID), zap.Error(err))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
