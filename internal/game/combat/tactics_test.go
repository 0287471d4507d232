package combat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/scripting"
)

type stubScript struct {
	choice scripting.Choice
	ok     bool
	err    error
	zones  []string
}

func (s *stubScript) ChooseAction(zone string, _ scripting.CombatantInfo, _, _ []scripting.CombatantInfo) (scripting.Choice, bool, error) {
	s.zones = append(s.zones, zone)
	return s.choice, s.ok, s.err
}

func playOne(t *testing.T, lib *library, src dice.Source, goblin *combat.Combatant, tactician combat.Tactician) []string {
	t.Helper()
	hero := fighter("hero", "jab")
	b := newBattle(t, lib, src, []*combat.Combatant{hero}, []*combat.Combatant{goblin}, func(s *combat.Setup) {
		s.Tactician = tactician
	})
	report, err := b.ResolveRound(context.Background())
	require.NoError(t, err)
	return texts(report.Entries)
}

func TestWeightedTactician_Weights(t *testing.T) {
	lib := newLibrary(t)

	goblin := fighter("goblin", "jab", "quick_attack")
	goblin.Weights = map[string]int{"jab": 3, "quick_attack": 1}
	lines := playOne(t, lib, dice.NewSequence(2), goblin, nil)
	assert.Contains(t, lines, "goblin uses Jab on hero for 2 damage.")

	goblin = fighter("goblin", "jab", "quick_attack")
	goblin.Weights = map[string]int{"jab": 3, "quick_attack": 1}
	lines = playOne(t, lib, dice.NewSequence(3), goblin, nil)
	assert.Contains(t, lines, "goblin uses Quick Attack on hero for 2 damage.")

	goblin = fighter("goblin", "jab", "quick_attack")
	goblin.Weights = map[string]int{"jab": 0}
	lines = playOne(t, lib, dice.NewSequence(), goblin, nil)
	assert.Contains(t, lines, "goblin uses Quick Attack on hero for 2 damage.", "zero weight is never picked")
}

func TestWeightedTactician_SkipsUnusable(t *testing.T) {
	lib := newLibrary(t)
	goblin := fighter("goblin", "follow_up", "strike")
	goblin.Mana = 0
	lines := playOne(t, lib, dice.NewSequence(), goblin, nil)
	assert.Contains(t, lines, "goblin waits.")
}

func TestWeightedTactician_NoOpponents(t *testing.T) {
	act := combat.WeightedTactician{}.Choose(fighter("lonely", "jab"), combat.Situation{Source: dice.NewSequence()})
	assert.Equal(t, combat.ActionPass, act.Kind)
}

func TestScriptedTactician(t *testing.T) {
	lib := newLibrary(t)

	tests := []struct {
		name   string
		script *stubScript
		want   string
	}{
		{"script choice", &stubScript{choice: scripting.Choice{Action: scripting.ChoiceAbility, Ability: "quick_attack", Target: "hero"}, ok: true},
			"goblin uses Quick Attack on hero for 2 damage."},
		{"defend", &stubScript{choice: scripting.Choice{Action: scripting.ChoiceDefend}, ok: true},
			"goblin braces for the next attack."},
		{"no hook falls back", &stubScript{}, "goblin uses Jab on hero for 2 damage."},
		{"error falls back", &stubScript{err: errors.New("boom")}, "goblin uses Jab on hero for 2 damage."},
		{"unknown ability falls back", &stubScript{choice: scripting.Choice{Ability: "strike"}, ok: true},
			"goblin uses Jab on hero for 2 damage."},
		{"unknown action falls back", &stubScript{choice: scripting.Choice{Action: "dance"}, ok: true},
			"goblin uses Jab on hero for 2 damage."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goblin := fighter("goblin", "jab", "quick_attack")
			goblin.Weights = map[string]int{"quick_attack": 0}
			goblin.Tactic = "cunning"
			lines := playOne(t, lib, dice.NewSequence(), goblin, combat.ScriptedTactician{Scripts: tt.script})
			assert.Contains(t, lines, tt.want)
			assert.Equal(t, []string{"cunning"}, tt.script.zones)
		})
	}

	t.Run("no tactic zone skips the script", func(t *testing.T) {
		script := &stubScript{choice: scripting.Choice{Action: scripting.ChoiceDefend}, ok: true}
		goblin := fighter("goblin", "jab")
		lines := playOne(t, lib, dice.NewSequence(), goblin, combat.ScriptedTactician{Scripts: script})
		assert.Contains(t, lines, "goblin uses Jab on hero for 2 damage.")
		assert.Empty(t, script.zones)
	})
}

func TestNarrationTemplates(t *testing.T) {
	lib := newLibrary(t)
	require.NoError(t, lib.abilities.Register(&ability.Def{
		ID: "smash", Name: "Smash", Kind: ability.Physical, Range: ability.Close, MinDamage: 3, MaxDamage: 3, Accuracy: 50,
		OnHit: "{actor} smashes {target} for {damage}!", OnMiss: "{actor} swings wide of {target}.",
	}))
	hero := fighter("hero", "smash")
	orc := foe("orc")

	r := combat.NewResolver(lib, dice.NewSequence(0, 99), noCrit, nil)
	res, err := r.Resolve(hero, orc, "smash", environment.Modifiers{})
	require.NoError(t, err)
	assert.Equal(t, []string{"hero smashes orc for 3!"}, res.Lines)

	res, err = r.Resolve(hero, orc, "smash", environment.Modifiers{})
	require.NoError(t, err)
	assert.Equal(t, []string{"hero swings wide of orc."}, res.Lines)
}
