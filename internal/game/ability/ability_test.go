package ability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

func slash() *ability.Def {
	return &ability.Def{ID: "slash", Name: "Slash", Kind: ability.Physical, Range: ability.Close, MinDamage: 10, MaxDamage: 20, Accuracy: 85, MPCost: 5, Cooldown: 2}
}

func fly() *ability.Def {
	return &ability.Def{
		ID: "fly", Name: "Fly", Kind: ability.Status, Range: ability.Self,
		Effect: &ability.Effect{Status: "flying", Chance: 1, Target: ability.EffectOnSelf},
	}
}

func ptr(f float64) *float64 { return &f }

func TestValidate_Accepts(t *testing.T) {
	for _, d := range []*ability.Def{
		slash(),
		fly(),
		{ID: "mend", Kind: ability.Heal, Range: ability.Ranged, MinDamage: 5, MaxDamage: 8, Accuracy: 100},
		{ID: "rage", Kind: ability.Buff, Range: ability.Self, Accuracy: 100, Boosts: []stats.Boost{{Stat: stats.Strength, Delta: 2, Turns: 3}}},
	} {
		assert.NoError(t, d.Validate(), d.ID)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(d *ability.Def){
		"missing id":        func(d *ability.Def) { d.ID = "" },
		"bad type":          func(d *ability.Def) { d.Kind = "psychic" },
		"bad range":         func(d *ability.Def) { d.Range = "far" },
		"inverted damage":   func(d *ability.Def) { d.MinDamage = 30 },
		"accuracy":          func(d *ability.Def) { d.Accuracy = 120 },
		"negative mp":       func(d *ability.Def) { d.MPCost = -1 },
		"crit chance":       func(d *ability.Def) { d.CritChance = ptr(5) },
		"crit multiplier":   func(d *ability.Def) { d.CritMultiplier = ptr(0.5) },
		"life steal":        func(d *ability.Def) { d.LifeSteal = 1.5 },
		"effect no status":  func(d *ability.Def) { d.Effect = &ability.Effect{Chance: 0.5} },
		"effect bad target": func(d *ability.Def) { d.Effect = &ability.Effect{Status: "burn", Chance: 0.5, Target: "everyone"} },
		"no damage":         func(d *ability.Def) { d.MinDamage, d.MaxDamage = 0, 0 },
		"bad boost":         func(d *ability.Def) { d.Boosts = []stats.Boost{{Stat: "luck", Delta: 1, Turns: 0}} },
	}
	for name, mutate := range cases {
		d := slash()
		mutate(d)
		err := d.Validate()
		require.Error(t, err, name)
		assert.True(t, validate.IsConfigError(err), name)
	}
}

func TestDefaults(t *testing.T) {
	chance, mult := slash().CritOr(ability.DefaultCritChance, ability.DefaultCritMultiplier)
	assert.Equal(t, 0.05, chance)
	assert.Equal(t, 2.0, mult)

	d := slash()
	d.CritChance, d.CritMultiplier = ptr(0.25), ptr(3)
	chance, mult = d.CritOr(ability.DefaultCritChance, ability.DefaultCritMultiplier)
	assert.Equal(t, 0.25, chance)
	assert.Equal(t, 3.0, mult)

	assert.Equal(t, ability.TargetEnemy, slash().Target())
	assert.Equal(t, ability.TargetSelf, fly().Target())
	assert.Equal(t, ability.TargetAlly, (&ability.Def{Kind: ability.Heal, Range: ability.Ranged}).Target())
	assert.True(t, fly().IsPureStatus())
}

func TestFollows(t *testing.T) {
	d := slash()
	assert.True(t, d.Follows("", ""))
	d.Combo = &ability.Combo{FollowsFrom: []string{"Quick Attack"}}
	assert.True(t, d.Follows("quick_attack", "Quick Attack"))
	assert.True(t, (&ability.Def{Combo: &ability.Combo{FollowsFrom: []string{"quick_attack"}}}).Follows("quick_attack", "Quick Attack"))
	assert.False(t, d.Follows("slash", "Slash"))
	assert.False(t, d.Follows("", ""))
}

func TestRegistry(t *testing.T) {
	reg := ability.NewRegistry()
	require.NoError(t, reg.Register(slash()))
	require.NoError(t, reg.Register(fly()))
	assert.Error(t, reg.Register(slash()))
	assert.Error(t, reg.Register(&ability.Def{ID: "broken"}))
	ids := []string{}
	for _, d := range reg.All() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"fly", "slash"}, ids)
}

func TestTracker_CooldownSetOnUseAndSkipsFreshTick(t *testing.T) {
	tr := ability.NewTracker()
	d := slash()
	_, ok := tr.Check(d)
	require.True(t, ok)

	tr.Consume(d)
	assert.Equal(t, 2, tr.Usage("slash").Cooldown)
	reason, ok := tr.Check(d)
	assert.False(t, ok)
	assert.Equal(t, ability.ReasonCooldown, reason)

	assert.Empty(t, tr.Tick())
	assert.Equal(t, 2, tr.Usage("slash").Cooldown)
	assert.Empty(t, tr.Tick())
	assert.Equal(t, 1, tr.Usage("slash").Cooldown)
	assert.Equal(t, []string{"slash"}, tr.Tick())
	_, ok = tr.Check(d)
	assert.True(t, ok)
}

func TestTracker_UsesPerBattle(t *testing.T) {
	tr := ability.NewTracker()
	d := slash()
	d.Cooldown = 0
	d.UsesPerBattle = 2
	assert.Equal(t, 2, tr.UsesLeft(d))
	tr.Consume(d)
	tr.Consume(d)
	assert.Equal(t, 0, tr.UsesLeft(d))
	reason, ok := tr.Check(d)
	assert.False(t, ok)
	assert.Equal(t, ability.ReasonUsesExhausted, reason)
	assert.Equal(t, -1, tr.UsesLeft(fly()))
}

func TestTracker_RestoreRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr := ability.NewTracker()
		defs := []*ability.Def{slash(), fly()}
		steps := rapid.SliceOf(rapid.IntRange(0, 2)).Draw(rt, "steps")
		for _, s := range steps {
			if s == 2 {
				tr.Tick()
				continue
			}
			if _, ok := tr.Check(defs[s]); ok {
				tr.Consume(defs[s])
			}
		}
		restored := ability.RestoreTracker(tr.Entries())
		assert.Equal(rt, tr.Entries(), restored.Entries())
		assert.Equal(rt, tr.Tick(), restored.Tick())
		assert.Equal(rt, tr.Entries(), restored.Entries())
	})
}
