package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/element"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

func volcanic() *environment.Def {
	return &environment.Def{
		ID:         "volcanic",
		Name:       "Volcanic Crater",
		ImmuneType: "fire",
		Effects: map[environment.Category]environment.Effect{
			environment.Damage: {IntensityRanges: []environment.Range{
				{Min: 1, Max: 3, Value: 2},
				{Min: 4, Max: 7, Value: 5},
				{Min: 8, Max: 10, Value: 10},
			}},
			environment.StatusEffect: {IntensityRanges: []environment.Range{
				{Min: 1, Max: 5, Chance: 0},
				{Min: 6, Max: 10, Chance: 0.3, Type: "burn", Value: 2},
			}},
			environment.AccuracyPenalty: {IntensityRanges: []environment.Range{
				{Min: 1, Max: 10, Value: 10},
			}},
		},
	}
}

func newResolver(t *testing.T, defs ...*environment.Def) *environment.Resolver {
	t.Helper()
	ch, err := element.NewChart(
		&element.Def{ID: "fire"},
		&element.Def{ID: "ice", EnvironmentInteractions: map[string]float64{"volcanic": 2}},
	)
	require.NoError(t, err)
	r, err := environment.NewResolver(ch, defs...)
	require.NoError(t, err)
	return r
}

func TestResolve_SelectsRangePerCategory(t *testing.T) {
	r := newResolver(t, volcanic())
	m, err := r.Resolve("volcanic", 6)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Damage)
	assert.Equal(t, 0.3, m.StatusChance)
	assert.Equal(t, "burn", m.StatusType)
	assert.Equal(t, 2, m.StatusTurns)
	assert.Equal(t, 10, m.AccuracyPenalty)
	assert.Zero(t, m.TripChance)
}

func TestResolve_Errors(t *testing.T) {
	r := newResolver(t, volcanic())
	for _, tc := range []struct {
		env       string
		intensity int
	}{{"volcanic", 0}, {"volcanic", 11}, {"swamp", 5}} {
		_, err := r.Resolve(tc.env, tc.intensity)
		require.Error(t, err)
		assert.True(t, validate.IsConfigError(err), "%s@%d", tc.env, tc.intensity)
	}
}

func TestExpose_TypeImmuneAtEveryIntensity(t *testing.T) {
	r := newResolver(t, volcanic())
	for i := environment.MinIntensity; i <= environment.MaxIntensity; i++ {
		e, err := r.Expose("volcanic", i, "fire", nil)
		require.NoError(t, err)
		assert.True(t, e.Immune)
		assert.Zero(t, e.ActualDamage)
		assert.Zero(t, e.StatusChance)
		assert.Zero(t, e.AccuracyPenalty)
	}
}

func TestExpose_TypeImmuneCheckedBeforeIntensity(t *testing.T) {
	r := newResolver(t, volcanic())
	e, err := r.Expose("volcanic", 42, "fire", nil)
	require.NoError(t, err)
	assert.True(t, e.Immune)
}

func TestExpose_EnvironmentMultiplier(t *testing.T) {
	r := newResolver(t, volcanic())
	e, err := r.Expose("volcanic", 5, "ice", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, e.Damage)
	assert.Equal(t, 10, e.ActualDamage)
}

func TestExpose_Protections(t *testing.T) {
	r := newResolver(t, volcanic())

	full, err := r.Expose("volcanic", 9, "", []environment.Protection{{Kind: environment.Full}})
	require.NoError(t, err)
	assert.True(t, full.Protected)
	assert.Zero(t, full.ActualDamage)

	temp, err := r.Expose("volcanic", 9, "", []environment.Protection{{Kind: environment.Temporary, Turns: 2, Environment: "volcanic"}})
	require.NoError(t, err)
	assert.True(t, temp.Negated())

	spent, err := r.Expose("volcanic", 9, "", []environment.Protection{{Kind: environment.Temporary, Turns: 0}})
	require.NoError(t, err)
	assert.Equal(t, 10, spent.ActualDamage)

	partial, err := r.Expose("volcanic", 9, "", []environment.Protection{{Kind: environment.Partial, Factor: 0.5}})
	require.NoError(t, err)
	assert.False(t, partial.Negated())
	assert.Equal(t, 5, partial.ActualDamage)
	assert.Equal(t, 5, partial.AccuracyPenalty)

	other, err := r.Expose("volcanic", 9, "", []environment.Protection{{Kind: environment.Full, Environment: "glacier"}})
	require.NoError(t, err)
	assert.Equal(t, 10, other.ActualDamage)
}

func TestTickProtections(t *testing.T) {
	ps := []environment.Protection{
		{Kind: environment.Temporary, Turns: 1},
		{Kind: environment.Temporary, Turns: 3},
		{Kind: environment.Full},
	}
	got := environment.TickProtections(ps)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Turns)
	assert.Equal(t, environment.Full, got[1].Kind)
}

func TestProtection_Validate(t *testing.T) {
	assert.NoError(t, environment.Protection{Kind: environment.Partial, Factor: 0.4}.Validate("item", "cloak", "protection"))
	assert.Error(t, environment.Protection{Kind: environment.Partial, Factor: 1.4}.Validate("item", "cloak", "protection"))
	assert.Error(t, environment.Protection{Kind: environment.Temporary}.Validate("item", "salve", "protection"))
	assert.Error(t, environment.Protection{Kind: "magic"}.Validate("item", "salve", "protection"))
}

func TestValidate_PartitionViolations(t *testing.T) {
	cases := map[string][]environment.Range{
		"gap":         {{Min: 1, Max: 4}, {Min: 6, Max: 10}},
		"overlap":     {{Min: 1, Max: 5}, {Min: 5, Max: 10}},
		"short":       {{Min: 1, Max: 9}},
		"late start":  {{Min: 2, Max: 10}},
		"past end":    {{Min: 1, Max: 11}},
		"inverted":    {{Min: 1, Max: 4}, {Min: 7, Max: 5}},
		"below start": {{Min: 0, Max: 10}},
		"empty":       {},
	}
	for name, ranges := range cases {
		def := &environment.Def{ID: "bad", Effects: map[environment.Category]environment.Effect{
			environment.Damage: {IntensityRanges: ranges},
		}}
		err := def.Validate()
		require.Error(t, err, name)
		assert.True(t, validate.IsConfigError(err), name)
	}
}

func TestValidate_UnknownCategory(t *testing.T) {
	def := &environment.Def{ID: "odd", Effects: map[environment.Category]environment.Effect{
		"gravity": {IntensityRanges: []environment.Range{{Min: 1, Max: 10}}},
	}}
	assert.Error(t, def.Validate())
}

// Any contiguous split of 1..10 validates, and every intensity then resolves to exactly one range.
func TestPartition_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var ranges []environment.Range
		lo := environment.MinIntensity
		for lo <= environment.MaxIntensity {
			hi := rapid.IntRange(lo, environment.MaxIntensity).Draw(rt, "hi")
			ranges = append(ranges, environment.Range{Min: lo, Max: hi, Value: float64(hi)})
			lo = hi + 1
		}
		def := &environment.Def{ID: "gen", Effects: map[environment.Category]environment.Effect{
			environment.Damage: {IntensityRanges: ranges},
		}}
		require.NoError(rt, def.Validate())
		for i := environment.MinIntensity; i <= environment.MaxIntensity; i++ {
			matches := 0
			for _, r := range ranges {
				if r.Contains(i) {
					matches++
				}
			}
			assert.Equal(rt, 1, matches, "intensity %d", i)
		}
	})
}
