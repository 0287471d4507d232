package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
)

func TestRollResult_TotalAndString(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRollResult_Total_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ds := rapid.SliceOf(rapid.IntRange(1, 20)).Draw(rt, "dice")
		modifier := rapid.IntRange(-100, 100).Draw(rt, "modifier")
		expected := modifier
		for _, d := range ds {
			expected += d
		}
		r := dice.RollResult{Expression: "Nd6+M", Dice: ds, Modifier: modifier}
		assert.Equal(rt, expected, r.Total())
	})
}

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in                      string
		count, sides, mod, keep int
	}{
		{"15", 0, 0, 15, 0},
		{"d20", 1, 20, 0, 0},
		{"2d6", 2, 6, 0, 0},
		{"2d6+3", 2, 6, 3, 0},
		{"4d8-2", 4, 8, -2, 0},
		{"4d6kh3", 4, 6, 0, 3},
		{"4d6kh3+1", 4, 6, 1, 3},
		{"3D10 + 5", 3, 10, 5, 0},
	}
	for _, tc := range cases {
		e, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.count, e.Count, tc.in)
		assert.Equal(t, tc.sides, e.Sides, tc.in)
		assert.Equal(t, tc.mod, e.Modifier, tc.in)
		assert.Equal(t, tc.keep, e.KeepHighest, tc.in)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "0d6", "2d1", "2dx", "4d6kh4", "2d6+x"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestRoll_WithinBounds_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 6).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-5, 5).Draw(rt, "mod")
		expr := dice.MustParse(fmt.Sprintf("%dd%d%+d", count, sides, mod))
		src := dice.NewSeededSource(rapid.Int64().Draw(rt, "seed"))
		total := dice.Roll(expr, src).Total()
		assert.GreaterOrEqual(rt, total, expr.Min())
		assert.LessOrEqual(rt, total, expr.Max())
	})
}

func TestRoll_KeepHighest(t *testing.T) {
	// Sequence values are reduced mod 6 then +1: 0→1, 5→6, 2→3, 3→4.
	r := dice.Roll(dice.MustParse("4d6kh3"), dice.NewSequence(0, 5, 2, 3))
	assert.Equal(t, []int{6, 4, 3}, r.Dice)
	assert.Equal(t, 13, r.Total())
}

func TestRoll_FlatExpression_ConsumesNoDraws(t *testing.T) {
	seq := dice.NewSequence(3)
	r := dice.Roll(dice.MustParse("25"), seq)
	assert.Equal(t, 25, r.Total())
	assert.Equal(t, 1, seq.Remaining())
}

func TestChance_Extremes_DoNotDraw(t *testing.T) {
	seq := dice.NewSequence(1)
	assert.False(t, dice.Chance(seq, 0))
	assert.True(t, dice.Chance(seq, 1))
	assert.Equal(t, 1, seq.Remaining())
}

func TestChance_Threshold(t *testing.T) {
	assert.True(t, dice.Chance(dice.NewSequence(499), 0.05))
	assert.False(t, dice.Chance(dice.NewSequence(500), 0.05))
}

func TestBetween(t *testing.T) {
	assert.Equal(t, 15, dice.Between(dice.NewSequence(5), 10, 20))
	assert.Equal(t, 7, dice.Between(dice.NewSequence(5), 7, 7))
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestSources_PanicOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
	assert.Panics(t, func() { dice.NewSequence().Intn(0) })
}

func TestSeededSource_RestoreReproducesSequence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		skip := rapid.IntRange(0, 50).Draw(rt, "skip")
		src := dice.NewSeededSource(seed)
		for i := 0; i < skip; i++ {
			src.Intn(100)
		}
		restored := dice.RestoreSeededSource(src.Seed(), src.Position())
		for i := 0; i < 20; i++ {
			assert.Equal(rt, src.Intn(1000), restored.Intn(1000))
		}
	})
}

func TestSequence_ExhaustedReturnsZero(t *testing.T) {
	seq := dice.NewSequence(7)
	assert.Equal(t, 7, seq.Intn(10))
	assert.Equal(t, 0, seq.Intn(10))
}

func TestLoggedRoller_LogsDrawsAndRolls(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(dice.NewSequence(2, 3), zap.New(core))

	assert.Equal(t, 2, roller.Intn(10))
	r, err := roller.RollExpr("1d6+1")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Total())

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, "dice draw,dice roll", strings.Join(messages, ","))
}

func TestLoggedRoller_NilLogger(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewSequence(1), nil)
	assert.Equal(t, 1, roller.Intn(4))
}
