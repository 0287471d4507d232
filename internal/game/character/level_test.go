package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
)

func TestGainExp_Thresholds(t *testing.T) {
	c, err := character.Build("Aria", knight())
	require.NoError(t, err)

	assert.Empty(t, c.GainExp(99, knight()))
	assert.Equal(t, 1, c.Level)

	ups := c.GainExp(151, knight())
	require.Len(t, ups, 1)
	assert.Equal(t, 2, ups[0].Level)
	assert.Equal(t, []string{"cleave"}, ups[0].Learned)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 150, c.Experience)
	assert.Equal(t, 27, c.MaxLife)
	assert.Equal(t, 8, c.MaxMana)
	assert.Equal(t, 15, c.Attributes.Constitution)
}

func TestGainExp_MultipleLevels(t *testing.T) {
	c, err := character.Build("Aria", knight())
	require.NoError(t, err)
	ups := c.GainExp(300, knight())
	require.Len(t, ups, 2)
	assert.Equal(t, 3, c.Level)
	assert.Zero(t, c.Experience)
	assert.Equal(t, []string{"rally"}, ups[1].Learned)
	assert.True(t, c.Knows("rally"))
}

func TestGainExp_GrowthAttribute(t *testing.T) {
	class := knight()
	class.Growth = stats.Wisdom
	c, err := character.Build("Aria", class)
	require.NoError(t, err)
	c.GainExp(100, class)
	assert.Equal(t, 11, c.Attributes.Wisdom)
	assert.Equal(t, 14, c.Attributes.Constitution)
}

func TestGainExp_ExperienceBelowThreshold_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c, err := character.Build("x", knight())
		if err != nil {
			rt.Fatal(err)
		}
		for _, amount := range rapid.SliceOfN(rapid.IntRange(0, 1000), 1, 10).Draw(rt, "gains") {
			c.GainExp(amount, knight())
			if c.Experience < 0 || c.Experience >= character.ExpToNext(c.Level) {
				rt.Fatalf("experience %d at level %d", c.Experience, c.Level)
			}
			if c.Life > c.MaxLife {
				rt.Fatalf("life %d above max %d", c.Life, c.MaxLife)
			}
		}
	})
}
