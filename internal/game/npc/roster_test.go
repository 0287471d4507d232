package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/npc"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

func newRoster(t *testing.T) *npc.Roster {
	t.Helper()
	r := npc.NewRoster()
	require.NoError(t, r.Register(validTemplate()))
	wolf := validTemplate()
	wolf.ID, wolf.Name, wolf.Rewards = "wolf", "Wolf", nil
	require.NoError(t, r.Register(wolf))
	return r
}

func TestRoster_RegisterRejectsDuplicatesAndInvalid(t *testing.T) {
	r := newRoster(t)
	err := r.Register(validTemplate())
	assert.True(t, validate.IsConfigError(err))

	bad := validTemplate()
	bad.ID = "broken"
	bad.Life = 0
	assert.True(t, validate.IsConfigError(r.Register(bad)))
	_, ok := r.Get("broken")
	assert.False(t, ok)
}

func TestRoster_All_Sorted(t *testing.T) {
	all := newRoster(t).All()
	require.Len(t, all, 2)
	assert.Equal(t, "goblin", all[0].ID)
	assert.Equal(t, "wolf", all[1].ID)
}

func TestRoster_SpawnGroup_NumbersRepeats(t *testing.T) {
	r := newRoster(t)
	group, err := r.SpawnGroup([]string{"wolf", "goblin", "wolf"})
	require.NoError(t, err)
	require.Len(t, group, 3)
	assert.Equal(t, "wolf-1", group[0].ID)
	assert.Equal(t, "Wolf 1", group[0].Name)
	assert.Equal(t, "goblin", group[1].ID)
	assert.Equal(t, "Goblin", group[1].Name)
	assert.Equal(t, "wolf-2", group[2].ID)

	_, err = r.SpawnGroup([]string{"dragon"})
	assert.ErrorContains(t, err, "dragon")
}

func TestRoster_Spoils(t *testing.T) {
	r := newRoster(t)
	var _ combat.RewardSource = r

	goblin, _ := r.Get("goblin")
	sp, err := r.Spoils(goblin.Spawn(""), dice.NewSequence(1, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, 10, sp.Exp)
	assert.Equal(t, 2+3, sp.Gold)
	require.Len(t, sp.Loot, 1, "0 < 0.25 * 10000")

	wolf, _ := r.Get("wolf")
	sp, err = r.Spoils(wolf.Spawn(""), dice.NewSequence())
	require.NoError(t, err)
	assert.Zero(t, sp)

	sp, err = r.Spoils(&combat.Combatant{ID: "stray"}, dice.NewSequence())
	require.NoError(t, err)
	assert.Zero(t, sp)
}
