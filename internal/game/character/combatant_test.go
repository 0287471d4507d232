package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
)

func outfitted(t *testing.T) (*character.Character, *inventory.Registry) {
	t.Helper()
	cat := catalog(t)
	c, err := character.Build("Aria", knight())
	require.NoError(t, err)
	require.NoError(t, c.Outfit(character.Loadout{Equip: []string{"sword", "cloak"}}, cat))
	return c, cat
}

func TestToCombatant_AppliesEquipment(t *testing.T) {
	c, cat := outfitted(t)
	cb := c.ToCombatant(cat)

	assert.Equal(t, character.CombatantID, cb.ID)
	assert.Equal(t, combat.SideParty, cb.Side)
	assert.Equal(t, 12, cb.Base.Strength)
	assert.Equal(t, 14, cb.Attributes().Strength)
	assert.True(t, cb.Mods.HasSource(stats.Source{Kind: stats.SourceEquipment, ID: "sword"}))
	assert.Equal(t, 35, cb.Weight)
	assert.Equal(t, 10-3, cb.Speed())
	require.Len(t, cb.Protections, 1)
	assert.Equal(t, environment.Partial, cb.Protections[0].Kind)
	assert.Equal(t, "cloak", cb.Protections[0].Source)

	cb.Abilities[0] = "changed"
	cb.Equipment[inventory.SlotWeapon] = "axe"
	assert.Equal(t, "slash", c.Abilities[0])
	assert.Equal(t, "sword", c.Equipment[inventory.SlotWeapon])
}

func TestApplyResult_Victory(t *testing.T) {
	c, cat := outfitted(t)
	cb := c.ToCombatant(cat)
	cb.Life, cb.Mana = 9, 2

	rep, err := c.ApplyResult(cb, combat.BattleResult{
		Outcome: combat.Victory,
		Exp:     120,
		Gold:    14,
		Loot:    []combat.LootItem{{ItemID: "potion", Quantity: 2}, {ItemID: "relic", Quantity: 1}},
	}, knight(), cat)
	require.NoError(t, err)

	assert.Equal(t, 9+character.LifePerLevel, c.Life)
	assert.Equal(t, 2+character.ManaPerLevel, c.Mana)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 20, c.Experience)
	assert.Len(t, rep.LevelUps, 1)
	assert.Equal(t, 14, c.Wallet.Gold())
	assert.Equal(t, 2, c.Backpack.Count("potion"))
	require.Len(t, rep.Looted, 1)
	require.Len(t, rep.Lost, 1)
	assert.Equal(t, "relic", rep.Lost[0].ItemID)
}

func TestApplyResult_DefeatLeavesOneLifeAndNoRewards(t *testing.T) {
	c, cat := outfitted(t)
	cb := c.ToCombatant(cat)
	cb.Life = 0

	rep, err := c.ApplyResult(cb, combat.BattleResult{Outcome: combat.Defeat, Exp: 500, Gold: 50}, knight(), cat)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Life)
	assert.Equal(t, 1, c.Level)
	assert.Zero(t, c.Wallet.Gold())
	assert.Zero(t, rep.Exp)

	_, err = c.ApplyResult(nil, combat.BattleResult{}, knight(), cat)
	assert.Error(t, err)
}
