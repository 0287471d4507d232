package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/command"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
)

func newMarket(t *testing.T) (*inventory.Shop, *inventory.Registry) {
	t.Helper()
	reg := inventory.NewRegistry()
	for _, d := range []*inventory.ItemDef{
		{ID: "potion", Name: "Potion", Kind: inventory.KindConsumable, Stackable: true, MaxStack: 10, Value: 5, Use: &inventory.UseEffect{Heal: 10}},
		{ID: "ether", Name: "Ether", Kind: inventory.KindConsumable, Value: 8, Use: &inventory.UseEffect{RestoreMana: 5}},
		{ID: "bone", Name: "Old Bone", Kind: inventory.KindJunk, Value: 2},
	} {
		require.NoError(t, reg.RegisterItem(d))
	}
	shop, err := inventory.NewShop("Ember Market", reg, []string{"potion", "ether"})
	require.NoError(t, err)
	return shop, reg
}

func TestHandleShop(t *testing.T) {
	shop, reg := newMarket(t)
	c := newHero(t, reg)

	out := command.HandleShop(shop, c.Wallet)
	assert.Contains(t, out, "=== Ember Market ===")
	assert.Contains(t, out, "Potion")
	assert.Contains(t, out, "5 gold pieces")
	assert.Contains(t, out, "You have 12 gold pieces.")
	assert.NotContains(t, out, "Old Bone")
}

func TestHandleBuy(t *testing.T) {
	shop, reg := newMarket(t)

	t.Run("WithQuantity", func(t *testing.T) {
		c := newHero(t, reg)
		out := command.HandleBuy(shop, c, "potion 2")
		assert.Equal(t, "You buy Potion x2 for 10 gold pieces.", out)
		assert.Equal(t, 2, c.Backpack.Count("potion"))
		assert.Equal(t, 2, c.Wallet.Gold())
	})

	t.Run("TooExpensive", func(t *testing.T) {
		c := newHero(t, reg)
		out := command.HandleBuy(shop, c, "Ether 2")
		assert.Equal(t, "You cannot afford 2 Ether (16 gold pieces).", out)
		assert.Equal(t, 12, c.Wallet.Gold())
		assert.False(t, c.Has("ether"))
	})

	t.Run("FullBackpack", func(t *testing.T) {
		c := newHero(t, reg, "bone", "bone", "bone", "bone")
		out := command.HandleBuy(shop, c, "ether")
		assert.Equal(t, "No room in your pack for Ether.", out)
		assert.Equal(t, 12, c.Wallet.Gold())
	})

	t.Run("NotStocked", func(t *testing.T) {
		c := newHero(t, reg)
		assert.Equal(t, "Ember Market does not sell bone.", command.HandleBuy(shop, c, "bone"))
	})

	t.Run("Usage", func(t *testing.T) {
		c := newHero(t, reg)
		assert.Equal(t, "Usage: buy <item> [quantity]", command.HandleBuy(shop, c, "  "))
	})
}

func TestHandleSell(t *testing.T) {
	shop, reg := newMarket(t)

	t.Run("ByName", func(t *testing.T) {
		c := newHero(t, reg, "bone")
		out := command.HandleSell(shop, c, reg, "old bone")
		assert.Equal(t, "You sell Old Bone x1 for 1 gold piece.", out)
		assert.Equal(t, 13, c.Wallet.Gold())
		assert.False(t, c.Has("bone"))
	})

	t.Run("NotEnough", func(t *testing.T) {
		c := newHero(t, reg, "potion")
		out := command.HandleSell(shop, c, reg, "potion 3")
		assert.Equal(t, "You only have 1 Potion.", out)
		assert.Equal(t, 1, c.Backpack.Count("potion"))
		assert.Equal(t, 12, c.Wallet.Gold())
	})

	t.Run("NotHeld", func(t *testing.T) {
		c := newHero(t, reg)
		assert.Equal(t, "ether: not found in your pack", command.HandleSell(shop, c, reg, "ether"))
	})
}
