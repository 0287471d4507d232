package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/content"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/session"
)

const marketStory = `story:
  id: market_day
  title: Market Day
  hero:
    name: Bram
    class: knight
    loadout:
      gold: 50
      equip: [sword]
  scenes:
    - id: market
      title: The Market
      text: Stalls line the square.
      shop: [potion, ether]
      choices:
        - {label: Leave the square, next: road}
    - id: road
      title: The Road
      text: The road runs home.
      choices:
        - {label: Walk home, next: home}
    - id: home
      title: Home
      text: You are home.
      ending: victory
`

// marketAdventure loads the sample content plus a story that opens on a shop.
func marketAdventure(t *testing.T) (*session.Adventure, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.CopyFS(root, os.DirFS(sampleContent)))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stories", "market_day.yaml"), []byte(marketStory), 0o644))

	lib, err := content.LoadDirectory(root, nil)
	require.NoError(t, err)
	adv, err := session.New(lib, "market_day", session.Options{})
	require.NoError(t, err)
	text, err := adv.Start(context.Background())
	require.NoError(t, err)
	return adv, text
}

func TestAdventure_Shop(t *testing.T) {
	ctx := context.Background()
	adv, text := marketAdventure(t)
	assert.Contains(t, text, "A merchant trades here.")

	out, err := adv.Handle(ctx, "shop")
	require.NoError(t, err)
	assert.Contains(t, out, "=== The Market ===")
	assert.Contains(t, out, "Healing Potion")
	assert.Contains(t, out, "You have 50 gold pieces.")

	out, err = adv.Handle(ctx, "buy healing potion 2")
	require.NoError(t, err)
	assert.Equal(t, "You buy Healing Potion x2 for 40 gold pieces.", out)
	assert.Equal(t, 10, adv.Hero().Gold())

	out, err = adv.Handle(ctx, "sell potion")
	require.NoError(t, err)
	assert.Equal(t, "You sell Healing Potion x1 for 10 gold pieces.", out)
	assert.Equal(t, 1, adv.Hero().Backpack.Count("potion"))
	assert.Equal(t, 20, adv.Hero().Gold())

	help, err := adv.Handle(ctx, "help")
	require.NoError(t, err)
	assert.Contains(t, help, "Shop commands:")

	_, err = adv.Handle(ctx, "1")
	require.NoError(t, err)
	out, err = adv.Handle(ctx, "buy potion")
	require.NoError(t, err)
	assert.Equal(t, "There is no merchant here.", out)

	help, err = adv.Handle(ctx, "help")
	require.NoError(t, err)
	assert.NotContains(t, help, "Shop commands:")
}

func TestAdventure_ShopNeedsChoices(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.CopyFS(root, os.DirFS(sampleContent)))
	broken := `story:
  id: dead_end
  title: Dead End
  hero: {name: Bram, class: knight}
  scenes:
    - id: stall
      title: The Stall
      shop: [potion]
      ending: victory
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "stories", "dead_end.yaml"), []byte(broken), 0o644))

	_, err := content.LoadDirectory(root, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shop")
}
