package story_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/story"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

const caveYAML = `
story:
  id: cave
  title: The Cave
  start: mouth
  hero:
    name: Aria
    class: knight
    loadout:
      gold: 10
      items:
        - item: potion
          quantity: 2
      equip: [sword]
  scenes:
    - id: mouth
      title: Cave Mouth
      text: |
        A cold wind blows from the dark.
      choices:
        - label: Enter the cave
          next: hall
        - label: Unlock the side door
          next: vault
          requires_item: key
    - id: hall
      title: Great Hall
      text: Wolves circle you.
      encounter:
        enemies: [wolf, wolf]
        environment: swamp
        intensity: 3
        on_victory: vault
        on_defeat: dead
    - id: vault
      title: Vault
      text: Gold glitters everywhere.
      ending: victory
    - id: dead
      title: The End
      text: The wolves feast.
      ending: death
`

func loadCave(t *testing.T) *story.Story {
	t.Helper()
	s, err := story.LoadFromBytes([]byte(caveYAML))
	require.NoError(t, err)
	return s
}

type party struct {
	items map[string]bool
	gold  int
}

func (p party) Has(id string) bool { return p.items[id] }
func (p party) Gold() int          { return p.gold }

func TestLoadFromBytes(t *testing.T) {
	s := loadCave(t)
	assert.Equal(t, "cave", s.ID)
	assert.Equal(t, "knight", s.Hero.Class)
	assert.Equal(t, 10, s.Hero.Loadout.Gold)
	assert.Equal(t, []string{"mouth", "hall", "vault", "dead"}, s.Order)

	mouth, ok := s.Scene("mouth")
	require.True(t, ok)
	assert.Equal(t, "A cold wind blows from the dark.", mouth.Text)
	require.Len(t, mouth.Choices, 2)
	assert.Equal(t, "key", mouth.Choices[1].RequiresItem)

	hall, _ := s.Scene("hall")
	require.NotNil(t, hall.Encounter)
	assert.Equal(t, []string{"wolf", "wolf"}, hall.Encounter.Enemies)
	assert.Equal(t, 3, hall.Encounter.Intensity)
}

func TestLoadFromBytes_StartDefaultsToFirstScene(t *testing.T) {
	s, err := story.LoadFromBytes([]byte(`
story:
  id: short
  title: Short
  hero: {name: A, class: knight}
  scenes:
    - {id: only, title: Only, ending: victory}
`))
	require.NoError(t, err)
	assert.Equal(t, "only", s.Start)
}

func TestLoadFromBytes_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key": `
story:
  id: x
  title: X
  colour: red
`,
		"missing start scene": `
story:
  id: x
  title: X
  start: nowhere
  hero: {name: A, class: knight}
  scenes:
    - {id: a, title: A, ending: victory}
`,
		"dangling choice": `
story:
  id: x
  title: X
  hero: {name: A, class: knight}
  scenes:
    - id: a
      title: A
      choices:
        - {label: Go, next: b}
`,
		"duplicate scene": `
story:
  id: x
  title: X
  hero: {name: A, class: knight}
  scenes:
    - {id: a, title: A, ending: victory}
    - {id: a, title: B, ending: victory}
`,
		"choices and ending": `
story:
  id: x
  title: X
  hero: {name: A, class: knight}
  scenes:
    - id: a
      title: A
      ending: victory
      choices:
        - {label: Stay, next: a}
`,
		"encounter without enemies": `
story:
  id: x
  title: X
  hero: {name: A, class: knight}
  scenes:
    - id: a
      title: A
      encounter: {on_victory: b, on_defeat: b}
    - {id: b, title: B, ending: death}
`,
		"missing hero": `
story:
  id: x
  title: X
  scenes:
    - {id: a, title: A, ending: victory}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := story.LoadFromBytes([]byte(doc))
			require.Error(t, err)
			assert.True(t, validate.IsConfigError(err), "got %v", err)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cave.yaml"), []byte(caveYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	stories, err := story.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "cave", stories[0].ID)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("story: {id: bad}"), 0o644))
	_, err = story.LoadDir(dir)
	assert.Error(t, err)
}

func TestReachable(t *testing.T) {
	s := loadCave(t)
	assert.ElementsMatch(t, []string{"mouth", "hall", "vault", "dead"}, s.Reachable())
}

func TestNavigator_Choices(t *testing.T) {
	n := story.NewNavigator(loadCave(t))
	assert.Equal(t, "mouth", n.Current().ID)

	opts := n.Options(party{})
	require.Len(t, opts, 2)
	assert.True(t, opts[0].Available)
	assert.False(t, opts[1].Available)

	_, err := n.Choose(1, party{})
	assert.ErrorIs(t, err, story.ErrRequirementNotMet)
	_, err = n.Choose(5, party{})
	assert.ErrorIs(t, err, story.ErrNoSuchChoice)
	assert.Equal(t, "mouth", n.Current().ID)

	ch, err := n.Choose(1, party{items: map[string]bool{"key": true}})
	require.NoError(t, err)
	assert.Equal(t, "vault", ch.Next)
	assert.True(t, n.Ended())
	assert.Equal(t, []string{"mouth", "vault"}, n.Visited())

	_, err = n.Choose(0, nil)
	assert.ErrorIs(t, err, story.ErrStoryEnded)
}

func TestNavigator_Encounter(t *testing.T) {
	cases := []struct {
		outcome combat.Outcome
		want    string
	}{
		{combat.Victory, "vault"},
		{combat.Defeat, "dead"},
		{combat.Fled, "dead"},
	}
	for _, tc := range cases {
		t.Run(tc.outcome.String(), func(t *testing.T) {
			n := story.NewNavigator(loadCave(t))
			_, err := n.ResolveEncounter(tc.outcome)
			assert.ErrorIs(t, err, story.ErrNoEncounter)

			_, err = n.Choose(0, nil)
			require.NoError(t, err)
			_, err = n.Choose(0, nil)
			assert.ErrorIs(t, err, story.ErrEncounterPending)

			_, err = n.ResolveEncounter(combat.Aborted)
			assert.ErrorIs(t, err, story.ErrUnresolvedOutcome)
			assert.Equal(t, "hall", n.Current().ID)

			sc, err := n.ResolveEncounter(tc.outcome)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sc.ID)
		})
	}
}

func TestRestoreNavigator(t *testing.T) {
	s := loadCave(t)
	n, err := story.RestoreNavigator(s, "hall", []string{"mouth", "hall"})
	require.NoError(t, err)
	assert.Equal(t, "hall", n.Current().ID)
	assert.Equal(t, []string{"mouth", "hall"}, n.Visited())

	_, err = story.RestoreNavigator(s, "attic", nil)
	assert.Error(t, err)
}

func TestNavigator_GoldRequirement(t *testing.T) {
	s, err := story.LoadFromBytes([]byte(`
story:
  id: shop
  title: Shop
  hero: {name: A, class: knight}
  scenes:
    - id: counter
      title: Counter
      choices:
        - {label: Buy, next: done, gives_item: cloak, gold: -30}
    - {id: done, title: Done, ending: victory}
`))
	require.NoError(t, err)
	n := story.NewNavigator(s)

	assert.False(t, n.Options(party{gold: 29})[0].Available)
	_, err = n.Choose(0, party{gold: 29})
	assert.ErrorIs(t, err, story.ErrRequirementNotMet)

	ch, err := n.Choose(0, party{gold: 30})
	require.NoError(t, err)
	assert.Equal(t, -30, ch.Gold)
	assert.Equal(t, "cloak", ch.GivesItem)
}
