package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r)
	assert.Greater(t, len(r.Commands()), 0)
}

func TestResolve_CanonicalName(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("choose")
	assert.True(t, ok)
	assert.Equal(t, "choose", cmd.Name)
	assert.Equal(t, HandlerChoose, cmd.Handler)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("cast")
	assert.True(t, ok)
	assert.Equal(t, "attack", cmd.Name)
}

func TestResolve_NotFound(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.Resolve("teleport")
	assert.False(t, ok)
}

func TestResolve_AllCommands(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		input   string
		handler string
	}{
		{"c", HandlerChoose},
		{"look", HandlerLook},
		{"l", HandlerLook},
		{"a", HandlerAttack},
		{"def", HandlerDefend},
		{"run", HandlerFlee},
		{"wait", HandlerPass},
		{"ab", HandlerAbilities},
		{"item", HandlerUse},
		{"i", HandlerInventory},
		{"sheet", HandlerStatus},
		{"wear", HandlerEquip},
		{"remove", HandlerUnequip},
		{"gear", HandlerEquipment},
		{"log", HandlerHistory},
		{"?", HandlerHelp},
		{"exit", HandlerQuit},
		{"q", HandlerQuit},
	}

	for _, tt := range tests {
		cmd, ok := r.Resolve(tt.input)
		require.True(t, ok, "input %q not found", tt.input)
		assert.Equal(t, tt.handler, cmd.Handler, "input %q wrong handler", tt.input)
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	cmds := []Command{
		{Name: "test", Handler: "a"},
		{Name: "test", Handler: "b"},
	}
	_, err := NewRegistry(cmds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate command name")
}

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	cmds := []Command{
		{Name: "test1", Aliases: []string{"t"}, Handler: "a"},
		{Name: "test2", Aliases: []string{"t"}, Handler: "b"},
	}
	_, err := NewRegistry(cmds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate alias")
}

func TestCommandsByCategory(t *testing.T) {
	r := DefaultRegistry()
	cats := r.CommandsByCategory()

	assert.Contains(t, cats, CategoryStory)
	assert.Contains(t, cats, CategoryBattle)
	assert.Contains(t, cats, CategoryHero)
	assert.Contains(t, cats, CategoryShop)
	assert.Contains(t, cats, CategorySystem)
	assert.Len(t, cats[CategoryBattle], 5)
	assert.Len(t, cats[CategoryShop], 3)
}

func TestCommands_Sorted(t *testing.T) {
	cmds := DefaultRegistry().Commands()
	for i := 1; i < len(cmds); i++ {
		assert.Less(t, cmds[i-1].Name, cmds[i].Name)
	}
}

func TestHelpText(t *testing.T) {
	r := DefaultRegistry()

	all := r.HelpText(nil)
	assert.Contains(t, all, "Story commands:")
	assert.Contains(t, all, "Battle commands:")
	assert.Contains(t, all, "attack [ability] [target]")
	assert.Less(t, strings.Index(all, "Story commands:"), strings.Index(all, "System commands:"))

	story := r.HelpText(func(cat string) bool { return cat != CategoryBattle })
	assert.NotContains(t, story, "Battle commands:")
	assert.Contains(t, story, "choose <n>")
}

func TestPropertyAllAliasesResolveToCanonical(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := DefaultRegistry()
		cmds := r.Commands()
		idx := rapid.IntRange(0, len(cmds)-1).Draw(t, "cmd_idx")
		cmd := cmds[idx]

		// Canonical name should resolve
		resolved, ok := r.Resolve(cmd.Name)
		if !ok {
			t.Fatalf("canonical name %q did not resolve", cmd.Name)
		}
		if resolved.Name != cmd.Name {
			t.Fatalf("canonical name %q resolved to %q", cmd.Name, resolved.Name)
		}

		// All aliases should resolve to same command
		for _, alias := range cmd.Aliases {
			aliasResolved, ok := r.Resolve(alias)
			if !ok {
				t.Fatalf("alias %q did not resolve", alias)
			}
			if aliasResolved.Name != cmd.Name {
				t.Fatalf("alias %q resolved to %q, expected %q", alias, aliasResolved.Name, cmd.Name)
			}
		}
	})
}

func TestIsBattleCommand(t *testing.T) {
	assert.True(t, IsBattleCommand(HandlerAttack))
	assert.True(t, IsBattleCommand(HandlerFlee))
	assert.False(t, IsBattleCommand(HandlerUse))
	assert.False(t, IsBattleCommand(HandlerChoose))
}
