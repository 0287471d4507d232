// Package session runs one adventure: a hero walking a story graph and
// fighting its encounters through the combat engine.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/command"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/content"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/story"
)

var (
	// ErrUnknownStory is returned by New when the library has no such story.
	ErrUnknownStory = errors.New("session: unknown story")
	// ErrNotAuto is returned by Step on an adventure created without Auto.
	ErrNotAuto = errors.New("session: adventure is not in auto mode")
	// ErrStuck is returned by Step when no choice of the current scene is available.
	ErrStuck = errors.New("session: no available choice")
)

// Recorder stores finished battles. *postgres.BattleRepository satisfies it.
type Recorder interface {
	RecordBattle(ctx context.Context, storyID, sceneID string, b *combat.Battle, res combat.BattleResult) error
}

// Options configures an Adventure. Every field is optional.
type Options struct {
	// Source defaults to dice.NewCryptoSource().
	Source dice.Source
	// Rules defaults to combat.DefaultRules().
	Rules combat.Rules
	// Scripts runs enemy tactic hooks; nil leaves every enemy on weighted choices.
	Scripts combat.ActionScript
	// History receives every finished battle.
	History Recorder
	// Auto lets the hero act on weighted choices when no action is given.
	Auto   bool
	Logger *zap.Logger
}

// Adventure is one play-through of a story. It is not safe for concurrent use.
type Adventure struct {
	lib      *content.Library
	story    *story.Story
	nav      *story.Navigator
	hero     *character.Character
	class    *character.Class
	commands *command.Registry

	src     dice.Source
	rules   combat.Rules
	scripts combat.ActionScript
	history Recorder
	auto    bool
	logger  *zap.Logger

	battle  *combat.Battle
	lastLog []combat.LogEntry
	shop    *inventory.Shop
	quit    bool
}

// New creates an adventure through story storyID of lib with the story's
// hero built from its class and outfitted with its loadout.
//
// Precondition: lib must be a loaded, cross-validated library.
// Postcondition: returns ErrUnknownStory when storyID is not in lib.
func New(lib *content.Library, storyID string, opts Options) (*Adventure, error) {
	s, ok := lib.Story(storyID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStory, storyID)
	}
	class, ok := lib.Classes().Class(s.Hero.Class)
	if !ok {
		return nil, fmt.Errorf("story %q: unknown hero class %q", s.ID, s.Hero.Class)
	}
	hero, err := character.Build(s.Hero.Name, class)
	if err != nil {
		return nil, fmt.Errorf("building hero of story %q: %w", s.ID, err)
	}
	if err := hero.Outfit(s.Hero.Loadout, lib); err != nil {
		return nil, err
	}

	a := &Adventure{
		lib:      lib,
		story:    s,
		nav:      story.NewNavigator(s),
		hero:     hero,
		class:    class,
		commands: command.DefaultRegistry(),
		src:      opts.Source,
		rules:    opts.Rules,
		scripts:  opts.Scripts,
		history:  opts.History,
		auto:     opts.Auto,
		logger:   opts.Logger,
	}
	if a.src == nil {
		a.src = dice.NewCryptoSource()
	}
	if a.rules == (combat.Rules{}) {
		a.rules = combat.DefaultRules()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	a.logger = a.logger.With(zap.String("story", s.ID))
	return a, nil
}

// Story returns the story being played.
func (a *Adventure) Story() *story.Story { return a.story }

// Hero returns the player character.
func (a *Adventure) Hero() *character.Character { return a.hero }

// Scene returns the current scene.
func (a *Adventure) Scene() *story.Scene { return a.nav.Current() }

// Visited returns the ids of every scene entered so far.
func (a *Adventure) Visited() []string { return a.nav.Visited() }

// Battle returns the battle in progress, or nil.
func (a *Adventure) Battle() *combat.Battle { return a.battle }

// Done reports whether the story reached an ending or the player quit.
func (a *Adventure) Done() bool { return a.quit || a.nav.Ended() }

// Start describes the start scene and begins its encounter, if any.
func (a *Adventure) Start(ctx context.Context) (string, error) {
	a.logger.Info("adventure started", zap.String("hero", a.hero.Name), zap.String("scene", a.story.Start))
	return a.enter(ctx)
}

// enter describes the current scene and applies what entering it does.
func (a *Adventure) enter(ctx context.Context) (string, error) {
	sc := a.nav.Current()
	a.logger.Debug("entered scene", zap.String("scene", sc.ID))

	var sb strings.Builder
	sb.WriteString(renderScene(sc))
	if sc.Rest {
		a.hero.Rest()
		sb.WriteString("\n\nYou rest and recover your strength.")
	}
	a.shop = nil
	if len(sc.Shop) > 0 {
		shop, err := inventory.NewShop(sc.Title, a.lib, sc.Shop)
		if err != nil {
			return sb.String(), fmt.Errorf("scene %q: %w", sc.ID, err)
		}
		a.shop = shop
		sb.WriteString("\n\nA merchant trades here. Type shop to see the wares.")
	}
	switch {
	case sc.IsEnding():
		a.logger.Info("adventure ended", zap.String("scene", sc.ID), zap.String("ending", sc.Ending))
		fmt.Fprintf(&sb, "\n\n*** THE END (%s) ***", sc.Ending)
	case sc.Encounter != nil:
		text, err := a.startBattle()
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString("\n\n" + text)
	default:
		sb.WriteString("\n\n" + a.renderOptions())
	}
	return sb.String(), nil
}

// Handle interprets one line of player input.
//
// Postcondition: mistakes such as unknown commands, unusable abilities or
// bad targets come back as text with a nil error; only failures that stop
// the adventure return an error.
func (a *Adventure) Handle(ctx context.Context, line string) (string, error) {
	if a.Done() {
		return "The adventure is over.", nil
	}
	p := command.Parse(line)
	if p.Command == "" {
		return "", nil
	}
	if n, ok := p.Index(); ok {
		if a.battle != nil {
			return "Finish the battle first.", nil
		}
		return a.choose(ctx, n)
	}
	cmd, ok := a.commands.Resolve(p.Command)
	if !ok {
		return fmt.Sprintf("Unknown command %q. Type help for a list.", p.Command), nil
	}
	if command.IsBattleCommand(cmd.Handler) && a.battle == nil {
		return "You are not in a battle.", nil
	}

	switch cmd.Handler {
	case command.HandlerChoose:
		if a.battle != nil {
			return "Finish the battle first.", nil
		}
		n, ok := command.ParseIndex(p.Arg(0))
		if !ok {
			return "Usage: " + cmd.Usage, nil
		}
		return a.choose(ctx, n)
	case command.HandlerLook:
		if a.battle != nil {
			return a.renderBattlefield(), nil
		}
		return renderScene(a.nav.Current()) + "\n\n" + a.renderOptions(), nil
	case command.HandlerAttack:
		return a.attack(ctx, p.Args)
	case command.HandlerDefend:
		return a.act(ctx, combat.Defend())
	case command.HandlerFlee:
		return a.act(ctx, combat.Flee())
	case command.HandlerPass:
		return a.act(ctx, combat.Pass())
	case command.HandlerAbilities:
		return a.renderAbilities(), nil
	case command.HandlerUse:
		if a.battle != nil {
			return a.useInBattle(ctx, p.Args)
		}
		return command.HandleUse(a.hero, a.lib, p.RawArgs), nil
	case command.HandlerInventory:
		return command.HandleInventory(a.hero, a.lib), nil
	case command.HandlerStatus:
		if a.battle != nil {
			return a.renderHeroInBattle(), nil
		}
		return command.HandleStatus(a.hero, a.class), nil
	case command.HandlerEquip, command.HandlerUnequip:
		if a.battle != nil {
			return "You cannot change equipment during a battle.", nil
		}
		if cmd.Handler == command.HandlerEquip {
			return command.HandleEquip(a.hero, a.lib, p.RawArgs), nil
		}
		return command.HandleUnequip(a.hero, a.lib, p.RawArgs), nil
	case command.HandlerEquipment:
		return command.HandleEquipment(a.hero, a.lib), nil
	case command.HandlerShop, command.HandlerBuy, command.HandlerSell:
		if a.battle != nil {
			return "You cannot trade during a battle.", nil
		}
		if a.shop == nil {
			return "There is no merchant here.", nil
		}
		switch cmd.Handler {
		case command.HandlerBuy:
			return command.HandleBuy(a.shop, a.hero, p.RawArgs), nil
		case command.HandlerSell:
			return command.HandleSell(a.shop, a.hero, a.lib, p.RawArgs), nil
		}
		return command.HandleShop(a.shop, a.hero.Wallet), nil
	case command.HandlerHistory:
		return a.renderHistory(), nil
	case command.HandlerHelp:
		inBattle := a.battle != nil
		return a.commands.HelpText(func(cat string) bool {
			switch cat {
			case command.CategoryBattle:
				return inBattle
			case command.CategoryStory:
				return !inBattle
			case command.CategoryShop:
				return !inBattle && a.shop != nil
			}
			return true
		}), nil
	case command.HandlerQuit:
		a.quit = true
		a.logger.Info("adventure quit", zap.String("scene", a.nav.Current().ID))
		return "Farewell.", nil
	}
	return fmt.Sprintf("%s is not available here.", cmd.Name), nil
}

// choose follows 1-based choice n and applies its gold and item effects.
func (a *Adventure) choose(ctx context.Context, n int) (string, error) {
	ch, err := a.nav.Choose(n-1, a.hero)
	switch {
	case errors.Is(err, story.ErrNoSuchChoice):
		return fmt.Sprintf("There is no choice %d.", n), nil
	case errors.Is(err, story.ErrRequirementNotMet):
		return fmt.Sprintf("You cannot do that yet (%s).", a.requirement(n-1)), nil
	case err != nil:
		return "", err
	}

	var sb strings.Builder
	switch {
	case ch.Gold > 0:
		a.hero.Wallet.Earn(ch.Gold)
		fmt.Fprintf(&sb, "You gain %s.\n", inventory.FormatGold(ch.Gold))
	case ch.Gold < 0:
		if err := a.hero.Wallet.Spend(-ch.Gold); err != nil {
			return "", fmt.Errorf("paying for choice %d: %w", n, err)
		}
		fmt.Fprintf(&sb, "You pay %s.\n", inventory.FormatGold(-ch.Gold))
	}
	if ch.GivesItem != "" {
		name := a.itemName(ch.GivesItem)
		if err := a.hero.Backpack.Add(ch.GivesItem, 1, a.lib); err != nil {
			fmt.Fprintf(&sb, "You have no room for %s and leave it behind.\n", name)
		} else {
			fmt.Fprintf(&sb, "You receive %s.\n", name)
		}
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	text, err := a.enter(ctx)
	return sb.String() + text, err
}

// requirement describes why option i of the current scene is unavailable.
func (a *Adventure) requirement(i int) string {
	opts := a.nav.Options(a.hero)
	if i < 0 || i >= len(opts) {
		return "unavailable"
	}
	return a.optionReason(opts[i])
}

func (a *Adventure) optionReason(o story.Option) string {
	ch := o.Choice
	if ch.RequiresItem != "" && !a.hero.Has(ch.RequiresItem) {
		return "needs " + a.itemName(ch.RequiresItem)
	}
	if ch.Gold < 0 {
		return fmt.Sprintf("costs %s, you have %d", inventory.FormatGold(-ch.Gold), a.hero.Gold())
	}
	return o.Reason
}

func (a *Adventure) itemName(id string) string {
	if def, ok := a.lib.Item(id); ok {
		return def.Name
	}
	return id
}

// Step advances an auto adventure by one decision: a battle round, or the
// first available choice of the current scene.
//
// Postcondition: returns ErrNotAuto unless the adventure was created with
// Options.Auto, and ErrStuck when every choice is locked.
func (a *Adventure) Step(ctx context.Context) (string, error) {
	if !a.auto {
		return "", ErrNotAuto
	}
	if a.Done() {
		return "", nil
	}
	if a.battle != nil {
		return a.resolve(ctx)
	}
	for _, o := range a.nav.Options(a.hero) {
		if o.Available {
			text, err := a.choose(ctx, o.Index+1)
			return fmt.Sprintf("> %s\n%s", o.Choice.Label, text), err
		}
	}
	return "", fmt.Errorf("%w in scene %q", ErrStuck, a.nav.Current().ID)
}
