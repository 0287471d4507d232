// Package content loads a content directory of YAML definitions into a
// validated, read-only Library that battles consult.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/element"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/npc"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/status"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/story"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Subdirectories of a content root.
const (
	AbilitiesDir    = "abilities"
	StatusesDir     = "statuses"
	TypesDir        = "types"
	EnvironmentsDir = "environments"
	ItemsDir        = "items"
	EnemiesDir      = "enemies"
	ClassesDir      = "classes"
	StoriesDir      = "stories"
	ScriptsDir      = "scripts"
)

// Library is every definition of one content root. It implements
// combat.Provider and inventory.Catalog and is read-only once loaded.
type Library struct {
	root      string
	abilities *ability.Registry
	statuses  *status.Registry
	items     *inventory.Registry
	chart     *element.Chart
	envs      *environment.Resolver
	roster    *npc.Roster
	classes   *character.Registry
	stories   map[string]*story.Story
}

// Ability returns the ability definition for id.
func (l *Library) Ability(id string) (*ability.Def, bool) { return l.abilities.Get(id) }

// Status returns the status definition for tag.
func (l *Library) Status(tag string) (*status.Def, bool) { return l.statuses.Get(tag) }

// Item returns the item definition for id.
func (l *Library) Item(id string) (*inventory.ItemDef, bool) { return l.items.Item(id) }

// Chart returns the type-effectiveness chart.
func (l *Library) Chart() *element.Chart { return l.chart }

// Environments returns the environment resolver.
func (l *Library) Environments() *environment.Resolver { return l.envs }

// Roster returns the enemy templates.
func (l *Library) Roster() *npc.Roster { return l.roster }

// Classes returns the character classes.
func (l *Library) Classes() *character.Registry { return l.classes }

// Root returns the directory the library was loaded from.
func (l *Library) Root() string { return l.root }

// Story returns the story with id.
func (l *Library) Story(id string) (*story.Story, bool) {
	s, ok := l.stories[id]
	return s, ok
}

// Stories returns every story sorted by id.
func (l *Library) Stories() []*story.Story {
	out := make([]*story.Story, 0, len(l.stories))
	for _, s := range l.stories {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Abilities returns every ability sorted by id.
func (l *Library) Abilities() []*ability.Def { return l.abilities.All() }

// Statuses returns every status sorted by tag.
func (l *Library) Statuses() []*status.Def { return l.statuses.All() }

// loader accumulates definitions and errors for one LoadDirectory call.
type loader struct {
	root   string
	logger *zap.Logger
	scale  chanceScale
	errs   []error
	lib    *Library
}

func (ld *loader) fail(err error) {
	if err != nil {
		ld.errs = append(ld.errs, err)
	}
}

// each decodes every definition under the kind's subdirectory with fn.
func (ld *loader) each(dir, kind string, fn func(path string, n *yaml.Node) error) int {
	paths, err := yamlFiles(filepath.Join(ld.root, dir))
	if err != nil {
		ld.fail(err)
		return 0
	}
	count := 0
	for _, path := range paths {
		nodes, err := readDefinitions(kind, path)
		if err != nil {
			ld.fail(err)
			continue
		}
		for _, n := range nodes {
			normalizeKeys(n, path, ld.logger)
			if err := fn(path, n); err != nil {
				ld.fail(fmt.Errorf("%s: %w", path, err))
				continue
			}
			count++
		}
	}
	ld.logger.Debug("content: loaded definitions", zap.String("kind", kind), zap.Int("count", count))
	return count
}

// decode strictly decodes n into out, reporting failures as ConfigErrors.
func decode(kind string, n *yaml.Node, out any) error {
	if err := decodeStrict(n, out); err != nil {
		return validate.Errorf(kind, scalarValue(n, "id"), "", "decoding: %v", err)
	}
	return nil
}

// LoadDirectory loads and validates every definition under root.
//
// Precondition: root must be a readable directory.
// Postcondition: returns a Library whose cross references all resolve, or
// every problem found joined into one error; schema problems are
// *validate.ConfigError values reachable with errors.As.
func LoadDirectory(root string, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content: %s is not a directory", root)
	}

	ld := &loader{
		root:   root,
		logger: logger,
		scale:  chanceScale{logger: logger},
		lib: &Library{
			root:      root,
			abilities: ability.NewRegistry(),
			statuses:  status.NewRegistry(),
			items:     inventory.NewRegistry(),
			roster:    npc.NewRoster(),
			classes:   character.NewRegistry(),
			stories:   make(map[string]*story.Story),
		},
	}
	ld.loadTypes()
	ld.loadStatuses()
	ld.loadAbilities()
	ld.loadEnvironments()
	ld.loadItems()
	ld.loadEnemies()
	ld.loadClasses()
	ld.loadStories()

	if len(ld.errs) == 0 {
		ld.crossValidate()
	}
	if len(ld.errs) > 0 {
		return nil, errors.Join(ld.errs...)
	}

	lib := ld.lib
	logger.Info("content loaded",
		zap.String("root", root),
		zap.Int("types", len(lib.chart.IDs())),
		zap.Int("statuses", len(lib.statuses.All())),
		zap.Int("abilities", len(lib.abilities.All())),
		zap.Int("environments", len(lib.envs.IDs())),
		zap.Int("items", len(lib.items.AllItems())),
		zap.Int("enemies", len(lib.roster.All())),
		zap.Int("classes", len(lib.classes.All())),
		zap.Int("stories", len(lib.stories)),
	)
	return lib, nil
}

func (ld *loader) loadTypes() {
	var defs []*element.Def
	ld.each(TypesDir, "type", func(_ string, n *yaml.Node) error {
		var d element.Def
		if err := decode("type", n, &d); err != nil {
			return err
		}
		defs = append(defs, &d)
		return nil
	})
	chart, err := element.NewChart(defs...)
	ld.fail(err)
	ld.lib.chart = chart
}

func (ld *loader) loadStatuses() {
	ld.each(StatusesDir, "status", func(_ string, n *yaml.Node) error {
		var d status.Def
		if err := decode("status", n, &d); err != nil {
			return err
		}
		return ld.lib.statuses.Register(&d)
	})
}

func (ld *loader) loadAbilities() {
	ld.each(AbilitiesDir, "ability", func(_ string, n *yaml.Node) error {
		var d ability.Def
		if err := decode("ability", n, &d); err != nil {
			return err
		}
		if d.Effect != nil {
			chance, err := ld.scale.fraction("ability", d.ID, "effect.chance", d.Effect.Chance)
			if err != nil {
				return err
			}
			d.Effect.Chance = chance
		}
		if d.CritChance != nil {
			chance, err := ld.scale.fraction("ability", d.ID, "crit_chance", *d.CritChance)
			if err != nil {
				return err
			}
			d.CritChance = &chance
		}
		return ld.lib.abilities.Register(&d)
	})
}

func (ld *loader) loadEnvironments() {
	var defs []*environment.Def
	ld.each(EnvironmentsDir, "environment", func(_ string, n *yaml.Node) error {
		var d environment.Def
		if err := decode("environment", n, &d); err != nil {
			return err
		}
		for cat, eff := range d.Effects {
			for i := range eff.IntensityRanges {
				field := fmt.Sprintf("effects.%s.intensity_ranges[%d].chance", cat, i)
				chance, err := ld.scale.percent("environment", d.ID, field, eff.IntensityRanges[i].Chance)
				if err != nil {
					return err
				}
				eff.IntensityRanges[i].Chance = chance
			}
		}
		defs = append(defs, &d)
		return nil
	})
	envs, err := environment.NewResolver(ld.lib.chart, defs...)
	if err != nil {
		ld.fail(err)
		envs, _ = environment.NewResolver(ld.lib.chart)
	}
	ld.lib.envs = envs
}

func (ld *loader) loadItems() {
	ld.each(ItemsDir, "item", func(_ string, n *yaml.Node) error {
		var d inventory.ItemDef
		if err := decode("item", n, &d); err != nil {
			return err
		}
		return ld.lib.items.RegisterItem(&d)
	})
}

func (ld *loader) loadEnemies() {
	ld.each(EnemiesDir, "enemy", func(_ string, n *yaml.Node) error {
		foldMaxima(n)
		var t npc.Template
		if err := decode("enemy", n, &t); err != nil {
			return err
		}
		if t.Rewards != nil {
			for i := range t.Rewards.Loot {
				field := fmt.Sprintf("rewards.loot[%d].chance", i)
				chance, err := ld.scale.fraction("enemy", t.ID, field, t.Rewards.Loot[i].Chance)
				if err != nil {
					return err
				}
				t.Rewards.Loot[i].Chance = chance
			}
		}
		return ld.lib.roster.Register(&t)
	})
}

func (ld *loader) loadClasses() {
	ld.each(ClassesDir, "class", func(_ string, n *yaml.Node) error {
		var c character.Class
		if err := decode("class", n, &c); err != nil {
			return err
		}
		return ld.lib.classes.Register(&c)
	})
}

func (ld *loader) loadStories() {
	paths, err := yamlFiles(filepath.Join(ld.root, StoriesDir))
	if err != nil {
		ld.fail(err)
		return
	}
	for _, path := range paths {
		s, err := story.LoadFromFile(path)
		if err != nil {
			ld.fail(err)
			continue
		}
		if _, dup := ld.lib.stories[s.ID]; dup {
			ld.fail(fmt.Errorf("%s: %w", path, validate.Errorf("story", s.ID, "id", "duplicate story id")))
			continue
		}
		ld.lib.stories[s.ID] = s
	}
	ld.logger.Debug("content: loaded definitions", zap.String("kind", "story"), zap.Int("count", len(ld.lib.stories)))
}
