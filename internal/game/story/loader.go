package story

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// yamlStoryFile is the top-level YAML structure for story files.
type yamlStoryFile struct {
	Story yamlStory `yaml:"story"`
}

// yamlStory is the YAML representation of a story.
type yamlStory struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Start       string      `yaml:"start"`
	Hero        yamlHero    `yaml:"hero"`
	Scenes      []yamlScene `yaml:"scenes"`
}

// yamlHero is the YAML representation of the starting hero.
type yamlHero struct {
	Name    string            `yaml:"name"`
	Class   string            `yaml:"class"`
	Loadout character.Loadout `yaml:"loadout"`
}

// yamlScene is the YAML representation of a scene.
type yamlScene struct {
	ID        string         `yaml:"id"`
	Title     string         `yaml:"title"`
	Text      string         `yaml:"text"`
	Choices   []yamlChoice   `yaml:"choices"`
	Encounter *yamlEncounter `yaml:"encounter"`
	Ending    string         `yaml:"ending"`
	Rest      bool           `yaml:"rest"`
	Shop      []string       `yaml:"shop"`
}

// yamlChoice is the YAML representation of a choice.
type yamlChoice struct {
	Label        string `yaml:"label"`
	Next         string `yaml:"next"`
	RequiresItem string `yaml:"requires_item"`
	GivesItem    string `yaml:"gives_item"`
	Gold         int    `yaml:"gold"`
}

// yamlEncounter is the YAML representation of an encounter.
type yamlEncounter struct {
	Enemies     []string `yaml:"enemies"`
	Environment string   `yaml:"environment"`
	Intensity   int      `yaml:"intensity"`
	OnVictory   string   `yaml:"on_victory"`
	OnDefeat    string   `yaml:"on_defeat"`
	OnFlee      string   `yaml:"on_flee"`
}

// LoadFromFile reads and validates a single story YAML file.
//
// Precondition: path must point to a story YAML file.
// Postcondition: Returns a validated Story or a non-nil error.
func LoadFromFile(path string) (*Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading story file %s: %w", path, err)
	}
	s, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadFromBytes parses and validates a story from YAML bytes. Unknown keys
// are rejected.
//
// Postcondition: Returns a validated Story or a non-nil error; schema
// violations are *validate.ConfigError values.
func LoadFromBytes(data []byte) (*Story, error) {
	var file yamlStoryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, validate.Errorf("story", "", "", "parsing YAML: %v", err)
	}

	s, err := convertYAMLStory(file.Story)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadDir loads every .yaml and .yml file in dir as a story, sorted by id.
//
// Postcondition: Returns all validated stories or every error encountered, joined.
func LoadDir(dir string) ([]*Story, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading story directory %s: %w", dir, err)
	}

	var stories []*Story
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		s, err := LoadFromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stories = append(stories, s)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	sort.Slice(stories, func(i, j int) bool { return stories[i].ID < stories[j].ID })
	return stories, nil
}

func convertYAMLStory(ys yamlStory) (*Story, error) {
	s := &Story{
		ID:          ys.ID,
		Title:       ys.Title,
		Description: ys.Description,
		Start:       ys.Start,
		Hero: Hero{
			Name:    ys.Hero.Name,
			Class:   ys.Hero.Class,
			Loadout: ys.Hero.Loadout,
		},
		Scenes: make(map[string]*Scene, len(ys.Scenes)),
	}
	if s.Start == "" && len(ys.Scenes) > 0 {
		s.Start = ys.Scenes[0].ID
	}

	c := validate.NewCollector("story", ys.ID)
	for i, sc := range ys.Scenes {
		if sc.ID == "" {
			c.Addf(fmt.Sprintf("scenes[%d].id", i), "must not be empty")
			continue
		}
		if _, dup := s.Scenes[sc.ID]; dup {
			c.Addf(fmt.Sprintf("scenes[%d].id", i), "duplicate scene id %q", sc.ID)
			continue
		}
		s.Scenes[sc.ID] = convertYAMLScene(sc)
		s.Order = append(s.Order, sc.ID)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func convertYAMLScene(ys yamlScene) *Scene {
	sc := &Scene{
		ID:     ys.ID,
		Title:  ys.Title,
		Text:   strings.TrimSpace(ys.Text),
		Ending: ys.Ending,
		Rest:   ys.Rest,
		Shop:   ys.Shop,
	}
	for _, ch := range ys.Choices {
		sc.Choices = append(sc.Choices, Choice(ch))
	}
	if e := ys.Encounter; e != nil {
		sc.Encounter = &Encounter{
			Enemies:     e.Enemies,
			Environment: e.Environment,
			Intensity:   e.Intensity,
			OnVictory:   e.OnVictory,
			OnDefeat:    e.OnDefeat,
			OnFlee:      e.OnFlee,
		}
		if sc.Encounter.Environment != "" && sc.Encounter.Intensity == 0 {
			sc.Encounter.Intensity = 1
		}
	}
	return sc
}
