// Package story provides the branching story graph: scenes, choices,
// encounters and endings, and a navigator that walks it.
package story

import (
	"fmt"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Choice is one option offered by a scene.
type Choice struct {
	Label string
	// Next is the id of the scene the choice leads to.
	Next string
	// RequiresItem, when set, hides the choice unless the party holds the item.
	RequiresItem string
	// GivesItem is added to the backpack when the choice is taken.
	GivesItem string
	// Gold is earned when positive and spent when negative.
	Gold int
}

// Encounter is a battle fought on entering a scene.
type Encounter struct {
	// Enemies lists enemy template ids; repeats spawn several of the same enemy.
	Enemies     []string
	Environment string
	Intensity   int
	OnVictory   string
	OnDefeat    string
	// OnFlee defaults to OnDefeat when empty.
	OnFlee string
}

// Next returns the scene id for a battle outcome label: "victory", "defeat" or "fled".
func (e *Encounter) Next(outcome string) (string, bool) {
	switch outcome {
	case "victory":
		return e.OnVictory, true
	case "defeat":
		return e.OnDefeat, true
	case "fled":
		if e.OnFlee != "" {
			return e.OnFlee, true
		}
		return e.OnDefeat, true
	default:
		return "", false
	}
}

// Scene is one node of the story graph. A scene offers choices, starts an
// encounter, or ends the story.
type Scene struct {
	ID        string
	Title     string
	Text      string
	Choices   []Choice
	Encounter *Encounter
	// Ending is a non-empty label ("victory", "death", ...) on final scenes.
	Ending string
	// Rest restores the party's life and mana on entry.
	Rest bool
	// Shop lists the item ids a merchant in the scene trades.
	Shop []string
}

// IsEnding reports whether the scene ends the story.
func (s *Scene) IsEnding() bool { return s.Ending != "" }

// Hero describes the player character a story starts with.
type Hero struct {
	Name    string
	Class   string
	Loadout character.Loadout
}

// Story is a complete branching story.
type Story struct {
	ID          string
	Title       string
	Description string
	Start       string
	Hero        Hero
	Scenes      map[string]*Scene
	// Order lists scene ids in file order.
	Order []string
}

// Scene returns the scene with id.
func (s *Story) Scene(id string) (*Scene, bool) {
	sc, ok := s.Scenes[id]
	return sc, ok
}

// Validate checks the graph's internal references.
//
// Postcondition: returns nil if valid, or every violation as a *validate.ConfigError.
func (s *Story) Validate() error {
	c := validate.NewCollector("story", s.ID)
	c.Required("id", s.ID)
	c.Required("title", s.Title)
	c.Required("hero.name", s.Hero.Name)
	c.Required("hero.class", s.Hero.Class)
	if len(s.Scenes) == 0 {
		c.Addf("scenes", "must contain at least one scene")
	}
	if _, ok := s.Scenes[s.Start]; !ok {
		c.Addf("start", "scene %q not found", s.Start)
	}
	ref := func(field, id string) {
		if id == "" {
			c.Addf(field, "must not be empty")
			return
		}
		if _, ok := s.Scenes[id]; !ok {
			c.Addf(field, "unknown scene %q", id)
		}
	}
	for _, id := range s.Order {
		sc := s.Scenes[id]
		field := "scenes." + id
		if sc.Title == "" {
			c.Addf(field+".title", "must not be empty")
		}
		kinds := 0
		if len(sc.Choices) > 0 {
			kinds++
		}
		if sc.Encounter != nil {
			kinds++
		}
		if sc.IsEnding() {
			kinds++
		}
		if kinds != 1 {
			c.Addf(field, "must have exactly one of choices, encounter or ending")
		}
		if len(sc.Shop) > 0 && len(sc.Choices) == 0 {
			c.Addf(field+".shop", "requires choices to leave the scene")
		}
		for i, ch := range sc.Choices {
			cf := fmt.Sprintf("%s.choices[%d]", field, i)
			if ch.Label == "" {
				c.Addf(cf+".label", "must not be empty")
			}
			ref(cf+".next", ch.Next)
		}
		if e := sc.Encounter; e != nil {
			if len(e.Enemies) == 0 {
				c.Addf(field+".encounter.enemies", "must list at least one enemy")
			}
			if e.Environment != "" && (e.Intensity < 1 || e.Intensity > 10) {
				c.Addf(field+".encounter.intensity", "must be in [1, 10], got %d", e.Intensity)
			}
			ref(field+".encounter.on_victory", e.OnVictory)
			ref(field+".encounter.on_defeat", e.OnDefeat)
			if e.OnFlee != "" {
				ref(field+".encounter.on_flee", e.OnFlee)
			}
		}
	}
	return c.Err()
}

// Reachable returns the ids of every scene reachable from Start, in
// breadth-first order.
func (s *Story) Reachable() []string {
	seen := map[string]bool{s.Start: true}
	queue := []string{s.Start}
	for i := 0; i < len(queue); i++ {
		sc, ok := s.Scenes[queue[i]]
		if !ok {
			continue
		}
		var next []string
		for _, ch := range sc.Choices {
			next = append(next, ch.Next)
		}
		if e := sc.Encounter; e != nil {
			next = append(next, e.OnVictory, e.OnDefeat, e.OnFlee)
		}
		for _, id := range next {
			if id != "" && !seen[id] {
				seen[id] = true
				queue = append(queue, id)
			}
		}
	}
	return queue
}
