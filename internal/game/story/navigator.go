package story

import (
	"errors"
	"fmt"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
)

var (
	// ErrStoryEnded is returned when the navigator is already on an ending scene.
	ErrStoryEnded = errors.New("story: the story has ended")
	// ErrNoSuchChoice is returned for a choice index outside the offered choices.
	ErrNoSuchChoice = errors.New("story: no such choice")
	// ErrRequirementNotMet is returned when a choice needs an item the party lacks.
	ErrRequirementNotMet = errors.New("story: requirement not met")
	// ErrEncounterPending is returned by Choose while the scene's battle is unresolved.
	ErrEncounterPending = errors.New("story: encounter must be resolved first")
	// ErrNoEncounter is returned by ResolveEncounter on a scene without a battle.
	ErrNoEncounter = errors.New("story: scene has no encounter")
	// ErrUnresolvedOutcome is returned for outcomes that do not end an encounter.
	ErrUnresolvedOutcome = errors.New("story: outcome does not resolve the encounter")
)

// Party is what choice requirements are checked against.
// *character.Character satisfies it.
type Party interface {
	Has(itemID string) bool
	Gold() int
}

// Option is a choice as offered to the player.
type Option struct {
	// Index is the value to pass to Choose.
	Index     int
	Choice    Choice
	Available bool
	// Reason describes the unmet requirement of an unavailable option.
	Reason string
}

// Navigator walks a Story from its start scene.
type Navigator struct {
	story   *Story
	current *Scene
	visited []string
}

// NewNavigator creates a Navigator positioned on s.Start.
//
// Precondition: s must have passed Validate.
func NewNavigator(s *Story) *Navigator {
	n := &Navigator{story: s}
	n.enter(s.Start)
	return n
}

// RestoreNavigator creates a Navigator positioned on scene id with the given
// visit history.
//
// Postcondition: returns an error when id is not a scene of s.
func RestoreNavigator(s *Story, id string, visited []string) (*Navigator, error) {
	sc, ok := s.Scene(id)
	if !ok {
		return nil, fmt.Errorf("story %q: unknown scene %q", s.ID, id)
	}
	return &Navigator{story: s, current: sc, visited: append([]string(nil), visited...)}, nil
}

func (n *Navigator) enter(id string) {
	n.current = n.story.Scenes[id]
	n.visited = append(n.visited, id)
}

// Story returns the story being walked.
func (n *Navigator) Story() *Story { return n.story }

// Current returns the current scene.
func (n *Navigator) Current() *Scene { return n.current }

// Visited returns the ids of every scene entered, in order, including repeats.
func (n *Navigator) Visited() []string { return append([]string(nil), n.visited...) }

// Ended reports whether the current scene is an ending.
func (n *Navigator) Ended() bool { return n.current.IsEnding() }

// Options lists the current scene's choices, marking those p cannot take
// as unavailable.
func (n *Navigator) Options(p Party) []Option {
	out := make([]Option, 0, len(n.current.Choices))
	for i, ch := range n.current.Choices {
		why := unmet(ch, p)
		out = append(out, Option{Index: i, Choice: ch, Available: why == "", Reason: why})
	}
	return out
}

// unmet describes the requirement of ch that p does not meet, or returns "".
// A nil p holds nothing and has no gold.
func unmet(ch Choice, p Party) string {
	if ch.RequiresItem != "" && (p == nil || !p.Has(ch.RequiresItem)) {
		return fmt.Sprintf("needs %q", ch.RequiresItem)
	}
	if ch.Gold < 0 {
		have := 0
		if p != nil {
			have = p.Gold()
		}
		if have < -ch.Gold {
			return fmt.Sprintf("needs %d gold, have %d", -ch.Gold, have)
		}
	}
	return ""
}

// Choose takes choice i of the current scene and moves to its target.
// Applying GivesItem and Gold is left to the caller.
//
// Postcondition: on error the navigator does not move.
func (n *Navigator) Choose(i int, p Party) (Choice, error) {
	switch {
	case n.Ended():
		return Choice{}, ErrStoryEnded
	case n.current.Encounter != nil:
		return Choice{}, ErrEncounterPending
	case i < 0 || i >= len(n.current.Choices):
		return Choice{}, fmt.Errorf("%w: %d", ErrNoSuchChoice, i)
	}
	ch := n.current.Choices[i]
	if why := unmet(ch, p); why != "" {
		return Choice{}, fmt.Errorf("%w: %s", ErrRequirementNotMet, why)
	}
	n.enter(ch.Next)
	return ch, nil
}

// ResolveEncounter moves past the current scene's encounter according to the
// battle outcome. Fled follows OnFlee, or OnDefeat when the scene has none.
//
// Postcondition: Ongoing and Aborted return ErrUnresolvedOutcome and the
// navigator does not move.
func (n *Navigator) ResolveEncounter(o combat.Outcome) (*Scene, error) {
	e := n.current.Encounter
	if e == nil {
		return nil, ErrNoEncounter
	}
	next, ok := e.Next(o.String())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedOutcome, o)
	}
	n.enter(next)
	return n.current, nil
}
