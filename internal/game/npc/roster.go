package npc

import (
	"fmt"
	"sort"
	"sync"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Roster holds enemy templates by id and rolls their rewards.
// All methods are safe for concurrent use.
type Roster struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{templates: make(map[string]*Template)}
}

// Register validates tmpl and adds it to the roster.
//
// Precondition: tmpl must not be nil.
// Postcondition: returns a *validate.ConfigError when tmpl is invalid or its id
// is already registered.
func (r *Roster) Register(tmpl *Template) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.templates[tmpl.ID]; dup {
		return validate.Errorf("enemy", tmpl.ID, "id", "duplicate enemy id")
	}
	r.templates[tmpl.ID] = tmpl
	return nil
}

// Get returns the template with id.
//
// Postcondition: returns (tmpl, true) if found, or (nil, false) otherwise.
func (r *Roster) Get(id string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	return t, ok
}

// All returns every template sorted by id.
func (r *Roster) All() []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SpawnGroup spawns one combatant per template id. Combatants of a template
// that appears more than once get numbered ids: "wolf-1", "wolf-2"; a
// template that appears once keeps its bare id.
//
// Postcondition: returns an error naming the first unknown template; combatant
// ids are unique.
func (r *Roster) SpawnGroup(templateIDs []string) ([]*combat.Combatant, error) {
	counts := make(map[string]int, len(templateIDs))
	for _, id := range templateIDs {
		counts[id]++
	}
	seen := make(map[string]int, len(counts))
	out := make([]*combat.Combatant, 0, len(templateIDs))
	for _, id := range templateIDs {
		tmpl, ok := r.Get(id)
		if !ok {
			return nil, fmt.Errorf("npc.Roster.SpawnGroup: unknown enemy %q", id)
		}
		seen[id]++
		instanceID := id
		if counts[id] > 1 {
			instanceID = fmt.Sprintf("%s-%d", id, seen[id])
		}
		c := tmpl.Spawn(instanceID)
		if counts[id] > 1 {
			c.Name = fmt.Sprintf("%s %d", tmpl.Name, seen[id])
		}
		out = append(out, c)
	}
	return out, nil
}

// Spoils implements combat.RewardSource by rolling the rewards of the
// enemy's template. Enemies without a template or rewards yield nothing.
func (r *Roster) Spoils(enemy *combat.Combatant, src dice.Source) (combat.Spoils, error) {
	tmpl, ok := r.Get(enemy.TemplateID)
	if !ok || tmpl.Rewards == nil {
		return combat.Spoils{}, nil
	}
	sp, err := tmpl.Rewards.Roll(src)
	if err != nil {
		return combat.Spoils{}, fmt.Errorf("enemy %q: %w", tmpl.ID, err)
	}
	return sp, nil
}
