package status

import (
	"fmt"
	"math"
	"sort"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/element"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
)

// Holder is the combatant a Set belongs to.
type Holder interface {
	// TypeID returns the holder's elemental type, or "" when untyped.
	TypeID() string
	// LifeMax returns the holder's maximum life.
	LifeMax() int
	// TakeDamage reduces life by n, floored at zero, and returns the damage actually taken.
	TakeDamage(n int) int
	// Modifiers returns the holder's modifier stack.
	Modifiers() *stats.Stack
	// Score returns the holder's effective score for an attribute.
	Score(s stats.Stat) int
}

// Outcome is the result of an Apply call.
type Outcome int

const (
	Applied Outcome = iota
	Stacked
	Refreshed
	Rejected
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Stacked:
		return "stacked"
	case Refreshed:
		return "refreshed"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Took reports whether the application changed the holder.
func (o Outcome) Took() bool { return o != Rejected }

// Active tracks one applied status on a holder.
type Active struct {
	Def *Def
	// Turns is the number of ticks left; Permanent never decrements.
	Turns  int
	Stacks int
	// Source is the id of the combatant that applied the status.
	Source      string
	Interaction element.Interaction
}

// Application describes one attempt to apply a status.
type Application struct {
	Def *Def
	// Turns overrides Def.Turns when > 0.
	Turns int
	// Source is the applier's combatant id; empty for environmental statuses.
	Source string
}

// Result reports what Apply did.
type Result struct {
	Outcome     Outcome
	Tag         string
	Turns       int
	Stacks      int
	Interaction element.Interaction
}

// TickEvent reports what happened to one status during Tick.
type TickEvent struct {
	Tag    string
	Damage int
	// Roll is the struggle total when the status has a struggle check.
	Roll      int
	BrokeFree bool
	Expired   bool
}

// Removed reports whether the status left the holder during this tick.
func (e TickEvent) Removed() bool { return e.BrokeFree || e.Expired }

// Set tracks every status currently applied to one holder.
// All iteration is in sorted tag order.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	active map[string]*Active
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{active: make(map[string]*Active)}
}

func modSource(tag string) stats.Source {
	return stats.Source{Kind: stats.SourceStatus, ID: tag}
}

// ResolveInteraction resolves how a holder of typeID reacts to def, combining the
// status definition's type lists with the type chart.
// Immune beats Resistant, Resistant beats Vulnerable.
func ResolveInteraction(def *Def, typeID string, chart *element.Chart) element.Interaction {
	if typeID == "" {
		return element.Normal
	}
	fromChart := chart.StatusInteraction(typeID, def.Tag)
	switch {
	case contains(def.ImmuneTypes, typeID) || fromChart == element.Immune:
		return element.Immune
	case contains(def.ResistantTypes, typeID) || fromChart == element.Resistant:
		return element.Resistant
	case contains(def.VulnerableTypes, typeID) || fromChart == element.Vulnerable:
		return element.Vulnerable
	default:
		return element.Normal
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// scaleTurns applies the interaction multiplier to a finite duration.
// Postcondition: returns Permanent for permanent statuses, otherwise >= 1.
func scaleTurns(def *Def, turns int, in element.Interaction) int {
	if def.IsPermanent() {
		return Permanent
	}
	if turns <= 0 {
		turns = def.Turns
	}
	scaled := int(math.Floor(float64(turns)*in.Multiplier() + 1e-9))
	return max(1, scaled)
}

// Apply attempts to apply a status to h.
// Immune holders reject it. A new status pushes its modifiers onto h's stack.
// A stackable status already active gains a stack up to its cap; non-stackable
// refreshable statuses reset their turns; anything else is rejected.
//
// Precondition: app.Def must not be nil.
// Postcondition: when the outcome is not Rejected, Has(app.Def.Tag) is true and
// h's stack holds exactly Stacks copies of the status modifiers.
func (s *Set) Apply(h Holder, app Application, chart *element.Chart) Result {
	def := app.Def
	in := ResolveInteraction(def, h.TypeID(), chart)
	res := Result{Tag: def.Tag, Interaction: in}
	if in == element.Immune {
		res.Outcome = Rejected
		return res
	}
	turns := scaleTurns(def, app.Turns, in)

	existing, ok := s.active[def.Tag]
	if !ok {
		a := &Active{Def: def, Turns: turns, Stacks: 1, Source: app.Source, Interaction: in}
		s.active[def.Tag] = a
		pushModifiers(h, a)
		res.Outcome, res.Turns, res.Stacks = Applied, a.Turns, a.Stacks
		return res
	}

	switch {
	case def.Stackable && existing.Stacks < def.StackCap():
		existing.Stacks++
		if def.Refreshable {
			existing.Turns = turns
		}
		h.Modifiers().RemoveBySource(modSource(def.Tag))
		pushModifiers(h, existing)
		res.Outcome = Stacked
	case def.Refreshable:
		existing.Turns = turns
		res.Outcome = Refreshed
	default:
		res.Outcome = Rejected
	}
	if res.Outcome != Rejected && app.Source != "" {
		existing.Source = app.Source
	}
	res.Turns, res.Stacks = existing.Turns, existing.Stacks
	return res
}

func pushModifiers(h Holder, a *Active) {
	for _, m := range a.Def.Modifiers {
		h.Modifiers().Push(stats.Modifier{
			Stat:   m.Stat,
			Delta:  m.Delta * a.Stacks,
			Source: modSource(a.Def.Tag),
			Turns:  stats.Forever,
		})
	}
}

// Remove deletes the status tag from the set and pops its modifiers from h.
// If the status is not present, Remove is a no-op.
//
// Postcondition: Has(tag) is false; h's stack holds no modifier from tag.
func (s *Set) Remove(h Holder, tag string) bool {
	if _, ok := s.active[tag]; !ok {
		return false
	}
	delete(s.active, tag)
	h.Modifiers().RemoveBySource(modSource(tag))
	return true
}

// TickDamage returns the damage a status deals to h on one tick.
// Postcondition: returns 0 for non-DoT statuses, otherwise >= 1.
func TickDamage(a *Active, h Holder) int {
	if a.Def.Category != DoT {
		return 0
	}
	base := float64(a.Def.Damage)
	if a.Def.DamagePercent > 0 {
		base = math.Floor(a.Def.DamagePercent*float64(h.LifeMax()) + 1e-9)
	}
	if base <= 0 {
		base = 1
	}
	dmg := int(math.Floor(base*float64(a.Stacks)*a.Interaction.Multiplier() + 1e-9))
	return max(1, dmg)
}

// Tick advances every status once, in sorted tag order: DoT damage, then the
// struggle check, then the duration countdown. Statuses that break or run out
// are removed and their modifiers popped.
//
// Precondition: src must not be nil.
// Postcondition: for every event with Removed() true, Has(event.Tag) is false.
func (s *Set) Tick(h Holder, src dice.Source) []TickEvent {
	var events []TickEvent
	for _, tag := range s.Tags() {
		a := s.active[tag]
		ev := TickEvent{Tag: tag}
		if a.Def.Category == DoT {
			ev.Damage = h.TakeDamage(TickDamage(a, h))
		}
		if st := a.Def.EndsOn.Struggle; st != nil {
			ev.Roll = src.Intn(20) + 1 + stats.AbilityMod(h.Score(st.Stat))
			if ev.Roll >= st.DC {
				ev.BrokeFree = true
			}
		}
		if !ev.BrokeFree && !a.Def.IsPermanent() {
			a.Turns--
			ev.Expired = a.Turns <= 0
		}
		if ev.Removed() {
			s.Remove(h, tag)
		}
		events = append(events, ev)
	}
	return events
}

// Has reports whether the status tag is currently active.
func (s *Set) Has(tag string) bool {
	_, ok := s.active[tag]
	return ok
}

// Get returns the active status tag, or (nil, false) if not present.
// The returned value is shared; callers must not modify it.
func (s *Set) Get(tag string) (*Active, bool) {
	a, ok := s.active[tag]
	return a, ok
}

// Stacks returns the current stack count for tag, or 0 if not present.
func (s *Set) Stacks(tag string) int {
	if a, ok := s.active[tag]; ok {
		return a.Stacks
	}
	return 0
}

// Len returns the number of active statuses.
func (s *Set) Len() int { return len(s.active) }

// Tags returns the active status tags in sorted order.
func (s *Set) Tags() []string {
	out := make([]string, 0, len(s.active))
	for tag := range s.active {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Clear removes every status from h.
//
// Postcondition: Len() == 0.
func (s *Set) Clear(h Holder) {
	for _, tag := range s.Tags() {
		s.Remove(h, tag)
	}
}

// first returns the first tag, in sorted order, whose definition satisfies pred.
func (s *Set) first(pred func(*Def) bool) (string, bool) {
	for _, tag := range s.Tags() {
		if pred(s.active[tag].Def) {
			return tag, true
		}
	}
	return "", false
}

func (s *Set) matching(pred func(*Active) bool) []string {
	var out []string
	for _, tag := range s.Tags() {
		if pred(s.active[tag]) {
			out = append(out, tag)
		}
	}
	return out
}

// PreventsAction returns the first status that skips the holder's turn.
func (s *Set) PreventsAction() (string, bool) {
	return s.first(func(d *Def) bool { return d.PreventsAction })
}

// Evades returns the first status that makes the holder evade abilities of range rng.
func (s *Set) Evades(rng string) (string, bool) {
	return s.first(func(d *Def) bool { return contains(d.EvadesRanges, rng) })
}

// EndedByUse returns the statuses stripped when the holder uses an ability of range rng.
func (s *Set) EndedByUse(rng string) []string {
	return s.matching(func(a *Active) bool { return contains(a.Def.EndsOn.UsesRange, rng) })
}

// EndedByHit returns the statuses stripped when the holder is hit at range rng.
func (s *Set) EndedByHit(rng string) []string {
	return s.matching(func(a *Active) bool { return contains(a.Def.EndsOn.HitByRange, rng) })
}

// HeldBy returns the statuses applied by sourceID that end when that source
// acts with a move lacking the effect.
func (s *Set) HeldBy(sourceID string) []string {
	return s.matching(func(a *Active) bool {
		return a.Def.EndsOn.SourceMoveLacksEffect && a.Source == sourceID
	})
}

// Entry is the serializable form of one active status.
type Entry struct {
	Tag         string              `json:"tag"`
	Turns       int                 `json:"turns"`
	Stacks      int                 `json:"stacks"`
	Source      string              `json:"source,omitempty"`
	Interaction element.Interaction `json:"interaction"`
}

// Entries returns the serializable state of the set in sorted tag order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, len(s.active))
	for _, tag := range s.Tags() {
		a := s.active[tag]
		out = append(out, Entry{Tag: tag, Turns: a.Turns, Stacks: a.Stacks, Source: a.Source, Interaction: a.Interaction})
	}
	return out
}

// RestoreSet rebuilds a Set from entries. Modifiers are not pushed; the
// holder's modifier stack is restored separately.
//
// Postcondition: returns an error naming the first tag lookup cannot resolve.
func RestoreSet(entries []Entry, lookup func(tag string) (*Def, bool)) (*Set, error) {
	s := NewSet()
	for _, e := range entries {
		def, ok := lookup(e.Tag)
		if !ok {
			return nil, fmt.Errorf("restoring status %q: unknown status", e.Tag)
		}
		s.active[e.Tag] = &Active{Def: def, Turns: e.Turns, Stacks: e.Stacks, Source: e.Source, Interaction: e.Interaction}
	}
	return s, nil
}
