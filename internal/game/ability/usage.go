package ability

import "sort"

// Reason explains why an ability cannot be used.
type Reason string

const (
	ReasonUnknown        Reason = "unknown ability"
	ReasonNotKnown       Reason = "ability not known"
	ReasonMana           Reason = "insufficient mana"
	ReasonCooldown       Reason = "on cooldown"
	ReasonUsesExhausted  Reason = "no uses left this battle"
	ReasonCombo          Reason = "combo precondition not met"
	ReasonRequiresStatus Reason = "target lacks required status"
)

// Usage is the per-battle usage state of one ability for one combatant.
type Usage struct {
	Cooldown int `json:"cooldown"`
	Used     int `json:"used"`
	// Fresh marks a cooldown set during the current round; it is not counted
	// down until the next round's tick.
	Fresh bool `json:"fresh,omitempty"`
}

// Tracker tracks ability usage for one combatant across one battle.
// It is not safe for concurrent use.
type Tracker struct {
	usage map[string]*Usage
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{usage: make(map[string]*Usage)}
}

// Usage returns the usage state for id; the zero Usage when never used.
func (t *Tracker) Usage(id string) Usage {
	if u, ok := t.usage[id]; ok {
		return *u
	}
	return Usage{}
}

// UsesLeft returns the remaining uses of def this battle, or -1 when uncapped.
func (t *Tracker) UsesLeft(def *Def) int {
	if !def.Capped() {
		return -1
	}
	return max(0, def.UsesPerBattle-t.Usage(def.ID).Used)
}

// Check reports whether the cooldown and use limit of def allow a use now.
// Mana, combo and status preconditions are checked by the caller.
//
// Postcondition: returns ("", true) when usable.
func (t *Tracker) Check(def *Def) (Reason, bool) {
	u := t.Usage(def.ID)
	if u.Cooldown > 0 {
		return ReasonCooldown, false
	}
	if def.Capped() && t.UsesLeft(def) == 0 {
		return ReasonUsesExhausted, false
	}
	return "", true
}

// Consume records one use of def: the cooldown is set and marked fresh, and
// the use count is incremented.
//
// Postcondition: Usage(def.ID).Cooldown == def.Cooldown.
func (t *Tracker) Consume(def *Def) {
	u, ok := t.usage[def.ID]
	if !ok {
		u = &Usage{}
		t.usage[def.ID] = u
	}
	u.Cooldown = def.Cooldown
	u.Fresh = def.Cooldown > 0
	u.Used++
}

// Tick counts every cooldown down by one, except cooldowns set this round,
// which only lose their fresh mark.
//
// Postcondition: returns the ids whose cooldown reached zero on this tick, sorted.
func (t *Tracker) Tick() []string {
	var ready []string
	for _, id := range t.IDs() {
		u := t.usage[id]
		if u.Fresh {
			u.Fresh = false
			continue
		}
		if u.Cooldown > 0 {
			u.Cooldown--
			if u.Cooldown == 0 {
				ready = append(ready, id)
			}
		}
	}
	return ready
}

// IDs returns every tracked ability id in sorted order.
func (t *Tracker) IDs() []string {
	out := make([]string, 0, len(t.usage))
	for id := range t.usage {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Entries returns a copy of the usage state keyed by ability id.
func (t *Tracker) Entries() map[string]Usage {
	out := make(map[string]Usage, len(t.usage))
	for id, u := range t.usage {
		out[id] = *u
	}
	return out
}

// RestoreTracker rebuilds a Tracker from Entries output.
func RestoreTracker(entries map[string]Usage) *Tracker {
	t := NewTracker()
	for id, u := range entries {
		t.usage[id] = &u
	}
	return t
}
