package stats

// SourceKind classifies where a Modifier came from.
type SourceKind string

const (
	SourceStatus    SourceKind = "status"
	SourceEquipment SourceKind = "equipment"
	SourceBoost     SourceKind = "boost"
	SourceDefend    SourceKind = "defend"
	SourceLevel     SourceKind = "level"
)

// Source identifies the provenance of a Modifier, e.g. {status, "webbed"}.
type Source struct {
	Kind SourceKind `json:"kind"`
	ID   string     `json:"id"`
}

// Forever is the Turns value of a Modifier that lasts until removed by source.
const Forever = -1

// Modifier is one additive delta on a single stat.
type Modifier struct {
	Stat   Stat   `json:"stat"`
	Delta  int    `json:"delta"`
	Source Source `json:"source"`
	// Turns is the number of StatusTick phases the modifier survives; Forever never expires.
	Turns int `json:"turns"`
}

// Stack is an ordered list of active modifiers for one combatant.
// Removing a modifier restores exactly the value the stat had without it,
// regardless of what else was pushed in between.
// It is not safe for concurrent use.
type Stack struct {
	mods []Modifier
}

// NewStack creates a Stack holding mods in order.
func NewStack(mods ...Modifier) *Stack {
	s := &Stack{}
	for _, m := range mods {
		s.Push(m)
	}
	return s
}

// Push appends m. A zero Delta is ignored.
//
// Precondition: m.Stat.Valid(); m.Turns > 0 or m.Turns == Forever.
func (s *Stack) Push(m Modifier) {
	if m.Delta == 0 {
		return
	}
	s.mods = append(s.mods, m)
}

// RemoveBySource removes every modifier pushed by src and returns how many were removed.
//
// Postcondition: HasSource(src) is false.
func (s *Stack) RemoveBySource(src Source) int {
	kept := s.mods[:0]
	removed := 0
	for _, m := range s.mods {
		if m.Source == src {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.mods = kept
	return removed
}

// HasSource reports whether any modifier from src is active.
func (s *Stack) HasSource(src Source) bool {
	for _, m := range s.mods {
		if m.Source == src {
			return true
		}
	}
	return false
}

// Total returns the summed delta of every modifier on stat.
func (s *Stack) Total(stat Stat) int {
	total := 0
	for _, m := range s.mods {
		if m.Stat == stat {
			total += m.Delta
		}
	}
	return total
}

// Tick decrements every finite modifier and removes those that reach zero.
// Forever modifiers are untouched.
//
// Postcondition: returns the expired modifiers in push order.
func (s *Stack) Tick() []Modifier {
	var expired []Modifier
	kept := s.mods[:0]
	for _, m := range s.mods {
		if m.Turns == Forever {
			kept = append(kept, m)
			continue
		}
		m.Turns--
		if m.Turns <= 0 {
			expired = append(expired, m)
			continue
		}
		kept = append(kept, m)
	}
	s.mods = kept
	return expired
}

// All returns a copy of the active modifiers in push order.
func (s *Stack) All() []Modifier {
	out := make([]Modifier, len(s.mods))
	copy(out, s.mods)
	return out
}

// Len returns the number of active modifiers.
func (s *Stack) Len() int { return len(s.mods) }

// Attributes applies every attribute modifier to base.
//
// Postcondition: every score in the result is >= MinAttribute.
func (s *Stack) Attributes(base Attributes) Attributes {
	out := base
	for _, st := range AttributeStats {
		out = out.With(st, base.Get(st)+s.Total(st))
	}
	return out.Clamped()
}

// Secondary derives secondary stats from the modified attributes, then applies
// secondary-stat modifiers.
//
// Postcondition: every field of the result other than Accuracy is >= 0.
func (s *Stack) Secondary(base Attributes, weight int, bonus Secondary) Secondary {
	flat := bonus.Add(Secondary{
		PhysicalDamage:  s.Total(PhysicalDamage),
		MagicDamage:     s.Total(MagicDamage),
		PhysicalDefense: s.Total(PhysicalDefense),
		MagicDefense:    s.Total(MagicDefense),
		Speed:           s.Total(Speed),
		Accuracy:        s.Total(Accuracy),
	})
	return Derive(s.Attributes(base), weight, flat)
}

// Delta is a content-authored stat change with no duration of its own.
type Delta struct {
	Stat  Stat `yaml:"stat" json:"stat"`
	Delta int  `yaml:"delta" json:"delta"`
}

// Boost is a content-authored temporary stat change.
type Boost struct {
	Stat  Stat `yaml:"stat" json:"stat"`
	Delta int  `yaml:"delta" json:"delta"`
	Turns int  `yaml:"turns" json:"turns"`
}

// Modifier converts b into a Modifier attributed to src.
func (b Boost) Modifier(src Source) Modifier {
	return Modifier{Stat: b.Stat, Delta: b.Delta, Source: src, Turns: b.Turns}
}
