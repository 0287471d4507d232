package character

import "github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"

// Per-level growth.
const (
	LifePerLevel      = 5
	ManaPerLevel      = 3
	AttributePerLevel = 1
)

// ExpToNext returns the experience needed to advance from level to level+1.
func ExpToNext(level int) int { return level * 100 }

// LevelUp records one level gained.
type LevelUp struct {
	Level   int
	Learned []string
}

// GainExp adds amount experience and applies every level up it triggers.
// Threshold experience is spent on each level, so Experience always holds the
// progress toward the next one.
//
// Precondition: class may be nil, in which case no attribute growth beyond
// constitution and no abilities are learned.
// Postcondition: 0 <= Experience < ExpToNext(Level).
func (c *Character) GainExp(amount int, class *Class) []LevelUp {
	if amount <= 0 {
		return nil
	}
	c.Experience += amount
	var ups []LevelUp
	for c.Experience >= ExpToNext(c.Level) {
		c.Experience -= ExpToNext(c.Level)
		ups = append(ups, c.levelUp(class))
	}
	return ups
}

func (c *Character) levelUp(class *Class) LevelUp {
	c.Level++
	c.MaxLife += LifePerLevel
	c.Life += LifePerLevel
	c.MaxMana += ManaPerLevel
	c.Mana += ManaPerLevel

	growth := stats.Constitution
	if class != nil {
		growth = class.GrowthStat()
	}
	c.Attributes = c.Attributes.With(growth, c.Attributes.Get(growth)+AttributePerLevel)

	up := LevelUp{Level: c.Level}
	if class != nil {
		for _, id := range class.LearnedAt(c.Level) {
			if c.Learn(id) {
				up.Learned = append(up.Learned, id)
			}
		}
	}
	return up
}
