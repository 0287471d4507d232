package command

import (
	"fmt"
	"strings"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
)

// HandleStatus renders the character sheet of c. class may be nil.
//
// Precondition: c must not be nil.
func HandleStatus(c *character.Character, class *character.Class) string {
	var sb strings.Builder
	className := c.ClassID
	if class != nil {
		className = class.Name
	}
	fmt.Fprintf(&sb, "%s, level %d %s\n", c.Name, c.Level, className)
	fmt.Fprintf(&sb, "  Life: %d/%d  Mana: %d/%d\n", c.Life, c.MaxLife, c.Mana, c.MaxMana)
	fmt.Fprintf(&sb, "  Experience: %d/%d\n", c.Experience, character.ExpToNext(c.Level))
	if c.ElementalType != "" {
		fmt.Fprintf(&sb, "  Type: %s\n", c.ElementalType)
	}
	sb.WriteString("  ")
	for i, s := range stats.AttributeStats {
		if i > 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "%s %d", strings.ToUpper(string(s)[:3]), c.Attributes.Get(s))
	}
	return sb.String()
}
