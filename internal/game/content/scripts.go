package content

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/scripting"
)

// TacticZones returns the distinct tactic script zones named by enemies, sorted.
func (l *Library) TacticZones() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range l.roster.All() {
		if t.Tactic != "" && !seen[t.Tactic] {
			seen[t.Tactic] = true
			out = append(out, t.Tactic)
		}
	}
	sort.Strings(out)
	return out
}

// ScriptDir returns the script directory of zone.
func (l *Library) ScriptDir(zone string) string {
	return filepath.Join(l.root, ScriptsDir, zone)
}

// LoadScripts loads every tactic zone's Lua scripts into mgr.
//
// Precondition: mgr must not be nil.
// Postcondition: returns the first Lua load failure, naming the zone.
func (l *Library) LoadScripts(mgr *scripting.Manager, instLimit int) error {
	for _, zone := range l.TacticZones() {
		if err := mgr.LoadZone(zone, l.ScriptDir(zone), instLimit); err != nil {
			return fmt.Errorf("content: tactic %q: %w", zone, err)
		}
	}
	return nil
}
