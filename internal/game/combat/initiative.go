package combat

import "sort"

// InitiativeOrder returns the active combatants ordered by effective speed,
// highest first. Ties keep the order of the input slice.
//
// Precondition: combatants must not contain nil entries.
// Postcondition: the input slice is not reordered; defeated and fled combatants are omitted.
func InitiativeOrder(combatants []*Combatant) []*Combatant {
	order := make([]*Combatant, 0, len(combatants))
	for _, c := range combatants {
		if c.Active() {
			order = append(order, c)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Speed() > order[j].Speed()
	})
	return order
}
