package combat

// ActionKind identifies what a combatant intends to do on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota // zero value; intentionally invalid
	ActionAbility
	ActionItem
	ActionFlee
	ActionDefend
	ActionPass
)

// String returns the human-readable name of the ActionKind.
// Postcondition: returns "ability", "item", "flee", "defend", "pass", or "unknown".
func (k ActionKind) String() string {
	switch k {
	case ActionAbility:
		return "ability"
	case ActionItem:
		return "item"
	case ActionFlee:
		return "flee"
	case ActionDefend:
		return "defend"
	case ActionPass:
		return "pass"
	default:
		return "unknown"
	}
}

// Action is one combatant's choice for the current round.
type Action struct {
	Kind    ActionKind
	Ability string // ability id for ActionAbility
	Item    string // item id for ActionItem
	Target  string // combatant id; empty selects the default target
}

// UseAbility returns an ability action against target.
func UseAbility(abilityID, target string) Action {
	return Action{Kind: ActionAbility, Ability: abilityID, Target: target}
}

// UseItem returns an item action on target.
func UseItem(itemID, target string) Action {
	return Action{Kind: ActionItem, Item: itemID, Target: target}
}

// Flee returns a flee action.
func Flee() Action { return Action{Kind: ActionFlee} }

// Defend returns a defend action.
func Defend() Action { return Action{Kind: ActionDefend} }

// Pass returns a pass action.
func Pass() Action { return Action{Kind: ActionPass} }
