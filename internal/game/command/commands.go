// Package command provides the command registry, parser, and the story and
// battle commands a player types.
package command

// Categories for organizing commands.
const (
	CategoryStory  = "story"
	CategoryBattle = "battle"
	CategoryHero   = "hero"
	CategoryShop   = "shop"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to adventure actions.
const (
	HandlerChoose    = "choose"
	HandlerLook      = "look"
	HandlerAttack    = "attack"
	HandlerDefend    = "defend"
	HandlerFlee      = "flee"
	HandlerPass      = "pass"
	HandlerAbilities = "abilities"
	HandlerUse       = "use"
	HandlerInventory = "inventory"
	HandlerStatus    = "status"
	HandlerEquip     = "equip"
	HandlerUnequip   = "unequip"
	HandlerEquipment = "equipment"
	HandlerShop      = "shop"
	HandlerBuy       = "buy"
	HandlerSell      = "sell"
	HandlerHistory   = "history"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "attack <ability> [target]".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (story, battle, hero, shop, system).
	Category string
	// Handler names the adventure action the command maps to.
	Handler string
}

// BuiltinCommands returns all built-in commands.
func BuiltinCommands() []Command {
	return []Command{
		// Story commands
		{Name: "choose", Aliases: []string{"c", "go"}, Usage: "choose <n>", Help: "Follow choice n of the current scene", Category: CategoryStory, Handler: HandlerChoose},
		{Name: "look", Aliases: []string{"l"}, Help: "Describe the current scene or battlefield", Category: CategoryStory, Handler: HandlerLook},

		// Battle commands
		{Name: "attack", Aliases: []string{"a", "cast", "ability"}, Usage: "attack [ability] [target]", Help: "Use an ability, by default your first one on the first enemy", Category: CategoryBattle, Handler: HandlerAttack},
		{Name: "defend", Aliases: []string{"def", "guard"}, Help: "Raise your defenses until your next turn", Category: CategoryBattle, Handler: HandlerDefend},
		{Name: "flee", Aliases: []string{"run"}, Help: "Attempt to escape the battle", Category: CategoryBattle, Handler: HandlerFlee},
		{Name: "pass", Aliases: []string{"p", "wait"}, Help: "Do nothing this round", Category: CategoryBattle, Handler: HandlerPass},
		{Name: "abilities", Aliases: []string{"ab", "skills"}, Help: "List your abilities and whether they are ready", Category: CategoryBattle, Handler: HandlerAbilities},

		// Hero commands
		{Name: "use", Aliases: []string{"u", "item"}, Usage: "use <item> [target]", Help: "Use a consumable from the backpack", Category: CategoryHero, Handler: HandlerUse},
		{Name: "inventory", Aliases: []string{"inv", "i"}, Help: "Show backpack contents and gold", Category: CategoryHero, Handler: HandlerInventory},
		{Name: "status", Aliases: []string{"st", "sheet"}, Help: "Show your level, life, mana and attributes", Category: CategoryHero, Handler: HandlerStatus},
		{Name: "equip", Aliases: []string{"eq", "wear"}, Usage: "equip <item>", Help: "Wear an item from the backpack", Category: CategoryHero, Handler: HandlerEquip},
		{Name: "unequip", Aliases: []string{"ueq", "remove"}, Usage: "unequip <slot|item>", Help: "Return a worn item to the backpack", Category: CategoryHero, Handler: HandlerUnequip},
		{Name: "equipment", Aliases: []string{"gear"}, Help: "Show all equipped items", Category: CategoryHero, Handler: HandlerEquipment},

		// Shop commands
		{Name: "shop", Aliases: []string{"wares"}, Help: "List what the merchant here sells", Category: CategoryShop, Handler: HandlerShop},
		{Name: "buy", Aliases: []string{"b"}, Usage: "buy <item> [n]", Help: "Buy n of an item from the merchant", Category: CategoryShop, Handler: HandlerBuy},
		{Name: "sell", Usage: "sell <item> [n]", Help: "Sell n of an item to the merchant at half value", Category: CategoryShop, Handler: HandlerSell},

		// System commands
		{Name: "history", Aliases: []string{"log"}, Help: "Show the log of the current or last battle", Category: CategorySystem, Handler: HandlerHistory},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the adventure", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// IsBattleCommand reports whether handler only makes sense during a battle.
func IsBattleCommand(handler string) bool {
	switch handler {
	case HandlerAttack, HandlerDefend, HandlerFlee, HandlerPass, HandlerAbilities:
		return true
	default:
		return false
	}
}
