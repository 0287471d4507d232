package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
)

// splitQuantity splits "<item> [n]" into the item text and the quantity.
// A trailing number is the quantity; without one the quantity is 1.
func splitQuantity(arg string) (string, int) {
	fields := strings.Fields(arg)
	if len(fields) > 1 {
		if n, ok := ParseIndex(fields[len(fields)-1]); ok {
			return strings.Join(fields[:len(fields)-1], " "), n
		}
	}
	return strings.Join(fields, " "), 1
}

// findStock resolves arg against the shop's stock by id or display name.
func findStock(s *inventory.Shop, arg string) (*inventory.ItemDef, bool) {
	want := Normalize(arg)
	for _, def := range s.Stock() {
		if def.ID == want || Normalize(def.Name) == want {
			return def, true
		}
	}
	return nil, false
}

// HandleShop lists what s sells and what the hero can afford.
//
// Precondition: s and w must not be nil.
func HandleShop(s *inventory.Shop, w *inventory.Wallet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", s.Name)
	for _, def := range s.Stock() {
		fmt.Fprintf(&sb, "  %-20s %s\n", def.Name, inventory.FormatGold(def.Value))
	}
	fmt.Fprintf(&sb, "You have %s.", inventory.FormatGold(w.Gold()))
	return sb.String()
}

// HandleBuy processes "buy <item> [n]".
//
// Precondition: s and c must not be nil.
// Postcondition: the purchase is atomic; on failure gold and backpack are unchanged.
func HandleBuy(s *inventory.Shop, c *character.Character, arg string) string {
	name, qty := splitQuantity(arg)
	if name == "" {
		return "Usage: buy <item> [quantity]"
	}
	def, ok := findStock(s, name)
	if !ok {
		return fmt.Sprintf("%s does not sell %s.", s.Name, name)
	}
	err := s.Buy(c.Wallet, c.Backpack, def.ID, qty)
	switch {
	case err == nil:
	case errors.Is(err, inventory.ErrInsufficientGold):
		return fmt.Sprintf("You cannot afford %d %s (%s).", qty, def.Name, inventory.FormatGold(def.Value*qty))
	case errors.Is(err, inventory.ErrBackpackFull):
		return fmt.Sprintf("No room in your pack for %s.", def.Name)
	default:
		return fmt.Sprintf("Cannot buy %s: %v", def.Name, err)
	}
	return fmt.Sprintf("You buy %s x%d for %s.", def.Name, qty, inventory.FormatGold(def.Value*qty))
}

// HandleSell processes "sell <item> [n]". Anything in the backpack sells at
// half its value.
//
// Precondition: s and c must not be nil.
func HandleSell(s *inventory.Shop, c *character.Character, cat inventory.Catalog, arg string) string {
	name, qty := splitQuantity(arg)
	if name == "" {
		return "Usage: sell <item> [quantity]"
	}
	def, ok := FindItem(c.Backpack, cat, name)
	if !ok {
		return fmt.Sprintf("%s: not found in your pack", name)
	}
	earned, err := s.Sell(c.Wallet, c.Backpack, def.ID, qty)
	if errors.Is(err, inventory.ErrNotEnough) {
		return fmt.Sprintf("You only have %d %s.", c.Backpack.Count(def.ID), def.Name)
	}
	if err != nil {
		return fmt.Sprintf("Cannot sell %s: %v", def.Name, err)
	}
	return fmt.Sprintf("You sell %s x%d for %s.", def.Name, qty, inventory.FormatGold(earned))
}
