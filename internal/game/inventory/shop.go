package inventory

import (
	"errors"
	"fmt"
)

// ErrNotStocked is returned when a shop does not trade an item.
var ErrNotStocked = errors.New("inventory: item not stocked")

// Shop trades a fixed list of items at their definition value and buys
// anything back at half value.
type Shop struct {
	Name    string
	catalog Catalog
	stock   []string
}

// NewShop creates a Shop selling the item ids in stock.
//
// Postcondition: returns an error wrapping ErrUnknownItem if any id has no definition.
func NewShop(name string, cat Catalog, stock []string) (*Shop, error) {
	for _, id := range stock {
		if _, ok := cat.Item(id); !ok {
			return nil, fmt.Errorf("shop %q: %w: %q", name, ErrUnknownItem, id)
		}
	}
	return &Shop{Name: name, catalog: cat, stock: append([]string(nil), stock...)}, nil
}

// Stock returns the item definitions for sale, in listing order.
func (s *Shop) Stock() []*ItemDef {
	out := make([]*ItemDef, 0, len(s.stock))
	for _, id := range s.stock {
		def, _ := s.catalog.Item(id)
		out = append(out, def)
	}
	return out
}

func (s *Shop) stocks(itemID string) bool {
	for _, id := range s.stock {
		if id == itemID {
			return true
		}
	}
	return false
}

// Buy transfers quantity units of itemID into b and charges w.
// It is atomic: on any failure neither the wallet nor the backpack changes.
//
// Precondition: quantity > 0.
func (s *Shop) Buy(w *Wallet, b *Backpack, itemID string, quantity int) error {
	if !s.stocks(itemID) {
		return fmt.Errorf("%w: %q at %s", ErrNotStocked, itemID, s.Name)
	}
	def, _ := s.catalog.Item(itemID)
	if quantity <= 0 {
		return fmt.Errorf("inventory: quantity must be > 0, got %d", quantity)
	}
	cost := def.Value * quantity
	if cost > w.Gold() {
		return fmt.Errorf("%w: %d x %s costs %d, have %d", ErrInsufficientGold, quantity, def.Name, cost, w.Gold())
	}
	if err := b.Add(itemID, quantity, s.catalog); err != nil {
		return err
	}
	// Balance was checked above; Spend cannot fail here.
	_ = w.Spend(cost)
	return nil
}

// Sell removes quantity units of itemID from b and pays their sell price into w.
// It is atomic: when fewer units are held, nothing changes.
//
// Postcondition: returns the gold earned.
func (s *Shop) Sell(w *Wallet, b *Backpack, itemID string, quantity int) (int, error) {
	def, ok := s.catalog.Item(itemID)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	if err := b.Take(itemID, quantity); err != nil {
		return 0, err
	}
	earned := def.SellPrice() * quantity
	w.Earn(earned)
	return earned, nil
}
