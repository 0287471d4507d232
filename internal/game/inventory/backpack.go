package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrBackpackFull is returned when an Add would exceed the slot limit.
	ErrBackpackFull = errors.New("inventory: backpack full")
	// ErrNotEnough is returned when fewer units are held than requested.
	ErrNotEnough = errors.New("inventory: not enough items")
	// ErrUnknownItem is returned when an item id has no definition.
	ErrUnknownItem = errors.New("inventory: unknown item")
)

// ItemInstance represents a concrete stack of one item in a backpack.
type ItemInstance struct {
	InstanceID string `json:"instance_id"`
	ItemID     string `json:"item_id"`
	Quantity   int    `json:"quantity"`
}

// Backpack is the party's shared item container with a slot limit.
// Stackable items fill existing stacks before opening new slots.
// It is not safe for concurrent use.
type Backpack struct {
	MaxSlots int
	items    []ItemInstance
}

// NewBackpack creates an empty Backpack with maxSlots slots.
//
// Precondition: maxSlots >= 0.
func NewBackpack(maxSlots int) *Backpack {
	return &Backpack{MaxSlots: maxSlots}
}

// RestoreBackpack recreates a Backpack holding items.
func RestoreBackpack(maxSlots int, items []ItemInstance) *Backpack {
	b := NewBackpack(maxSlots)
	b.items = append(b.items, items...)
	return b
}

// Add places quantity units of itemID into the backpack.
// It is atomic: if the slot limit would be exceeded, no state is modified.
//
// Precondition: quantity > 0.
// Postcondition: on success Count(itemID) grew by quantity; on error the backpack is unchanged.
func (b *Backpack) Add(itemID string, quantity int, cat Catalog) error {
	def, ok := cat.Item(itemID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	if quantity <= 0 {
		return fmt.Errorf("inventory: quantity must be > 0, got %d", quantity)
	}
	limit := def.StackLimit()

	// Room left in existing stacks, then the number of new slots for the rest.
	room := 0
	for _, it := range b.items {
		if it.ItemID == itemID {
			room += limit - it.Quantity
		}
	}
	rest := max(0, quantity-room)
	newSlots := (rest + limit - 1) / limit
	if len(b.items)+newSlots > b.MaxSlots {
		return fmt.Errorf("%w: %d of %q needs %d more slots, %d free",
			ErrBackpackFull, quantity, itemID, newSlots, b.MaxSlots-len(b.items))
	}

	remaining := quantity
	for i := range b.items {
		if remaining == 0 {
			break
		}
		if b.items[i].ItemID != itemID {
			continue
		}
		take := min(remaining, limit-b.items[i].Quantity)
		b.items[i].Quantity += take
		remaining -= take
	}
	for remaining > 0 {
		q := min(remaining, limit)
		b.items = append(b.items, ItemInstance{InstanceID: uuid.New().String(), ItemID: itemID, Quantity: q})
		remaining -= q
	}
	return nil
}

// Take removes quantity units of itemID, emptying the newest stacks first.
// It is atomic: when fewer units are held, nothing is removed.
//
// Precondition: quantity > 0.
// Postcondition: on success Count(itemID) shrank by quantity.
func (b *Backpack) Take(itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("inventory: quantity must be > 0, got %d", quantity)
	}
	if have := b.Count(itemID); have < quantity {
		return fmt.Errorf("%w: want %d of %q, have %d", ErrNotEnough, quantity, itemID, have)
	}
	remaining := quantity
	for i := len(b.items) - 1; i >= 0 && remaining > 0; i-- {
		if b.items[i].ItemID != itemID {
			continue
		}
		take := min(remaining, b.items[i].Quantity)
		b.items[i].Quantity -= take
		remaining -= take
		if b.items[i].Quantity == 0 {
			b.items = append(b.items[:i], b.items[i+1:]...)
		}
	}
	return nil
}

// Remove removes quantity units from the instance identified by instanceID.
//
// Precondition: quantity > 0 and <= the instance's quantity.
// Postcondition: if quantity == instance.Quantity, the instance is removed; otherwise it is decremented.
func (b *Backpack) Remove(instanceID string, quantity int) error {
	for i := range b.items {
		if b.items[i].InstanceID != instanceID {
			continue
		}
		if quantity > b.items[i].Quantity {
			return fmt.Errorf("%w: cannot remove %d from instance with quantity %d",
				ErrNotEnough, quantity, b.items[i].Quantity)
		}
		if quantity == b.items[i].Quantity {
			b.items = append(b.items[:i], b.items[i+1:]...)
		} else {
			b.items[i].Quantity -= quantity
		}
		return nil
	}
	return fmt.Errorf("inventory: instance %q not found", instanceID)
}

// Count returns the total units of itemID held across all stacks.
func (b *Backpack) Count(itemID string) int {
	n := 0
	for _, it := range b.items {
		if it.ItemID == itemID {
			n += it.Quantity
		}
	}
	return n
}

// Has reports whether at least one unit of itemID is held.
func (b *Backpack) Has(itemID string) bool { return b.Count(itemID) > 0 }

// Items returns a snapshot copy of all items in the backpack.
//
// Postcondition: returned slice is a copy; mutations do not affect the backpack.
func (b *Backpack) Items() []ItemInstance {
	out := make([]ItemInstance, len(b.items))
	copy(out, b.items)
	return out
}

// UsedSlots returns the number of occupied slots.
func (b *Backpack) UsedSlots() int { return len(b.items) }
