// Package inventory implements the truck's fixed-capacity, stack-based item store.
package inventory

import (
	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/notify"
)

// Slot holds up to Item.MaxStack units of one item. An empty slot has a nil Item and zero Count.
type Slot struct {
	Item  *catalogs.ItemDef
	Count int
}

func (s Slot) IsEmpty() bool { return s.Item == nil || s.Count <= 0 }

func (s Slot) IsFull() bool { return s.Item != nil && s.Count >= s.Item.MaxStack }

func (s Slot) holds(item *catalogs.ItemDef) bool {
	return s.Item != nil && item != nil && s.Item.ID == item.ID
}

func (s *Slot) clear() {
	s.Item = nil
	s.Count = 0
}

// Store is a fixed-size ordered sequence of slots. Slot order never changes.
type Store struct {
	slots   []Slot
	changed notify.Hub[*Store]
}

func New(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{slots: make([]Slot, capacity)}
}

func (s *Store) Capacity() int { return len(s.slots) }

// OnChange subscribes to mutations. The handler runs synchronously.
func (s *Store) OnChange(fn func(*Store)) (cancel func()) {
	return s.changed.Subscribe(fn)
}

// Add merges into existing non-full stacks of the same item first, then fills
// empty slots. It returns the amount actually placed, which is less than
// amount when the store runs out of room.
func (s *Store) Add(item *catalogs.ItemDef, amount int) int {
	if item == nil || amount <= 0 {
		return 0
	}
	maxStack := stackLimit(item)
	remaining := amount

	for i := 0; i < len(s.slots) && remaining > 0; i++ {
		sl := &s.slots[i]
		if !sl.holds(item) || sl.Count >= maxStack {
			continue
		}
		n := min(remaining, maxStack-sl.Count)
		sl.Count += n
		remaining -= n
	}

	for i := 0; i < len(s.slots) && remaining > 0; i++ {
		sl := &s.slots[i]
		if !sl.IsEmpty() {
			continue
		}
		n := min(remaining, maxStack)
		sl.Item = item
		sl.Count = n
		remaining -= n
	}

	added := amount - remaining
	if added > 0 {
		s.changed.Emit(s)
	}
	return added
}

// RemoveAt removes up to amount from one slot. Out-of-range indexes remove nothing.
func (s *Store) RemoveAt(index, amount int) int {
	if index < 0 || index >= len(s.slots) || amount <= 0 {
		return 0
	}
	removed := s.takeFrom(index, amount)
	if removed > 0 {
		s.changed.Emit(s)
	}
	return removed
}

// Remove takes up to amount units of item across slots, last slot first, and
// emits a single change notification.
func (s *Store) Remove(item *catalogs.ItemDef, amount int) int {
	if item == nil || amount <= 0 {
		return 0
	}
	remaining := amount
	for i := len(s.slots) - 1; i >= 0 && remaining > 0; i-- {
		if !s.slots[i].holds(item) {
			continue
		}
		remaining -= s.takeFrom(i, remaining)
	}
	removed := amount - remaining
	if removed > 0 {
		s.changed.Emit(s)
	}
	return removed
}

func (s *Store) takeFrom(index, amount int) int {
	sl := &s.slots[index]
	if sl.IsEmpty() {
		sl.clear()
		return 0
	}
	n := min(amount, sl.Count)
	sl.Count -= n
	if sl.Count <= 0 {
		sl.clear()
	}
	return n
}

func (s *Store) CountItem(item *catalogs.ItemDef) int {
	if item == nil {
		return 0
	}
	total := 0
	for _, sl := range s.slots {
		if sl.holds(item) {
			total += sl.Count
		}
	}
	return total
}

// CountByIngredientKey sums every slot whose item shares the ingredient key.
func (s *Store) CountByIngredientKey(key string) int {
	if key == "" {
		return 0
	}
	total := 0
	for _, sl := range s.slots {
		if !sl.IsEmpty() && sl.Item.IngredientKey == key {
			total += sl.Count
		}
	}
	return total
}

func (s *Store) HasItem(item *catalogs.ItemDef, amount int) bool {
	return item != nil && s.CountItem(item) >= amount
}

func (s *Store) IsFull() bool {
	for _, sl := range s.slots {
		if sl.IsEmpty() {
			return false
		}
	}
	return true
}

// Slot returns a copy of the slot at index.
func (s *Store) Slot(index int) (Slot, bool) {
	if index < 0 || index >= len(s.slots) {
		return Slot{}, false
	}
	return s.slots[index], true
}

// Slots returns a copy of every slot in index order.
func (s *Store) Slots() []Slot {
	return append([]Slot(nil), s.slots...)
}

// Clear empties every slot and always notifies.
func (s *Store) Clear() {
	for i := range s.slots {
		s.slots[i].clear()
	}
	s.changed.Emit(s)
}

func stackLimit(item *catalogs.ItemDef) int {
	if item.MaxStack <= 0 {
		return catalogs.DefaultMaxStack
	}
	return item.MaxStack
}
