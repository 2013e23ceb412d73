// Package food implements the carried items of the kitchen: leaf
// ingredients, composite dishes built from them, and the containers (plates,
// pots, pans) that hold dishes.
//
// Every item can be held by at most one Holder. The relation is owned by a
// Slot on the holder side; Slot.Put and Slot.Take are the only operations
// that change it and they always update both ends.
package food

import "github.com/hammamikhairi/ottokitchen/internal/domain"

// Holder is anything that can hold an item: an agent or a station.
type Holder interface {
	HolderID() string
}

// Item is a carried object.
type Item interface {
	Pos() domain.Vec
	SetPos(p domain.Vec)
	HeldBy() Holder
	Release()
	Flying() bool
	SetFlying(v bool)
	Moving() bool
	SetMoving(v bool)
	Progress() float64
	SetProgress(p float64)
	Destroyed() bool
	Destroy()

	core() *base
}

// base carries the state shared by every item.
type base struct {
	pos       domain.Vec
	slot      *Slot
	flying    bool
	moving    bool
	destroyed bool
	progress  float64
}

func (b *base) core() *base { return b }

// Pos returns the item's world position.
func (b *base) Pos() domain.Vec { return b.pos }

// SetPos moves the item.
func (b *base) SetPos(p domain.Vec) { b.pos = p }

// HeldBy returns the current holder, or nil.
func (b *base) HeldBy() Holder {
	if b.slot == nil {
		return nil
	}
	return b.slot.owner
}

// Release detaches the item from its holder, clearing both sides.
func (b *base) Release() {
	if b.slot != nil {
		b.slot.clear()
	}
}

func (b *base) Flying() bool      { return b.flying }
func (b *base) SetFlying(v bool)  { b.flying = v }
func (b *base) Moving() bool      { return b.moving }
func (b *base) SetMoving(v bool)  { b.moving = v }
func (b *base) Destroyed() bool   { return b.destroyed }
func (b *base) Progress() float64 { return b.progress }

// SetProgress sets progress clamped to [0,100].
func (b *base) SetProgress(p float64) { b.progress = clampProgress(p) }

// Destroy releases the item from its holder and marks it destroyed.
func (b *base) Destroy() {
	b.Release()
	b.destroyed = true
	b.flying = false
	b.moving = false
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Slot holds at most one item on behalf of a Holder.
type Slot struct {
	owner Holder
	item  Item
}

// NewSlot returns an empty slot owned by h.
func NewSlot(h Holder) *Slot {
	return &Slot{owner: h}
}

// Owner returns the holder that owns the slot.
func (s *Slot) Owner() Holder { return s.owner }

// Item returns the held item, or nil.
func (s *Slot) Item() Item { return s.item }

// Empty reports whether the slot holds nothing.
func (s *Slot) Empty() bool { return s.item == nil }

// Put binds it to the slot. It fails if the slot is occupied, the item is
// nil or destroyed, or the item is already held elsewhere.
func (s *Slot) Put(it Item) bool {
	if s.item != nil || it == nil || it.Destroyed() || it.core().slot != nil {
		return false
	}
	s.item = it
	it.core().slot = s
	return true
}

// Take unbinds and returns the held item, or nil when empty.
func (s *Slot) Take() Item {
	it := s.item
	if it == nil {
		return nil
	}
	s.clear()
	return it
}

func (s *Slot) clear() {
	if s.item != nil {
		s.item.core().slot = nil
	}
	s.item = nil
}
