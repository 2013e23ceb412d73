package food

import "github.com/hammamikhairi/ottokitchen/internal/domain"

// ContainerKind distinguishes plates from cookware.
type ContainerKind int

const (
	Plate ContainerKind = iota
	Pot
	Pan
)

// String returns a human-readable container kind.
func (k ContainerKind) String() string {
	switch k {
	case Plate:
		return "plate"
	case Pot:
		return "pot"
	case Pan:
		return "pan"
	default:
		return "unknown"
	}
}

// Cookware reports whether the container goes on a stove.
func (k ContainerKind) Cookware() bool { return k == Pot || k == Pan }

// Container carries a dish. Its contents are never nil.
type Container struct {
	base

	Kind  ContainerKind
	Dirty bool

	// CanTransfer is cleared for good once the contents caught fire.
	CanTransfer bool

	// Thrower is the id of the agent that last threw the container. It is
	// cleared when an agent picks the container up by hand.
	Thrower string

	contents *Food
}

// NewContainer creates a clean, empty container.
func NewContainer(kind ContainerKind) *Container {
	return &Container{
		Kind:        kind,
		CanTransfer: true,
		contents:    NewFood(),
	}
}

// NewDirtyPlate creates a plate that has to be washed before use.
func NewDirtyPlate() *Container {
	c := NewContainer(Plate)
	c.Dirty = true
	return c
}

// Contents returns the dish inside the container.
func (c *Container) Contents() *Food { return c.contents }

// Empty reports whether the container holds nothing.
func (c *Container) Empty() bool { return c.contents.Empty() }

// LeadIngredient returns the first leaf of the contents, or nil.
func (c *Container) LeadIngredient() *Ingredient {
	leaves := c.contents.Flatten()
	if len(leaves) == 0 {
		return nil
	}
	return leaves[0]
}

// Add puts a component into the container. Dirty or burnt containers refuse,
// and a dish with a base only takes allowed toppings.
func (c *Container) Add(comp Component) bool {
	if c.Dirty || !c.CanTransfer {
		return false
	}
	if c.contents.BaseIngredient() != nil && !c.contents.CanAddTopping(comp) {
		return false
	}
	c.contents.Add(comp)
	return true
}

// TransferTo moves the whole contents into dst, which must be clean and
// empty.
func (c *Container) TransferTo(dst *Container) bool {
	if c == dst || !c.CanTransfer || c.Empty() || dst.Dirty || !dst.Empty() {
		return false
	}
	dst.contents = c.contents
	dst.contents.SetPos(dst.pos)
	c.contents = NewFood()
	c.contents.SetPos(c.pos)
	return true
}

// Clear destroys the contents and leaves the container empty.
func (c *Container) Clear() {
	c.contents.Destroy()
	c.contents = NewFood()
	c.contents.SetPos(c.pos)
}

// SetPos moves the container and its contents.
func (c *Container) SetPos(p domain.Vec) {
	c.pos = p
	c.contents.SetPos(p)
}

// Progress reports the contents' cooking progress.
func (c *Container) Progress() float64 { return c.contents.Progress() }

// SetProgress sets the contents' cooking progress.
func (c *Container) SetProgress(p float64) { c.contents.SetProgress(p) }

// Destroy destroys the contents and the container.
func (c *Container) Destroy() {
	c.contents.Destroy()
	c.base.Destroy()
}
