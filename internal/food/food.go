package food

import (
	"slices"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
)

// Food is a composite dish: an ordered list of ingredients and nested foods
// with its own cook-state history. It grows append-only, so trees are
// acyclic.
type Food struct {
	base

	Cooking bool

	components []Component
	cookStates []string
}

// NewFood creates a dish from the given components.
func NewFood(components ...Component) *Food {
	f := &Food{}
	for _, c := range components {
		f.Add(c)
	}
	return f
}

func (*Food) component() {}

// Add appends a component. A held component is detached from its holder
// first, grounded, and moved (with its subtree) to the dish's position.
func (f *Food) Add(c Component) {
	if f.containedBy(c) {
		panic("food: component would contain its parent")
	}
	c.Release()
	c.SetFlying(false)
	c.SetMoving(false)
	c.SetPos(f.pos)
	f.components = append(f.components, c)
}

// containedBy reports whether c is f or has f somewhere in its subtree.
func (f *Food) containedBy(c Component) bool {
	other, ok := c.(*Food)
	if !ok {
		return false
	}
	if other == f {
		return true
	}
	for _, sub := range other.components {
		if f.containedBy(sub) {
			return true
		}
	}
	return false
}

// Components returns a copy of the component list.
func (f *Food) Components() []Component {
	return slices.Clone(f.components)
}

// Len returns the number of direct components.
func (f *Food) Len() int { return len(f.components) }

// Empty reports whether the dish has no components.
func (f *Food) Empty() bool { return len(f.components) == 0 }

// Flatten returns every leaf ingredient, depth first.
func (f *Food) Flatten() []*Ingredient {
	var out []*Ingredient
	for _, c := range f.components {
		switch v := c.(type) {
		case *Ingredient:
			out = append(out, v)
		case *Food:
			out = append(out, v.Flatten()...)
		}
	}
	return out
}

// BaseIngredient returns the first ingredient flagged IsBase, depth first,
// or nil.
func (f *Food) BaseIngredient() *Ingredient {
	for _, c := range f.components {
		switch v := c.(type) {
		case *Ingredient:
			if v.IsBase {
				return v
			}
		case *Food:
			if b := v.BaseIngredient(); b != nil {
				return b
			}
		}
	}
	return nil
}

// CanAddTopping reports whether candidate may be stacked on the dish's base.
// The topping count assumes the base takes exactly one component slot, even
// when the base sits inside a nested food.
func (f *Food) CanAddTopping(candidate Component) bool {
	b := f.BaseIngredient()
	if b == nil {
		return false
	}
	if b.MaxToppings > 0 && len(f.components)-1 >= b.MaxToppings {
		return false
	}
	if len(b.AllowedToppings) == 0 {
		return true
	}
	lead := leadType(candidate)
	return lead != "" && slices.Contains(b.AllowedToppings, lead)
}

func leadType(c Component) string {
	switch v := c.(type) {
	case *Ingredient:
		return v.Type
	case *Food:
		if leaves := v.Flatten(); len(leaves) > 0 {
			return leaves[0].Type
		}
	}
	return ""
}

// CookStates returns a copy of the dish's own cook-state history.
func (f *Food) CookStates() []string {
	return slices.Clone(f.cookStates)
}

// AddCookState appends a state and resets progress.
func (f *Food) AddCookState(state string) {
	f.cookStates = append(f.cookStates, state)
	f.progress = 0
}

// HasCookState reports whether state was ever applied to the dish.
func (f *Food) HasCookState(state string) bool {
	return slices.Contains(f.cookStates, state)
}

// LastCookState returns the dish's most recent state, or "".
func (f *Food) LastCookState() string {
	if len(f.cookStates) == 0 {
		return ""
	}
	return f.cookStates[len(f.cookStates)-1]
}

// SetPos moves the dish and every component beneath it.
func (f *Food) SetPos(p domain.Vec) {
	f.pos = p
	for _, c := range f.components {
		c.SetPos(p)
	}
}

// Destroy destroys every component, clears the list and marks the dish
// destroyed.
func (f *Food) Destroy() {
	f.clear()
	f.base.Destroy()
}

func (f *Food) clear() {
	for _, c := range f.components {
		c.Destroy()
	}
	f.components = nil
}
