package food

import "slices"

// Component is an entry of a Food: an *Ingredient or a nested *Food.
type Component interface {
	Item
	LastCookState() string
	component()
}

// Ingredient is a leaf food item with an ordered cook-state history.
type Ingredient struct {
	base

	Type string

	// IsBase marks the ingredient other toppings are stacked on (a bun, a
	// tortilla). MaxToppings of 0 means unlimited; an empty AllowedToppings
	// accepts any type.
	IsBase          bool
	AllowedToppings []string
	MaxToppings     int

	cookStates []string
}

// IngredientOption configures an ingredient.
type IngredientOption func(*Ingredient)

// AsBase marks the ingredient as a base accepting up to max toppings of the
// given types.
func AsBase(max int, allowed ...string) IngredientOption {
	return func(i *Ingredient) {
		i.IsBase = true
		i.MaxToppings = max
		i.AllowedToppings = allowed
	}
}

// WithCookStates seeds the ingredient's history, for example for
// pre-processed stock.
func WithCookStates(states ...string) IngredientOption {
	return func(i *Ingredient) {
		i.cookStates = append(i.cookStates, states...)
	}
}

// NewIngredient creates a raw ingredient of the given type.
func NewIngredient(typ string, opts ...IngredientOption) *Ingredient {
	i := &Ingredient{Type: typ}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (*Ingredient) component() {}

// CookStates returns a copy of the ingredient's cook-state history.
func (i *Ingredient) CookStates() []string {
	return slices.Clone(i.cookStates)
}

// AddCookState appends a state and resets progress.
func (i *Ingredient) AddCookState(state string) {
	i.cookStates = append(i.cookStates, state)
	i.progress = 0
}

// HasCookState reports whether state was ever applied.
func (i *Ingredient) HasCookState(state string) bool {
	return slices.Contains(i.cookStates, state)
}

// LastCookState returns the most recent state, or "" for a raw ingredient.
func (i *Ingredient) LastCookState() string {
	if len(i.cookStates) == 0 {
		return ""
	}
	return i.cookStates[len(i.cookStates)-1]
}

// Raw reports whether the ingredient has not been processed at all.
func (i *Ingredient) Raw() bool { return len(i.cookStates) == 0 }
