// Package domain defines the core types and interfaces for the kitchen
// simulation. All other packages depend on domain; domain depends on nothing.
package domain

// Recipe is a dish that can be ordered. Target describes the structure a
// delivered dish must have to fulfil it.
type Recipe struct {
	ID         string
	Category   string
	Name       string
	Target     *FoodDef
	Difficulty int
	BaseScore  int
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID         string
	Name       string
	Category   string
	Difficulty int
}

// ComponentDef is one entry of a FoodDef: either an *IngredientDef or a
// nested *FoodDef.
type ComponentDef interface {
	componentDef()
}

// IngredientDef describes a leaf ingredient and the cook states it must carry,
// in application order.
type IngredientDef struct {
	Type       string
	CookStates []string
}

// FoodDef describes a composite dish. Components match as an unordered
// multiset; CookStates match positionally.
type FoodDef struct {
	Components []ComponentDef
	CookStates []string
}

func (*IngredientDef) componentDef() {}
func (*FoodDef) componentDef()       {}

// Ing is shorthand for building an IngredientDef.
func Ing(typ string, states ...string) *IngredientDef {
	return &IngredientDef{Type: typ, CookStates: states}
}

// Dish is shorthand for building a FoodDef with no cook states of its own.
func Dish(components ...ComponentDef) *FoodDef {
	return &FoodDef{Components: components}
}

// FlattenTypes returns the ingredient type of every leaf in the definition,
// depth first.
func (d *FoodDef) FlattenTypes() []string {
	var out []string
	for _, c := range d.Components {
		switch v := c.(type) {
		case *IngredientDef:
			out = append(out, v.Type)
		case *FoodDef:
			out = append(out, v.FlattenTypes()...)
		}
	}
	return out
}
