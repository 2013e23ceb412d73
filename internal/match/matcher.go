// Package match compares live dishes against recipe definitions.
//
// Component lists match greedily: each target component, in declared order,
// binds the first unused submitted component that equals it. This is not a
// maximum bipartite matching; it never backtracks. It finds an assignment
// whenever one exists only because ComponentEquals is exact. A looser
// equality would make the result depend on submitted order.
package match

import (
	"math"
	"slices"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/food"
)

// Matches reports whether submitted has exactly the target's structure.
func Matches(submitted *food.Food, target *domain.FoodDef) bool {
	if submitted == nil || target == nil {
		return false
	}
	if !slices.Equal(submitted.CookStates(), target.CookStates) {
		return false
	}
	if submitted.Len() != len(target.Components) {
		return false
	}
	return ComponentsMatch(submitted.Components(), target.Components)
}

// ComponentsMatch pairs every target component with a distinct submitted
// component using greedy first-fit in target order.
func ComponentsMatch(submitted []food.Component, target []domain.ComponentDef) bool {
	used := make([]bool, len(submitted))
	for _, want := range target {
		bound := false
		for i, have := range submitted {
			if used[i] || !ComponentEquals(have, want) {
				continue
			}
			used[i] = true
			bound = true
			break
		}
		if !bound {
			return false
		}
	}
	return true
}

// ComponentEquals compares one submitted component with one definition.
func ComponentEquals(have food.Component, want domain.ComponentDef) bool {
	switch w := want.(type) {
	case *domain.IngredientDef:
		ing, ok := have.(*food.Ingredient)
		return ok && ing.Type == w.Type && slices.Equal(ing.CookStates(), w.CookStates)
	case *domain.FoodDef:
		f, ok := have.(*food.Food)
		return ok && Matches(f, w)
	default:
		return false
	}
}

// CalculateSimilarity scores how close submitted is to target, 0 to 100.
// Cook-state agreement weighs 30% and ingredient overlap 70%. It is only used
// for feedback, never to accept a delivery.
func CalculateSimilarity(submitted *food.Food, target *domain.FoodDef) int {
	if submitted == nil || target == nil {
		return 0
	}

	have, want := submitted.CookStates(), target.CookStates
	stateScore := 1.0
	if n := max(len(have), len(want)); n > 0 {
		same := 0
		for i := 0; i < min(len(have), len(want)); i++ {
			if have[i] == want[i] {
				same++
			}
		}
		stateScore = float64(same) / float64(n)
	}

	targetTypes := target.FlattenTypes()
	typeScore := 0.0
	if len(targetTypes) > 0 {
		present := 0
		for _, ing := range submitted.Flatten() {
			if slices.Contains(targetTypes, ing.Type) {
				present++
			}
		}
		typeScore = min(1, float64(present)/float64(len(targetTypes)))
	}

	return int(math.Round((stateScore*0.3 + typeScore*0.7) * 100))
}
