// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottokitchen/internal/cook"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent reads.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
	src.seed()
	return src
}

// List returns summaries of all available recipes.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, summary(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns a recipe by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// All returns every recipe sorted by ID.
func (s *MemorySource) All(ctx context.Context) ([]*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Pick returns the recipes with the given ids, in order.
func (s *MemorySource) Pick(ctx context.Context, ids ...string) ([]*domain.Recipe, error) {
	out := make([]*domain.Recipe, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Add validates and stores recipes, replacing any with the same ID.
func (s *MemorySource) Add(ctx context.Context, recipes ...*domain.Recipe) error {
	for _, r := range recipes {
		if err := Validate(r); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recipes {
		s.recipes[r.ID] = r
		s.log.Info("recipe added: %s", r.Name)
	}
	return nil
}

// Search returns recipes whose name or category contain the query string.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	s.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for _, r := range s.recipes {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Category), q) {
			out = append(out, summary(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func summary(r *domain.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:         r.ID,
		Name:       r.Name,
		Category:   r.Category,
		Difficulty: r.Difficulty,
	}
}

// Validate checks that a recipe can be ordered and fulfilled.
func Validate(r *domain.Recipe) error {
	switch {
	case r == nil:
		return fmt.Errorf("%w: nil recipe", domain.ErrInvalidRecipe)
	case r.ID == "":
		return fmt.Errorf("%w: missing id", domain.ErrInvalidRecipe)
	case r.Target == nil || len(r.Target.Components) == 0:
		return fmt.Errorf("%w: %s has no components", domain.ErrInvalidRecipe, r.ID)
	case r.Difficulty < 1:
		return fmt.Errorf("%w: %s difficulty must be at least 1", domain.ErrInvalidRecipe, r.ID)
	}
	return validateDef(r.ID, r.Target)
}

func validateDef(id string, d *domain.FoodDef) error {
	if err := validateStates(id, d.CookStates); err != nil {
		return err
	}
	for _, c := range d.Components {
		switch v := c.(type) {
		case *domain.IngredientDef:
			if v.Type == "" {
				return fmt.Errorf("%w: %s has an ingredient without a type", domain.ErrInvalidRecipe, id)
			}
			if err := validateStates(id, v.CookStates); err != nil {
				return err
			}
		case *domain.FoodDef:
			if err := validateDef(id, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateStates(id string, states []string) error {
	for _, st := range states {
		if _, ok := cook.Lookup(st); !ok {
			return fmt.Errorf("%w: %s uses unknown cook state %q", domain.ErrInvalidRecipe, id, st)
		}
	}
	return nil
}

// seed populates the source with built-in recipes.
func (s *MemorySource) seed() {
	recipes := []*domain.Recipe{
		soup("tomato"),
		soup("onion"),
		soup("mushroom"),
		veggieStew(),
		pepperStirFry(),
		ramen(),
	}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	s.log.Debug("seeded %d recipes", len(recipes))
}

func soup(veg string) *domain.Recipe {
	return &domain.Recipe{
		ID:         veg + "-soup",
		Category:   "soup",
		Name:       cook.DisplayName(veg) + " Soup",
		Target:     domain.Dish(domain.Ing(veg, cook.Cut, cook.Boil)),
		Difficulty: 1,
		BaseScore:  60,
	}
}

func veggieStew() *domain.Recipe {
	return &domain.Recipe{
		ID:       "veggie-stew",
		Category: "stew",
		Name:     "Veggie Stew",
		Target: domain.Dish(
			domain.Ing("carrot", cook.Cut, cook.Boil),
			domain.Ing("onion", cook.Cut),
		),
		Difficulty: 2,
		BaseScore:  90,
	}
}

func pepperStirFry() *domain.Recipe {
	return &domain.Recipe{
		ID:         "pepper-stir-fry",
		Category:   "wok",
		Name:       "Pepper Stir Fry",
		Target:     domain.Dish(domain.Ing("pepper", cook.Cut, cook.StirFry)),
		Difficulty: 2,
		BaseScore:  80,
	}
}

// ramen is built on a noodle base; toppings are limited by the base.
func ramen() *domain.Recipe {
	return &domain.Recipe{
		ID:       "ramen",
		Category: "noodles",
		Name:     "Ramen",
		Target: domain.Dish(
			domain.Ing("noodles", cook.Cut, cook.Boil),
			domain.Ing("egg", cook.Cut),
			domain.Ing("scallion", cook.Cut),
		),
		Difficulty: 3,
		BaseScore:  140,
	}
}
