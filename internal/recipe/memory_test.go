package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

func TestMemorySourceList(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	recipes, err := src.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) < 6 {
		t.Fatalf("expected at least 6 recipes, got %d", len(recipes))
	}
	for i := 1; i < len(recipes); i++ {
		if recipes[i-1].Name > recipes[i].Name {
			t.Fatalf("list not sorted by name: %q before %q", recipes[i-1].Name, recipes[i].Name)
		}
	}
}

func TestMemorySourceGet(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	tests := []struct {
		id      string
		wantErr error
	}{
		{"tomato-soup", nil},
		{"ramen", nil},
		{"pepper-stir-fry", nil},
		{"nonexistent", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r, err := src.Get(ctx, tt.id)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.ID != tt.id {
				t.Fatalf("expected ID %s, got %s", tt.id, r.ID)
			}
			if err := Validate(r); err != nil {
				t.Fatalf("built-in recipe invalid: %v", err)
			}
		})
	}
}

func TestMemorySourceSearch(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	tests := []struct {
		query string
		count int
	}{
		{"soup", 3},
		{"Ramen", 1},
		{"wok", 1},
		{"nonexistent-query-xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := src.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(results) != tt.count {
				t.Fatalf("expected %d results for %q, got %d", tt.count, tt.query, len(results))
			}
		})
	}
}

func TestMemorySourcePick(t *testing.T) {
	src := NewMemorySource(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	got, err := src.Pick(ctx, "ramen", "onion-soup")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if len(got) != 2 || got[0].ID != "ramen" || got[1].ID != "onion-soup" {
		t.Fatalf("unexpected pick result: %+v", got)
	}

	if _, err := src.Pick(ctx, "ramen", "sushi"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemorySourceAdd(t *testing.T) {
	src := NewMemorySource(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	good := &domain.Recipe{
		ID:         "fried-fish",
		Name:       "Fried Fish",
		Target:     domain.Dish(domain.Ing("fish", "cut", "fry")),
		Difficulty: 2,
		BaseScore:  70,
	}
	if err := src.Add(ctx, good); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := src.Get(ctx, "fried-fish"); err != nil {
		t.Fatalf("get after add: %v", err)
	}

	tests := []struct {
		name   string
		recipe *domain.Recipe
	}{
		{"nil", nil},
		{"no id", &domain.Recipe{Target: domain.Dish(domain.Ing("x")), Difficulty: 1}},
		{"no components", &domain.Recipe{ID: "a", Target: domain.Dish(), Difficulty: 1}},
		{"zero difficulty", &domain.Recipe{ID: "a", Target: domain.Dish(domain.Ing("x"))}},
		{"unknown state", &domain.Recipe{ID: "a", Target: domain.Dish(domain.Ing("x", "smoke")), Difficulty: 1}},
		{"nested unknown state", &domain.Recipe{ID: "a", Target: domain.Dish(domain.Dish(domain.Ing("x", "flambe"))), Difficulty: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := src.Add(ctx, tt.recipe); !errors.Is(err, domain.ErrInvalidRecipe) {
				t.Fatalf("expected ErrInvalidRecipe, got %v", err)
			}
		})
	}
}
