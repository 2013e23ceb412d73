package recipe

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://ottokitchen.local/recipes.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(schemaURL, schemaJSON)
	})
	return schema, schemaErr
}

type packFile struct {
	Recipes []recipeFile `json:"recipes"`
}

type recipeFile struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Name       string   `json:"name"`
	Difficulty int      `json:"difficulty"`
	BaseScore  int      `json:"base_score"`
	Target     foodFile `json:"target"`
}

type foodFile struct {
	Components []componentFile `json:"components"`
	CookStates []string        `json:"cook_states"`
}

// componentFile is either an ingredient (Type set) or a nested food.
type componentFile struct {
	Type       string          `json:"type"`
	Components []componentFile `json:"components"`
	CookStates []string        `json:"cook_states"`
}

// Parse decodes and validates a JSON recipe pack.
func Parse(data []byte) ([]*domain.Recipe, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling recipe schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecipe, err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecipe, err)
	}

	var pack packFile
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&pack); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecipe, err)
	}

	out := make([]*domain.Recipe, 0, len(pack.Recipes))
	seen := make(map[string]bool, len(pack.Recipes))
	for _, rf := range pack.Recipes {
		if seen[rf.ID] {
			return nil, fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidRecipe, rf.ID)
		}
		seen[rf.ID] = true

		r := &domain.Recipe{
			ID:         rf.ID,
			Category:   rf.Category,
			Name:       rf.Name,
			Difficulty: rf.Difficulty,
			BaseScore:  rf.BaseScore,
			Target:     rf.Target.def(),
		}
		if err := Validate(r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// LoadFile reads a JSON recipe pack from disk.
func LoadFile(path string) ([]*domain.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipes: %w", err)
	}
	recipes, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recipes, nil
}

func (f foodFile) def() *domain.FoodDef {
	d := &domain.FoodDef{CookStates: f.CookStates}
	for _, c := range f.Components {
		d.Components = append(d.Components, c.def())
	}
	return d
}

func (c componentFile) def() domain.ComponentDef {
	if c.Type != "" {
		return domain.Ing(c.Type, c.CookStates...)
	}
	return foodFile{Components: c.Components, CookStates: c.CookStates}.def()
}
