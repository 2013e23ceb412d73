package kitchen

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottokitchen/internal/config"
	"github.com/hammamikhairi/ottokitchen/internal/cook"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/present"
	"github.com/hammamikhairi/ottokitchen/internal/station"
)

// Grid used by most tests. With 64px tiles, p1 stands at (96,96) and can
// reach every cell of the left three columns.
var testLevel = config.Level{
	ID:      "test",
	Name:    "Test Kitchen",
	Sources: map[string]string{"t": "tomato"},
	Layout: []string{
		"CS#D",
		"t1.R",
		"P..T",
	},
}

var tomatoSoup = &domain.Recipe{
	ID:         "tomato-soup",
	Name:       "Tomato Soup",
	Target:     domain.Dish(domain.Ing("tomato", cook.Cut, cook.Boil)),
	Difficulty: 1,
	BaseScore:  60,
}

func cell(col, row int) domain.Vec { return TileCentre(col, row, 64) }

func newTestWorld(t *testing.T) (*World, *present.Recorder) {
	t.Helper()
	rec := present.NewRecorder()
	w, err := New(config.Default(), testLevel, []*domain.Recipe{tomatoSoup},
		WithSeed(1), WithPresenter(rec))
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return w, rec
}

func act(typ domain.ActionType, target domain.Vec) domain.Action {
	return domain.Action{Type: typ, AgentID: "p1", Target: target}
}

func mustApply(t *testing.T, w *World, a domain.Action) {
	t.Helper()
	require.NoError(t, w.Apply(a), "%v at %v", a.Type, a.Target)
}

func TestBuildFromLayout(t *testing.T) {
	w, _ := newTestWorld(t)

	assert.Len(t, w.Stations(), 8)
	require.Len(t, w.Agents(), 1)
	assert.Equal(t, cell(1, 1), w.Agent("p1").Pos)

	stove := w.StationAt(cell(1, 0).X, cell(1, 0).Y)
	require.NotNil(t, stove)
	assert.Equal(t, station.Boiling, stove.Kind)
	pot, ok := stove.Item().(*food.Container)
	require.True(t, ok)
	assert.Equal(t, food.Pot, pot.Kind)

	plate, ok := w.Station("counter-0-2").Item().(*food.Container)
	require.True(t, ok)
	assert.Equal(t, food.Plate, plate.Kind)

	src := w.Station("src-tomato-0-1")
	require.NotNil(t, src)
	assert.Equal(t, "tomato", src.Subtype)

	assert.Len(t, w.Items(), 2)
	assert.Len(t, w.Orders().Pending(), 1)
}

func TestBuildRejectsBadLayouts(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
	}{
		{"unknown glyph", []string{"1?"}},
		{"unmapped source", []string{"1x"}},
		{"no spawn", []string{"#C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := config.Level{ID: "bad", Layout: tt.layout}
			_, err := New(config.Default(), lvl, nil)
			assert.True(t, errors.Is(err, domain.ErrInvalidLayout), "got %v", err)
		})
	}
}

func TestSoupRoundTrip(t *testing.T) {
	w, rec := newTestWorld(t)
	p1 := w.Agent("p1")

	mustApply(t, w, act(domain.ActionPickUp, cell(0, 1)))
	tomato, ok := p1.Holding().(*food.Ingredient)
	require.True(t, ok)
	assert.Equal(t, "tomato", tomato.Type)

	mustApply(t, w, act(domain.ActionPlace, cell(0, 0)))
	assert.Nil(t, p1.Holding())
	w.Tick(0)
	w.Tick(2 * time.Second)
	w.Tick(0)
	assert.Equal(t, []string{cook.Cut}, tomato.CookStates())

	mustApply(t, w, act(domain.ActionPickUp, cell(0, 0)))
	mustApply(t, w, act(domain.ActionPlace, cell(1, 0)))
	assert.Nil(t, p1.Holding(), "tomato went into the pot")

	w.Tick(0)
	w.Tick(5 * time.Second)
	w.Tick(0)
	assert.Equal(t, []string{cook.Cut, cook.Boil}, tomato.CookStates())

	mustApply(t, w, act(domain.ActionPickUp, cell(0, 2)))
	mustApply(t, w, act(domain.ActionPlace, cell(1, 0)))
	plate := p1.Holding().(*food.Container)
	require.False(t, plate.Empty(), "soup served onto the plate")

	mustApply(t, w, act(domain.ActionThrow, cell(3, 0)))
	assert.True(t, plate.Flying())
	assert.Equal(t, "p1", plate.Thrower)

	w.Tick(w.cfg.FlightTime())
	assert.True(t, plate.Destroyed())
	assert.Greater(t, w.Score(), 100)
	o, ok := w.Orders().Get(1)
	require.True(t, ok)
	assert.Equal(t, domain.OrderCompleted, o.Status)
	assert.Equal(t, 1, rec.Count(domain.EffectScore))

	rack := w.StationAt(cell(3, 1).X, cell(3, 1).Y)
	assert.True(t, rack.Empty())
	w.Tick(3 * time.Second)
	dirty, ok := rack.Item().(*food.Container)
	require.True(t, ok, "dirty plate returned to the rack")
	assert.True(t, dirty.Dirty)
}

func TestWrongDishIsPenalised(t *testing.T) {
	w, _ := newTestWorld(t)

	mustApply(t, w, act(domain.ActionPickUp, cell(0, 1)))
	mustApply(t, w, act(domain.ActionPlace, cell(2, 0)))
	mustApply(t, w, act(domain.ActionPickUp, cell(0, 2)))
	mustApply(t, w, act(domain.ActionPlace, cell(2, 0)))
	plate := w.Agent("p1").Holding().(*food.Container)
	require.Len(t, plate.Contents().Components(), 1, "raw tomato scooped up from the counter")

	mustApply(t, w, act(domain.ActionThrow, cell(3, 0)))
	w.Tick(w.cfg.FlightTime())
	assert.Equal(t, -60, w.Score())
}

func TestThrowMissLandsOnFloor(t *testing.T) {
	w, _ := newTestWorld(t)
	p1 := w.Agent("p1")

	mustApply(t, w, act(domain.ActionPickUp, cell(0, 1)))
	tomato := p1.Holding()
	mustApply(t, w, act(domain.ActionThrow, cell(2, 1)))
	assert.Empty(t, w.LooseItems(), "still in the air")

	w.Tick(w.cfg.FlightTime())
	assert.False(t, tomato.Flying())
	assert.Equal(t, cell(2, 1), tomato.Pos())
	require.Equal(t, []food.Item{tomato}, w.LooseItems())

	mustApply(t, w, act(domain.ActionPickUp, cell(2, 1)))
	assert.Same(t, tomato, p1.Holding())
	assert.Empty(t, w.LooseItems())
}

func TestCombineIngredientsOnCounter(t *testing.T) {
	w, _ := newTestWorld(t)
	counter := w.StationAt(cell(2, 0).X, cell(2, 0).Y)

	mustApply(t, w, act(domain.ActionPickUp, cell(0, 1)))
	mustApply(t, w, act(domain.ActionPlace, cell(2, 0)))
	mustApply(t, w, act(domain.ActionPickUp, cell(0, 1)))
	mustApply(t, w, act(domain.ActionPlace, cell(2, 0)))

	dish, ok := counter.Item().(*food.Food)
	require.True(t, ok)
	assert.Len(t, dish.Flatten(), 2)
	assert.Same(t, counter, dish.HeldBy())
	assert.Empty(t, w.LooseItems())
}

func TestApplyRefusals(t *testing.T) {
	w, _ := newTestWorld(t)

	err := w.Apply(domain.Action{Type: domain.ActionMove, AgentID: "p9"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = w.Apply(domain.Action{Type: domain.ActionUnknown, AgentID: "p1"})
	assert.True(t, errors.Is(err, domain.ErrUnknownAction))

	tests := []struct {
		name string
		a    domain.Action
	}{
		{"pickup out of reach", act(domain.ActionPickUp, cell(3, 1))},
		{"pickup empty counter", act(domain.ActionPickUp, cell(2, 0))},
		{"place empty hand", act(domain.ActionPlace, cell(2, 0))},
		{"throw empty hand", act(domain.ActionThrow, cell(3, 0))},
		{"interact counter", act(domain.ActionInteract, cell(2, 0))},
		{"extinguish cold stove", act(domain.ActionExtinguish, cell(1, 0))},
		{"face nowhere", act(domain.ActionFace, domain.Vec{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(w.Apply(tt.a), domain.ErrRefused))
		})
	}

	mustApply(t, w, act(domain.ActionPickUp, cell(0, 1)))
	assert.True(t, errors.Is(w.Apply(act(domain.ActionPickUp, cell(0, 1))), domain.ErrRefused), "hand full")
	assert.True(t, errors.Is(w.Apply(act(domain.ActionPlace, cell(0, 1))), domain.ErrRefused), "sources take nothing back")
}

func TestOrdersArriveOnInterval(t *testing.T) {
	w, _ := newTestWorld(t)
	require.Len(t, w.Orders().Pending(), 1)

	w.Tick(w.cfg.Orders.Interval())
	assert.Len(t, w.Orders().Pending(), 2)
}

func TestOverheatedPotBurnsAndIsPutOut(t *testing.T) {
	w, rec := newTestWorld(t)
	stove := w.StationAt(cell(1, 0).X, cell(1, 0).Y)

	mustApply(t, w, act(domain.ActionPickUp, cell(0, 1)))
	mustApply(t, w, act(domain.ActionPlace, cell(0, 0)))
	w.Tick(0)
	w.Tick(2 * time.Second)
	w.Tick(0)
	mustApply(t, w, act(domain.ActionPickUp, cell(0, 0)))
	mustApply(t, w, act(domain.ActionPlace, cell(1, 0)))

	w.Tick(0)
	w.Tick(5 * time.Second)
	for range 8 {
		w.Tick(time.Second)
	}
	require.True(t, stove.Burning())
	assert.True(t, w.Fire().IsBurning(stove))
	assert.Equal(t, 1, rec.Count(domain.EffectIgnite))

	a := act(domain.ActionExtinguish, cell(1, 0))
	a.Dir = domain.Vec{Y: -1}
	a.Delta = time.Second
	mustApply(t, w, a)
	assert.True(t, stove.Burning())
	mustApply(t, w, a)
	assert.False(t, stove.Burning())
	assert.Empty(t, w.Fire().Burning())
}
