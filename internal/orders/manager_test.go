package orders

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/timer"
)

func salad() *domain.Recipe {
	return &domain.Recipe{
		ID:         "salad",
		Name:       "Salad",
		Target:     domain.Dish(domain.Ing("tomato", "cut"), domain.Ing("lettuce", "cut")),
		Difficulty: 1,
		BaseScore:  100,
	}
}

func soup() *domain.Recipe {
	return &domain.Recipe{
		ID:         "tomato-soup",
		Name:       "Tomato Soup",
		Target:     domain.Dish(domain.Ing("tomato", "cut", "boil")),
		Difficulty: 3,
		BaseScore:  200,
	}
}

func newManager(opts ...Option) (*Manager, *timer.SimClock) {
	clock := timer.NewSimClock(time.Time{})
	return New(clock, rand.New(rand.NewPCG(1, 2)), opts...), clock
}

func TestGenerateOrderRespectsMax(t *testing.T) {
	m, _ := newManager(WithMaxOrders(2))
	m.SetRecipePool([]*domain.Recipe{salad()})

	_, ok := m.GenerateOrder(nil)
	require.True(t, ok)
	_, ok = m.GenerateOrder(nil)
	require.True(t, ok)
	o, ok := m.GenerateOrder(nil)
	assert.False(t, ok)
	assert.Nil(t, o)
	assert.Len(t, m.Pending(), 2)
}

func TestGenerateOrderEmptyPool(t *testing.T) {
	m, _ := newManager()
	_, ok := m.GenerateOrder(nil)
	assert.False(t, ok)

	o, ok := m.GenerateOrder(salad())
	require.True(t, ok)
	assert.Equal(t, "salad", o.Recipe.ID)
}

func TestGenerateOrderFields(t *testing.T) {
	m, clock := newManager()
	clock.Advance(time.Second)

	o, ok := m.GenerateOrder(soup())
	require.True(t, ok)
	assert.Equal(t, 1, o.ID)
	assert.Equal(t, clock.Now(), o.CreatedAt)
	assert.Equal(t, 96*time.Second, o.TimeLimit)
	assert.Equal(t, 1.0, o.TipMultiplier)
	assert.Equal(t, domain.OrderPending, o.Status)
}

func TestIDsIncreaseAndReset(t *testing.T) {
	m, _ := newManager(WithMaxOrders(10))
	last := 0
	for range 5 {
		o, ok := m.GenerateOrder(salad())
		require.True(t, ok)
		assert.Greater(t, o.ID, last)
		last = o.ID
	}

	m.Reset()
	assert.Empty(t, m.Orders())
	o, ok := m.GenerateOrder(salad())
	require.True(t, ok)
	assert.Equal(t, 1, o.ID)
}

func TestUpdateTipAndExpiry(t *testing.T) {
	m, clock := newManager()
	o, _ := m.GenerateOrder(salad())

	clock.Advance(30 * time.Second)
	assert.Empty(t, m.Update())
	assert.InDelta(t, 1.25, o.TipMultiplier, 1e-9)

	clock.Advance(30 * time.Second)
	expired := m.Update()
	require.Len(t, expired, 1)
	assert.Same(t, o, expired[0])
	assert.Equal(t, domain.OrderExpired, o.Status)

	// Expired exactly once.
	clock.Advance(time.Second)
	assert.Empty(t, m.Update())
	assert.Equal(t, domain.OrderExpired, o.Status)
	assert.Zero(t, m.CompleteOrder(o.ID))
}

func TestUpdateNeverExpiresCompleted(t *testing.T) {
	m, clock := newManager()
	o, _ := m.GenerateOrder(salad())
	m.CompleteOrder(o.ID)

	clock.Advance(2 * time.Minute)
	assert.Empty(t, m.Update())
	assert.Equal(t, domain.OrderCompleted, o.Status)
}

func TestCompleteOrderScoring(t *testing.T) {
	m, clock := newManager()
	o, _ := m.GenerateOrder(salad())

	// Score uses the clock at call time, not the last Update.
	clock.Advance(15 * time.Second)
	assert.Equal(t, 138, m.CompleteOrder(o.ID))
	assert.Equal(t, domain.OrderCompleted, o.Status)

	assert.Zero(t, m.CompleteOrder(o.ID), "no double scoring")
	assert.Zero(t, m.CompleteOrder(99))
}

func TestCompleteOrderImmediate(t *testing.T) {
	m, _ := newManager()
	o, _ := m.GenerateOrder(soup())
	assert.Equal(t, 300, m.CompleteOrder(o.ID))
}

func TestCancelOrder(t *testing.T) {
	m, _ := newManager()
	o, _ := m.GenerateOrder(salad())

	assert.True(t, m.CancelOrder(o.ID))
	assert.Equal(t, domain.OrderFailed, o.Status)
	assert.False(t, m.CancelOrder(o.ID))
	assert.False(t, m.CancelOrder(42))
}

func TestValidateDeliveryFirstMatch(t *testing.T) {
	m, _ := newManager()
	first, _ := m.GenerateOrder(soup())
	m.GenerateOrder(salad())
	second, _ := m.GenerateOrder(soup())

	dish := food.NewFood(food.NewIngredient("tomato", food.WithCookStates("cut", "boil")))
	assert.Same(t, first, m.ValidateDelivery(dish))

	m.CompleteOrder(first.ID)
	assert.Same(t, second, m.ValidateDelivery(dish))

	m.CancelOrder(second.ID)
	assert.Nil(t, m.ValidateDelivery(dish))
}

func TestClearOldOrders(t *testing.T) {
	m, clock := newManager()
	done, _ := m.GenerateOrder(salad())
	pending, _ := m.GenerateOrder(salad())
	m.CompleteOrder(done.ID)

	clock.Advance(10 * time.Second)
	m.ClearOldOrders(10 * time.Second)
	assert.Len(t, m.Orders(), 2, "age equal to maxAge is kept")

	clock.Advance(time.Millisecond)
	m.ClearOldOrders(10 * time.Second)
	require.Len(t, m.Orders(), 1)
	assert.Same(t, pending, m.Orders()[0])

	_, ok := m.Get(done.ID)
	assert.False(t, ok)
}

func TestSamplingIsUniform(t *testing.T) {
	m, _ := newManager(WithMaxOrders(1000))
	m.AddRecipes(salad(), soup())

	counts := map[string]int{}
	for range 1000 {
		o, ok := m.GenerateOrder(nil)
		require.True(t, ok)
		counts[o.Recipe.ID]++
	}
	assert.InDelta(t, 500, counts["salad"], 80)
	assert.InDelta(t, 500, counts["tomato-soup"], 80)
}
