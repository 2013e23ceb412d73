// Package orders runs the timed order lifecycle: generation from a recipe
// pool, tip decay, expiry, completion scoring and delivery validation.
//
// A Manager is driven by the kitchen tick and is not safe for concurrent use.
package orders

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
	"github.com/hammamikhairi/ottokitchen/internal/match"
)

const (
	defaultMaxOrders     = 4
	defaultBaseTimeLimit = 60 * time.Second
)

// Manager owns the orders of one kitchen.
type Manager struct {
	clock         domain.Clock
	rng           *rand.Rand
	log           *logger.Logger
	maxOrders     int
	baseTimeLimit time.Duration

	pool   []*domain.Recipe
	orders []*domain.Order
	nextID int
}

// Option configures the Manager.
type Option func(*Manager)

// WithMaxOrders caps the number of pending orders.
func WithMaxOrders(n int) Option {
	return func(m *Manager) { m.maxOrders = n }
}

// WithBaseTimeLimit sets the time limit of a difficulty-1 recipe.
func WithBaseTimeLimit(d time.Duration) Option {
	return func(m *Manager) { m.baseTimeLimit = d }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New creates an order manager. rng drives recipe sampling.
func New(clock domain.Clock, rng *rand.Rand, opts ...Option) *Manager {
	m := &Manager{
		clock:         clock,
		rng:           rng,
		log:           logger.New(logger.LevelOff, nil),
		maxOrders:     defaultMaxOrders,
		baseTimeLimit: defaultBaseTimeLimit,
		nextID:        1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetRecipePool replaces the recipes new orders are drawn from.
func (m *Manager) SetRecipePool(recipes []*domain.Recipe) {
	m.pool = append([]*domain.Recipe(nil), recipes...)
}

// AddRecipes appends recipes to the pool.
func (m *Manager) AddRecipes(recipes ...*domain.Recipe) {
	m.pool = append(m.pool, recipes...)
}

// GenerateOrder creates a pending order for recipe, or for a uniformly
// sampled pool recipe when recipe is nil. It returns false when the pending
// cap is reached or there is nothing to sample.
func (m *Manager) GenerateOrder(recipe *domain.Recipe) (*domain.Order, bool) {
	if len(m.Pending()) >= m.maxOrders {
		return nil, false
	}
	if recipe == nil {
		if len(m.pool) == 0 {
			return nil, false
		}
		recipe = m.pool[m.rng.IntN(len(m.pool))]
	}

	o := &domain.Order{
		ID:            m.nextID,
		Recipe:        recipe,
		CreatedAt:     m.clock.Now(),
		TimeLimit:     m.timeLimit(recipe.Difficulty),
		TipMultiplier: 1.0,
		Status:        domain.OrderPending,
	}
	m.nextID++
	m.orders = append(m.orders, o)

	m.log.Debug("order %d created: %s (limit %s)", o.ID, recipe.Name, o.TimeLimit)
	return o, true
}

func (m *Manager) timeLimit(difficulty int) time.Duration {
	scale := 1 + float64(difficulty-1)*0.3
	return time.Duration(math.Round(float64(m.baseTimeLimit) * scale))
}

// Update expires overdue orders and refreshes the tip of the rest. It returns
// the orders that expired during this call.
func (m *Manager) Update() []*domain.Order {
	now := m.clock.Now()
	var expired []*domain.Order
	for _, o := range m.orders {
		if o.Status != domain.OrderPending {
			continue
		}
		elapsed := now.Sub(o.CreatedAt)
		if elapsed >= o.TimeLimit {
			o.Status = domain.OrderExpired
			expired = append(expired, o)
			m.log.Info("order %d expired: %s", o.ID, o.Recipe.Name)
			continue
		}
		o.TipMultiplier = 1 + (1-float64(elapsed)/float64(o.TimeLimit))*0.5
	}
	return expired
}

// CompleteOrder marks a pending order completed and returns its score. The
// time bonus is computed from the clock now, not from the last Update.
// Unknown or terminal orders score 0.
func (m *Manager) CompleteOrder(id int) int {
	o := m.find(id)
	if o == nil || o.Status != domain.OrderPending {
		return 0
	}
	o.Status = domain.OrderCompleted

	elapsed := m.clock.Now().Sub(o.CreatedAt)
	left := max(0, float64(o.TimeLimit-elapsed)/float64(o.TimeLimit))
	score := int(math.Round(float64(o.Recipe.BaseScore) * (1 + left*0.5)))

	m.log.Info("order %d completed: %s (+%d)", o.ID, o.Recipe.Name, score)
	return score
}

// CancelOrder fails a pending order.
func (m *Manager) CancelOrder(id int) bool {
	o := m.find(id)
	if o == nil || o.Status != domain.OrderPending {
		return false
	}
	o.Status = domain.OrderFailed
	m.log.Debug("order %d cancelled", o.ID)
	return true
}

// ValidateDelivery returns the oldest pending order whose recipe the dish
// matches, or nil.
func (m *Manager) ValidateDelivery(f *food.Food) *domain.Order {
	for _, o := range m.orders {
		if o.Status == domain.OrderPending && match.Matches(f, o.Recipe.Target) {
			return o
		}
	}
	return nil
}

// ClearOldOrders drops terminal orders created more than maxAge ago.
func (m *Manager) ClearOldOrders(maxAge time.Duration) {
	now := m.clock.Now()
	kept := m.orders[:0]
	for _, o := range m.orders {
		if o.Status != domain.OrderPending && now.Sub(o.CreatedAt) > maxAge {
			continue
		}
		kept = append(kept, o)
	}
	clear(m.orders[len(kept):])
	m.orders = kept
}

// Reset drops every order and restarts ids at 1. The pool is kept.
func (m *Manager) Reset() {
	m.orders = nil
	m.nextID = 1
}

// Orders returns every tracked order in creation order.
func (m *Manager) Orders() []*domain.Order {
	return append([]*domain.Order(nil), m.orders...)
}

// Pending returns the pending orders in creation order.
func (m *Manager) Pending() []*domain.Order {
	var out []*domain.Order
	for _, o := range m.orders {
		if o.Status == domain.OrderPending {
			out = append(out, o)
		}
	}
	return out
}

// Get returns the order with id.
func (m *Manager) Get(id int) (*domain.Order, bool) {
	o := m.find(id)
	return o, o != nil
}

func (m *Manager) find(id int) *domain.Order {
	for _, o := range m.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}
