// Package kitchen is the session-scoped world of one round: the stations
// built from a level layout, the agents, every live item, and the hazard and
// order managers, all ticked together against one simulated clock.
package kitchen

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/config"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/events"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/hazard"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
	"github.com/hammamikhairi/ottokitchen/internal/orders"
	"github.com/hammamikhairi/ottokitchen/internal/present"
	"github.com/hammamikhairi/ottokitchen/internal/station"
	"github.com/hammamikhairi/ottokitchen/internal/timer"
)

// Compile-time interface checks.
var (
	_ domain.Simulation = (*World)(nil)
	_ domain.ScoreSink  = (*World)(nil)
	_ station.Roster    = (*World)(nil)
	_ hazard.Locator    = (*World)(nil)
)

// World is one running kitchen. Not safe for concurrent use.
type World struct {
	cfg   config.Config
	level config.Level

	clock     *timer.SimClock
	bus       *events.Bus
	presenter domain.Presenter
	journal   domain.Journal
	log       *logger.Logger
	rng       *rand.Rand

	env    *station.Env
	fire   *hazard.Manager
	orders *orders.Manager

	stations   []*station.Station
	byPos      map[domain.Vec]*station.Station
	byID       map[string]*station.Station
	agents     map[string]*Agent
	agentOrder []string
	items      []food.Item

	score   int
	elapsed time.Duration
}

// Option configures a World.
type Option func(*World)

// WithPresenter sets where transient feedback goes.
func WithPresenter(p domain.Presenter) Option {
	return func(w *World) { w.presenter = p }
}

// WithJournal records notable events.
func WithJournal(j domain.Journal) Option {
	return func(w *World) { w.journal = j }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithSeed fixes the random source used for order sampling.
func WithSeed(seed uint64) Option {
	return func(w *World) { w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

type nopJournal struct{}

func (nopJournal) Record(string, map[string]any) {}

// New builds a kitchen for level. recipes is the order pool.
func New(cfg config.Config, level config.Level, recipes []*domain.Recipe, opts ...Option) (*World, error) {
	w := &World{
		cfg:       cfg,
		level:     level,
		clock:     timer.NewSimClock(time.Time{}),
		presenter: present.Nop{},
		journal:   nopJournal{},
		log:       logger.New(logger.LevelOff, nil),
		byPos:     make(map[domain.Vec]*station.Station),
		byID:      make(map[string]*station.Station),
		agents:    make(map[string]*Agent),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		WithSeed(uint64(time.Now().UnixNano()))(w)
	}

	w.bus = events.NewBus(w.log)
	w.fire = hazard.NewManager(w, w.presenter, w.log,
		hazard.WithTileSize(cfg.TileSize),
		hazard.WithSpreadInterval(cfg.Fire.SpreadInterval()),
		hazard.WithExtinguishThreshold(cfg.Fire.ExtinguishAfter()),
		hazard.WithJournal(w.journal),
	)
	w.orders = orders.New(w.clock, w.rng,
		orders.WithMaxOrders(cfg.Orders.MaxOrders),
		orders.WithBaseTimeLimit(cfg.Orders.BaseTimeLimit()),
		orders.WithLogger(w.log),
	)
	w.orders.SetRecipePool(recipes)

	w.env = &station.Env{
		Scheduler: w.clock,
		Bus:       w.bus,
		Presenter: w.presenter,
		Score:     w,
		Igniter:   w.fire,
		Orders:    w.orders,
		Roster:    w,
		Journal:   w.journal,
		Log:       w.log,
		Tuning:    cfg.StationTuning(),
	}

	if err := w.build(); err != nil {
		return nil, err
	}

	w.spawnOrder()
	w.log.Info("kitchen %s ready: %d stations, %d agents, %d recipes",
		level.ID, len(w.stations), len(w.agents), len(recipes))
	return w, nil
}

// spawnOrder adds an order and schedules the next one.
func (w *World) spawnOrder() {
	if o, ok := w.orders.GenerateOrder(nil); ok {
		w.journal.Record("order", map[string]any{"id": o.ID, "recipe": o.Recipe.ID, "limit_ms": o.TimeLimit.Milliseconds()})
	}
	if iv := w.cfg.Orders.Interval(); iv > 0 {
		w.clock.ScheduleAfter(iv, w.spawnOrder)
	}
}

// Tick advances the world by delta: deferred callbacks first, then
// stations, fires and orders, then destroyed items are forgotten.
func (w *World) Tick(delta time.Duration) {
	w.elapsed += delta
	w.clock.Advance(delta)

	for _, s := range w.stations {
		s.Update(delta)
	}

	w.fire.Update(delta)

	for _, o := range w.orders.Update() {
		w.journal.Record("expired", map[string]any{"id": o.ID, "recipe": o.Recipe.ID})
	}
	w.orders.ClearOldOrders(w.cfg.Orders.ClearAfter())

	w.items = slices.DeleteFunc(w.items, func(it food.Item) bool { return it.Destroyed() })
}

// AddScore implements domain.ScoreSink.
func (w *World) AddScore(delta int, reason string) {
	w.score += delta
	w.journal.Record("score", map[string]any{"delta": delta, "reason": reason, "total": w.score})
}

// Score returns the running score.
func (w *World) Score() int { return w.score }

// Register implements station.Roster.
func (w *World) Register(it food.Item) {
	w.items = append(w.items, it)
}

// StationAt returns the station at exactly (x, y), or nil.
func (w *World) StationAt(x, y float64) *station.Station {
	return w.byPos[domain.Vec{X: x, Y: y}]
}

// Station returns the station with id, or nil.
func (w *World) Station(id string) *station.Station { return w.byID[id] }

// Stations returns every station in layout order.
func (w *World) Stations() []*station.Station { return slices.Clone(w.stations) }

// Agent returns the agent with id, or nil.
func (w *World) Agent(id string) *Agent { return w.agents[id] }

// Agents returns the agents ordered by id.
func (w *World) Agents() []*Agent {
	out := make([]*Agent, 0, len(w.agentOrder))
	for _, id := range w.agentOrder {
		out = append(out, w.agents[id])
	}
	return out
}

// Items returns every live item.
func (w *World) Items() []food.Item { return slices.Clone(w.items) }

// LooseItems returns items lying on the floor.
func (w *World) LooseItems() []food.Item {
	var out []food.Item
	for _, it := range w.items {
		if it.HeldBy() == nil && !it.Flying() && !it.Destroyed() && !w.inContainer(it) {
			out = append(out, it)
		}
	}
	return out
}

// inContainer reports whether it is a component inside some dish. Such
// items have no holder but are not on the floor.
func (w *World) inContainer(it food.Item) bool {
	c, ok := it.(food.Component)
	if !ok {
		return false
	}
	for _, other := range w.items {
		var f *food.Food
		switch v := other.(type) {
		case *food.Container:
			f = v.Contents()
		case *food.Food:
			f = v
		default:
			continue
		}
		if contains(f, c) {
			return true
		}
	}
	return false
}

func contains(f *food.Food, c food.Component) bool {
	for _, sub := range f.Components() {
		if sub == c {
			return true
		}
		if nested, ok := sub.(*food.Food); ok && contains(nested, c) {
			return true
		}
	}
	return false
}

// Orders returns the order manager.
func (w *World) Orders() *orders.Manager { return w.orders }

// Fire returns the hazard manager.
func (w *World) Fire() *hazard.Manager { return w.fire }

// Bus returns the event bus.
func (w *World) Bus() *events.Bus { return w.bus }

// Now returns the simulated time.
func (w *World) Now() time.Time { return w.clock.Now() }

// Elapsed returns how long the world has run.
func (w *World) Elapsed() time.Duration { return w.elapsed }

// Level returns the level the world was built from.
func (w *World) Level() config.Level { return w.level }

// TileSize returns the grid spacing.
func (w *World) TileSize() float64 { return w.cfg.TileSize }

// Close detaches stations from the bus and puts out every fire.
func (w *World) Close() {
	w.fire.ClearAllFires()
	for _, s := range w.stations {
		s.Close()
	}
}

func (w *World) refuse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrRefused, fmt.Sprintf(format, args...))
}
