package hazard

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/events"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
	"github.com/hammamikhairi/ottokitchen/internal/present"
	"github.com/hammamikhairi/ottokitchen/internal/station"
	"github.com/hammamikhairi/ottokitchen/internal/timer"
)

type grid map[domain.Vec]*station.Station

func (g grid) StationAt(x, y float64) *station.Station {
	return g[domain.Vec{X: x, Y: y}]
}

type kitchen struct {
	grid grid
	env  *station.Env
	rec  *present.Recorder
	fire *Manager
}

func newKitchen() *kitchen {
	log := logger.New(logger.LevelOff, nil)
	k := &kitchen{grid: grid{}, rec: present.NewRecorder()}
	k.env = &station.Env{
		Scheduler: timer.NewSimClock(time.Time{}),
		Bus:       events.NewBus(log),
		Presenter: k.rec,
		Log:       log,
		Tuning:    station.DefaultTuning(),
	}
	k.fire = NewManager(k.grid, k.rec, log)
	k.env.Igniter = k.fire
	return k
}

func (k *kitchen) add(id string, col, row int, opts ...station.Option) *station.Station {
	pos := domain.Vec{X: float64(col)*64 + 32, Y: float64(row)*64 + 32}
	s := station.New(id, station.Counter, pos, k.env, opts...)
	k.grid[pos] = s
	return s
}

func TestSpreadABC(t *testing.T) {
	k := newKitchen()
	a := k.add("a", 0, 0)
	b := k.add("b", 1, 0)
	c := k.add("c", 2, 0)

	k.fire.StartFire(a)
	require.True(t, k.fire.IsBurning(a))
	assert.Equal(t, station.Fire, a.Status())

	k.fire.Update(2999 * time.Millisecond)
	assert.False(t, k.fire.IsBurning(b))

	k.fire.Update(time.Millisecond)
	assert.True(t, k.fire.IsBurning(b))
	assert.False(t, k.fire.IsBurning(c), "new fires do not spread in the tick they start")

	k.fire.Update(3 * time.Second)
	assert.True(t, k.fire.IsBurning(c))
	assert.Equal(t, []*station.Station{a, b, c}, k.fire.Burning())
}

func TestSpreadSkipsFireproof(t *testing.T) {
	k := newKitchen()
	a := k.add("a", 1, 1)
	wall := k.add("wall", 2, 1, station.Fireproof())
	below := k.add("below", 1, 2)
	k.add("diagonal", 2, 2)

	k.fire.StartFire(a)
	for range 5 {
		k.fire.Update(3 * time.Second)
	}
	assert.False(t, k.fire.IsBurning(wall))
	assert.Equal(t, station.Idle, wall.Status())
	assert.True(t, k.fire.IsBurning(below))

	k.fire.StartFire(wall)
	assert.False(t, k.fire.IsBurning(wall))
}

func TestStartFireIdempotent(t *testing.T) {
	k := newKitchen()
	a := k.add("a", 0, 0)
	k.fire.StartFire(a)
	k.fire.StartFire(a)
	assert.Len(t, k.fire.Burning(), 1)
	assert.Equal(t, 1, k.rec.Count(domain.EffectIgnite))
}

func TestTryExtinguish(t *testing.T) {
	k := newKitchen()
	s := k.add("a", 3, 0) // centre (224, 32)
	k.fire.StartFire(s)

	from := domain.Vec{X: 160, Y: 32}
	east := domain.Vec{X: 1}
	cone := math.Pi / 2

	assert.False(t, k.fire.TryExtinguish(s, from, 100, cone, east, time.Second))
	assert.Equal(t, time.Second, k.fire.ExtinguishProgress(s))

	// Out of range.
	assert.False(t, k.fire.TryExtinguish(s, domain.Vec{X: 0, Y: 32}, 100, cone, east, time.Second))
	assert.Equal(t, time.Second, k.fire.ExtinguishProgress(s))

	// Out of cone: facing north.
	assert.False(t, k.fire.TryExtinguish(s, from, 100, cone, domain.Vec{Y: -1}, time.Second))
	assert.Equal(t, time.Second, k.fire.ExtinguishProgress(s))

	assert.True(t, k.fire.TryExtinguish(s, from, 100, cone, east, time.Second))
	assert.False(t, k.fire.IsBurning(s))
	assert.Equal(t, station.Idle, s.Status())
	assert.Zero(t, k.fire.ExtinguishProgress(s))
	assert.Zero(t, k.rec.Active(domain.EffectIgnite))
	assert.Equal(t, 1, k.rec.Count(domain.EffectExtinguish))

	assert.False(t, k.fire.TryExtinguish(s, from, 100, cone, east, time.Second), "not burning")
}

func TestTryExtinguishConeEdge(t *testing.T) {
	k := newKitchen()
	s := k.add("a", 1, 1) // centre (96, 96)
	k.fire.StartFire(s)

	from := domain.Vec{X: 32, Y: 96}
	// 40 degrees off, cone of 90 degrees: inside.
	facing := domain.Vec{X: math.Cos(40 * math.Pi / 180), Y: math.Sin(40 * math.Pi / 180)}
	k.fire.TryExtinguish(s, from, 100, math.Pi/2, facing, 500*time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, k.fire.ExtinguishProgress(s))

	// 50 degrees off: outside.
	facing = domain.Vec{X: math.Cos(50 * math.Pi / 180), Y: math.Sin(50 * math.Pi / 180)}
	k.fire.TryExtinguish(s, from, 100, math.Pi/2, facing, 500*time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, k.fire.ExtinguishProgress(s))

	// Wrap-around: facing just under +pi vs bearing just over -pi.
	assert.InDelta(t, 0.2, angleBetween(math.Pi-0.1, -math.Pi+0.1), 1e-9)
}

func TestStopAndClear(t *testing.T) {
	k := newKitchen()
	a := k.add("a", 0, 0)
	b := k.add("b", 5, 5)
	k.fire.StartFire(a)
	k.fire.StartFire(b)
	k.fire.TryExtinguish(a, a.Pos, 10, math.Pi, domain.Vec{X: 1}, time.Second)

	k.fire.StopFire(a)
	assert.False(t, k.fire.IsBurning(a))
	assert.Zero(t, k.fire.ExtinguishProgress(a))
	assert.Equal(t, station.Idle, a.Status())

	k.fire.ClearAllFires()
	assert.Empty(t, k.fire.Burning())
	assert.Equal(t, station.Idle, b.Status())
	assert.Zero(t, k.rec.Active(domain.EffectIgnite))
}

func TestPotFireSpreads(t *testing.T) {
	k := newKitchen()
	stove := station.New("stove", station.Boiling, domain.Vec{X: 32, Y: 32}, k.env)
	k.grid[stove.Pos] = stove
	next := k.add("next", 1, 0)

	k.fire.StartFire(stove)
	k.fire.Update(3 * time.Second)
	assert.True(t, k.fire.IsBurning(next))
}
