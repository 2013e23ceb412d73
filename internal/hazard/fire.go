// Package hazard simulates kitchen fires: ignition, spread to orthogonal
// neighbours on a fixed interval, and extinguishing by sustained, aimed
// spraying.
package hazard

import (
	"math"
	"slices"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
	"github.com/hammamikhairi/ottokitchen/internal/station"
)

// Compile-time interface check.
var _ station.Igniter = (*Manager)(nil)

const (
	defaultTileSize        = 64
	defaultSpreadInterval  = 3 * time.Second
	defaultExtinguishAfter = 2 * time.Second
)

// Locator finds the station sitting exactly at a position.
type Locator interface {
	StationAt(x, y float64) *station.Station
}

// Manager tracks every burning station of one kitchen.
type Manager struct {
	locator   Locator
	presenter domain.Presenter
	journal   domain.Journal
	log       *logger.Logger

	tileSize        float64
	spreadInterval  time.Duration
	extinguishAfter time.Duration

	// burning holds stations in ignition order so spread is deterministic.
	burning    []*station.Station
	elapsed    map[*station.Station]time.Duration
	extinguish map[*station.Station]time.Duration
	effects    map[*station.Station]domain.EffectID
}

// Option configures the Manager.
type Option func(*Manager)

// WithTileSize sets the grid spacing used to find neighbours.
func WithTileSize(size float64) Option {
	return func(m *Manager) { m.tileSize = size }
}

// WithSpreadInterval sets how long a fire burns before spreading.
func WithSpreadInterval(d time.Duration) Option {
	return func(m *Manager) { m.spreadInterval = d }
}

// WithExtinguishThreshold sets how much spraying puts a fire out.
func WithExtinguishThreshold(d time.Duration) Option {
	return func(m *Manager) { m.extinguishAfter = d }
}

// WithJournal records ignitions and extinguished fires.
func WithJournal(j domain.Journal) Option {
	return func(m *Manager) { m.journal = j }
}

// NewManager creates a hazard manager.
func NewManager(locator Locator, presenter domain.Presenter, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		locator:         locator,
		presenter:       presenter,
		log:             log.Named("fire"),
		tileSize:        defaultTileSize,
		spreadInterval:  defaultSpreadInterval,
		extinguishAfter: defaultExtinguishAfter,
		elapsed:         make(map[*station.Station]time.Duration),
		extinguish:      make(map[*station.Station]time.Duration),
		effects:         make(map[*station.Station]domain.EffectID),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartFire ignites s unless it cannot burn or already does.
func (m *Manager) StartFire(s *station.Station) {
	if s == nil || !s.CanCatchFire || m.IsBurning(s) {
		return
	}
	s.Ignite()
	m.burning = append(m.burning, s)
	m.elapsed[s] = 0
	m.effects[s] = m.presenter.Show(domain.Effect{Kind: domain.EffectIgnite, At: s.Pos})

	m.log.Warn("fire at %s (%s)", s.ID, s.Kind)
	m.record("ignite", s)
}

// IsBurning reports whether s is on fire.
func (m *Manager) IsBurning(s *station.Station) bool {
	_, ok := m.elapsed[s]
	return ok
}

// Burning returns the burning stations in ignition order.
func (m *Manager) Burning() []*station.Station {
	return slices.Clone(m.burning)
}

// Update advances every fire by delta. A fire that reaches the spread
// interval restarts its timer and ignites its four grid neighbours. Only
// stations burning before this call spread.
func (m *Manager) Update(delta time.Duration) {
	snapshot := slices.Clone(m.burning)

	var spreading []*station.Station
	for _, s := range snapshot {
		m.elapsed[s] += delta
		if m.elapsed[s] >= m.spreadInterval {
			m.elapsed[s] = 0
			spreading = append(spreading, s)
		}
	}

	for _, s := range spreading {
		for _, n := range m.neighbours(s) {
			m.StartFire(n)
		}
	}
}

func (m *Manager) neighbours(s *station.Station) []*station.Station {
	offsets := [4]domain.Vec{
		{X: m.tileSize}, {X: -m.tileSize}, {Y: m.tileSize}, {Y: -m.tileSize},
	}
	var out []*station.Station
	for _, off := range offsets {
		p := s.Pos.Add(off)
		if n := m.locator.StationAt(p.X, p.Y); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// TryExtinguish sprays s from position from, facing facing, for delta. It
// fails without touching any progress when s is not burning, is farther than
// reach, or lies outside the spray cone (full angle, radians). Progress
// accumulates across calls; once it reaches the threshold the fire goes out
// and TryExtinguish returns true.
func (m *Manager) TryExtinguish(s *station.Station, from domain.Vec, reach, cone float64, facing domain.Vec, delta time.Duration) bool {
	if !m.IsBurning(s) {
		return false
	}
	to := s.Pos.Sub(from)
	if to.Len() > reach {
		return false
	}
	if to.Len() > 0 && angleBetween(facing.Angle(), to.Angle()) > cone/2 {
		return false
	}

	m.extinguish[s] += delta
	if m.extinguish[s] < m.extinguishAfter {
		return false
	}

	m.log.Info("fire at %s extinguished", s.ID)
	m.presenter.Show(domain.Effect{Kind: domain.EffectExtinguish, At: s.Pos})
	m.record("extinguish", s)
	m.StopFire(s)
	return true
}

// StopFire puts s out immediately, whatever its extinguish progress.
func (m *Manager) StopFire(s *station.Station) {
	if s == nil {
		return
	}
	if id, ok := m.effects[s]; ok {
		m.presenter.Hide(id)
	}
	delete(m.elapsed, s)
	delete(m.extinguish, s)
	delete(m.effects, s)
	m.burning = slices.DeleteFunc(m.burning, func(b *station.Station) bool { return b == s })
	s.Extinguish()
}

// ClearAllFires puts every fire out.
func (m *Manager) ClearAllFires() {
	for _, s := range slices.Clone(m.burning) {
		m.StopFire(s)
	}
}

// ExtinguishProgress returns the accumulated spraying on s.
func (m *Manager) ExtinguishProgress(s *station.Station) time.Duration {
	return m.extinguish[s]
}

func (m *Manager) record(kind string, s *station.Station) {
	if m.journal != nil {
		m.journal.Record(kind, map[string]any{"station": s.ID})
	}
}

// angleBetween returns the absolute difference of two angles, in [0, pi].
func angleBetween(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
