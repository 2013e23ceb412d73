// Package station implements the fixed work stations of a kitchen.
//
// Every station runs the same small state machine (idle, working, done,
// danger, fire). What a particular kind accepts, when it starts working and
// what finishing does is looked up in a per-kind hook table.
//
// Stations are driven by the kitchen tick and are not safe for concurrent
// use.
package station

import (
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/cook"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// Kind selects a station's behaviour.
type Kind int

const (
	Counter Kind = iota
	Cutting
	Boiling
	Washing
	Delivery
	Trash
	Source
	PlateRack
)

// String returns a human-readable kind.
func (k Kind) String() string {
	switch k {
	case Counter:
		return "counter"
	case Cutting:
		return "cutting"
	case Boiling:
		return "boiling"
	case Washing:
		return "washing"
	case Delivery:
		return "delivery"
	case Trash:
		return "trash"
	case Source:
		return "source"
	case PlateRack:
		return "plate-rack"
	default:
		return "unknown"
	}
}

// Status is the work state of a station.
type Status int

const (
	Idle Status = iota
	Working
	Done
	Danger
	Fire
)

// String returns a human-readable status.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Working:
		return "working"
	case Done:
		return "done"
	case Danger:
		return "danger"
	case Fire:
		return "fire"
	default:
		return "unknown"
	}
}

// Station is one work station.
type Station struct {
	ID      string
	Kind    Kind
	Pos     domain.Vec
	Subtype string

	CanPlace     bool
	CanPick      bool
	CanCatchFire bool

	// WorkSpeed is progress gained per millisecond while working.
	WorkSpeed float64

	env       *Env
	slot      *food.Slot
	status    Status
	progress  float64
	heat      time.Duration
	indicator domain.EffectID
	warning   domain.EffectID

	queued      int
	unsubscribe func()
}

// Option configures a station.
type Option func(*Station)

// WithSubtype sets the ingredient a source hands out or the cook state a
// stove applies.
func WithSubtype(subtype string) Option {
	return func(s *Station) { s.Subtype = subtype }
}

// Fireproof stops the station from ever catching fire.
func Fireproof() Option {
	return func(s *Station) { s.CanCatchFire = false }
}

// New creates a station of the given kind at pos.
func New(id string, kind Kind, pos domain.Vec, env *Env, opts ...Option) *Station {
	if env.Log == nil {
		env.Log = logger.New(logger.LevelOff, nil)
	}
	s := &Station{
		ID:   id,
		Kind: kind,
		Pos:  pos,
		env:  env,
	}
	s.slot = food.NewSlot(s)

	switch kind {
	case Counter:
		s.CanPlace, s.CanPick, s.CanCatchFire = true, true, true
	case Cutting:
		s.CanPlace, s.CanPick, s.CanCatchFire = true, true, true
		s.Subtype = cook.Cut
	case Boiling:
		s.CanPlace, s.CanPick, s.CanCatchFire = true, true, true
		s.Subtype = cook.Boil
	case Washing:
		s.CanPlace, s.CanPick = true, true
	case Delivery:
		s.CanPlace = true
	case Trash:
		s.CanPlace, s.CanPick = true, true
	case Source:
	case PlateRack:
		s.CanPick = true
	}

	for _, opt := range opts {
		opt(s)
	}

	switch kind {
	case Cutting, Boiling:
		s.WorkSpeed = env.Tuning.WorkSpeed(s.Subtype)
	case Washing:
		if ms := env.Tuning.WashDuration.Milliseconds(); ms > 0 {
			s.WorkSpeed = 100 / float64(ms)
		}
	}

	if h := table[kind]; h.attach != nil {
		h.attach(s)
	}
	return s
}

// HolderID implements food.Holder.
func (s *Station) HolderID() string { return s.ID }

// Status returns the work state.
func (s *Station) Status() Status { return s.status }

// Burning reports whether the station is on fire.
func (s *Station) Burning() bool { return s.status == Fire }

// Item returns the held item, or nil.
func (s *Station) Item() food.Item { return s.slot.Item() }

// Empty reports whether the station holds nothing.
func (s *Station) Empty() bool { return s.slot.Empty() }

// Queued returns how many plates a rack is still owed.
func (s *Station) Queued() int { return s.queued }

// Progress returns the work progress, 0 to 100. Cutting boards and stoves
// keep it on the held item so it travels with the food.
func (s *Station) Progress() float64 {
	if s.progressOnItem() {
		return s.slot.Item().Progress()
	}
	return s.progress
}

// SetProgress sets the work progress, clamped to [0,100].
func (s *Station) SetProgress(p float64) {
	if s.progressOnItem() {
		s.slot.Item().SetProgress(p)
		return
	}
	s.progress = min(max(p, 0), 100)
}

func (s *Station) progressOnItem() bool {
	return (s.Kind == Cutting || s.Kind == Boiling) && !s.slot.Empty()
}

// Update advances the state machine by delta.
func (s *Station) Update(delta time.Duration) {
	h := table[s.Kind]

	switch s.status {
	case Idle:
		s.SetProgress(0)
		s.hideIndicator()
		if h.ready != nil && !s.slot.Empty() && h.ready(s) {
			s.status = Working
			s.indicator = s.env.show(domain.EffectProgress, s.Pos, s.Subtype)
			if h.start != nil {
				h.start(s)
			}
		}

	case Working:
		if s.slot.Empty() {
			s.reset()
			return
		}
		ms := float64(delta) / float64(time.Millisecond)
		s.SetProgress(s.Progress() + ms*s.WorkSpeed)
		if s.Progress() >= 100 {
			s.status = Done
			s.env.Log.Debug("station %s done (%s)", s.ID, s.Kind)
		}

	case Done:
		if s.slot.Empty() {
			s.reset()
			return
		}
		if h.done != nil {
			h.done(s)
		}
		if h.overheat != nil {
			h.overheat(s, delta)
		}

	case Danger:
		if h.overheat != nil {
			h.overheat(s, delta)
		}

	case Fire:
	}
}

// PlaceItem puts it on the station. It fails when the station takes no
// items, is occupied or burning, the item already sits on a station, or the
// kind refuses it. A successful placement grounds the item and snaps it to
// the station.
func (s *Station) PlaceItem(it food.Item) bool {
	if it == nil || !s.CanPlace || !s.slot.Empty() || s.status == Fire {
		return false
	}
	if _, onStation := it.HeldBy().(*Station); onStation {
		return false
	}
	h := table[s.Kind]
	if h.accept != nil && !h.accept(s, it) {
		return false
	}

	inFlight := it.Flying()
	it.Release()
	if !s.slot.Put(it) {
		return false
	}
	it.SetFlying(false)
	it.SetMoving(false)
	it.SetPos(s.Pos)

	s.env.Log.Debug("station %s: item placed (in flight=%v)", s.ID, inFlight)
	if h.placed != nil {
		h.placed(s, it, inFlight)
	}
	return true
}

// TakeItem hands the held item over without destroying it and returns the
// station to idle.
func (s *Station) TakeItem() food.Item {
	if !s.CanPick || s.status == Fire {
		return nil
	}
	it := s.slot.Take()
	if it == nil {
		return nil
	}
	s.reset()
	if h := table[s.Kind]; h.taken != nil {
		h.taken(s)
	}
	return it
}

// RemoveItem destroys the held item.
func (s *Station) RemoveItem() {
	if it := s.slot.Take(); it != nil {
		it.Destroy()
	}
	if s.status != Fire {
		s.reset()
	}
}

// Dispense gives an empty-handed agent something from a source or rack.
// It returns the dispensed item, or nil.
func (s *Station) Dispense(hand *food.Slot) food.Item {
	if !hand.Empty() || s.status == Fire {
		return nil
	}
	switch s.Kind {
	case Source:
		return s.dispenseIngredient(hand)
	case PlateRack:
		it := s.slot.Take()
		if it == nil {
			return nil
		}
		hand.Put(it)
		if h := table[s.Kind]; h.taken != nil {
			h.taken(s)
		}
		return it
	default:
		return nil
	}
}

// Ignite puts the station on fire. Only the hazard manager calls it.
func (s *Station) Ignite() {
	s.hideIndicator()
	s.env.hide(s.warning)
	s.warning = 0
	s.status = Fire
}

// Extinguish returns a burning station to idle. Only the hazard manager
// calls it.
func (s *Station) Extinguish() {
	if s.status == Fire {
		s.reset()
	}
}

// Close detaches the station from the event bus.
func (s *Station) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Station) reset() {
	s.status = Idle
	s.progress = 0
	s.heat = 0
	s.hideIndicator()
	s.env.hide(s.warning)
	s.warning = 0
}

func (s *Station) hideIndicator() {
	s.env.hide(s.indicator)
	s.indicator = 0
}
