package kitchen

import (
	"fmt"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/station"
)

// Apply performs one agent action. Refused actions return an error wrapping
// domain.ErrRefused and leave the world unchanged.
func (w *World) Apply(act domain.Action) error {
	a, ok := w.agents[act.AgentID]
	if !ok {
		return fmt.Errorf("agent %q: %w", act.AgentID, domain.ErrNotFound)
	}

	switch act.Type {
	case domain.ActionMove:
		a.moveTo(act.Target)
		return nil
	case domain.ActionFace:
		if act.Dir.Len() == 0 {
			return w.refuse("no direction")
		}
		a.Facing = act.Dir
		return nil
	case domain.ActionPickUp:
		return w.pickUp(a, act.Target)
	case domain.ActionPlace:
		return w.place(a, act.Target)
	case domain.ActionThrow:
		return w.throw(a, act.Target)
	case domain.ActionInteract:
		return w.interact(a, act.Target)
	case domain.ActionExtinguish:
		return w.extinguish(a, act)
	default:
		return fmt.Errorf("%w: %v", domain.ErrUnknownAction, act.Type)
	}
}

func (w *World) inReach(a *Agent, p domain.Vec) bool {
	return p.Sub(a.Pos).Len() <= w.cfg.PickupRange
}

// pickUp takes what is at target into the agent's empty hand: the item on a
// station, a fresh item from a source or rack, or something on the floor.
func (w *World) pickUp(a *Agent, target domain.Vec) error {
	if !a.hand.Empty() {
		return w.refuse("%s already holds something", a.ID)
	}
	if !w.inReach(a, target) {
		return w.refuse("%s cannot reach %v", a.ID, target)
	}

	var got food.Item
	if s := w.StationAt(target.X, target.Y); s != nil {
		switch s.Kind {
		case station.Source, station.PlateRack:
			got = s.Dispense(a.hand)
		default:
			if it := s.TakeItem(); it != nil {
				if !a.hand.Put(it) {
					s.PlaceItem(it)
				} else {
					got = it
				}
			}
		}
	} else if it := w.floorItemAt(target); it != nil && a.hand.Put(it) {
		got = it
	}

	if got == nil {
		return w.refuse("nothing to pick up at %v", target)
	}
	if c, ok := got.(*food.Container); ok {
		c.Thrower = ""
	}
	got.SetPos(a.Pos)
	return nil
}

func (w *World) floorItemAt(p domain.Vec) food.Item {
	half := w.cfg.TileSize / 2
	for _, it := range w.LooseItems() {
		if it.Pos().Sub(p).Len() <= half {
			return it
		}
	}
	return nil
}

// place puts the held item down at target. On an occupied station the two
// items are combined when their kinds allow it. With no station there the
// item is dropped on the floor.
func (w *World) place(a *Agent, target domain.Vec) error {
	held := a.hand.Item()
	if held == nil {
		return w.refuse("%s holds nothing", a.ID)
	}
	if !w.inReach(a, target) {
		return w.refuse("%s cannot reach %v", a.ID, target)
	}

	s := w.StationAt(target.X, target.Y)
	if s == nil {
		held.Release()
		held.SetPos(target)
		return nil
	}
	if s.Empty() {
		if !s.PlaceItem(held) {
			return w.refuse("%s refuses %T", s.ID, held)
		}
		return nil
	}
	if !w.combine(s, held) {
		return w.refuse("cannot combine %T with %T on %s", held, s.Item(), s.ID)
	}
	return nil
}

// combine merges the held item with the item on s.
func (w *World) combine(s *station.Station, held food.Item) bool {
	if s.Burning() {
		return false
	}
	switch on := s.Item().(type) {
	case *food.Container:
		switch h := held.(type) {
		case food.Component:
			return on.Add(h)
		case *food.Container:
			if !h.Empty() {
				return h.TransferTo(on)
			}
			return on.TransferTo(h)
		}

	case food.Component:
		if h, ok := held.(*food.Container); ok {
			it := s.TakeItem()
			if it == nil {
				return false
			}
			if !h.Add(it.(food.Component)) {
				s.PlaceItem(it)
				return false
			}
			return true
		}
		h, ok := held.(food.Component)
		if !ok || s.Kind != station.Counter {
			return false
		}
		if f, ok := on.(*food.Food); ok {
			f.Add(h)
			return true
		}
		it := s.TakeItem()
		if it == nil {
			return false
		}
		dish := food.NewFood(it.(food.Component), h)
		dish.SetPos(s.Pos)
		w.Register(dish)
		s.PlaceItem(dish)
		return true
	}
	return false
}

// throw launches the held item at target. It lands after the flight time,
// on the station there if it is accepted, otherwise on the floor.
func (w *World) throw(a *Agent, target domain.Vec) error {
	it := a.hand.Take()
	if it == nil {
		return w.refuse("%s holds nothing", a.ID)
	}
	if c, ok := it.(*food.Container); ok {
		c.Thrower = a.ID
	}
	it.SetFlying(true)
	it.SetMoving(true)
	if d := target.Sub(a.Pos); d.Len() > 0 {
		a.Facing = d
	}

	w.clock.ScheduleAfter(w.cfg.FlightTime(), func() {
		if it.Destroyed() || !it.Flying() {
			return
		}
		it.SetPos(target)
		if s := w.StationAt(target.X, target.Y); s != nil && s.PlaceItem(it) {
			return
		}
		it.SetFlying(false)
		it.SetMoving(false)
	})
	return nil
}

// interact uses a station without carrying anything onto it.
func (w *World) interact(a *Agent, target domain.Vec) error {
	if !w.inReach(a, target) {
		return w.refuse("%s cannot reach %v", a.ID, target)
	}
	s := w.StationAt(target.X, target.Y)
	if s == nil {
		return fmt.Errorf("station at %v: %w", target, domain.ErrNotFound)
	}
	if s.Kind != station.Source && s.Kind != station.PlateRack {
		return w.refuse("%s has nothing to use", s.ID)
	}
	if s.Dispense(a.hand) == nil {
		return w.refuse("%s gave nothing", s.ID)
	}
	return nil
}

// extinguish sprays the station at target for act.Delta.
func (w *World) extinguish(a *Agent, act domain.Action) error {
	s := w.StationAt(act.Target.X, act.Target.Y)
	if s == nil {
		return fmt.Errorf("station at %v: %w", act.Target, domain.ErrNotFound)
	}
	if !w.fire.IsBurning(s) {
		return w.refuse("%s is not burning", s.ID)
	}
	facing := a.Facing
	if act.Dir.Len() > 0 {
		facing = act.Dir
		a.Facing = act.Dir
	}
	w.fire.TryExtinguish(s, a.Pos, w.cfg.Fire.ExtinguisherRange, w.cfg.Fire.ExtinguisherCone(), facing, act.Delta)
	return nil
}
