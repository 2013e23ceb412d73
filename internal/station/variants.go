package station

import (
	"fmt"
	"slices"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/cook"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/events"
	"github.com/hammamikhairi/ottokitchen/internal/food"
)

// hooks is the per-kind behaviour the generic state machine calls into.
// Every hook is optional.
type hooks struct {
	attach   func(s *Station)
	accept   func(s *Station, it food.Item) bool
	ready    func(s *Station) bool
	start    func(s *Station)
	done     func(s *Station)
	overheat func(s *Station, delta time.Duration)
	placed   func(s *Station, it food.Item, inFlight bool)
	taken    func(s *Station)
}

var table map[Kind]hooks

func init() {
	table = map[Kind]hooks{
		Counter: {},
		Cutting: {
			accept: acceptFood,
			ready:  cuttingReady,
			done:   cuttingDone,
		},
		Boiling: {
			accept:   acceptCookware,
			ready:    boilingReady,
			start:    boilingStart,
			done:     boilingDone,
			overheat: boilingOverheat,
		},
		Washing: {
			accept: acceptDirty,
			ready:  washingReady,
			done:   washingDone,
		},
		Delivery: {
			accept: acceptDelivery,
			placed: deliver,
		},
		Trash: {
			placed: trash,
		},
		Source: {},
		PlateRack: {
			attach: rackAttach,
			taken:  rackRefill,
		},
	}
}

func heldContainer(s *Station) *food.Container {
	c, _ := s.slot.Item().(*food.Container)
	return c
}

func acceptFood(_ *Station, it food.Item) bool {
	_, ok := it.(food.Component)
	return ok
}

// Cutting

func cuttingReady(s *Station) bool {
	ing, ok := s.slot.Item().(*food.Ingredient)
	return ok && ing.Raw()
}

func cuttingDone(s *Station) {
	ing, ok := s.slot.Item().(*food.Ingredient)
	if !ok || ing.HasCookState(s.Subtype) {
		return
	}
	ing.AddCookState(s.Subtype)
	ing.SetPos(s.Pos)
	s.env.show(domain.EffectSparkle, s.Pos, cook.DisplayName(s.Subtype))
	s.env.record("cooked", map[string]any{"station": s.ID, "item": ing.Type, "state": s.Subtype})
}

// Boiling

func acceptCookware(_ *Station, it food.Item) bool {
	c, ok := it.(*food.Container)
	return ok && c.Kind.Cookware()
}

func boilingReady(s *Station) bool {
	c := heldContainer(s)
	if c == nil || c.Empty() {
		return false
	}
	lead := c.LeadIngredient()
	return lead != nil && lead.LastCookState() == cook.Cut
}

func boilingStart(s *Station) {
	if c := heldContainer(s); c != nil {
		c.Contents().Cooking = true
	}
}

func boilingDone(s *Station) {
	c := heldContainer(s)
	if c == nil {
		return
	}
	lead := c.LeadIngredient()
	if lead == nil || lead.HasCookState(s.Subtype) {
		return
	}
	lead.AddCookState(s.Subtype)
	c.Contents().Cooking = false
	s.env.show(domain.EffectSparkle, s.Pos, cook.DisplayName(s.Subtype))
	s.env.record("cooked", map[string]any{"station": s.ID, "item": lead.Type, "state": s.Subtype})
}

func boilingOverheat(s *Station, delta time.Duration) {
	c := heldContainer(s)
	if c == nil || c.Empty() {
		// Served out of the pot: nothing left to burn.
		s.reset()
		return
	}
	s.heat += delta
	t := s.env.Tuning

	if s.heat >= t.FireAfter {
		if lead := c.LeadIngredient(); lead != nil && !lead.HasCookState(cook.Overcook) {
			lead.AddCookState(cook.Overcook)
			c.CanTransfer = false
			c.Contents().Cooking = false
			s.env.Log.Warn("station %s: %s overcooked", s.ID, lead.Type)
			s.env.record("overcooked", map[string]any{"station": s.ID, "item": lead.Type})
			if s.env.Igniter != nil {
				s.env.Igniter.StartFire(s)
			}
		}
		return
	}

	if s.status == Done && s.heat >= t.DangerAfter {
		s.status = Danger
		s.warning = s.env.show(domain.EffectDanger, s.Pos, "!")
	}
}

// Washing

func acceptDirty(_ *Station, it food.Item) bool {
	c, ok := it.(*food.Container)
	return ok && c.Dirty
}

func washingReady(s *Station) bool {
	c := heldContainer(s)
	return c != nil && c.Dirty
}

func washingDone(s *Station) {
	c := heldContainer(s)
	if c == nil || !c.Dirty {
		return
	}
	c.Dirty = false
	s.env.show(domain.EffectClean, s.Pos, "")
}

// Delivery

func acceptDelivery(_ *Station, it food.Item) bool {
	c, ok := it.(*food.Container)
	return ok && !c.Empty() && c.Thrower != ""
}

func deliver(s *Station, it food.Item, _ bool) {
	c := it.(*food.Container)
	t := s.env.Tuning

	lead := c.LeadIngredient()
	var (
		delta  int
		reason string
		order  = 0
	)
	if lead != nil && slices.Contains(t.FinishingStates, lead.LastCookState()) {
		delta, reason = t.SuccessScore, "delivery"
		if s.env.Orders != nil {
			if o := s.env.Orders.ValidateDelivery(c.Contents()); o != nil {
				order = o.ID
				delta += s.env.Orders.CompleteOrder(o.ID)
				reason = fmt.Sprintf("order %d", o.ID)
			}
		}
	} else {
		delta, reason = -t.FailurePenalty, "wrong dish"
	}

	s.env.addScore(delta, reason)
	s.env.show(domain.EffectScore, s.Pos, fmt.Sprintf("%+d", delta))
	s.env.record("delivery", map[string]any{
		"station": s.ID,
		"thrower": c.Thrower,
		"score":   delta,
		"order":   order,
	})
	s.env.Log.Info("delivery at %s by %s: %+d (%s)", s.ID, c.Thrower, delta, reason)

	c.Destroy()
	s.reset()

	bus := s.env.Bus
	s.env.Scheduler.ScheduleAfter(t.PlateReturnDelay, func() {
		bus.Emit(events.AddDirtyPlate, nil)
	})
}

// Trash

func trash(s *Station, it food.Item, inFlight bool) {
	if c, ok := it.(*food.Container); ok && !c.Empty() {
		if inFlight {
			// Parked until someone picks it back up.
			return
		}
		c.Clear()
		s.env.show(domain.EffectTrash, s.Pos, "")
		return
	}
	s.env.show(domain.EffectTrash, s.Pos, "")
	s.RemoveItem()
}

// Source

func (s *Station) dispenseIngredient(hand *food.Slot) food.Item {
	var opts []food.IngredientOption
	if b, ok := s.env.Tuning.Bases[s.Subtype]; ok {
		opts = append(opts, food.AsBase(b.MaxToppings, b.Allowed...))
	}
	ing := food.NewIngredient(s.Subtype, opts...)
	ing.SetPos(s.Pos)
	if !hand.Put(ing) {
		return nil
	}
	s.env.register(ing)
	s.env.Log.Debug("source %s dispensed %s", s.ID, s.Subtype)
	return ing
}

// Plate rack

func rackAttach(s *Station) {
	if s.env.Bus == nil {
		return
	}
	s.unsubscribe = s.env.Bus.Subscribe(events.AddDirtyPlate, func(any) {
		if s.slot.Empty() {
			s.spawnDirtyPlate()
			return
		}
		s.queued++
	})
}

func rackRefill(s *Station) {
	if s.queued > 0 && s.slot.Empty() {
		s.queued--
		s.spawnDirtyPlate()
	}
}

func (s *Station) spawnDirtyPlate() {
	p := food.NewDirtyPlate()
	p.SetPos(s.Pos)
	s.slot.Put(p)
	s.env.register(p)
	s.env.Log.Debug("rack %s: dirty plate returned", s.ID)
}
