package kitchen

import (
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/food"
)

// Agent is a cook in the kitchen. It carries at most one item.
type Agent struct {
	ID     string
	Pos    domain.Vec
	Facing domain.Vec

	hand *food.Slot
}

func newAgent(id string, pos domain.Vec) *Agent {
	a := &Agent{ID: id, Pos: pos, Facing: domain.Vec{Y: -1}}
	a.hand = food.NewSlot(a)
	return a
}

// HolderID implements food.Holder.
func (a *Agent) HolderID() string { return a.ID }

// Holding returns the carried item, or nil.
func (a *Agent) Holding() food.Item { return a.hand.Item() }

// moveTo walks the agent, and whatever it carries, to p.
func (a *Agent) moveTo(p domain.Vec) {
	if d := p.Sub(a.Pos); d.Len() > 0 {
		a.Facing = d
	}
	a.Pos = p
	if it := a.hand.Item(); it != nil {
		it.SetPos(p)
	}
}
