package domain

import "time"

// Order is a live, timed instance of a recipe awaiting fulfilment.
type Order struct {
	ID            int
	Recipe        *Recipe
	CreatedAt     time.Time
	TimeLimit     time.Duration
	TipMultiplier float64
	Status        OrderStatus
}

// OrderStatus tracks the lifecycle of an order. Every status other than
// OrderPending is terminal.
type OrderStatus int

const (
	OrderPending OrderStatus = iota
	OrderCompleted
	OrderExpired
	OrderFailed
)

// String returns a human-readable order status.
func (s OrderStatus) String() string {
	switch s {
	case OrderPending:
		return "pending"
	case OrderCompleted:
		return "completed"
	case OrderExpired:
		return "expired"
	case OrderFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Remaining returns how much of the order's time limit is left at now.
func (o *Order) Remaining(now time.Time) time.Duration {
	left := o.TimeLimit - now.Sub(o.CreatedAt)
	if left < 0 {
		return 0
	}
	return left
}
