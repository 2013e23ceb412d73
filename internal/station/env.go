package station

import (
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/cook"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/events"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// Igniter starts fires. The hazard manager implements it.
type Igniter interface {
	StartFire(s *Station)
}

// OrderDesk is the part of the order manager the delivery hatch uses.
type OrderDesk interface {
	ValidateDelivery(f *food.Food) *domain.Order
	CompleteOrder(id int) int
}

// Roster tracks every live item of a kitchen.
type Roster interface {
	Register(it food.Item)
}

// BaseSpec makes a dispensed ingredient a base for toppings.
type BaseSpec struct {
	MaxToppings int
	Allowed     []string
}

// Tuning holds the numbers station behaviour depends on.
type Tuning struct {
	// Pot thresholds, measured from the moment boiling finished.
	DangerAfter time.Duration
	FireAfter   time.Duration

	WashDuration time.Duration

	// FinishingStates are the cook states a delivered dish's lead
	// ingredient may end with to earn SuccessScore.
	FinishingStates  []string
	SuccessScore     int
	FailurePenalty   int
	PlateReturnDelay time.Duration

	// Bases lists ingredient types that sources hand out as bases.
	Bases map[string]BaseSpec

	// CookDurations overrides the registered duration of cook states for
	// this kitchen.
	CookDurations map[string]time.Duration
}

// WorkSpeed returns the progress per millisecond for the cook state id,
// preferring this kitchen's duration over the registered default.
func (t Tuning) WorkSpeed(id string) float64 {
	if d, ok := t.CookDurations[id]; ok && d > 0 {
		return cook.SpeedFor(d)
	}
	return cook.WorkSpeed(id)
}

// DefaultTuning returns the stock station numbers.
func DefaultTuning() Tuning {
	return Tuning{
		DangerAfter:      5 * time.Second,
		FireAfter:        8 * time.Second,
		WashDuration:     3 * time.Second,
		FinishingStates:  []string{"boil", "stir-fry", "fry"},
		SuccessScore:     100,
		FailurePenalty:   60,
		PlateReturnDelay: 3 * time.Second,
	}
}

// Env is what stations of one kitchen share. Igniter, Orders, Roster and
// Journal may be nil.
type Env struct {
	Scheduler domain.Scheduler
	Bus       *events.Bus
	Presenter domain.Presenter
	Score     domain.ScoreSink
	Igniter   Igniter
	Orders    OrderDesk
	Roster    Roster
	Journal   domain.Journal
	Log       *logger.Logger
	Tuning    Tuning
}

func (e *Env) show(kind domain.EffectKind, at domain.Vec, text string) domain.EffectID {
	if e.Presenter == nil {
		return 0
	}
	return e.Presenter.Show(domain.Effect{Kind: kind, At: at, Text: text})
}

func (e *Env) hide(id domain.EffectID) {
	if e.Presenter != nil && id != 0 {
		e.Presenter.Hide(id)
	}
}

func (e *Env) addScore(delta int, reason string) {
	if e.Score != nil {
		e.Score.AddScore(delta, reason)
	}
}

func (e *Env) record(kind string, fields map[string]any) {
	if e.Journal != nil {
		e.Journal.Record(kind, fields)
	}
}

func (e *Env) register(it food.Item) {
	if e.Roster != nil {
		e.Roster.Register(it)
	}
}
