package domain

import (
	"context"
	"time"
)

// Clock supplies simulated time. Order timestamps and deferred effects are
// measured against it, never against the wall clock.
type Clock interface {
	Now() time.Time
}

// Scheduler runs a callback once after a delay. Callbacks are
// fire-and-forget: there is no cancellation.
type Scheduler interface {
	ScheduleAfter(d time.Duration, fn func())
}

// RecipeSource provides recipes. Implementations can be in-memory (built-in)
// or file-based.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	All(ctx context.Context) ([]*Recipe, error)
}

// SessionStore persists game sessions. Implementations can be in-memory or
// any other backend.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*Session, error)
	ListFinished(ctx context.Context, levelID string) ([]*Session, error)
}

// Presenter renders transient feedback. Return values are only used to hide
// an effect later; game logic never inspects them.
type Presenter interface {
	Show(e Effect) EffectID
	Hide(id EffectID)
}

// ScoreSink receives score changes.
type ScoreSink interface {
	AddScore(delta int, reason string)
}

// Journal records notable simulation events. It is write-only.
type Journal interface {
	Record(kind string, fields map[string]any)
}
