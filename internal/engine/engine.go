// Package engine runs game sessions: one kitchen world per session, ticked
// until its round is over.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/config"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/kitchen"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithPresenter sets the presenter handed to every new kitchen.
func WithPresenter(p domain.Presenter) Option {
	return func(e *Engine) {
		e.presenter = p
	}
}

// WithJournal sets the journal handed to every new kitchen.
func WithJournal(j domain.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithSeed makes order sampling reproducible. Every session started by the
// engine uses the same seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// Engine manages game sessions. Each session is guarded by its own mutex,
// so a real-time driver and a UI can share one engine.
type Engine struct {
	cfg       config.Config
	recipes   domain.RecipeSource
	store     domain.SessionStore
	log       *logger.Logger
	presenter domain.Presenter
	journal   domain.Journal
	seed      *uint64

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// New creates an engine. Each session's kitchen takes its cook durations
// from cfg.
func New(cfg config.Config, recipes domain.RecipeSource, store domain.SessionStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		recipes: recipes,
		store:   store,
		log:     log.Named("engine"),
		locks:   make(map[string]*sessionLock),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListRecipes returns all available recipes.
func (e *Engine) ListRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	return e.recipes.List(ctx)
}

// ListLevels returns the configured levels.
func (e *Engine) ListLevels() []config.Level {
	return append([]config.Level(nil), e.cfg.Levels...)
}

// HighScores returns up to n completed rounds on levelID, best score
// first. Abandoned rounds do not count.
func (e *Engine) HighScores(ctx context.Context, levelID string, n int) ([]*domain.Session, error) {
	finished, err := e.store.ListFinished(ctx, levelID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	out := slices.DeleteFunc(finished, func(s *domain.Session) bool {
		return s.Status != domain.SessionCompleted
	})
	slices.SortStableFunc(out, func(a, b *domain.Session) int {
		return b.FinalScore - a.FinalScore
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// StartSession builds a kitchen for levelID and starts its round.
func (e *Engine) StartSession(ctx context.Context, levelID string) (*domain.Session, error) {
	level, err := e.cfg.Level(levelID)
	if err != nil {
		return nil, err
	}

	pool, err := e.levelRecipes(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("getting recipes: %w", err)
	}

	var opts []kitchen.Option
	opts = append(opts, kitchen.WithLogger(e.log))
	if e.presenter != nil {
		opts = append(opts, kitchen.WithPresenter(e.presenter))
	}
	if e.journal != nil {
		opts = append(opts, kitchen.WithJournal(e.journal))
	}
	if e.seed != nil {
		opts = append(opts, kitchen.WithSeed(*e.seed))
	}

	world, err := kitchen.New(e.cfg, level, pool, opts...)
	if err != nil {
		return nil, fmt.Errorf("building kitchen: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:          generateID(),
		LevelID:     level.ID,
		LevelName:   level.Name,
		World:       world,
		Status:      domain.SessionActive,
		RoundLength: e.cfg.RoundLength(),
		StartedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("started session %s on level %q (%d recipes, round %s)", session.ID, level.Name, len(pool), session.RoundLength)
	return session, nil
}

// levelRecipes resolves the level's recipe ids, or every recipe when the
// level names none.
func (e *Engine) levelRecipes(ctx context.Context, level config.Level) ([]*domain.Recipe, error) {
	if len(level.Recipes) == 0 {
		return e.recipes.All(ctx)
	}
	out := make([]*domain.Recipe, 0, len(level.Recipes))
	for _, id := range level.Recipes {
		r, err := e.recipes.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Tick advances every active session by delta. Paused sessions stand still.
func (e *Engine) Tick(ctx context.Context, delta time.Duration) error {
	sessions, err := e.store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	for _, s := range sessions {
		if err := e.TickSession(ctx, s.ID, delta); err != nil && !errors.Is(err, domain.ErrSessionNotActive) {
			return err
		}
	}
	return nil
}

// TickSession advances one session by delta. The last tick of a round is
// cut short at the round length, and the session completes.
func (e *Engine) TickSession(ctx context.Context, sessionID string, delta time.Duration) error {
	unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session.Status != domain.SessionActive {
		return domain.ErrSessionNotActive
	}

	step := min(delta, session.Remaining())
	session.World.Tick(step)
	session.Elapsed += step
	session.UpdatedAt = time.Now()

	if session.Elapsed >= session.RoundLength {
		e.finish(session, domain.SessionCompleted)
		e.log.Info("session %s completed with score %d", sessionID, session.FinalScore)
	}

	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Act applies an agent action to a running session.
func (e *Engine) Act(ctx context.Context, sessionID string, a domain.Action) error {
	unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	switch session.Status {
	case domain.SessionActive:
	case domain.SessionPaused:
		return domain.ErrSessionPaused
	case domain.SessionCompleted:
		return domain.ErrRoundOver
	default:
		return domain.ErrSessionNotActive
	}

	if err := session.World.Apply(a); err != nil {
		e.log.Debug("session %s: %s by %s refused: %v", sessionID, a.Type, a.AgentID, err)
		return err
	}
	return nil
}

// Pause freezes the session's clock.
func (e *Engine) Pause(ctx context.Context, sessionID string) error {
	unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	if session.Status != domain.SessionActive {
		return domain.ErrSessionNotActive
	}

	session.Status = domain.SessionPaused
	session.UpdatedAt = time.Now()

	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("session %s paused", sessionID)
	return nil
}

// Resume resumes a paused session and returns a copy of it.
func (e *Engine) Resume(ctx context.Context, sessionID string) (*domain.Session, error) {
	unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	if session.Status != domain.SessionPaused {
		return nil, domain.ErrSessionPaused
	}

	session.Status = domain.SessionActive
	session.UpdatedAt = time.Now()

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("session %s resumed", sessionID)
	snap := *session
	return &snap, nil
}

// Status returns a copy of the session taken under its lock. The copy
// shares the live World; read that through View.
func (e *Engine) Status(ctx context.Context, sessionID string) (*domain.Session, error) {
	unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := *session
	return &snap, nil
}

// View calls fn with the session while holding its lock. Renderers use it to
// read the world without racing the driver.
func (e *Engine) View(ctx context.Context, sessionID string, fn func(*domain.Session)) error {
	unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	fn(session)
	return nil
}

// Abandon ends a session early. A round that is already over keeps its
// status and score.
func (e *Engine) Abandon(ctx context.Context, sessionID string) error {
	unlock := e.lock(sessionID)
	defer unlock()

	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session.Status == domain.SessionCompleted || session.Status == domain.SessionAbandoned {
		e.log.Debug("session %s already %s, nothing to abandon", sessionID, session.Status)
		return nil
	}

	e.finish(session, domain.SessionAbandoned)
	session.UpdatedAt = time.Now()

	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("session %s abandoned", sessionID)
	return nil
}

type closer interface{ Close() }

func (e *Engine) finish(session *domain.Session, status domain.SessionStatus) {
	session.Status = status
	session.FinalScore = session.World.Score()
	if c, ok := session.World.(closer); ok {
		c.Close()
	}
}

// sessionLock is a session's mutex plus the number of callers holding or
// waiting for it. The entry is dropped when that reaches zero.
type sessionLock struct {
	sync.Mutex
	refs int
}

// lock takes the session's mutex and returns its release.
func (e *Engine) lock(sessionID string) func() {
	e.mu.Lock()
	l, ok := e.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		e.locks[sessionID] = l
	}
	l.refs++
	e.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		e.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(e.locks, sessionID)
		}
		e.mu.Unlock()
	}
}
