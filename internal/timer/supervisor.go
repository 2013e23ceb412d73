// Package timer holds the simulated clock kitchens run on and the real-time
// supervisor that drives active sessions forward.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// Driver advances sessions. The engine satisfies it.
type Driver interface {
	Tick(ctx context.Context, delta time.Duration) error
	View(ctx context.Context, sessionID string, fn func(*domain.Session)) error
}

// WarnFunc receives round-end warnings.
type WarnFunc func(sessionID, msg string)

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor ticks sessions.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithTimeScale runs simulated time faster (or slower) than wall time.
func WithTimeScale(f float64) Option {
	return func(s *Supervisor) {
		s.timeScale = f
	}
}

// WithAlmostDoneThreshold sets how close to the end of a round the
// "almost done" warning goes out.
func WithAlmostDoneThreshold(d time.Duration) Option {
	return func(s *Supervisor) {
		s.almostDoneThreshold = d
	}
}

// WithWarnFunc sets where round-end warnings go.
func WithWarnFunc(fn WarnFunc) Option {
	return func(s *Supervisor) {
		s.warn = fn
	}
}

// WithOnTick registers a callback run after every tick, e.g. a redraw.
func WithOnTick(fn func()) Option {
	return func(s *Supervisor) {
		s.onTick = fn
	}
}

// Supervisor runs in the background and ticks every active session at a
// fixed interval.
type Supervisor struct {
	driver              Driver
	store               domain.SessionStore
	log                 *logger.Logger
	tickInterval        time.Duration
	timeScale           float64
	almostDoneThreshold time.Duration
	warn                WarnFunc
	onTick              func()

	warned map[string]bool

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a supervisor with the given dependencies and options.
func New(driver Driver, store domain.SessionStore, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		driver:              driver,
		store:               store,
		log:                 log.Named("supervisor"),
		tickInterval:        50 * time.Millisecond,
		timeScale:           1,
		almostDoneThreshold: 30 * time.Second,
		warned:              make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background supervisor loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})

	go s.loop(childCtx, s.done)

	s.log.Info("started (tick=%s, scale=%.2f)", s.tickInterval, s.timeScale)
}

// Stop shuts the supervisor down and waits for the loop to exit.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	s.log.Info("stopped")
}

// loop is the main tick loop.
func (s *Supervisor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one cycle: advance every session, then warn about rounds that
// are nearly over.
func (s *Supervisor) tick(ctx context.Context) {
	delta := time.Duration(float64(s.tickInterval) * s.timeScale)
	if err := s.driver.Tick(ctx, delta); err != nil {
		s.log.Error("ticking sessions: %v", err)
		return
	}

	if s.warn != nil {
		s.checkRounds(ctx)
	}
	if s.onTick != nil {
		s.onTick()
	}
}

// checkRounds sends the "almost done" warning once per session.
func (s *Supervisor) checkRounds(ctx context.Context) {
	sessions, err := s.store.ListActive(ctx)
	if err != nil {
		s.log.Error("listing active sessions: %v", err)
		return
	}

	for _, session := range sessions {
		if s.warned[session.ID] {
			continue
		}
		var msg string
		err := s.driver.View(ctx, session.ID, func(sess *domain.Session) {
			if sess.Status != domain.SessionActive || sess.RoundLength <= s.almostDoneThreshold*2 {
				return
			}
			if rem := sess.Remaining(); rem <= s.almostDoneThreshold {
				msg = fmt.Sprintf("%s: %s left on the clock.", sess.LevelName, FormatRemaining(rem))
			}
		})
		if err != nil {
			s.log.Error("viewing session %s: %v", session.ID, err)
			continue
		}
		if msg != "" {
			s.warned[session.ID] = true
			s.log.Debug("session %s: %s", session.ID, msg)
			s.warn(session.ID, msg)
		}
	}
}

// FormatRemaining returns a human-friendly duration for round reminders.
// Rounds to the nearest minute once there's at least 1 minute left.
func FormatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	totalSec := int(d.Seconds())
	if totalSec < 60 {
		if totalSec == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", totalSec)
	}
	// Round to nearest minute.
	m := (totalSec + 30) / 60
	if m <= 0 {
		m = 1
	}
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
