package domain

import "time"

// Simulation is a running kitchen that a session drives.
type Simulation interface {
	Tick(delta time.Duration)
	Apply(a Action) error
	Score() int
}

// Session represents one round of play on a level.
type Session struct {
	ID          string
	LevelID     string
	LevelName   string
	World       Simulation
	Status      SessionStatus
	RoundLength time.Duration
	Elapsed     time.Duration
	FinalScore  int
	StartedAt   time.Time
	UpdatedAt   time.Time
}

// Remaining returns the time left in the round.
func (s *Session) Remaining() time.Duration {
	if s.Elapsed >= s.RoundLength {
		return 0
	}
	return s.RoundLength - s.Elapsed
}

// SessionStatus tracks the lifecycle of a game session.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionPaused
	SessionCompleted
	SessionAbandoned
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionPaused:
		return "paused"
	case SessionCompleted:
		return "completed"
	case SessionAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}
