// Package storage keeps game sessions.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// Compile-time interface check.
var _ domain.SessionStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory session store. Safe for concurrent access.
//
// Load hands out the live session, which the engine only touches under its
// per-session lock. Listings never read live sessions: they filter and
// return the copies taken at the last Save, so a status change becomes
// visible to the supervisor only once it is saved.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*record
	log      *logger.Logger
}

type record struct {
	live  *domain.Session
	saved domain.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*record),
		log:      log.Named("storage"),
	}
}

// Save persists a session. Overwrites if it already exists. The caller must
// own the session while saving it.
func (s *MemoryStore) Save(ctx context.Context, session *domain.Session) error {
	snap := *session

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving session %s (level=%s, status=%s, elapsed=%s)", snap.ID, snap.LevelID, snap.Status, snap.Elapsed)
	s.sessions[snap.ID] = &record{live: session, saved: snap}
	return nil
}

// Load retrieves a session by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok {
		s.log.Debug("session not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return rec.live, nil
}

// Delete removes a session by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	s.log.Debug("deleted session %s", id)
	return nil
}

// ListActive returns copies of all sessions saved with active or paused
// status, oldest first.
func (s *MemoryStore) ListActive(ctx context.Context) ([]*domain.Session, error) {
	out := s.list(func(sess *domain.Session) bool {
		return sess.Status == domain.SessionActive || sess.Status == domain.SessionPaused
	})
	s.log.Debug("listing active sessions, count=%d", len(out))
	return out, nil
}

// ListFinished returns copies of the completed and abandoned rounds played
// on levelID (every level when empty), oldest first.
func (s *MemoryStore) ListFinished(ctx context.Context, levelID string) ([]*domain.Session, error) {
	out := s.list(func(sess *domain.Session) bool {
		if levelID != "" && sess.LevelID != levelID {
			return false
		}
		return sess.Status == domain.SessionCompleted || sess.Status == domain.SessionAbandoned
	})
	s.log.Debug("listing finished sessions for %q, count=%d", levelID, len(out))
	return out, nil
}

func (s *MemoryStore) list(keep func(*domain.Session) bool) []*domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Session
	for _, rec := range s.sessions {
		if keep(&rec.saved) {
			snap := rec.saved
			out = append(out, &snap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
