package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
	"github.com/hammamikhairi/ottokitchen/internal/storage"
)

// mockDriver advances stored sessions the way the engine does, minus the
// kitchen.
type mockDriver struct {
	mu     sync.Mutex
	store  domain.SessionStore
	ticks  int
	deltas []time.Duration
}

func (d *mockDriver) Tick(ctx context.Context, delta time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ticks++
	d.deltas = append(d.deltas, delta)

	sessions, err := d.store.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, listed := range sessions {
		s, err := d.store.Load(ctx, listed.ID)
		if err != nil {
			return err
		}
		if s.Status == domain.SessionActive {
			s.Elapsed += min(delta, s.Remaining())
			if err := d.store.Save(ctx, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *mockDriver) View(ctx context.Context, id string, fn func(*domain.Session)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.store.Load(ctx, id)
	if err != nil {
		return err
	}
	fn(s)
	return nil
}

func (d *mockDriver) tickCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticks
}

// mockWarnings collects round warnings for testing.
type mockWarnings struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockWarnings) warn(_ string, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockWarnings) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func TestSupervisorTicksDriver(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	driver := &mockDriver{store: store}
	ctx := context.Background()

	sup := New(driver, store, log, WithTickInterval(20*time.Millisecond), WithTimeScale(2))
	sup.Start(ctx)
	time.Sleep(150 * time.Millisecond)
	sup.Stop()

	n := driver.tickCount()
	if n == 0 {
		t.Fatal("expected the driver to be ticked")
	}
	driver.mu.Lock()
	for _, d := range driver.deltas {
		if d != 40*time.Millisecond {
			t.Fatalf("expected scaled delta of 40ms, got %s", d)
		}
	}
	driver.mu.Unlock()

	// Stopped: no further ticks.
	time.Sleep(60 * time.Millisecond)
	if driver.tickCount() != n {
		t.Fatalf("expected no ticks after stop, got %d more", driver.tickCount()-n)
	}
}

func TestSupervisorWarnsOncePerRound(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	driver := &mockDriver{store: store}
	warnings := &mockWarnings{}
	ctx := context.Background()

	session := &domain.Session{
		ID:          "round-test",
		LevelName:   "Test",
		Status:      domain.SessionActive,
		RoundLength: 3 * time.Minute,
		Elapsed:     3*time.Minute - 31*time.Second,
		StartedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Each 10ms wall tick is one simulated second.
	sup := New(driver, store, log,
		WithTickInterval(10*time.Millisecond),
		WithTimeScale(100),
		WithWarnFunc(warnings.warn),
	)
	sup.Start(ctx)
	time.Sleep(200 * time.Millisecond)
	sup.Stop()

	if warnings.count() != 1 {
		t.Fatalf("expected exactly one warning, got %d", warnings.count())
	}
	warnings.mu.Lock()
	msg := warnings.messages[0]
	warnings.mu.Unlock()
	if msg != "Test: 30 seconds left on the clock." {
		t.Fatalf("unexpected warning %q", msg)
	}
}

func TestSupervisorAlmostDoneThreshold(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	driver := &mockDriver{store: store}
	warnings := &mockWarnings{}
	ctx := context.Background()

	session := &domain.Session{
		ID:          "threshold-test",
		LevelName:   "Test",
		Status:      domain.SessionActive,
		RoundLength: 3 * time.Minute,
		Elapsed:     3*time.Minute - 50*time.Second,
		StartedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	sup := New(driver, store, log,
		WithTickInterval(10*time.Millisecond),
		WithTimeScale(10),
		WithAlmostDoneThreshold(time.Minute),
		WithWarnFunc(warnings.warn),
	)
	sup.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	sup.Stop()

	if warnings.count() != 1 {
		t.Fatalf("expected one warning inside the one-minute threshold, got %d", warnings.count())
	}
}

func TestSupervisorSkipsPausedSessions(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	driver := &mockDriver{store: store}
	warnings := &mockWarnings{}
	ctx := context.Background()

	session := &domain.Session{
		ID:          "paused-test",
		Status:      domain.SessionPaused,
		RoundLength: 3 * time.Minute,
		Elapsed:     3*time.Minute - time.Second,
		StartedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	sup := New(driver, store, log, WithTickInterval(20*time.Millisecond), WithWarnFunc(warnings.warn))
	sup.Start(ctx)
	time.Sleep(100 * time.Millisecond)
	sup.Stop()

	// Paused sessions should be skipped -- no warnings.
	if warnings.count() > 0 {
		t.Fatal("expected no warnings for paused session")
	}
}

func TestSupervisorStartTwice(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	driver := &mockDriver{store: store}

	sup := New(driver, store, log, WithTickInterval(10*time.Millisecond))
	sup.Start(context.Background())
	sup.Start(context.Background())
	sup.Stop()
	sup.Stop()
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{time.Second, "1 second"},
		{30 * time.Second, "30 seconds"},
		{59400 * time.Millisecond, "59 seconds"},
		{90 * time.Second, "2 minutes"},
		{70 * time.Second, "1 minute"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Fatalf("FormatRemaining(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
