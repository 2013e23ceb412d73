package display

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottokitchen/internal/config"
	"github.com/hammamikhairi/ottokitchen/internal/cook"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/kitchen"
)

var testLevel = config.Level{
	ID:      "test",
	Name:    "Test Kitchen",
	Sources: map[string]string{"t": "tomato"},
	Layout: []string{
		"CS#D",
		"t1.R",
		"P..T",
	},
}

func newSession(t *testing.T) (*domain.Session, *kitchen.World) {
	t.Helper()
	soup := &domain.Recipe{
		ID:        "tomato-soup",
		Name:      "Tomato Soup",
		Target:    domain.Dish(domain.Ing("tomato", cook.Cut, cook.Boil)),
		BaseScore: 60,
	}
	w, err := kitchen.New(config.Default(), testLevel, []*domain.Recipe{soup}, kitchen.WithSeed(1))
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return &domain.Session{
		ID:          "s1",
		LevelName:   testLevel.Name,
		World:       w,
		Status:      domain.SessionActive,
		RoundLength: 3 * time.Minute,
		Elapsed:     time.Minute,
	}, w
}

func TestRenderGrid(t *testing.T) {
	_, w := newSession(t)

	assert.Equal(t, []string{
		"CS#D",
		"t1.R",
		"o..T",
	}, RenderGrid(w))

	w.Fire().StartFire(w.Station("counter-2-0"))
	require.NoError(t, w.Apply(domain.Action{Type: domain.ActionMove, AgentID: "p1", Target: kitchen.TileCentre(2, 1, 64)}))

	assert.Equal(t, []string{
		"CS^D",
		"t.1R",
		"o..T",
	}, RenderGrid(w))
}

func TestSnap(t *testing.T) {
	s, _ := newSession(t)

	snap := Snap(s)
	assert.Equal(t, "Test Kitchen", snap.Level)
	assert.Equal(t, 2*time.Minute, snap.Remaining)
	assert.Zero(t, snap.Score)
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "Tomato Soup", snap.Orders[0].Name)
	assert.Positive(t, snap.Orders[0].Remaining)
	assert.Equal(t, []string{"p1 at 1,1 holding -"}, snap.Hands)
	assert.Len(t, snap.Grid, 3)
}

func TestSnapWithoutKitchen(t *testing.T) {
	snap := Snap(&domain.Session{LevelName: "x", RoundLength: time.Minute})
	assert.Equal(t, "x", snap.Level)
	assert.Equal(t, time.Minute, snap.Remaining)
	assert.Empty(t, snap.Grid)
}

type fakeViewer struct {
	session *domain.Session
	err     error
}

func (f *fakeViewer) View(_ context.Context, id string, fn func(*domain.Session)) error {
	if f.err != nil {
		return f.err
	}
	if id != f.session.ID {
		return domain.ErrNotFound
	}
	fn(f.session)
	return nil
}

func TestUISnapshotFollowsSession(t *testing.T) {
	s, _ := newSession(t)
	u := NewUI(&fakeViewer{session: s})

	_, ok := u.snapshot()
	assert.False(t, ok, "no session selected")

	u.SetSession("other")
	_, ok = u.snapshot()
	assert.False(t, ok)

	u.SetSession("s1")
	snap, ok := u.snapshot()
	require.True(t, ok)
	assert.Equal(t, "Test Kitchen", snap.Level)
}

func TestEffectLine(t *testing.T) {
	u := NewUI(nil, WithTileSize(64))

	_, ok := u.effectLine(domain.Effect{Kind: domain.EffectProgress})
	assert.False(t, ok)

	line, ok := u.effectLine(domain.Effect{Kind: domain.EffectScore, Text: "+100", At: kitchen.TileCentre(3, 0, 64)})
	require.True(t, ok)
	assert.Contains(t, line, "score +100")
	assert.Contains(t, line, "@ 3,0")

	raw := NewUI(nil)
	line, _ = raw.effectLine(domain.Effect{Kind: domain.EffectIgnite, At: domain.Vec{X: 32, Y: 96}})
	assert.Contains(t, line, "(32,96)")

	a, b := u.Show(domain.Effect{Kind: domain.EffectProgress}), u.Show(domain.Effect{Kind: domain.EffectProgress})
	assert.NotEqual(t, a, b)
}

func TestRenderBar(t *testing.T) {
	bar := renderBar(Snapshot{
		Level:     "Test Kitchen",
		Score:     120,
		Remaining: 95 * time.Second,
		Status:    domain.SessionPaused,
		Orders:    []OrderLine{{Name: "Tomato Soup", Remaining: 42 * time.Second}},
		Burning:   2,
	}, 120)

	for _, want := range []string{"Test Kitchen", "120", "1m35s", "paused", "Tomato Soup: ", "42s", "FIRE x2"} {
		assert.Contains(t, bar, want)
	}
}

func TestRenderBanner(t *testing.T) {
	out := renderBanner(200, "cook together")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[5], "cook together")
	assert.True(t, strings.HasPrefix(lines[0], " "), "centred")
}

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0s"},
		{0, "0s"},
		{1500 * time.Millisecond, "2s"},
		{59 * time.Second, "59s"},
		{time.Minute, "1m00s"},
		{185 * time.Second, "3m05s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fmtDuration(tt.in))
	}
}
