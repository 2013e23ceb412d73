package display

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/kitchen"
	"github.com/hammamikhairi/ottokitchen/internal/station"
)

// Grid overlay glyphs. Station glyphs come from the level layout; these
// replace them while the state lasts.
const (
	CellFire    = '^'
	CellDanger  = '!'
	CellDone    = '+'
	CellWorking = '~'
	CellItem    = 'o'
	CellLoose   = '%'
)

// Snapshot is a copy of what the kitchen view shows, taken under the
// session lock.
type Snapshot struct {
	Level     string
	Status    domain.SessionStatus
	Score     int
	Remaining time.Duration
	Orders    []OrderLine
	Burning   int
	Grid      []string
	Hands     []string
}

// OrderLine is one pending order on the bar.
type OrderLine struct {
	Name      string
	Remaining time.Duration
}

// Snap copies the session's state. Sessions not backed by a
// *kitchen.World only fill the round fields.
func Snap(s *domain.Session) Snapshot {
	snap := Snapshot{
		Level:     s.LevelName,
		Status:    s.Status,
		Remaining: s.Remaining(),
	}
	if s.World != nil {
		snap.Score = s.World.Score()
	}
	w, ok := s.World.(*kitchen.World)
	if !ok {
		return snap
	}

	now := w.Now()
	for _, o := range w.Orders().Pending() {
		snap.Orders = append(snap.Orders, OrderLine{Name: o.Recipe.Name, Remaining: o.Remaining(now)})
	}
	snap.Burning = len(w.Fire().Burning())
	snap.Grid = RenderGrid(w)
	for _, a := range w.Agents() {
		col, row := kitchen.TileOf(a.Pos, w.TileSize())
		snap.Hands = append(snap.Hands, fmt.Sprintf("%s at %d,%d holding %s", a.ID, col, row, food.Describe(a.Holding())))
	}
	return snap
}

// RenderGrid draws the kitchen as text: the level layout with spawn digits
// cleared, station states and items overlaid, and agents on top.
func RenderGrid(w *kitchen.World) []string {
	tile := w.TileSize()
	layout := w.Level().Layout
	grid := make([][]rune, len(layout))
	for row, line := range layout {
		grid[row] = []rune(line)
		for col, g := range grid[row] {
			if g >= '1' && g <= '9' {
				grid[row][col] = kitchen.GlyphFloor
			}
		}
	}
	set := func(p domain.Vec, g rune) {
		col, row := kitchen.TileOf(p, tile)
		if row >= 0 && row < len(grid) && col >= 0 && col < len(grid[row]) {
			grid[row][col] = g
		}
	}

	for _, s := range w.Stations() {
		switch s.Status() {
		case station.Fire:
			set(s.Pos, CellFire)
		case station.Danger:
			set(s.Pos, CellDanger)
		case station.Done:
			set(s.Pos, CellDone)
		case station.Working:
			set(s.Pos, CellWorking)
		default:
			if s.Kind == station.Counter && !s.Empty() {
				set(s.Pos, CellItem)
			}
		}
	}
	for _, it := range w.LooseItems() {
		set(it.Pos(), CellLoose)
	}
	for _, a := range w.Agents() {
		set(a.Pos, rune(a.ID[len(a.ID)-1]))
	}

	out := make([]string, len(grid))
	for i, r := range grid {
		out[i] = string(r)
	}
	return out
}
