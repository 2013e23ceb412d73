package kitchen

import (
	"fmt"
	"sort"

	"github.com/hammamikhairi/ottokitchen/internal/cook"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/station"
)

// Layout glyphs. Lowercase letters are ingredient sources named by the
// level's sources table; digits are agent spawn points.
const (
	GlyphFloor    = '.'
	GlyphCounter  = '#'
	GlyphCutting  = 'C'
	GlyphStove    = 'S'
	GlyphWok      = 'F'
	GlyphSink     = 'W'
	GlyphDelivery = 'D'
	GlyphTrash    = 'T'
	GlyphRack     = 'R'
	GlyphPlate    = 'P'
)

// TileCentre returns the world position of a grid cell.
func TileCentre(col, row int, tile float64) domain.Vec {
	return domain.Vec{X: float64(col)*tile + tile/2, Y: float64(row)*tile + tile/2}
}

// TileOf returns the grid cell containing p.
func TileOf(p domain.Vec, tile float64) (col, row int) {
	return int(p.X / tile), int(p.Y / tile)
}

// build places stations, starting cookware and agents from the level grid.
func (w *World) build() error {
	tile := w.cfg.TileSize
	spawns := map[rune]domain.Vec{}

	for row, line := range w.level.Layout {
		for col, g := range []rune(line) {
			pos := TileCentre(col, row, tile)
			id := fmt.Sprintf("%d-%d", col, row)

			switch {
			case g == GlyphFloor || g == ' ':
			case g >= '1' && g <= '9':
				spawns[g] = pos
			case g == GlyphCounter:
				w.addStation(station.New("counter-"+id, station.Counter, pos, w.env))
			case g == GlyphPlate:
				s := station.New("counter-"+id, station.Counter, pos, w.env)
				w.addStation(s)
				w.spawnOn(s, food.NewContainer(food.Plate))
			case g == GlyphCutting:
				w.addStation(station.New("board-"+id, station.Cutting, pos, w.env))
			case g == GlyphStove:
				s := station.New("stove-"+id, station.Boiling, pos, w.env)
				w.addStation(s)
				w.spawnOn(s, food.NewContainer(food.Pot))
			case g == GlyphWok:
				s := station.New("wok-"+id, station.Boiling, pos, w.env, station.WithSubtype(cook.StirFry))
				w.addStation(s)
				w.spawnOn(s, food.NewContainer(food.Pan))
			case g == GlyphSink:
				w.addStation(station.New("sink-"+id, station.Washing, pos, w.env, station.Fireproof()))
			case g == GlyphDelivery:
				w.addStation(station.New("hatch-"+id, station.Delivery, pos, w.env))
			case g == GlyphTrash:
				w.addStation(station.New("trash-"+id, station.Trash, pos, w.env))
			case g == GlyphRack:
				w.addStation(station.New("rack-"+id, station.PlateRack, pos, w.env))
			case g >= 'a' && g <= 'z':
				typ, ok := w.level.Sources[string(g)]
				if !ok {
					return fmt.Errorf("%w: level %s: no source for %q at %s", domain.ErrInvalidLayout, w.level.ID, g, id)
				}
				w.addStation(station.New("src-"+typ+"-"+id, station.Source, pos, w.env, station.WithSubtype(typ)))
			default:
				return fmt.Errorf("%w: level %s: unknown glyph %q at %s", domain.ErrInvalidLayout, w.level.ID, g, id)
			}
		}
	}

	if len(spawns) == 0 {
		return fmt.Errorf("%w: level %s has no agent spawn", domain.ErrInvalidLayout, w.level.ID)
	}
	digits := make([]rune, 0, len(spawns))
	for d := range spawns {
		digits = append(digits, d)
	}
	sort.Slice(digits, func(i, j int) bool { return digits[i] < digits[j] })
	for _, d := range digits {
		a := newAgent(fmt.Sprintf("p%c", d), spawns[d])
		w.agents[a.ID] = a
		w.agentOrder = append(w.agentOrder, a.ID)
	}
	return nil
}

func (w *World) addStation(s *station.Station) {
	w.stations = append(w.stations, s)
	w.byPos[s.Pos] = s
	w.byID[s.ID] = s
}

func (w *World) spawnOn(s *station.Station, it food.Item) {
	it.SetPos(s.Pos)
	s.PlaceItem(it)
	w.Register(it)
}
