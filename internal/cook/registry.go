// Package cook is the static registry of processing operations: what each
// cook state is called, which station applies it, and how long it takes by
// default. The registry is read-only; kitchens carry their own durations in
// their station tuning.
package cook

import (
	"sort"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Cook-state ids.
const (
	Cut      = "cut"
	Boil     = "boil"
	StirFry  = "stir-fry"
	Fry      = "fry"
	Overcook = "overcook"
	Burnt    = "burnt"
)

// Type describes one processing operation.
type Type struct {
	ID          string
	DisplayName string
	Icon        rune
	// Station is the station kind that applies the state; empty for hazard
	// states, which no station produces on purpose.
	Station      string
	Duration     time.Duration
	Overcookable bool
}

// Hazard reports whether the state is a terminal hazard state.
func (t Type) Hazard() bool { return t.Station == "" }

var registry = map[string]Type{
	Cut:      {ID: Cut, Icon: '/', Station: "cutting", Duration: 2 * time.Second},
	Boil:     {ID: Boil, Icon: '~', Station: "boiling", Duration: 5 * time.Second, Overcookable: true},
	StirFry:  {ID: StirFry, DisplayName: "Stir-Fried", Icon: '*', Station: "boiling", Duration: 4 * time.Second, Overcookable: true},
	Fry:      {ID: Fry, Icon: '%', Station: "boiling", Duration: 4 * time.Second, Overcookable: true},
	Overcook: {ID: Overcook, DisplayName: "Overcooked", Icon: '#'},
	Burnt:    {ID: Burnt, Icon: 'x'},
}

var title = cases.Title(language.English)

func init() {
	for id, t := range registry {
		if t.DisplayName == "" {
			t.DisplayName = title.String(id)
			registry[id] = t
		}
	}
}

// Lookup returns the cook type for id.
func Lookup(id string) (Type, bool) {
	t, ok := registry[id]
	return t, ok
}

// All returns every registered cook type sorted by id.
func All() []Type {
	out := make([]Type, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DisplayName returns the display name for id, title-casing unknown ids.
func DisplayName(id string) string {
	if t, ok := registry[id]; ok {
		return t.DisplayName
	}
	return title.String(id)
}

// WorkSpeed returns the progress gained per millisecond of work so that a
// station finishes the operation in its registered duration. Unknown or
// untimed operations return 0.
func WorkSpeed(id string) float64 {
	t, ok := registry[id]
	if !ok {
		return 0
	}
	return SpeedFor(t.Duration)
}

// SpeedFor returns the progress per millisecond that completes work in d.
func SpeedFor(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return 100 / float64(d.Milliseconds())
}
