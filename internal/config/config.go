// Package config loads kitchen tuning and level layouts from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottokitchen/internal/cook"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/station"
)

//go:embed kitchen.yaml
var defaultYAML []byte

// Config is the full tuning of a kitchen.
type Config struct {
	TileSize      float64 `yaml:"tile_size"`
	TickMs        int     `yaml:"tick_ms"`
	RoundLengthMs int     `yaml:"round_length_ms"`
	FlightTimeMs  int     `yaml:"flight_time_ms"`
	PickupRange   float64 `yaml:"pickup_range"`

	Cooking  Cooking  `yaml:"cooking"`
	Stations Stations `yaml:"stations"`
	Fire     Fire     `yaml:"fire"`
	Orders   Orders   `yaml:"orders"`

	Levels []Level `yaml:"levels"`
}

type Cooking struct {
	DurationsMs map[string]int `yaml:"durations_ms"`
}

type Stations struct {
	DangerAfterMs      int             `yaml:"danger_after_ms"`
	FireAfterMs        int             `yaml:"fire_after_ms"`
	WashMs             int             `yaml:"wash_ms"`
	FinishingStates    []string        `yaml:"finishing_states"`
	SuccessScore       int             `yaml:"success_score"`
	FailurePenalty     int             `yaml:"failure_penalty"`
	PlateReturnDelayMs int             `yaml:"plate_return_delay_ms"`
	Bases              map[string]Base `yaml:"bases"`
}

type Base struct {
	MaxToppings int      `yaml:"max_toppings"`
	Allowed     []string `yaml:"allowed"`
}

type Fire struct {
	SpreadIntervalMs    int     `yaml:"spread_interval_ms"`
	ExtinguishMs        int     `yaml:"extinguish_ms"`
	ExtinguisherRange   float64 `yaml:"extinguisher_range"`
	ExtinguisherConeDeg float64 `yaml:"extinguisher_cone_deg"`
}

type Orders struct {
	MaxOrders       int `yaml:"max_orders"`
	BaseTimeLimitMs int `yaml:"base_time_limit_ms"`
	IntervalMs      int `yaml:"interval_ms"`
	ClearAfterMs    int `yaml:"clear_after_ms"`
}

// Level is a playable kitchen layout.
type Level struct {
	ID      string            `yaml:"id"`
	Name    string            `yaml:"name"`
	Recipes []string          `yaml:"recipes"`
	Sources map[string]string `yaml:"sources"`
	Layout  []string          `yaml:"layout"`
}

// Default returns the built-in tuning.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("config: built-in kitchen.yaml: %v", err))
	}
	return c
}

// Load reads a tuning file and overlays it on the defaults. Keys missing from
// the file keep their default value; a levels list replaces the built-in one.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks the values the simulation cannot run without.
func (c Config) Validate() error {
	var errs []error
	if c.TileSize <= 0 {
		errs = append(errs, errors.New("tile_size must be positive"))
	}
	if c.TickMs <= 0 {
		errs = append(errs, errors.New("tick_ms must be positive"))
	}
	if c.RoundLengthMs <= 0 {
		errs = append(errs, errors.New("round_length_ms must be positive"))
	}
	if c.Stations.FireAfterMs < c.Stations.DangerAfterMs {
		errs = append(errs, errors.New("stations.fire_after_ms must not be below danger_after_ms"))
	}
	for id, ms := range c.Cooking.DurationsMs {
		if _, ok := cook.Lookup(id); !ok {
			errs = append(errs, fmt.Errorf("cooking.durations_ms: unknown cook state %q", id))
		} else if ms <= 0 {
			errs = append(errs, fmt.Errorf("cooking.durations_ms.%s must be positive", id))
		}
	}
	seen := make(map[string]bool)
	for i, l := range c.Levels {
		if l.ID == "" {
			errs = append(errs, fmt.Errorf("levels[%d]: missing id", i))
			continue
		}
		if seen[l.ID] {
			errs = append(errs, fmt.Errorf("levels[%d]: duplicate id %q", i, l.ID))
		}
		seen[l.ID] = true
		if len(l.Layout) == 0 {
			errs = append(errs, fmt.Errorf("level %s: empty layout", l.ID))
		}
	}
	return errors.Join(errs...)
}

// Level returns the level with id.
func (c Config) Level(id string) (Level, error) {
	for _, l := range c.Levels {
		if l.ID == id {
			return l, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s", domain.ErrUnknownLevel, id)
}

// StationTuning converts the station section.
func (c Config) StationTuning() station.Tuning {
	t := station.Tuning{
		DangerAfter:      ms2d(c.Stations.DangerAfterMs),
		FireAfter:        ms2d(c.Stations.FireAfterMs),
		WashDuration:     ms2d(c.Stations.WashMs),
		FinishingStates:  c.Stations.FinishingStates,
		SuccessScore:     c.Stations.SuccessScore,
		FailurePenalty:   c.Stations.FailurePenalty,
		PlateReturnDelay: ms2d(c.Stations.PlateReturnDelayMs),
	}
	if len(c.Cooking.DurationsMs) > 0 {
		t.CookDurations = make(map[string]time.Duration, len(c.Cooking.DurationsMs))
		for id, ms := range c.Cooking.DurationsMs {
			t.CookDurations[id] = ms2d(ms)
		}
	}
	if len(c.Stations.Bases) > 0 {
		t.Bases = make(map[string]station.BaseSpec, len(c.Stations.Bases))
		for typ, b := range c.Stations.Bases {
			t.Bases[typ] = station.BaseSpec{MaxToppings: b.MaxToppings, Allowed: b.Allowed}
		}
	}
	return t
}

func (c Config) Tick() time.Duration { return ms2d(c.TickMs) }
func (c Config) RoundLength() time.Duration { return ms2d(c.RoundLengthMs) }
func (c Config) FlightTime() time.Duration { return ms2d(c.FlightTimeMs) }
func (f Fire) SpreadInterval() time.Duration { return ms2d(f.SpreadIntervalMs) }
func (f Fire) ExtinguishAfter() time.Duration { return ms2d(f.ExtinguishMs) }
func (o Orders) BaseTimeLimit() time.Duration { return ms2d(o.BaseTimeLimitMs) }
func (o Orders) Interval() time.Duration { return ms2d(o.IntervalMs) }
func (o Orders) ClearAfter() time.Duration { return ms2d(o.ClearAfterMs) }

// ExtinguisherCone returns the full spray angle in radians.
func (f Fire) ExtinguisherCone() float64 {
	return f.ExtinguisherConeDeg * math.Pi / 180
}

func ms2d(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
