package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hammamikhairi/ottokitchen/internal/config"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/engine"
	"github.com/hammamikhairi/ottokitchen/internal/food"
	"github.com/hammamikhairi/ottokitchen/internal/journal"
	"github.com/hammamikhairi/ottokitchen/internal/kitchen"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
	"github.com/hammamikhairi/ottokitchen/internal/present"
	"github.com/hammamikhairi/ottokitchen/internal/storage"
)

// Runner replays scripts against a fresh engine and writes a trace of
// everything that happened.
type Runner struct {
	cfg     config.Config
	recipes domain.RecipeSource
	log     *logger.Logger
	step    time.Duration
	journal domain.Journal
	extra   domain.Presenter
	seed    uint64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStep sets the simulated tick size. Default is the configured tick.
func WithStep(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.step = d
		}
	}
}

// WithJournal also records every event to j.
func WithJournal(j domain.Journal) RunnerOption {
	return func(r *Runner) { r.journal = j }
}

// WithPresenter also shows every effect on p.
func WithPresenter(p domain.Presenter) RunnerOption {
	return func(r *Runner) { r.extra = p }
}

// WithSeed sets the order sampling seed. Default 1.
func WithSeed(seed uint64) RunnerOption {
	return func(r *Runner) { r.seed = seed }
}

// NewRunner creates a runner.
func NewRunner(cfg config.Config, recipes domain.RecipeSource, log *logger.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:     cfg,
		recipes: recipes,
		log:     log.Named("script"),
		step:    cfg.Tick(),
		seed:    1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.step <= 0 {
		r.step = 50 * time.Millisecond
	}
	return r
}

// Result summarises a finished run.
type Result struct {
	Score     int
	Status    domain.SessionStatus
	Elapsed   time.Duration
	Completed int
	Expired   int
}

// run is the state of one replay.
type run struct {
	eng     *engine.Engine
	id      string
	out     io.Writer
	tile    float64
	mem     *journal.Memory
	rec     *present.Recorder
	entries int
	effects int
}

// Run plays sc. levelID overrides the script's level line.
func (r *Runner) Run(ctx context.Context, levelID string, sc *Script, out io.Writer) (*Result, error) {
	if levelID == "" {
		levelID = sc.Level
	}
	if levelID == "" {
		return nil, fmt.Errorf("script names no level: %w", domain.ErrUnknownLevel)
	}

	mem := &journal.Memory{}
	rec := present.NewRecorder()
	var j domain.Journal = mem
	if r.journal != nil {
		j = journal.Tee{mem, r.journal}
	}
	var p domain.Presenter = rec
	if r.extra != nil {
		p = present.NewMulti(rec, r.extra)
	}

	eng := engine.New(r.cfg, r.recipes, storage.NewMemoryStore(r.log), r.log,
		engine.WithJournal(j), engine.WithPresenter(p), engine.WithSeed(r.seed))
	session, err := eng.StartSession(ctx, levelID)
	if err != nil {
		return nil, err
	}

	st := &run{eng: eng, id: session.ID, out: out, tile: r.cfg.TileSize, mem: mem, rec: rec}
	fmt.Fprintf(out, "level %s (%s)\n", session.LevelID, session.LevelName)
	st.flush()

	for _, cmd := range sc.Commands {
		if cmd.Type == CmdQuit {
			fmt.Fprintf(out, "> %s\n", cmd.Line)
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "> %s\n", cmd.Line)
		r.exec(ctx, st, cmd)
		st.flush()
	}

	res, err := st.result(ctx)
	if err == nil && (res.Status == domain.SessionActive || res.Status == domain.SessionPaused) {
		_ = eng.Abandon(ctx, session.ID)
	}
	return res, err
}

func (r *Runner) exec(ctx context.Context, st *run, cmd Command) {
	switch cmd.Type {
	case CmdAction:
		if err := st.eng.Act(ctx, st.id, cmd.Action); err != nil {
			fmt.Fprintf(st.out, "  ! %v\n", err)
			return
		}
		st.hand(ctx, cmd.Action.AgentID)
	case CmdTick:
		for left := cmd.Duration; left > 0; left -= r.step {
			if err := st.eng.TickSession(ctx, st.id, min(r.step, left)); err != nil {
				fmt.Fprintf(st.out, "  ! %v\n", err)
				break
			}
		}
		st.clock(ctx)
	case CmdPause:
		if err := st.eng.Pause(ctx, st.id); err != nil {
			fmt.Fprintf(st.out, "  ! %v\n", err)
		}
	case CmdResume:
		if _, err := st.eng.Resume(ctx, st.id); err != nil {
			fmt.Fprintf(st.out, "  ! %v\n", err)
		}
	case CmdStatus:
		st.status(ctx)
	case CmdHelp:
		for _, l := range strings.Split(HelpText, "\n") {
			fmt.Fprintf(st.out, "  %s\n", l)
		}
	}
}

func (st *run) world(ctx context.Context, fn func(*domain.Session, *kitchen.World)) {
	_ = st.eng.View(ctx, st.id, func(s *domain.Session) {
		w, _ := s.World.(*kitchen.World)
		fn(s, w)
	})
}

func (st *run) hand(ctx context.Context, agentID string) {
	st.world(ctx, func(_ *domain.Session, w *kitchen.World) {
		if a := w.Agent(agentID); a != nil {
			fmt.Fprintf(st.out, "  %s: %s\n", a.ID, food.Describe(a.Holding()))
		}
	})
}

func (st *run) clock(ctx context.Context) {
	st.world(ctx, func(s *domain.Session, _ *kitchen.World) {
		fmt.Fprintf(st.out, "  now %s\n", s.Elapsed)
	})
}

func (st *run) status(ctx context.Context) {
	st.world(ctx, func(s *domain.Session, w *kitchen.World) {
		fmt.Fprintf(st.out, "  %s, score %d, %s left, %d pending\n",
			s.Status, w.Score(), s.Remaining(), len(w.Orders().Pending()))
	})
}

// flush writes journal entries and effects recorded since the last flush.
// Progress indicators are left out.
func (st *run) flush() {
	entries := st.mem.Entries()
	for _, e := range entries[st.entries:] {
		fmt.Fprintf(st.out, "  . %s%s\n", e.Kind, formatFields(e.Fields))
	}
	st.entries = len(entries)

	shown := st.rec.Shown()
	for _, e := range shown[st.effects:] {
		if e.Kind == domain.EffectProgress {
			continue
		}
		col, row := kitchen.TileOf(e.At, st.tile)
		text := ""
		if e.Text != "" {
			text = " " + e.Text
		}
		fmt.Fprintf(st.out, "  * %s%s @ %d,%d\n", e.Kind, text, col, row)
	}
	st.effects = len(shown)
}

func (st *run) result(ctx context.Context) (*Result, error) {
	res := &Result{}
	err := st.eng.View(ctx, st.id, func(s *domain.Session) {
		res.Status, res.Elapsed = s.Status, s.Elapsed
		res.Score = s.World.Score()
		w, ok := s.World.(*kitchen.World)
		if !ok {
			return
		}
		fmt.Fprintf(st.out, "score %d\n", res.Score)
		for _, o := range w.Orders().Orders() {
			fmt.Fprintf(st.out, "order %d %s %s\n", o.ID, o.Recipe.Name, o.Status)
			switch o.Status {
			case domain.OrderCompleted:
				res.Completed++
			case domain.OrderExpired:
				res.Expired++
			}
		}
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return res, nil
}

func formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := fmt.Sprint(fields[k])
		if strings.ContainsRune(v, ' ') {
			v = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&b, " %s=%s", k, v)
	}
	return b.String()
}
