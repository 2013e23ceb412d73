package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottokitchen/internal/display"
	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/engine"
	"github.com/hammamikhairi/ottokitchen/internal/journal"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
	"github.com/hammamikhairi/ottokitchen/internal/script"
	"github.com/hammamikhairi/ottokitchen/internal/sound"
	"github.com/hammamikhairi/ottokitchen/internal/storage"
	"github.com/hammamikhairi/ottokitchen/internal/timer"
)

type playOptions struct {
	NoSound    bool
	SoundDir   string
	JournalDir string
	TimeScale  float64
	WarnAt     time.Duration
	Refresh    time.Duration
}

func newPlayCommand(root *rootOptions) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play [level]",
		Short: "Play a round in the terminal",
		Long: `Start a round on a level (the first configured level by default).

Type commands at the prompt, for example "p1 pickup 0 1" or "p2 throw 9 1".
Time runs in real time; the round ends when the clock runs out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := ""
			if len(args) == 1 {
				level = args[0]
			}
			return runPlay(cmd.Context(), root, opts, level)
		},
	}

	cmd.Flags().BoolVar(&opts.NoSound, "no-sound", false, "disable sound cues")
	cmd.Flags().StringVar(&opts.SoundDir, "sound-dir", "", "directory of <cue>.wav files replacing the synthesized cues")
	cmd.Flags().StringVar(&opts.JournalDir, "journal-dir", ".otto-logs", "directory for the zstd event journal (empty disables it)")
	cmd.Flags().Float64Var(&opts.TimeScale, "time-scale", 1, "simulated seconds per real second")
	cmd.Flags().DurationVar(&opts.WarnAt, "warn-at", 30*time.Second, "warn when this much of the round is left")
	cmd.Flags().DurationVar(&opts.Refresh, "refresh", 200*time.Millisecond, "how often the kitchen view redraws")

	return cmd
}

func runPlay(ctx context.Context, root *rootOptions, opts *playOptions, levelID string) error {
	log := root.log
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, recipes, err := root.load(ctx)
	if err != nil {
		return err
	}
	if levelID == "" {
		if len(cfg.Levels) == 0 {
			return fmt.Errorf("no levels configured: %w", domain.ErrUnknownLevel)
		}
		levelID = cfg.Levels[0].ID
	}

	var eng *engine.Engine
	ui := display.NewUI(display.ViewerFunc(func(ctx context.Context, id string, fn func(*domain.Session)) error {
		return eng.View(ctx, id, fn)
	}), display.WithTileSize(cfg.TileSize), display.WithRefresh(opts.Refresh))

	cuer := newCuer(opts, log)
	defer cuer.Close()

	engOpts := []engine.Option{engine.WithPresenter(sound.NewPresenter(ui, cuer))}
	if opts.JournalDir != "" {
		jw := journal.NewWriter(opts.JournalDir, "kitchen", journal.WithLogger(log))
		defer jw.Close()
		engOpts = append(engOpts, engine.WithJournal(jw))
	}
	if root.Seed != 0 {
		engOpts = append(engOpts, engine.WithSeed(root.Seed))
	}

	store := storage.NewMemoryStore(log)
	eng = engine.New(cfg, recipes, store, log, engOpts...)

	session, err := eng.StartSession(ctx, levelID)
	if err != nil {
		return err
	}
	ui.SetSession(session.ID)

	app := &playApp{
		engine:    eng,
		parser:    script.NewParser(cfg.TileSize, log),
		ui:        ui,
		log:       log,
		sessionID: session.ID,
	}

	supervisor := timer.New(eng, store, log,
		timer.WithTickInterval(cfg.Tick()),
		timer.WithTimeScale(opts.TimeScale),
		timer.WithAlmostDoneThreshold(opts.WarnAt),
		timer.WithWarnFunc(func(_ string, msg string) { ui.PrintUrgent(msg) }),
		timer.WithOnTick(func() { app.checkRoundOver(ctx) }),
	)

	fmt.Println(display.RenderBanner(session.LevelName))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		supervisor.Start(ctx)
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	supervisor.Stop()

	_ = eng.View(context.Background(), session.ID, func(s *domain.Session) {
		fmt.Printf("Round %s. Final score: %d\n", s.Status, s.World.Score())
	})
	if best, err := eng.HighScores(context.Background(), levelID, 1); err == nil && len(best) == 1 {
		fmt.Printf("Best completed round on %s: %d\n", best[0].LevelName, best[0].FinalScore)
	}
	return nil
}

func newCuer(opts *playOptions, log *logger.Logger) sound.Cuer {
	if opts.NoSound {
		return sound.NewNoOp(log)
	}
	bank := sound.NewBank()
	if opts.SoundDir != "" {
		if n, err := bank.LoadDir(opts.SoundDir); err != nil {
			log.Warn("sound: %v (using synthesized cues)", err)
		} else {
			log.Info("sound: %d cues loaded from %s", n, opts.SoundDir)
		}
	}
	player, err := sound.NewPlayer(bank, log)
	if err != nil {
		log.Error("audio player init failed, sound disabled: %v", err)
		return sound.NewNoOp(log)
	}
	return player
}

type playApp struct {
	engine    *engine.Engine
	parser    *script.Parser
	ui        *display.UI
	log       *logger.Logger
	sessionID string
	announced atomic.Bool
}

// run handles prompt lines until the user quits or the UI closes.
func (a *playApp) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.ui.QuitChan():
			return
		case line := <-a.ui.InputChan():
			if !a.handle(ctx, line) {
				return
			}
		}
	}
}

// handle executes one line and reports whether to keep going.
func (a *playApp) handle(ctx context.Context, line string) bool {
	cmd, err := a.parser.ParseLine(line)
	if err != nil {
		a.ui.PrintUrgent(err.Error() + " (type 'help')")
		return true
	}

	switch cmd.Type {
	case script.CmdNone:
	case script.CmdAction:
		if err := a.engine.Act(ctx, a.sessionID, cmd.Action); err != nil {
			a.actionFailed(err)
		}
	case script.CmdTick, script.CmdLevel:
		a.ui.PrintHint(fmt.Sprintf("%s only works in scripts", cmd.Type))
	case script.CmdPause:
		if err := a.engine.Pause(ctx, a.sessionID); err != nil {
			a.ui.PrintUrgent(err.Error())
			return true
		}
		a.ui.PrintInfo("Paused. Type 'resume' to carry on.")
	case script.CmdResume:
		if _, err := a.engine.Resume(ctx, a.sessionID); err != nil {
			a.ui.PrintUrgent(err.Error())
			return true
		}
		a.ui.PrintInfo("Back to it.")
	case script.CmdStatus:
		a.printStatus(ctx)
	case script.CmdHelp:
		for _, l := range strings.Split(script.HelpText, "\n") {
			a.ui.PrintHint(l)
		}
	case script.CmdQuit:
		if err := a.engine.Abandon(ctx, a.sessionID); err != nil {
			a.log.Warn("abandon: %v", err)
		}
		return false
	}
	return true
}

func (a *playApp) actionFailed(err error) {
	switch {
	case errors.Is(err, domain.ErrRefused):
		a.ui.PrintHint(strings.TrimPrefix(err.Error(), domain.ErrRefused.Error()+": "))
	case errors.Is(err, domain.ErrSessionPaused):
		a.ui.PrintHint("The kitchen is paused. Type 'resume' first.")
	case errors.Is(err, domain.ErrRoundOver):
		a.ui.PrintHint("The round is over. Type 'quit' to leave.")
	default:
		a.ui.PrintUrgent(err.Error())
	}
}

func (a *playApp) printStatus(ctx context.Context) {
	var snap display.Snapshot
	if err := a.engine.View(ctx, a.sessionID, func(s *domain.Session) { snap = display.Snap(s) }); err != nil {
		a.ui.PrintUrgent(err.Error())
		return
	}
	a.ui.PrintInfo(fmt.Sprintf("%s: %s, score %d, %s left", snap.Level, snap.Status, snap.Score, timer.FormatRemaining(snap.Remaining)))
	for _, o := range snap.Orders {
		a.ui.PrintHint(fmt.Sprintf("%s (%s)", o.Name, timer.FormatRemaining(o.Remaining)))
	}
	for _, h := range snap.Hands {
		a.ui.PrintHint(h)
	}
}

// checkRoundOver announces the end of the round once.
func (a *playApp) checkRoundOver(ctx context.Context) {
	if a.announced.Load() {
		return
	}
	var (
		over  bool
		score int
	)
	_ = a.engine.View(ctx, a.sessionID, func(s *domain.Session) {
		over, score = s.Status == domain.SessionCompleted, s.FinalScore
	})
	if !over {
		return
	}
	if a.announced.CompareAndSwap(false, true) {
		a.ui.PrintInfo(fmt.Sprintf("Time! Final score: %d. Type 'quit' to leave.", score))
	}
}
