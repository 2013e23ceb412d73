// OttoKitchen is a real-time cooperative cooking game in the terminal.
//
// Usage:
//
//	ottokitchen play [level]
//	ottokitchen simulate <script>
//	ottokitchen levels | recipes | recipes validate <file> | journal <file>
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottokitchen/internal/config"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
	"github.com/hammamikhairi/ottokitchen/internal/recipe"
)

// Environment overrides for flag defaults. A .env file in the working
// directory is loaded first.
const (
	envConfig  = "OTTO_KITCHEN_CONFIG"
	envRecipes = "OTTO_KITCHEN_RECIPES"
	envSeed    = "OTTO_KITCHEN_SEED"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose     bool
	Quiet       bool
	LogFile     string
	ConfigPath  string
	RecipesPath string
	Seed        uint64

	log     *logger.Logger
	logFile io.Closer
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "ottokitchen",
		Short:         "OttoKitchen - cook together against the clock",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.openLog(cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logFile != nil {
				return opts.logFile.Close()
			}
			return nil
		},
	}

	seed, _ := strconv.ParseUint(os.Getenv(envSeed), 10, 64)

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose/debug logging")
	cmd.PersistentFlags().BoolVar(&opts.Quiet, "quiet", false, "disable all logging")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", ".otto-logs/kitchen.log", "file to write logs to (use \"stderr\" to log to console)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", os.Getenv(envConfig), "kitchen tuning YAML overlaid on the defaults")
	cmd.PersistentFlags().StringVar(&opts.RecipesPath, "recipes", os.Getenv(envRecipes), "JSON recipe pack added to the built-in recipes")
	cmd.PersistentFlags().Uint64Var(&opts.Seed, "seed", seed, "order sampling seed (0 picks one from the clock)")

	cmd.AddCommand(newPlayCommand(opts))
	cmd.AddCommand(newSimulateCommand(opts))
	cmd.AddCommand(newLevelsCommand(opts))
	cmd.AddCommand(newRecipesCommand(opts))
	cmd.AddCommand(newJournalCommand(opts))

	return cmd
}

// openLog directs logs to a file by default so the terminal UI stays
// clean.
func (o *rootOptions) openLog(stderr io.Writer) {
	level := logger.LevelNormal
	if o.Verbose {
		level = logger.LevelVerbose
	}
	if o.Quiet {
		level = logger.LevelOff
	}

	out := stderr
	if o.LogFile != "" && o.LogFile != "stderr" && level != logger.LevelOff {
		if dir := filepath.Dir(o.LogFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", o.LogFile, err)
		} else {
			out = f
			o.logFile = f
		}
	}

	// Third-party libraries log through the standard logger.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	o.log = logger.New(level, out)
}

// load reads the tuning and the recipe catalogue.
func (o *rootOptions) load(ctx context.Context) (config.Config, *recipe.MemorySource, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(o.ConfigPath); err != nil {
			return cfg, nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("config: %w", err)
	}

	src := recipe.NewMemorySource(o.log)
	if o.RecipesPath != "" {
		pack, err := recipe.LoadFile(o.RecipesPath)
		if err != nil {
			return cfg, nil, err
		}
		if err := src.Add(ctx, pack...); err != nil {
			return cfg, nil, err
		}
		o.log.Info("loaded %d recipes from %s", len(pack), o.RecipesPath)
	}
	return cfg, src, nil
}
