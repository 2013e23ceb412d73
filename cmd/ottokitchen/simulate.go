package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottokitchen/internal/journal"
	"github.com/hammamikhairi/ottokitchen/internal/present"
	"github.com/hammamikhairi/ottokitchen/internal/recipe"
	"github.com/hammamikhairi/ottokitchen/internal/script"
)

func newSimulateCommand(root *rootOptions) *cobra.Command {
	var (
		level      string
		journalDir string
		live       bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <script>",
		Short: "Replay a command script in simulated time and print the trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, recipes, err := root.load(ctx)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sc, err := script.NewParser(cfg.TileSize, root.log).Parse(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			var opts []script.RunnerOption
			if root.Seed != 0 {
				opts = append(opts, script.WithSeed(root.Seed))
			}
			if live {
				stderr := cmd.ErrOrStderr()
				opts = append(opts, script.WithPresenter(present.NewPrinter(root.log, func(format string, a ...any) {
					fmt.Fprintf(stderr, format+"\n", a...)
				})))
			}
			if journalDir != "" {
				jw := journal.NewWriter(journalDir, "simulate", journal.WithLogger(root.log))
				defer jw.Close()
				opts = append(opts, script.WithJournal(jw))
			}

			res, err := script.NewRunner(cfg, recipes, root.log, opts...).Run(ctx, level, sc, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			root.log.Info("simulation done: %s after %s, score %d, %d completed, %d expired",
				res.Status, res.Elapsed, res.Score, res.Completed, res.Expired)
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "level to play (overrides the script's level line)")
	cmd.Flags().StringVar(&journalDir, "journal-dir", "", "also write a zstd event journal to this directory")
	cmd.Flags().BoolVar(&live, "live", false, "echo effects in colour on stderr as they happen")
	return cmd
}

func newLevelsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the configured levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, l := range cfg.Levels {
				width := 0
				for _, row := range l.Layout {
					width = max(width, len(row))
				}
				fmt.Fprintf(out, "%-14s %-14s %dx%d  %s\n", l.ID, l.Name, width, len(l.Layout), strings.Join(l.Recipes, ", "))
			}
			return nil
		},
	}
}

func newRecipesCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List the available recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, recipes, err := root.load(ctx)
			if err != nil {
				return err
			}
			list, err := recipes.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range list {
				fmt.Fprintf(out, "%-16s %-20s %-8s difficulty %d\n", r.ID, r.Name, r.Category, r.Difficulty)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check a JSON recipe pack against the recipe schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pack, err := recipe.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d recipes OK\n", args[0], len(pack))
			return nil
		},
	})
	return cmd
}

func newJournalCommand(root *rootOptions) *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "journal <file>",
		Short: "Print a zstd event journal as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := journal.ReadFile(args[0])
			if err != nil {
				return err
			}
			sort.Strings(kinds)
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, e := range entries {
				if len(kinds) > 0 {
					if i := sort.SearchStrings(kinds, e.Kind); i == len(kinds) || kinds[i] != e.Kind {
						continue
					}
				}
				if err := enc.Encode(e); err != nil {
					return err
				}
			}
			root.log.Debug("journal %s: %d entries", args[0], len(entries))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only print entries of these kinds")
	return cmd
}
