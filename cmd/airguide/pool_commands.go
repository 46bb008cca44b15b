package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"airguide/internal/content"
	"airguide/internal/language"
)

type languageCount struct {
	name  string
	count int
}

// languageBreakdown groups pool records by base language display name,
// most common first.
func languageBreakdown(records []content.Record) []languageCount {
	counts := make(map[string]int)
	for _, r := range records {
		code := language.Normalize(r.OriginalLanguage)
		if code == "" {
			continue
		}
		counts[language.DisplayName(code)]++
	}
	out := make([]languageCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, languageCount{name: name, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

func newPoolCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Inspect and refresh the content pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newPoolStatusCommand(ctx))
	cmd.AddCommand(newPoolBuildCommand(ctx))
	cmd.AddCommand(newPoolExpandCommand(ctx))
	cmd.AddCommand(newPoolResetCooldownsCommand(ctx))
	return cmd
}

func newPoolStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pool size and composition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cooldowns, err := ctx.openEngine(false)
			if err != nil {
				return err
			}
			defer cooldowns.Close()

			records := engine.Pool()
			var movies, series, premium, attributed int
			for _, r := range records {
				switch r.Kind {
				case content.KindMovie:
					movies++
				case content.KindSeries:
					series++
				}
				if r.IsPremium {
					premium++
				}
				if len(r.OriginChannels) > 0 {
					attributed++
				}
			}

			rows := [][]string{
				{"Total", strconv.Itoa(len(records))},
				{"Movies", strconv.Itoa(movies)},
				{"Series", strconv.Itoa(series)},
				{"Premium", strconv.Itoa(premium)},
				{"Channel-attributed", strconv.Itoa(attributed)},
			}
			for _, lang := range languageBreakdown(records) {
				rows = append(rows, []string{lang.name, strconv.Itoa(lang.count)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Metric", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newPoolBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Rebuild the content pool from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cooldowns, err := ctx.openEngine(true)
			if err != nil {
				return err
			}
			defer cooldowns.Close()

			before := engine.PoolSize()
			if err := engine.BuildPool(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pool rebuilt: %d items (was %d).\n",
				engine.PoolSize(), before)
			return nil
		},
	}
}

func newPoolExpandCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "expand",
		Short: "Expand the pool with slot-targeted discovery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cooldowns, err := ctx.openEngine(true)
			if err != nil {
				return err
			}
			defer cooldowns.Close()

			before := engine.PoolSize()
			if err := engine.ExpandPool(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pool expanded: %d items (was %d).\n",
				engine.PoolSize(), before)
			return nil
		},
	}
}

func newPoolResetCooldownsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-cooldowns",
		Short: "Clear all recorded play dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cooldowns, err := ctx.openEngine(false)
			if err != nil {
				return err
			}
			defer cooldowns.Close()

			if err := engine.ResetCooldowns(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cooldowns cleared.")
			return nil
		},
	}
}
