package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"airguide/internal/store"
)

func newGuideCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "guide <channel-id>",
		Short: "Render the program guide for a channel and date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().UTC()
			if dateFlag != "" {
				parsed, err := time.Parse(store.DateLayout, dateFlag)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateFlag)
				}
				day = parsed
			}

			engine, cooldowns, err := ctx.openEngine(false)
			if err != nil {
				return err
			}
			defer cooldowns.Close()

			programs, err := engine.GenerateSchedule(cmd.Context(), args[0], day)
			if err != nil {
				return err
			}

			if jsonFlag {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(programs)
			}

			if len(programs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No programs scheduled for %s on %s.\n",
					args[0], day.Format(store.DateLayout))
				return nil
			}

			rows := make([][]string, 0, len(programs))
			for _, p := range programs {
				provider := p.ProviderName
				if provider == "" {
					provider = "-"
				}
				rows = append(rows, []string{
					p.Start.Format("15:04"),
					p.End.Format("15:04"),
					p.Title,
					string(p.Kind),
					strconv.Itoa(p.RuntimeMinutes),
					p.SlotLabel,
					provider,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Start", "End", "Title", "Kind", "Min", "Slot", "Provider"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Guide date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit programs as JSON")
	return cmd
}
