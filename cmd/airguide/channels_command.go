package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List configured channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cooldowns, err := ctx.openEngine(false)
			if err != nil {
				return err
			}
			defer cooldowns.Close()

			channels := engine.Channels(allFlag)
			if len(channels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No channels configured.")
				return nil
			}

			rows := make([][]string, 0, len(channels))
			for _, ch := range channels {
				state := "enabled"
				if !ch.Enabled {
					state = "disabled"
				}
				rows = append(rows, []string{
					ch.ID,
					ch.Name,
					strconv.Itoa(ch.Priority),
					strconv.Itoa(len(ch.Slots)),
					state,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Priority", "Slots", "State"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&allFlag, "all", "a", false, "Include disabled channels")
	return cmd
}
