package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newStuckCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stuck",
		Short: "Inspect and recover stalled generation work",
	}
	cmd.AddCommand(newStuckListCommand(ctx))
	cmd.AddCommand(newStuckResetCommand(ctx))
	return cmd
}

func newStuckListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List entities stuck in the generating state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var list stuckListView
			if err := client.get(cmd.Context(), "/api/projects/"+args[0]+"/stuck", &list); err != nil {
				return err
			}
			if len(list.Stuck) == 0 {
				cmd.Println("Nothing stuck.")
				return nil
			}
			rows := make([][]string, 0, len(list.Stuck))
			for _, entity := range list.Stuck {
				rows = append(rows, []string{
					entity.Kind,
					entity.ID,
					entity.State,
					time.Since(entity.CreatedAt).Round(time.Minute).String(),
				})
			}
			cmd.Println(renderTable(
				[]string{"Kind", "ID", "State", "Age"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newStuckResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <project-id> <kind> <entity-id>",
		Short: "Reset one stuck entity back to pending",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			body := map[string]string{"kind": args[1], "id": args[2]}
			if err := client.post(cmd.Context(), "/api/projects/"+args[0]+"/stuck/reset", body, nil); err != nil {
				return err
			}
			cmd.Println("Reset.")
			return nil
		},
	}
}
