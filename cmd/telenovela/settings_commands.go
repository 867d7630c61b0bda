package main

import (
	"github.com/spf13/cobra"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change daemon settings",
	}
	cmd.AddCommand(newSettingsListCommand(ctx))
	cmd.AddCommand(newSettingsSetCommand(ctx))
	return cmd
}

func newSettingsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var list settingsListView
			if err := client.get(cmd.Context(), "/api/settings", &list); err != nil {
				return err
			}
			if len(list.Settings) == 0 {
				cmd.Println("No settings stored.")
				return nil
			}
			rows := make([][]string, 0, len(list.Settings))
			for _, setting := range list.Settings {
				rows = append(rows, []string{setting.Key, setting.Value})
			}
			cmd.Println(renderTable(
				[]string{"Key", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			body := map[string]string{"value": args[1]}
			var setting settingView
			if err := client.put(cmd.Context(), "/api/settings/"+args[0], body, &setting); err != nil {
				return err
			}
			cmd.Printf("%s = %s\n", setting.Key, setting.Value)
			return nil
		},
	}
}
