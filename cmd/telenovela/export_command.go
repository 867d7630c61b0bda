package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var screenplayOut bool
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a project as JSON or screenplay text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			path := "/api/projects/" + args[0] + "/export"
			if screenplayOut {
				path += "/screenplay"
			}
			var raw []byte
			if err := client.get(cmd.Context(), path, &raw); err != nil {
				return err
			}
			if outputPath == "" {
				cmd.Println(string(raw))
				return nil
			}
			if err := os.WriteFile(outputPath, raw, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			cmd.Printf("Wrote %s\n", outputPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&screenplayOut, "screenplay", false, "Export formatted screenplay text instead of JSON")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
