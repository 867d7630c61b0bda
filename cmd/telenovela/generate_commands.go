package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// generateEndpoints maps each pipeline stage the CLI can trigger to its
// daemon endpoint suffix.
var generateEndpoints = map[string]string{
	"ideas":             "/ideas/generate",
	"structure":         "/structure/generate",
	"episodes":          "/episodes/generate",
	"image-prompts":     "/image-prompts/generate",
	"reference-prompts": "/references/prompts/generate",
	"reference-images":  "/references/images/generate",
	"images":            "/images/generate",
	"thumbnails":        "/thumbnails/generate",
	"thumbnail-images":  "/thumbnails/render",
	"video-prompts":     "/video-prompts/generate",
	"videos":            "/videos/generate",
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var settingHint string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "generate <stage> <project-id>",
		Short: "Run a generation stage for a project",
		Long: `Run one generation stage. Stages: ideas, structure, episodes,
image-prompts, reference-prompts, reference-images, images, thumbnails,
thumbnail-images, video-prompts, videos.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, projectID := args[0], args[1]
			suffix, ok := generateEndpoints[stage]
			if !ok {
				return fmt.Errorf("unknown stage %q", stage)
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}

			var body any
			switch stage {
			case "ideas":
				body = map[string]string{"setting_hint": settingHint}
			case "episodes":
				body = map[string]int{"batch_size": batchSize}
			}

			var result map[string]any
			if err := client.post(cmd.Context(), "/api/projects/"+projectID+suffix, body, &result); err != nil {
				return err
			}
			printGenerateResult(cmd, result)
			return nil
		},
	}
	cmd.Flags().StringVar(&settingHint, "setting-hint", "", "Optional setting hint for idea generation")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Episodes per batch (defaults to the server's)")
	return cmd
}

func printGenerateResult(cmd *cobra.Command, result map[string]any) {
	if created, ok := result["created"]; ok {
		cmd.Printf("Created %v items\n", created)
		return
	}
	if applied, ok := result["applied"]; ok {
		cmd.Printf("Applied %v of %v requested", applied, result["requested"])
		if rolledBack, ok := result["rolled_back"]; ok {
			cmd.Printf(", rolled back %v", rolledBack)
		}
		cmd.Println()
		return
	}
	if ideas, ok := result["ideas"].([]any); ok {
		cmd.Printf("Generated %d ideas\n", len(ideas))
		return
	}
	cmd.Println("Done.")
}
