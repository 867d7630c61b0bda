package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectListCommand(ctx))
	cmd.AddCommand(newProjectShowCommand(ctx))
	cmd.AddCommand(newProjectCreateCommand(ctx))
	cmd.AddCommand(newProjectDeleteCommand(ctx))
	return cmd
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var list projectListView
			if err := client.get(cmd.Context(), "/api/projects", &list); err != nil {
				return err
			}
			if len(list.Projects) == 0 {
				cmd.Println("No projects.")
				return nil
			}
			rows := make([][]string, 0, len(list.Projects))
			for _, p := range list.Projects {
				rows = append(rows, []string{
					p.ID,
					p.Title,
					strconv.Itoa(p.CurrentStep),
					fmt.Sprintf("%d/%d", p.EpisodesGenerated, p.NumEpisodes),
					strconv.Itoa(p.ImagesPendingReview),
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "Title", "Step", "Episodes", "Images to review"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var p projectView
			if err := client.get(cmd.Context(), "/api/projects/"+args[0], &p); err != nil {
				return err
			}
			cmd.Printf("Title:        %s\n", p.Title)
			cmd.Printf("ID:           %s\n", p.ID)
			cmd.Printf("Setting:      %s\n", p.Setting)
			cmd.Printf("Step:         %d\n", p.CurrentStep)
			cmd.Printf("Episodes:     %d planned, %d generated\n", p.NumEpisodes, p.EpisodesGenerated)
			cmd.Printf("Ideas:        %d\n", p.IdeaCount)
			cmd.Printf("Image review: %d pending\n", p.ImagesPendingReview)
			return nil
		},
	}
}

func newProjectCreateCommand(ctx *commandContext) *cobra.Command {
	var setting string
	var episodes int

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var p projectView
			body := map[string]any{
				"title":        args[0],
				"setting":      setting,
				"num_episodes": episodes,
			}
			if err := client.post(cmd.Context(), "/api/projects", body, &p); err != nil {
				return err
			}
			cmd.Printf("Created project %s (%s)\n", p.Title, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&setting, "setting", "", "Where the series takes place")
	cmd.Flags().IntVar(&episodes, "episodes", 10, "Number of episodes to plan")
	return cmd
}

func newProjectDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if err := client.delete(cmd.Context(), "/api/projects/"+args[0]); err != nil {
				return err
			}
			cmd.Println("Deleted.")
			return nil
		},
	}
}

func newAdvanceCommand(ctx *commandContext) *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "advance <project-id>",
		Short: "Advance a project to its next step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			body := map[string]int{}
			if step > 0 {
				body["step"] = step
			}
			var p projectView
			if err := client.post(cmd.Context(), "/api/projects/"+args[0]+"/advance-step", body, &p); err != nil {
				return err
			}
			cmd.Printf("Project now at step %d\n", p.CurrentStep)
			return nil
		},
	}
	cmd.Flags().IntVar(&step, "step", 0, "Target step (defaults to the next one)")
	return cmd
}

func newProgressCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <project-id>",
		Short: "Show step progress for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var p progressView
			if err := client.get(cmd.Context(), "/api/projects/"+args[0]+"/progress", &p); err != nil {
				return err
			}
			cmd.Printf("Step %d: %s\n", p.CurrentStep, p.StepName)
			if p.ItemsTotal > 0 {
				cmd.Printf("Items:  %d/%d done", p.ItemsCompleted, p.ItemsTotal)
				if p.ItemsPending > 0 {
					cmd.Printf(" (%d pending)", p.ItemsPending)
				}
				cmd.Println()
			}
			if p.CanProceed {
				cmd.Println("Ready to advance.")
			} else if p.BlockingReason != "" {
				cmd.Printf("Blocked: %s\n", p.BlockingReason)
			}
			return nil
		},
	}
}
