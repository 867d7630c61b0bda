package main

import (
	"github.com/spf13/cobra"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the daemon and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var resp struct {
				Token        string `json:"token"`
				ExpiresIn    int    `json:"expires_in"`
				AuthRequired *bool  `json:"auth_required"`
			}
			body := map[string]string{"password": password}
			if err := client.post(cmd.Context(), "/api/auth/login", body, &resp); err != nil {
				return err
			}
			if resp.AuthRequired != nil && !*resp.AuthRequired {
				cmd.Println("Daemon does not require authentication.")
				return nil
			}
			cmd.Println(resp.Token)
			cmd.PrintErrln("Export TELENOVELA_TOKEN with this value to authenticate later calls.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Daemon password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check daemon health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var resp struct {
				Status string `json:"status"`
			}
			if err := client.get(cmd.Context(), "/api/health", &resp); err != nil {
				return err
			}
			cmd.Printf("Daemon status: %s\n", resp.Status)
			return nil
		},
	}
}
