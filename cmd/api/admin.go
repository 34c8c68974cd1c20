package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harentsoaR/healthcare-api/internal/services"
)

// createAdminCmd is the only way to provision an Admin account.
func createAdminCmd() *cobra.Command {
	var req services.SignupRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			user, err := a.handler.Auth.CreateAdmin(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.EmailID, user.ID.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.EmailID, "email", "", "admin email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password (8-72 characters)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}
