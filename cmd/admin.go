package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newAdminCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(newAdminGrantCmd(opts))
	return cmd
}

func newAdminGrantCmd(opts *rootOptions) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Give an existing user admin access",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withComponents(cmd.Context(), nil, func(ctx context.Context, c *Components) error {
				u, err := c.Auth.GrantAdmin(ctx, email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) is now an admin\n", u.ID, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
