package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fundledger/internal/database"
)

func seedCmd() *cobra.Command {
	var adminName string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the Main and Retain accounts and the admin user",
		Long: `Create the Main and Retain accounts and the admin user from
ADMIN_USERNAME and ADMIN_PASSWORD. Existing rows are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, m, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			if err := database.Seed(m.DB(), database.SeedConfig{
				AdminUsername:          cfg.AdminUsername,
				AdminPassword:          cfg.AdminPassword,
				AdminName:              adminName,
				PartnerDefaultPassword: cfg.PartnerDefaultPassword,
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&adminName, "admin-name", "Administrator", "display name of the admin user")
	return cmd
}
