package main

import (
	"fmt"

	"casino_loyalty/internal/db"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "List embedded migrations, or apply them with --apply",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !apply {
				names, err := db.Migrations()
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}

			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.Migrate(cmd.Context(), pool, func(name string) {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			})
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "apply migrations")
	return cmd
}
