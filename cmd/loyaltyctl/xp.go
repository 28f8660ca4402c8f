package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resetXPCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset-xp",
		Short: "Reset every player's XP to zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset all XP without --yes")
			}
			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := newServices(pool).xp.ResetAll(cmd.Context(), 0)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %d players\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
