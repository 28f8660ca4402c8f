package main

import (
	"fmt"
	"time"

	"casino_loyalty/internal/service"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		userID int64
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed JWT for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user-id must be positive")
			}
			if role != service.RolePlayer && role != service.RoleAdmin {
				return fmt.Errorf("unknown role %q", role)
			}
			secret, err := requireSetting("jwt_secret", "JWT_SECRET")
			if err != nil {
				return err
			}
			service.InitJWT(secret)

			tok, err := service.GenerateJWTWithTTL(userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "user id")
	cmd.Flags().StringVar(&role, "role", service.RolePlayer, "player|admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
