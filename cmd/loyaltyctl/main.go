// Command loyaltyctl is the operator tool: migrations, catalog seeding, XP resets and tokens.
package main

import (
	"errors"
	"os"
	"strings"

	"casino_loyalty/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "loyaltyctl",
		Short:         "Loyalty platform operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(viper.GetString("log_level"), false)
		},
	}

	pf := root.PersistentFlags()
	pf.String("database-url", "", "postgres DSN (env DATABASE_URL)")
	pf.String("jwt-secret", "", "HS256 signing secret (env JWT_SECRET)")
	pf.String("log-level", "info", "log level (env LOG_LEVEL)")
	_ = viper.BindPFlag("database_url", pf.Lookup("database-url"))
	_ = viper.BindPFlag("jwt_secret", pf.Lookup("jwt-secret"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(migrateCmd(), seedCmd(), resetXPCmd(), tokenCmd(), wsSmokeCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func requireSetting(key, env string) (string, error) {
	v := strings.TrimSpace(viper.GetString(key))
	if v == "" {
		return "", errors.New(env + " is not set")
	}
	return v, nil
}
