// Package cli — командная оболочка утилиты: seed, cleanup, verify.
package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecommerce-testdata [command]",
	Short: "Reproducible test data for the e-commerce schema",
	Long: `Generates a consistent, seeded set of users, products, orders,
order items and reviews in PostgreSQL, verifies it and cleans it up.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		log.Logger = log.With().Str("service", "ecommerce-testdata").Logger()
	},
}

// Execute запускает корневую команду.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
