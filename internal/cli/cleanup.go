package cli

import (
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/config"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/datagen"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/db"
)

var cleanupSummaryPath string

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete all rows listed in a generation summary (idempotent)",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := datagen.LoadSummary(cleanupSummaryPath)
		if err != nil {
			return err
		}

		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		pg, err := db.New(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()

		err = db.WithinTransaction(ctx, pg.Pool, func(tx pgx.Tx) error {
			return datagen.Cleanup(ctx, datagen.NewStores(tx), summary)
		})
		if err != nil {
			return err
		}

		log.Info().Stringer("run_id", summary.RunID).Msg("Dataset cleaned up")
		return nil
	},
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupSummaryPath, "summary", "summary.json", "path to the generation summary")
	rootCmd.AddCommand(cleanupCmd)
}
