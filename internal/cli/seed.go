package cli

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/config"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/datagen"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/db"
)

var (
	seedUsers    int
	seedProducts int
	seedOrders   int
	seedValue    int64
	seedOut      string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply migrations and generate a full test dataset in one transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}

		if err := db.ApplyMigrations(cfg.Postgres); err != nil {
			return err
		}

		ctx := cmd.Context()
		pg, err := db.New(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()

		if seedValue == 0 {
			seedValue = time.Now().UnixNano()
		}

		gen := datagen.New(datagen.DefaultOptions(seedValue))

		var summary *datagen.Summary
		err = db.WithinTransaction(ctx, pg.Pool, func(tx pgx.Tx) error {
			var genErr error
			summary, genErr = gen.GenerateComplete(ctx, datagen.NewStores(tx), seedUsers, seedProducts, seedOrders)
			return genErr
		})
		if err != nil {
			return err
		}

		if err := summary.Save(seedOut); err != nil {
			return err
		}

		log.Info().Str("summary_file", seedOut).Int64("seed", seedValue).Msgf("Dataset generated: %s", summary)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedUsers, "users", 5, "number of users to generate")
	seedCmd.Flags().IntVar(&seedProducts, "products", 10, "number of products to generate")
	seedCmd.Flags().IntVar(&seedOrders, "orders", 3, "number of orders to generate")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "random seed (0 = current time)")
	seedCmd.Flags().StringVar(&seedOut, "out", "summary.json", "path to write the generation summary")
	rootCmd.AddCommand(seedCmd)
}
