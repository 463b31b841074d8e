package cli

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/config"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/datagen"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/db"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/order"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/product"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/review"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/user"
)

var verifySummaryPath string

var loyaltyStatusPattern = regexp.MustCompile(`^(BRONZE|SILVER|GOLD|PLATINUM)$`)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a generated dataset against its invariants",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := datagen.LoadSummary(verifySummaryPath)
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

		if err := verifyDataset(ctx, pg.Pool, summary); err != nil {
			return err
		}

		log.Info().Stringer("run_id", summary.RunID).Msgf("Dataset verified: %s", summary)
		return nil
	},
}

// verifyDataset перечитывает все строки сводки и проверяет инварианты:
// внешние ключи разрешаются, позиции считаются точно, отзывы в границах,
// хранимые функции отвечают осмысленно.
func verifyDataset(ctx context.Context, q db.Querier, summary *datagen.Summary) error {
	users := user.NewRepository(q)
	products := product.NewRepository(q)
	orders := order.NewRepository(q)
	items := order.NewItemRepository(q)
	reviews := review.NewRepository(q)

	userSet := make(map[int64]struct{}, len(summary.UserIDs))
	for _, id := range summary.UserIDs {
		if _, err := users.GetByID(ctx, id); err != nil {
			return fmt.Errorf("verify: user %d: %w", id, err)
		}
		userSet[id] = struct{}{}
	}

	productSet := make(map[int64]struct{}, len(summary.ProductIDs))
	for _, id := range summary.ProductIDs {
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("verify: product %d: %w", id, err)
		}
		if p.Price.Sign() <= 0 {
			return fmt.Errorf("verify: product %d has non-positive price %s", id, p.Price)
		}
		productSet[id] = struct{}{}
	}

	for _, id := range summary.OrderIDs {
		o, err := orders.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("verify: order %d: %w", id, err)
		}
		if _, ok := userSet[o.UserID]; !ok {
			return fmt.Errorf("verify: order %d references unknown user %d", id, o.UserID)
		}
		if o.Status.HasShippedDate() != (o.ShippedDate != nil) {
			return fmt.Errorf("verify: order %d violates shipped date invariant (status %s)", id, o.Status)
		}

		orderItems, err := items.ListByOrderID(ctx, id)
		if err != nil {
			return fmt.Errorf("verify: order %d items: %w", id, err)
		}
		if len(orderItems) == 0 {
			return fmt.Errorf("verify: order %d has no items", id)
		}
		for _, item := range orderItems {
			if _, ok := productSet[item.ProductID]; !ok {
				return fmt.Errorf("verify: order item %d references unknown product %d", item.ID, item.ProductID)
			}
			// Точная арифметика: total_price = unit_price × quantity
			expected := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			if !item.TotalPrice.Equal(expected) {
				return fmt.Errorf("verify: order item %d total %s != %s × %d", item.ID, item.TotalPrice, item.UnitPrice, item.Quantity)
			}
		}

		// Хранимая функция — чёрный ящик, проверяем только вменяемость ответа
		total, err := orders.CalculateTotal(ctx, id)
		if err != nil {
			return err
		}
		if total.Sign() < 0 {
			return fmt.Errorf("verify: calculate_order_total(%d) returned negative %s", id, total)
		}
	}

	seenPairs := make(map[[2]int64]struct{})
	for _, id := range summary.ReviewIDs {
		rv, err := reviews.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("verify: review %d: %w", id, err)
		}
		if rv.Rating < 1 || rv.Rating > 5 {
			return fmt.Errorf("verify: review %d has rating %d out of [1,5]", id, rv.Rating)
		}
		pair := [2]int64{rv.UserID, rv.ProductID}
		if _, dup := seenPairs[pair]; dup {
			return fmt.Errorf("verify: duplicate review pair (user %d, product %d)", rv.UserID, rv.ProductID)
		}
		seenPairs[pair] = struct{}{}
	}

	for _, id := range summary.UserIDs {
		status, err := orders.GetUserLoyaltyStatus(ctx, id)
		if err != nil {
			return err
		}
		if !loyaltyStatusPattern.MatchString(status) {
			return fmt.Errorf("verify: unexpected loyalty status %q for user %d", status, id)
		}
	}

	return nil
}

func init() {
	verifyCmd.Flags().StringVar(&verifySummaryPath, "summary", "summary.json", "path to the generation summary")
	rootCmd.AddCommand(verifyCmd)
}
