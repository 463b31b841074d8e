package datagen

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/order"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/product"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/review"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/user"
)

// Options управляют объёмом и диапазонами генерации.
type Options struct {
	Seed int64
	// Количество отзывов: min(userCount × ReviewFactor, MaxReviews).
	ReviewFactor int
	MaxReviews   int
	// Позиций в заказе: равномерно из [MinItemsPerOrder, MaxItemsPerOrder].
	MinItemsPerOrder int
	MaxItemsPerOrder int
}

// DefaultOptions — значения по умолчанию.
func DefaultOptions(seed int64) Options {
	return Options{
		Seed:             seed,
		ReviewFactor:     2,
		MaxReviews:       50,
		MinItemsPerOrder: 1,
		MaxItemsPerOrder: 5,
	}
}

// Generator создаёт согласованный набор тестовых данных: уникальные
// username/email/SKU/номера заказов, валидные внешние ключи, не больше
// одного отзыва на пару (пользователь, товар). Генерация однопоточная;
// при одном и том же seed последовательность значений воспроизводится.
type Generator struct {
	faker    *Faker
	opts     Options
	validate *validator.Validate
}

// New создаёт генератор с заданными опциями.
func New(opts Options) *Generator {
	if opts.ReviewFactor <= 0 {
		opts.ReviewFactor = 2
	}
	if opts.MaxReviews <= 0 {
		opts.MaxReviews = 50
	}
	if opts.MinItemsPerOrder <= 0 {
		opts.MinItemsPerOrder = 1
	}
	if opts.MaxItemsPerOrder < opts.MinItemsPerOrder {
		opts.MaxItemsPerOrder = opts.MinItemsPerOrder
	}
	return &Generator{
		faker:    NewFaker(opts.Seed),
		opts:     opts,
		validate: validator.New(),
	}
}

// GenerateComplete создаёт полный набор данных в порядке зависимостей:
// users → products → orders → order items → reviews. Вызывающий код
// отвечает за транзакцию (stores собираются поверх pgx.Tx); первая же
// ошибка прерывает прогон целиком, частичных результатов не бывает.
func (g *Generator) GenerateComplete(ctx context.Context, stores Stores, userCount, productCount, orderCount int) (*Summary, error) {
	log.Info().
		Int("users", userCount).
		Int("products", productCount).
		Int("orders", orderCount).
		Int64("seed", g.opts.Seed).
		Msg("datagen: starting test data generation")

	summary, err := newSummary(g.opts.Seed)
	if err != nil {
		return nil, err
	}

	if err := g.generateUsers(ctx, stores.Users, userCount, summary); err != nil {
		return nil, err
	}
	if err := g.generateProducts(ctx, stores.Products, productCount, summary); err != nil {
		return nil, err
	}
	if err := g.generateOrders(ctx, stores.Orders, orderCount, summary); err != nil {
		return nil, err
	}
	if err := g.generateOrderItems(ctx, stores.OrderItems, summary); err != nil {
		return nil, err
	}

	reviewCount := userCount * g.opts.ReviewFactor
	if reviewCount > g.opts.MaxReviews {
		reviewCount = g.opts.MaxReviews
	}
	if err := g.generateReviews(ctx, stores.Reviews, reviewCount, summary); err != nil {
		return nil, err
	}

	log.Info().Stringer("run_id", summary.RunID).Msgf("datagen: generation complete: %s", summary)
	return summary, nil
}

func (g *Generator) generateUsers(ctx context.Context, store UserStore, count int, summary *Summary) error {
	usedUsernames := make(map[string]struct{})
	usedEmails := make(map[string]struct{})

	for i := 0; i < count; i++ {
		username, err := unique(usedUsernames, g.faker.Username)
		if err != nil {
			return err
		}
		email, err := unique(usedEmails, g.faker.Email)
		if err != nil {
			return err
		}

		u := &user.User{
			Username:    username,
			Email:       email,
			FirstName:   g.faker.FirstName(),
			LastName:    g.faker.LastName(),
			DateOfBirth: g.faker.Birthday(18, 65),
			PhoneNumber: g.faker.PhoneNumber(),
			IsActive:    true,
		}

		if err := g.validate.Struct(u); err != nil {
			return fmt.Errorf("datagen: generated user failed validation: %w", err)
		}

		created, err := store.Create(ctx, u)
		if err != nil {
			return fmt.Errorf("datagen: failed to create user %d of %d: %w", i+1, count, err)
		}
		summary.UserIDs = append(summary.UserIDs, created.ID)
	}

	log.Debug().Int("count", count).Msg("datagen: users generated")
	return nil
}

func (g *Generator) generateProducts(ctx context.Context, store ProductStore, count int, summary *Summary) error {
	usedSKUs := make(map[string]struct{})

	for i := 0; i < count; i++ {
		sku, err := unique(usedSKUs, g.faker.SKU)
		if err != nil {
			return err
		}

		stock := g.faker.IntBetween(0, 500)
		p := &product.Product{
			Name:          g.faker.ProductName(),
			Description:   g.faker.Paragraph(3),
			Price:         g.faker.PriceBetween(10, 1000),
			Category:      product.Categories[g.faker.IntBetween(0, len(product.Categories)-1)],
			SKU:           sku,
			StockQuantity: stock,
			// Часть товаров с остатком намеренно помечается недоступной —
			// модель ручной деактивации
			IsAvailable: stock > 0 && g.faker.Bool(),
		}

		if err := g.validate.Struct(p); err != nil {
			return fmt.Errorf("datagen: generated product failed validation: %w", err)
		}

		created, err := store.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("datagen: failed to create product %d of %d: %w", i+1, count, err)
		}
		summary.ProductIDs = append(summary.ProductIDs, created.ID)
	}

	log.Debug().Int("count", count).Msg("datagen: products generated")
	return nil
}

func (g *Generator) generateOrders(ctx context.Context, store OrderStore, count int, summary *Summary) error {
	if count > 0 && len(summary.UserIDs) == 0 {
		return errors.New("datagen: cannot generate orders without users")
	}

	usedOrderNumbers := make(map[string]struct{})

	for i := 0; i < count; i++ {
		orderNumber, err := unique(usedOrderNumbers, func() string {
			return "ORD-" + g.faker.Digits(8)
		})
		if err != nil {
			return err
		}

		status := order.Statuses[g.faker.IntBetween(0, len(order.Statuses)-1)]
		o := &order.Order{
			UserID:          summary.UserIDs[g.faker.IntBetween(0, len(summary.UserIDs)-1)],
			OrderNumber:     orderNumber,
			TotalAmount:     g.faker.PriceBetween(50, 2000),
			Status:          status,
			DeliveryAddress: g.faker.FullAddress(),
		}
		if status.HasShippedDate() {
			shipped := g.faker.DaysAgo(30)
			o.ShippedDate = &shipped
		}

		if err := g.validate.Struct(o); err != nil {
			return fmt.Errorf("datagen: generated order failed validation: %w", err)
		}

		created, err := store.Create(ctx, o)
		if err != nil {
			return fmt.Errorf("datagen: failed to create order %d of %d: %w", i+1, count, err)
		}
		summary.OrderIDs = append(summary.OrderIDs, created.ID)
	}

	log.Debug().Int("count", count).Msg("datagen: orders generated")
	return nil
}

func (g *Generator) generateOrderItems(ctx context.Context, store OrderItemStore, summary *Summary) error {
	if len(summary.OrderIDs) > 0 && len(summary.ProductIDs) == 0 {
		return errors.New("datagen: cannot generate order items without products")
	}

	for _, orderID := range summary.OrderIDs {
		itemCount := g.faker.IntBetween(g.opts.MinItemsPerOrder, g.opts.MaxItemsPerOrder)
		usedProducts := make(map[int64]struct{})

		for i := 0; i < itemCount; i++ {
			// Товары внутри заказа не повторяются, пока есть из чего
			// выбирать; когда все товары уже использованы, повторение
			// допускается — иначе при малом каталоге цикл не завершится
			var productID int64
			for {
				productID = summary.ProductIDs[g.faker.IntBetween(0, len(summary.ProductIDs)-1)]
				if _, taken := usedProducts[productID]; !taken || len(usedProducts) >= len(summary.ProductIDs) {
					break
				}
			}
			usedProducts[productID] = struct{}{}

			quantity := g.faker.IntBetween(1, 5)
			unitPrice := g.faker.PriceBetween(10, 500)
			item := &order.OrderItem{
				OrderID:    orderID,
				ProductID:  productID,
				Quantity:   quantity,
				UnitPrice:  unitPrice,
				TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
			}

			if err := g.validate.Struct(item); err != nil {
				return fmt.Errorf("datagen: generated order item failed validation: %w", err)
			}

			created, err := store.Create(ctx, item)
			if err != nil {
				return fmt.Errorf("datagen: failed to create order item for order %d: %w", orderID, err)
			}
			summary.OrderItemIDs = append(summary.OrderItemIDs, created.ID)
		}
	}

	log.Debug().Int("count", summary.OrderItemCount()).Msg("datagen: order items generated")
	return nil
}

func (g *Generator) generateReviews(ctx context.Context, store ReviewStore, count int, summary *Summary) error {
	if count > 0 && (len(summary.UserIDs) == 0 || len(summary.ProductIDs) == 0) {
		return errors.New("datagen: cannot generate reviews without users and products")
	}

	// Жёсткая верхняя граница: пар (user, product) всего users × products,
	// больше уникальных отзывов не существует
	maxPairs := len(summary.UserIDs) * len(summary.ProductIDs)
	usedPairs := make(map[[2]int64]struct{})

	for len(summary.ReviewIDs) < count && len(usedPairs) < maxPairs {
		userID := summary.UserIDs[g.faker.IntBetween(0, len(summary.UserIDs)-1)]
		productID := summary.ProductIDs[g.faker.IntBetween(0, len(summary.ProductIDs)-1)]
		pair := [2]int64{userID, productID}

		if _, taken := usedPairs[pair]; taken {
			continue
		}
		usedPairs[pair] = struct{}{}

		rv := &review.Review{
			UserID:             userID,
			ProductID:          productID,
			Rating:             g.faker.IntBetween(1, 5),
			Title:              g.faker.Sentence(5),
			Comment:            g.faker.Paragraph(2),
			IsVerifiedPurchase: g.faker.Bool(),
		}

		if err := g.validate.Struct(rv); err != nil {
			return fmt.Errorf("datagen: generated review failed validation: %w", err)
		}

		created, err := store.Create(ctx, rv)
		if err != nil {
			return fmt.Errorf("datagen: failed to create review: %w", err)
		}
		summary.ReviewIDs = append(summary.ReviewIDs, created.ID)
	}

	log.Debug().Int("count", summary.ReviewCount()).Msg("datagen: reviews generated")
	return nil
}

// Cleanup удаляет все строки из сводки в обратном порядке зависимостей:
// reviews → order items → orders → products → users. Уже удалённая
// строка — мягкий no-op, поэтому повторный вызов безопасен.
func Cleanup(ctx context.Context, stores Stores, summary *Summary) error {
	log.Info().Stringer("run_id", summary.RunID).Msgf("datagen: cleaning up test data: %s", summary)

	for _, id := range summary.ReviewIDs {
		if err := stores.Reviews.Delete(ctx, id); err != nil && !errors.Is(err, review.ErrReviewNotFound) {
			return fmt.Errorf("datagen: failed to delete review %d: %w", id, err)
		}
	}
	for _, id := range summary.OrderItemIDs {
		if err := stores.OrderItems.Delete(ctx, id); err != nil && !errors.Is(err, order.ErrOrderItemNotFound) {
			return fmt.Errorf("datagen: failed to delete order item %d: %w", id, err)
		}
	}
	for _, id := range summary.OrderIDs {
		if err := stores.Orders.Delete(ctx, id); err != nil && !errors.Is(err, order.ErrOrderNotFound) {
			return fmt.Errorf("datagen: failed to delete order %d: %w", id, err)
		}
	}
	for _, id := range summary.ProductIDs {
		if err := stores.Products.Delete(ctx, id); err != nil && !errors.Is(err, product.ErrProductNotFound) {
			return fmt.Errorf("datagen: failed to delete product %d: %w", id, err)
		}
	}
	for _, id := range summary.UserIDs {
		if err := stores.Users.Delete(ctx, id); err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("datagen: failed to delete user %d: %w", id, err)
		}
	}

	log.Info().Stringer("run_id", summary.RunID).Msg("datagen: cleanup complete")
	return nil
}
