package datagen

import (
	"context"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/db"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/order"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/product"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/review"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/user"
)

// Генератору от каждого репозитория нужны только create и delete —
// интерфейсы объявлены на стороне потребителя, полные репозитории
// им удовлетворяют автоматически.

type UserStore interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	Delete(ctx context.Context, id int64) error
}

type ProductStore interface {
	Create(ctx context.Context, p *product.Product) (*product.Product, error)
	Delete(ctx context.Context, id int64) error
}

type OrderStore interface {
	Create(ctx context.Context, o *order.Order) (*order.Order, error)
	Delete(ctx context.Context, id int64) error
}

type OrderItemStore interface {
	Create(ctx context.Context, item *order.OrderItem) (*order.OrderItem, error)
	Delete(ctx context.Context, id int64) error
}

type ReviewStore interface {
	Create(ctx context.Context, rv *review.Review) (*review.Review, error)
	Delete(ctx context.Context, id int64) error
}

// Stores — набор хранилищ, через которые генератор пишет и удаляет данные.
type Stores struct {
	Users      UserStore
	Products   ProductStore
	Orders     OrderStore
	OrderItems OrderItemStore
	Reviews    ReviewStore
}

// NewStores собирает набор поверх одного Querier — пула или транзакции.
// Оркестратор и очистка передают сюда pgx.Tx, чтобы весь прогон жил
// в одной транзакции.
func NewStores(q db.Querier) Stores {
	return Stores{
		Users:      user.NewRepository(q),
		Products:   product.NewRepository(q),
		Orders:     order.NewRepository(q),
		OrderItems: order.NewItemRepository(q),
		Reviews:    review.NewRepository(q),
	}
}
