package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/db"
)

var ErrOrderItemNotFound = errors.New("order item not found")

// ItemRepository — операции над позициями заказа.
type ItemRepository interface {
	Create(ctx context.Context, item *OrderItem) (*OrderItem, error)
	GetByID(ctx context.Context, id int64) (*OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]OrderItem, error)
	ListByProductID(ctx context.Context, productID int64) ([]OrderItem, error)
	GetByOrderIDAndProductID(ctx context.Context, orderID, productID int64) (*OrderItem, error)
	List(ctx context.Context) ([]OrderItem, error)
	Update(ctx context.Context, item *OrderItem) (*OrderItem, error)
	UpdateQuantity(ctx context.Context, id int64, newQuantity int) error
	Delete(ctx context.Context, id int64) error
	DeleteByOrderID(ctx context.Context, orderID int64) error
	Count(ctx context.Context) (int64, error)
	CountByOrderID(ctx context.Context, orderID int64) (int64, error)
}

type postgresItemRepository struct {
	db db.Querier
}

// NewItemRepository создаёт репозиторий позиций заказа.
func NewItemRepository(q db.Querier) ItemRepository {
	return &postgresItemRepository{db: q}
}

const itemColumns = `id, order_id, product_id, quantity, unit_price, total_price, created_at, updated_at`

func scanItem(row pgx.Row) (*OrderItem, error) {
	var item OrderItem
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.Quantity,
		&item.UnitPrice,
		&item.TotalPrice,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *postgresItemRepository) Create(ctx context.Context, item *OrderItem) (*OrderItem, error) {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		item.OrderID,
		item.ProductID,
		item.Quantity,
		item.UnitPrice,
		item.TotalPrice,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert order item for order %d: %w", item.OrderID, db.ClassifyError(err))
	}

	return item, nil
}

func (r *postgresItemRepository) GetByID(ctx context.Context, id int64) (*OrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_items WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order item by id %d: %w", id, err)
	}
	return item, nil
}

func (r *postgresItemRepository) listItems(ctx context.Context, query string, args ...any) ([]OrderItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	return items, nil
}

func (r *postgresItemRepository) ListByOrderID(ctx context.Context, orderID int64) ([]OrderItem, error) {
	return r.listItems(ctx, `SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
}

func (r *postgresItemRepository) ListByProductID(ctx context.Context, productID int64) ([]OrderItem, error) {
	return r.listItems(ctx, `SELECT `+itemColumns+` FROM order_items WHERE product_id = $1 ORDER BY id`, productID)
}

func (r *postgresItemRepository) GetByOrderIDAndProductID(ctx context.Context, orderID, productID int64) (*OrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = $1 AND product_id = $2 LIMIT 1`

	item, err := scanItem(r.db.QueryRow(ctx, query, orderID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order item by order %d and product %d: %w", orderID, productID, err)
	}
	return item, nil
}

func (r *postgresItemRepository) List(ctx context.Context) ([]OrderItem, error) {
	return r.listItems(ctx, `SELECT `+itemColumns+` FROM order_items ORDER BY id`)
}

func (r *postgresItemRepository) Update(ctx context.Context, item *OrderItem) (*OrderItem, error) {
	query := `
		UPDATE order_items
		SET order_id = $1, product_id = $2, quantity = $3, unit_price = $4, total_price = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		item.OrderID,
		item.ProductID,
		item.Quantity,
		item.UnitPrice,
		item.TotalPrice,
		item.ID,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("repository: failed to update order item %d: %w", item.ID, db.ClassifyError(err))
	}

	return item, nil
}

// UpdateQuantity меняет количество с пересчётом total_price на стороне базы,
// чтобы инвариант total_price = unit_price × quantity не нарушался.
func (r *postgresItemRepository) UpdateQuantity(ctx context.Context, id int64, newQuantity int) error {
	query := `
		UPDATE order_items
		SET quantity = $1, total_price = unit_price * $1, updated_at = NOW()
		WHERE id = $2
	`

	cmdTag, err := r.db.Exec(ctx, query, newQuantity, id)
	if err != nil {
		return fmt.Errorf("repository: failed to update quantity for order item %d: %w", id, db.ClassifyError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderItemNotFound
	}
	return nil
}

func (r *postgresItemRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order item %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderItemNotFound
	}
	return nil
}

func (r *postgresItemRepository) DeleteByOrderID(ctx context.Context, orderID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order items for order %d: %w", orderID, err)
	}
	return nil
}

func (r *postgresItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM order_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count order items: %w", err)
	}
	return count, nil
}

func (r *postgresItemRepository) CountByOrderID(ctx context.Context, orderID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, orderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count order items for order %d: %w", orderID, err)
	}
	return count, nil
}
