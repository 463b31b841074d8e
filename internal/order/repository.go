package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/db"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository — операции над заказами. Методы Calculate*/GetUserLoyaltyStatus
// вызывают хранимые функции базы и трактуют их как чёрный ящик.
type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]Order, error)
	ListByStatus(ctx context.Context, status OrderStatus) ([]Order, error)
	ListByUserIDAndStatus(ctx context.Context, userID int64, status OrderStatus) ([]Order, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, o *Order) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error
	UpdateShippedDate(ctx context.Context, id int64, shippedDate time.Time) error
	CalculateTotal(ctx context.Context, id int64) (decimal.Decimal, error)
	CalculateTotalWithTax(ctx context.Context, id int64, taxRate decimal.Decimal) (decimal.Decimal, error)
	GetUserLoyaltyStatus(ctx context.Context, userID int64) (string, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)
}

type postgresRepository struct {
	db db.Querier
}

// NewRepository создаёт репозиторий поверх пула или транзакции.
func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

const orderColumns = `id, user_id, order_number, total_amount, status, order_date, shipped_date, delivery_address, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderNumber,
		&o.TotalAmount,
		&o.Status,
		&o.OrderDate,
		&o.ShippedDate,
		&o.DeliveryAddress,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepository) Create(ctx context.Context, o *Order) (*Order, error) {
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}

	query := `
		INSERT INTO orders (user_id, order_number, total_amount, status, order_date, shipped_date, delivery_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		o.UserID,
		o.OrderNumber,
		o.TotalAmount,
		string(o.Status),
		o.OrderDate,
		o.ShippedDate,
		o.DeliveryAddress,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert order: %w", db.ClassifyError(err))
	}

	log.Debug().Int64("order_id", o.ID).Str("order_number", o.OrderNumber).Msg("repository: order created")
	return o, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", id, err)
	}
	return o, nil
}

func (r *postgresRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	o, err := scanOrder(r.db.QueryRow(ctx, query, orderNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by number %s: %w", orderNumber, err)
	}
	return o, nil
}

func (r *postgresRepository) listOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.OrderNumber,
			&o.TotalAmount,
			&o.Status,
			&o.OrderDate,
			&o.ShippedDate,
			&o.DeliveryAddress,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID int64) ([]Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_date DESC`, userID)
}

func (r *postgresRepository) ListByStatus(ctx context.Context, status OrderStatus) ([]Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY order_date DESC`, string(status))
}

func (r *postgresRepository) ListByUserIDAndStatus(ctx context.Context, userID int64, status OrderStatus) ([]Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND status = $2 ORDER BY order_date DESC`, userID, string(status))
}

func (r *postgresRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_date BETWEEN $1 AND $2 ORDER BY order_date`, start, end)
}

func (r *postgresRepository) List(ctx context.Context) ([]Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC`)
}

func (r *postgresRepository) Update(ctx context.Context, o *Order) (*Order, error) {
	query := `
		UPDATE orders
		SET user_id = $1, order_number = $2, total_amount = $3, status = $4,
		    order_date = $5, shipped_date = $6, delivery_address = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		o.UserID,
		o.OrderNumber,
		o.TotalAmount,
		string(o.Status),
		o.OrderDate,
		o.ShippedDate,
		o.DeliveryAddress,
		o.ID,
	).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to update order %d: %w", o.ID, db.ClassifyError(err))
	}

	return o, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, status OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update order status %d: %w", id, db.ClassifyError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateShippedDate(ctx context.Context, id int64, shippedDate time.Time) error {
	query := `UPDATE orders SET shipped_date = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, shippedDate, id)
	if err != nil {
		return fmt.Errorf("repository: failed to update shipped date for order %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CalculateTotal вызывает хранимую функцию calculate_order_total.
func (r *postgresRepository) CalculateTotal(ctx context.Context, id int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT calculate_order_total($1)`, id).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("repository: failed to calculate order total for %d: %w", id, err)
	}
	return total, nil
}

// CalculateTotalWithTax вызывает хранимую функцию calculate_order_total_with_tax.
func (r *postgresRepository) CalculateTotalWithTax(ctx context.Context, id int64, taxRate decimal.Decimal) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT calculate_order_total_with_tax($1, $2)`, id, taxRate).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("repository: failed to calculate order total with tax for %d: %w", id, err)
	}
	return total, nil
}

// GetUserLoyaltyStatus вызывает хранимую функцию get_user_loyalty_status.
func (r *postgresRepository) GetUserLoyaltyStatus(ctx context.Context, userID int64) (string, error) {
	var status string
	err := r.db.QueryRow(ctx, `SELECT get_user_loyalty_status($1)`, userID).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("repository: failed to get loyalty status for user %d: %w", userID, err)
	}
	return status, nil
}

func (r *postgresRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status NOT IN ('CANCELLED')`
	if err := r.db.QueryRow(ctx, query).Scan(&revenue); err != nil {
		return decimal.Zero, fmt.Errorf("repository: failed to calculate total revenue: %w", err)
	}
	return revenue, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %d: %w", id, db.ClassifyError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count orders: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountByStatus(ctx context.Context, status OrderStatus) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, string(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count orders with status %s: %w", status, err)
	}
	return count, nil
}
