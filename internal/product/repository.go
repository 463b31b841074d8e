package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/db"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock возвращается при попытке списать больше, чем есть на складе.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Repository — операции над товарами.
type Repository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	ListAvailable(ctx context.Context) ([]Product, error)
	ListWithStockAbove(ctx context.Context, threshold int) ([]Product, error)
	ListByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	UpdateStock(ctx context.Context, id int64, newQuantity int) error
	ReduceStock(ctx context.Context, id int64, quantity int) error
	IncreaseStock(ctx context.Context, id int64, quantity int) error
	MarkUnavailable(ctx context.Context, id int64) error
	MarkAvailable(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
}

type postgresRepository struct {
	db db.Querier
}

// NewRepository создаёт репозиторий поверх пула или транзакции.
func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

const productColumns = `id, name, description, price, category, sku, stock_quantity, is_available, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.SKU,
		&p.StockQuantity,
		&p.IsAvailable,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) Create(ctx context.Context, p *Product) (*Product, error) {
	query := `
		INSERT INTO products (name, description, price, category, sku, stock_quantity, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.SKU,
		p.StockQuantity,
		p.IsAvailable,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert product: %w", db.ClassifyError(err))
	}

	log.Debug().Int64("product_id", p.ID).Str("sku", p.SKU).Msg("repository: product created")
	return p, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by id %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresRepository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by sku %s: %w", sku, err)
	}
	return p, nil
}

func (r *postgresRepository) listProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
			&p.SKU,
			&p.StockQuantity,
			&p.IsAvailable,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}

	return products, nil
}

func (r *postgresRepository) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY name`, category)
}

func (r *postgresRepository) ListAvailable(ctx context.Context) ([]Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products WHERE is_available = TRUE ORDER BY name`)
}

func (r *postgresRepository) ListWithStockAbove(ctx context.Context, threshold int) ([]Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products WHERE stock_quantity > $1 ORDER BY stock_quantity DESC`, threshold)
}

func (r *postgresRepository) ListByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products WHERE price BETWEEN $1 AND $2 ORDER BY price`, minPrice, maxPrice)
}

func (r *postgresRepository) List(ctx context.Context) ([]Product, error) {
	return r.listProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (r *postgresRepository) Update(ctx context.Context, p *Product) (*Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, category = $4,
		    sku = $5, stock_quantity = $6, is_available = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.SKU,
		p.StockQuantity,
		p.IsAvailable,
		p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to update product %d: %w", p.ID, db.ClassifyError(err))
	}

	return p, nil
}

func (r *postgresRepository) UpdateStock(ctx context.Context, id int64, newQuantity int) error {
	query := `UPDATE products SET stock_quantity = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, newQuantity, id)
	if err != nil {
		return fmt.Errorf("repository: failed to update stock for product %d: %w", id, db.ClassifyError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReduceStock списывает товар со склада. Доступность при нулевом
// остатке снимает триггер на стороне базы, не приложение.
func (r *postgresRepository) ReduceStock(ctx context.Context, id int64, quantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND stock_quantity >= $1
	`

	cmdTag, err := r.db.Exec(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("repository: failed to reduce stock for product %d: %w", id, db.ClassifyError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		// Либо товара нет, либо остатка не хватает — уточняем
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *postgresRepository) IncreaseStock(ctx context.Context, id int64, quantity int) error {
	query := `UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("repository: failed to increase stock for product %d: %w", id, db.ClassifyError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresRepository) setAvailable(ctx context.Context, id int64, available bool) error {
	query := `UPDATE products SET is_available = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, available, id)
	if err != nil {
		return fmt.Errorf("repository: failed to set product %d available=%t: %w", id, available, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresRepository) MarkUnavailable(ctx context.Context, id int64) error {
	return r.setAvailable(ctx, id, false)
}

func (r *postgresRepository) MarkAvailable(ctx context.Context, id int64) error {
	return r.setAvailable(ctx, id, true)
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete product %d: %w", id, db.ClassifyError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count products: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category = $1`, category).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count products in category %s: %w", category, err)
	}
	return count, nil
}
