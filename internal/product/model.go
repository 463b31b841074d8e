package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categories — фиксированный набор категорий товаров.
var Categories = []string{
	"Electronics", "Furniture", "Kitchen", "Sports", "Books", "Clothing", "Home & Garden", "Toys",
}

// Product представляет структуру данных товара.
type Product struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name" validate:"required"`
	Description   string          `json:"description" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Category      string          `json:"category" db:"category" validate:"required"`
	SKU           string          `json:"sku" db:"sku" validate:"required"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity" validate:"gte=0"`
	IsAvailable   bool            `json:"is_available" db:"is_available"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}
