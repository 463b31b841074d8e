package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus — статус заказа.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Statuses — все допустимые статусы в фиксированном порядке.
var Statuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled,
}

func (os OrderStatus) String() string {
	return string(os)
}

// HasShippedDate сообщает, обязана ли у заказа с этим статусом
// присутствовать дата отправки. Инвариант: shipped_date установлена
// тогда и только тогда, когда статус SHIPPED или DELIVERED.
func (os OrderStatus) HasShippedDate() bool {
	return os == StatusShipped || os == StatusDelivered
}

// Order представляет структуру данных заказа.
type Order struct {
	ID              int64           `json:"id" db:"id"`
	UserID          int64           `json:"user_id" db:"user_id" validate:"required,gt=0"`
	OrderNumber     string          `json:"order_number" db:"order_number" validate:"required"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status" validate:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
	OrderDate       time.Time       `json:"order_date" db:"order_date"`
	ShippedDate     *time.Time      `json:"shipped_date,omitempty" db:"shipped_date"`
	DeliveryAddress string          `json:"delivery_address" db:"delivery_address"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderItem представляет позицию заказа.
// Инвариант: TotalPrice = UnitPrice × Quantity, без дрейфа округления.
type OrderItem struct {
	ID         int64           `json:"id" db:"id"`
	OrderID    int64           `json:"order_id" db:"order_id" validate:"required,gt=0"`
	ProductID  int64           `json:"product_id" db:"product_id" validate:"required,gt=0"`
	Quantity   int             `json:"quantity" db:"quantity" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
