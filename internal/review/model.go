package review

import "time"

// Review представляет отзыв пользователя о товаре.
// Инвариант: не более одного отзыва на пару (user_id, product_id).
type Review struct {
	ID                 int64     `json:"id" db:"id"`
	UserID             int64     `json:"user_id" db:"user_id" validate:"required,gt=0"`
	ProductID          int64     `json:"product_id" db:"product_id" validate:"required,gt=0"`
	Rating             int       `json:"rating" db:"rating" validate:"required,gte=1,lte=5"`
	Title              string    `json:"title" db:"title"`
	Comment            string    `json:"comment" db:"comment"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase" db:"is_verified_purchase"`
	ReviewDate         time.Time `json:"review_date" db:"review_date"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
