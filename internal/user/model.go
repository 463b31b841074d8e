package user

import "time"

// User представляет структуру данных пользователя.
type User struct {
	ID          int64     `json:"id" db:"id"`
	Username    string    `json:"username" db:"username" validate:"required,min=3,max=50"`
	Email       string    `json:"email" db:"email" validate:"required,email"`
	FirstName   string    `json:"first_name" db:"first_name" validate:"required"`
	LastName    string    `json:"last_name" db:"last_name" validate:"required"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth" validate:"required"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
