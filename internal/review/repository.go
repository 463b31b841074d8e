package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/db"
)

var ErrReviewNotFound = errors.New("review not found")

// Repository — операции над отзывами.
type Repository interface {
	Create(ctx context.Context, rv *Review) (*Review, error)
	GetByID(ctx context.Context, id int64) (*Review, error)
	ListByUserID(ctx context.Context, userID int64) ([]Review, error)
	ListByProductID(ctx context.Context, productID int64) ([]Review, error)
	GetByUserIDAndProductID(ctx context.Context, userID, productID int64) (*Review, error)
	ListByRating(ctx context.Context, rating int) ([]Review, error)
	ListByMinimumRating(ctx context.Context, minRating int) ([]Review, error)
	ListVerifiedPurchases(ctx context.Context) ([]Review, error)
	ListVerifiedPurchasesByProductID(ctx context.Context, productID int64) ([]Review, error)
	List(ctx context.Context) ([]Review, error)
	Update(ctx context.Context, rv *Review) (*Review, error)
	MarkVerifiedPurchase(ctx context.Context, id int64) error
	AverageRatingForProduct(ctx context.Context, productID int64) (decimal.Decimal, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountByProductID(ctx context.Context, productID int64) (int64, error)
	CountByRating(ctx context.Context, rating int) (int64, error)
}

type postgresRepository struct {
	db db.Querier
}

// NewRepository создаёт репозиторий поверх пула или транзакции.
func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

const reviewColumns = `id, user_id, product_id, rating, title, comment, is_verified_purchase, review_date, created_at, updated_at`

func scanReview(row pgx.Row) (*Review, error) {
	var rv Review
	err := row.Scan(
		&rv.ID,
		&rv.UserID,
		&rv.ProductID,
		&rv.Rating,
		&rv.Title,
		&rv.Comment,
		&rv.IsVerifiedPurchase,
		&rv.ReviewDate,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *postgresRepository) Create(ctx context.Context, rv *Review) (*Review, error) {
	query := `
		INSERT INTO reviews (user_id, product_id, rating, title, comment, is_verified_purchase)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, review_date, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		rv.UserID,
		rv.ProductID,
		rv.Rating,
		rv.Title,
		rv.Comment,
		rv.IsVerifiedPurchase,
	).Scan(&rv.ID, &rv.ReviewDate, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert review: %w", db.ClassifyError(err))
	}

	log.Debug().Int64("review_id", rv.ID).Int64("user_id", rv.UserID).Int64("product_id", rv.ProductID).Msg("repository: review created")
	return rv, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	rv, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("repository: failed to select review by id %d: %w", id, err)
	}
	return rv, nil
}

func (r *postgresRepository) listReviews(ctx context.Context, query string, args ...any) ([]Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		var rv Review
		err := rows.Scan(
			&rv.ID,
			&rv.UserID,
			&rv.ProductID,
			&rv.Rating,
			&rv.Title,
			&rv.Comment,
			&rv.IsVerifiedPurchase,
			&rv.ReviewDate,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating reviews: %w", err)
	}

	return reviews, nil
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID int64) ([]Review, error) {
	return r.listReviews(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1 ORDER BY review_date DESC`, userID)
}

func (r *postgresRepository) ListByProductID(ctx context.Context, productID int64) ([]Review, error) {
	return r.listReviews(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE product_id = $1 ORDER BY review_date DESC`, productID)
}

func (r *postgresRepository) GetByUserIDAndProductID(ctx context.Context, userID, productID int64) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND product_id = $2`

	rv, err := scanReview(r.db.QueryRow(ctx, query, userID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("repository: failed to select review by user %d and product %d: %w", userID, productID, err)
	}
	return rv, nil
}

func (r *postgresRepository) ListByRating(ctx context.Context, rating int) ([]Review, error) {
	return r.listReviews(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE rating = $1 ORDER BY review_date DESC`, rating)
}

func (r *postgresRepository) ListByMinimumRating(ctx context.Context, minRating int) ([]Review, error) {
	return r.listReviews(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE rating >= $1 ORDER BY rating DESC, review_date DESC`, minRating)
}

func (r *postgresRepository) ListVerifiedPurchases(ctx context.Context) ([]Review, error) {
	return r.listReviews(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE is_verified_purchase = TRUE ORDER BY review_date DESC`)
}

func (r *postgresRepository) ListVerifiedPurchasesByProductID(ctx context.Context, productID int64) ([]Review, error) {
	return r.listReviews(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE is_verified_purchase = TRUE AND product_id = $1 ORDER BY review_date DESC`, productID)
}

func (r *postgresRepository) List(ctx context.Context) ([]Review, error) {
	return r.listReviews(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY review_date DESC`)
}

func (r *postgresRepository) Update(ctx context.Context, rv *Review) (*Review, error) {
	query := `
		UPDATE reviews
		SET rating = $1, title = $2, comment = $3, is_verified_purchase = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		rv.Rating,
		rv.Title,
		rv.Comment,
		rv.IsVerifiedPurchase,
		rv.ID,
	).Scan(&rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("repository: failed to update review %d: %w", rv.ID, db.ClassifyError(err))
	}

	return rv, nil
}

func (r *postgresRepository) MarkVerifiedPurchase(ctx context.Context, id int64) error {
	query := `UPDATE reviews SET is_verified_purchase = TRUE, updated_at = NOW() WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("repository: failed to mark review %d as verified purchase: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *postgresRepository) AverageRatingForProduct(ctx context.Context, productID int64) (decimal.Decimal, error) {
	var avg decimal.Decimal
	query := `SELECT COALESCE(ROUND(AVG(rating), 2), 0) FROM reviews WHERE product_id = $1`
	if err := r.db.QueryRow(ctx, query, productID).Scan(&avg); err != nil {
		return decimal.Zero, fmt.Errorf("repository: failed to calculate average rating for product %d: %w", productID, err)
	}
	return avg, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete review %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count reviews: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE product_id = $1`, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count reviews for product %d: %w", productID, err)
	}
	return count, nil
}

func (r *postgresRepository) CountByRating(ctx context.Context, rating int) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE rating = $1`, rating).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count reviews with rating %d: %w", rating, err)
	}
	return count, nil
}
