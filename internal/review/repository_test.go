package review_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/db"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/review"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	dbHost := os.Getenv("DB_HOST_TEST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT_TEST")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbUser := os.Getenv("DB_USER_TEST")
	if dbUser == "" {
		dbUser = "postgres"
	}
	dbPassword := os.Getenv("DB_PASSWORD_TEST")
	if dbPassword == "" {
		dbPassword = "123456"
	}
	dbName := os.Getenv("DB_NAME_TEST")
	if dbName == "" {
		dbName = "ecommerce_testdata"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse test database config")
	}
	poolConfig.MaxConns = 5

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connectCancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err == nil {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = pool.Ping(pingCtx)
		pingCancel()
	}
	if err != nil {
		log.Warn().Err(err).Msg("Test database unavailable, integration tests will be skipped")
		if pool != nil {
			pool.Close()
		}
	} else {
		testDB = pool
	}

	exitCode := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(exitCode)
}

func requireDB(tb testing.TB) {
	tb.Helper()
	if testDB == nil {
		tb.Skip("test database unavailable")
	}
}

func truncateAll(tb testing.TB, pool *pgxpool.Pool) {
	tb.Helper()
	_, err := pool.Exec(context.Background(),
		"TRUNCATE TABLE reviews, products, users RESTART IDENTITY CASCADE")
	require.NoError(tb, err, "failed to truncate tables")
}

func createTestUser(tb testing.TB, suffix string) int64 {
	tb.Helper()
	var id int64
	err := testDB.QueryRow(context.Background(), `
		INSERT INTO users (username, email, first_name, last_name, date_of_birth, phone_number, is_active)
		VALUES ($1, $2, 'Test', 'User', '1990-03-15', '(555) 123-4567', TRUE)
		RETURNING id
	`, "review_test_"+suffix, "review.test."+suffix+"@example.com").Scan(&id)
	require.NoError(tb, err, "failed to create test user")
	return id
}

func createTestProduct(tb testing.TB, sku string) int64 {
	tb.Helper()
	var id int64
	err := testDB.QueryRow(context.Background(), `
		INSERT INTO products (name, description, price, category, sku, stock_quantity, is_available)
		VALUES ('Test Widget', 'For review tests.', 49.99, 'Electronics', $1, 100, TRUE)
		RETURNING id
	`, sku).Scan(&id)
	require.NoError(tb, err, "failed to create test product")
	return id
}

func newTestReview(userID, productID int64, rating int) *review.Review {
	return &review.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Title:     "Solid purchase",
		Comment:   "Does exactly what it says.",
	}
}

func TestReviewRepository_Create(t *testing.T) {
	requireDB(t)
	repo := review.NewRepository(testDB)

	t.Cleanup(func() {
		truncateAll(t, testDB)
	})

	userID := createTestUser(t, "create")
	productID := createTestProduct(t, "B0REV00001")

	created, err := repo.Create(context.Background(), newTestReview(userID, productID, 4))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	// review_date проставляется базой при вставке
	require.False(t, created.ReviewDate.IsZero())
}

func TestReviewRepository_Create_DuplicatePair(t *testing.T) {
	requireDB(t)
	repo := review.NewRepository(testDB)

	t.Cleanup(func() {
		truncateAll(t, testDB)
	})

	userID := createTestUser(t, "dup")
	productID := createTestProduct(t, "B0REV00002")

	_, err := repo.Create(context.Background(), newTestReview(userID, productID, 5))
	require.NoError(t, err)

	// Второй отзыв той же пары (user, product) запрещён ограничением
	_, err = repo.Create(context.Background(), newTestReview(userID, productID, 1))
	require.ErrorIs(t, err, db.ErrDuplicate)
}

func TestReviewRepository_GetByUserIDAndProductID(t *testing.T) {
	requireDB(t)
	repo := review.NewRepository(testDB)

	t.Cleanup(func() {
		truncateAll(t, testDB)
	})

	userID := createTestUser(t, "pair")
	productID := createTestProduct(t, "B0REV00003")

	created, err := repo.Create(context.Background(), newTestReview(userID, productID, 3))
	require.NoError(t, err)

	found, err := repo.GetByUserIDAndProductID(context.Background(), userID, productID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = repo.GetByUserIDAndProductID(context.Background(), userID, 999999)
	require.ErrorIs(t, err, review.ErrReviewNotFound)
}

func TestReviewRepository_RatingFilters(t *testing.T) {
	requireDB(t)
	repo := review.NewRepository(testDB)

	t.Cleanup(func() {
		truncateAll(t, testDB)
	})

	productID := createTestProduct(t, "B0REV00004")
	low := createTestUser(t, "low")
	mid := createTestUser(t, "mid")
	high := createTestUser(t, "high")

	_, err := repo.Create(context.Background(), newTestReview(low, productID, 1))
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), newTestReview(mid, productID, 4))
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), newTestReview(high, productID, 5))
	require.NoError(t, err)

	exact, err := repo.ListByRating(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, exact, 1)
	require.Equal(t, 4, exact[0].Rating)

	atLeast, err := repo.ListByMinimumRating(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, atLeast, 2)
	// Лучшие оценки первыми
	require.Equal(t, 5, atLeast[0].Rating)

	count, err := repo.CountByRating(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	avg, err := repo.AverageRatingForProduct(context.Background(), productID)
	require.NoError(t, err)
	// (1 + 4 + 5) / 3 = 3.33 после округления
	require.True(t, avg.Equal(decimal.NewFromFloat(3.33)), "avg = %s", avg)
}

func TestReviewRepository_AverageRatingForProduct_NoReviews(t *testing.T) {
	requireDB(t)
	repo := review.NewRepository(testDB)

	t.Cleanup(func() {
		truncateAll(t, testDB)
	})

	productID := createTestProduct(t, "B0REV00005")

	avg, err := repo.AverageRatingForProduct(context.Background(), productID)
	require.NoError(t, err)
	require.True(t, avg.IsZero())
}

func TestReviewRepository_VerifiedPurchases(t *testing.T) {
	requireDB(t)
	repo := review.NewRepository(testDB)

	t.Cleanup(func() {
		truncateAll(t, testDB)
	})

	productID := createTestProduct(t, "B0REV00006")
	otherProduct := createTestProduct(t, "B0REV00007")
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	verified := newTestReview(alice, productID, 5)
	verified.IsVerifiedPurchase = true
	_, err := repo.Create(context.Background(), verified)
	require.NoError(t, err)

	plain, err := repo.Create(context.Background(), newTestReview(bob, otherProduct, 3))
	require.NoError(t, err)

	all, err := repo.ListVerifiedPurchases(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.True(t, all[0].IsVerifiedPurchase)

	byProduct, err := repo.ListVerifiedPurchasesByProductID(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, byProduct, 1)

	require.NoError(t, repo.MarkVerifiedPurchase(context.Background(), plain.ID))

	all, err = repo.ListVerifiedPurchases(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.ErrorIs(t, repo.MarkVerifiedPurchase(context.Background(), 999999), review.ErrReviewNotFound)
}

func TestReviewRepository_Update(t *testing.T) {
	requireDB(t)
	repo := review.NewRepository(testDB)

	t.Cleanup(func() {
		truncateAll(t, testDB)
	})

	userID := createTestUser(t, "update")
	productID := createTestProduct(t, "B0REV00008")

	created, err := repo.Create(context.Background(), newTestReview(userID, productID, 2))
	require.NoError(t, err)

	created.Rating = 4
	created.Title = "Better after the firmware update"

	_, err = repo.Update(context.Background(), created)
	require.NoError(t, err)

	found, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 4, found.Rating)
	require.Equal(t, "Better after the firmware update", found.Title)
}

func TestReviewRepository_Delete(t *testing.T) {
	requireDB(t)
	repo := review.NewRepository(testDB)

	t.Cleanup(func() {
		truncateAll(t, testDB)
	})

	userID := createTestUser(t, "delete")
	productID := createTestProduct(t, "B0REV00009")

	created, err := repo.Create(context.Background(), newTestReview(userID, productID, 3))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), created.ID))

	_, err = repo.GetByID(context.Background(), created.ID)
	require.ErrorIs(t, err, review.ErrReviewNotFound)

	require.ErrorIs(t, repo.Delete(context.Background(), created.ID), review.ErrReviewNotFound)
}
