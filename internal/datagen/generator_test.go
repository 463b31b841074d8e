package datagen_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/datagen"
)

func TestGenerator_GenerateComplete_Counts(t *testing.T) {
	mem := newMemDB()
	gen := datagen.New(datagen.DefaultOptions(12345))

	summary, err := gen.GenerateComplete(context.Background(), mem.stores(), 5, 10, 3)
	require.NoError(t, err)

	assert.Len(t, summary.UserIDs, 5)
	assert.Len(t, summary.ProductIDs, 10)
	assert.Len(t, summary.OrderIDs, 3)
	assert.Equal(t, len(mem.users), summary.UserCount())
	assert.Equal(t, len(mem.products), summary.ProductCount())
	assert.Equal(t, len(mem.orders), summary.OrderCount())
	assert.Equal(t, len(mem.items), summary.OrderItemCount())
	assert.Equal(t, len(mem.reviews), summary.ReviewCount())

	// Отзывов не больше min(users × 2, 50)
	assert.LessOrEqual(t, summary.ReviewCount(), 10)

	// У каждого заказа от 1 до 5 позиций
	itemsPerOrder := make(map[int64]int)
	for _, item := range mem.items {
		itemsPerOrder[item.OrderID]++
	}
	for _, id := range summary.OrderIDs {
		assert.GreaterOrEqual(t, itemsPerOrder[id], 1, "order %d has no items", id)
		assert.LessOrEqual(t, itemsPerOrder[id], 5)
	}
}

func TestGenerator_GenerateComplete_Uniqueness(t *testing.T) {
	mem := newMemDB()
	gen := datagen.New(datagen.DefaultOptions(7))

	_, err := gen.GenerateComplete(context.Background(), mem.stores(), 20, 30, 15)
	require.NoError(t, err)

	usernames := make(map[string]struct{})
	emails := make(map[string]struct{})
	for _, u := range mem.users {
		_, dup := usernames[u.Username]
		assert.False(t, dup, "duplicate username %q", u.Username)
		usernames[u.Username] = struct{}{}

		_, dup = emails[u.Email]
		assert.False(t, dup, "duplicate email %q", u.Email)
		emails[u.Email] = struct{}{}
	}

	skus := make(map[string]struct{})
	for _, p := range mem.products {
		_, dup := skus[p.SKU]
		assert.False(t, dup, "duplicate SKU %q", p.SKU)
		skus[p.SKU] = struct{}{}
	}

	numbers := make(map[string]struct{})
	for _, o := range mem.orders {
		_, dup := numbers[o.OrderNumber]
		assert.False(t, dup, "duplicate order number %q", o.OrderNumber)
		numbers[o.OrderNumber] = struct{}{}
	}

	pairs := make(map[[2]int64]struct{})
	for _, rv := range mem.reviews {
		pair := [2]int64{rv.UserID, rv.ProductID}
		_, dup := pairs[pair]
		assert.False(t, dup, "duplicate review pair %v", pair)
		pairs[pair] = struct{}{}
	}
}

func TestGenerator_GenerateComplete_ReferentialIntegrity(t *testing.T) {
	mem := newMemDB()
	gen := datagen.New(datagen.DefaultOptions(99))

	_, err := gen.GenerateComplete(context.Background(), mem.stores(), 4, 6, 8)
	require.NoError(t, err)

	for _, o := range mem.orders {
		_, ok := mem.users[o.UserID]
		assert.True(t, ok, "order %d references missing user %d", o.ID, o.UserID)
	}
	for _, item := range mem.items {
		_, ok := mem.orders[item.OrderID]
		assert.True(t, ok, "item %d references missing order %d", item.ID, item.OrderID)
		_, ok = mem.products[item.ProductID]
		assert.True(t, ok, "item %d references missing product %d", item.ID, item.ProductID)
	}
	for _, rv := range mem.reviews {
		_, ok := mem.users[rv.UserID]
		assert.True(t, ok, "review %d references missing user %d", rv.ID, rv.UserID)
		_, ok = mem.products[rv.ProductID]
		assert.True(t, ok, "review %d references missing product %d", rv.ID, rv.ProductID)
	}
}

func TestGenerator_GenerateComplete_OrderInvariants(t *testing.T) {
	mem := newMemDB()
	gen := datagen.New(datagen.DefaultOptions(2024))

	_, err := gen.GenerateComplete(context.Background(), mem.stores(), 10, 10, 40)
	require.NoError(t, err)

	for _, o := range mem.orders {
		if o.Status.HasShippedDate() {
			require.NotNil(t, o.ShippedDate, "order %s (%s) must have a shipped date", o.OrderNumber, o.Status)
			assert.False(t, o.ShippedDate.After(o.OrderDate.AddDate(0, 0, 1)))
		} else {
			assert.Nil(t, o.ShippedDate, "order %s (%s) must not have a shipped date", o.OrderNumber, o.Status)
		}
		assert.True(t, o.TotalAmount.GreaterThanOrEqual(decimal.NewFromInt(50)))
		assert.True(t, o.TotalAmount.LessThanOrEqual(decimal.NewFromInt(2000)))
	}

	for _, item := range mem.items {
		want := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		assert.True(t, item.TotalPrice.Equal(want),
			"item %d: total %s != %s × %d", item.ID, item.TotalPrice, item.UnitPrice, item.Quantity)
	}

	for _, rv := range mem.reviews {
		assert.GreaterOrEqual(t, rv.Rating, 1)
		assert.LessOrEqual(t, rv.Rating, 5)
	}
}

func TestGenerator_GenerateComplete_Deterministic(t *testing.T) {
	memA := newMemDB()
	memB := newMemDB()

	_, err := datagen.New(datagen.DefaultOptions(12345)).GenerateComplete(context.Background(), memA.stores(), 5, 8, 4)
	require.NoError(t, err)
	_, err = datagen.New(datagen.DefaultOptions(12345)).GenerateComplete(context.Background(), memB.stores(), 5, 8, 4)
	require.NoError(t, err)

	require.Equal(t, len(memA.users), len(memB.users))
	for id, a := range memA.users {
		b := memB.users[id]
		assert.Equal(t, a.Username, b.Username)
		assert.Equal(t, a.Email, b.Email)
		assert.Equal(t, a.FirstName, b.FirstName)
	}

	require.Equal(t, len(memA.products), len(memB.products))
	for id, a := range memA.products {
		b := memB.products[id]
		assert.Equal(t, a.SKU, b.SKU)
		assert.Equal(t, a.Name, b.Name)
		assert.True(t, a.Price.Equal(b.Price))
	}

	require.Equal(t, len(memA.orders), len(memB.orders))
	for id, a := range memA.orders {
		b := memB.orders[id]
		assert.Equal(t, a.OrderNumber, b.OrderNumber)
		assert.Equal(t, a.Status, b.Status)
		assert.Equal(t, a.UserID, b.UserID)
	}
}

func TestGenerator_GenerateComplete_SingleProduct(t *testing.T) {
	// Каталог из одного товара: позиции заказа вынуждены повторяться,
	// генерация всё равно должна завершиться
	mem := newMemDB()
	gen := datagen.New(datagen.DefaultOptions(3))

	summary, err := gen.GenerateComplete(context.Background(), mem.stores(), 3, 1, 2)
	require.NoError(t, err)

	assert.Len(t, summary.ProductIDs, 1)
	for _, item := range mem.items {
		assert.Equal(t, summary.ProductIDs[0], item.ProductID)
	}
	// Пар (user, product) всего 3 — отзывов больше быть не может
	assert.LessOrEqual(t, summary.ReviewCount(), 3)
}

func TestGenerator_GenerateComplete_ReviewsCappedByPairs(t *testing.T) {
	// userCount × ReviewFactor = 40 запросов при всего 2 × 2 = 4 парах
	mem := newMemDB()
	opts := datagen.DefaultOptions(11)
	opts.ReviewFactor = 20
	gen := datagen.New(opts)

	summary, err := gen.GenerateComplete(context.Background(), mem.stores(), 2, 2, 0)
	require.NoError(t, err)

	assert.LessOrEqual(t, summary.ReviewCount(), 4)
	assert.Empty(t, summary.OrderIDs)
	assert.Empty(t, summary.OrderItemIDs)
}

func TestGenerator_GenerateComplete_OrdersWithoutUsers(t *testing.T) {
	mem := newMemDB()
	gen := datagen.New(datagen.DefaultOptions(1))

	_, err := gen.GenerateComplete(context.Background(), mem.stores(), 0, 5, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without users")
}

func TestGenerator_GenerateComplete_StoreFailureAborts(t *testing.T) {
	mem := newMemDB()
	mem.failOn = "order"
	gen := datagen.New(datagen.DefaultOptions(5))

	_, err := gen.GenerateComplete(context.Background(), mem.stores(), 3, 3, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
	// Позиции и отзывы до сбойной фазы не дошли
	assert.Empty(t, mem.items)
	assert.Empty(t, mem.reviews)
}

func TestCleanup(t *testing.T) {
	mem := newMemDB()
	gen := datagen.New(datagen.DefaultOptions(42))

	summary, err := gen.GenerateComplete(context.Background(), mem.stores(), 5, 10, 3)
	require.NoError(t, err)

	require.NoError(t, datagen.Cleanup(context.Background(), mem.stores(), summary))

	assert.Empty(t, mem.users)
	assert.Empty(t, mem.products)
	assert.Empty(t, mem.orders)
	assert.Empty(t, mem.items)
	assert.Empty(t, mem.reviews)

	// Повторная очистка — no-op, не ошибка
	require.NoError(t, datagen.Cleanup(context.Background(), mem.stores(), summary))
}

func TestNew_NormalizesOptions(t *testing.T) {
	gen := datagen.New(datagen.Options{Seed: 1, MinItemsPerOrder: 4, MaxItemsPerOrder: 2})
	mem := newMemDB()

	summary, err := gen.GenerateComplete(context.Background(), mem.stores(), 2, 3, 2)
	require.NoError(t, err)

	// MaxItemsPerOrder подтянут к MinItemsPerOrder: ровно 4 позиции на заказ
	perOrder := make(map[int64]int)
	for _, item := range mem.items {
		perOrder[item.OrderID]++
	}
	for _, id := range summary.OrderIDs {
		assert.Equal(t, 4, perOrder[id])
	}
}
