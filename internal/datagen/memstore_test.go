package datagen_test

import (
	"context"
	"errors"
	"time"

	"github.com/vasiliy-maslov/ecommerce-testdata/internal/datagen"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/order"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/product"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/review"
	"github.com/vasiliy-maslov/ecommerce-testdata/internal/user"
)

// memDB — хранилище в памяти для юнит-тестов генератора: те же контракты
// create/delete, что у репозиториев, но без базы.
type memDB struct {
	nextID   int64
	users    map[int64]user.User
	products map[int64]product.Product
	orders   map[int64]order.Order
	items    map[int64]order.OrderItem
	reviews  map[int64]review.Review

	// failOn позволяет смоделировать сбой персистентности на нужной сущности
	failOn string
}

var errStorage = errors.New("storage failure")

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[int64]user.User),
		products: make(map[int64]product.Product),
		orders:   make(map[int64]order.Order),
		items:    make(map[int64]order.OrderItem),
		reviews:  make(map[int64]review.Review),
	}
}

func (m *memDB) stores() datagen.Stores {
	return datagen.Stores{
		Users:      (*memUsers)(m),
		Products:   (*memProducts)(m),
		Orders:     (*memOrders)(m),
		OrderItems: (*memItems)(m),
		Reviews:    (*memReviews)(m),
	}
}

func (m *memDB) assignID() int64 {
	m.nextID++
	return m.nextID
}

type memUsers memDB

func (m *memUsers) Create(_ context.Context, u *user.User) (*user.User, error) {
	if m.failOn == "user" {
		return nil, errStorage
	}
	u.ID = (*memDB)(m).assignID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return u, nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type memProducts memDB

func (m *memProducts) Create(_ context.Context, p *product.Product) (*product.Product, error) {
	if m.failOn == "product" {
		return nil, errStorage
	}
	p.ID = (*memDB)(m).assignID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = *p
	return p, nil
}

func (m *memProducts) Delete(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

type memOrders memDB

func (m *memOrders) Create(_ context.Context, o *order.Order) (*order.Order, error) {
	if m.failOn == "order" {
		return nil, errStorage
	}
	o.ID = (*memDB)(m).assignID()
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = *o
	return o, nil
}

func (m *memOrders) Delete(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return order.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

type memItems memDB

func (m *memItems) Create(_ context.Context, item *order.OrderItem) (*order.OrderItem, error) {
	if m.failOn == "order_item" {
		return nil, errStorage
	}
	item.ID = (*memDB)(m).assignID()
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt
	m.items[item.ID] = *item
	return item, nil
}

func (m *memItems) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return order.ErrOrderItemNotFound
	}
	delete(m.items, id)
	return nil
}

type memReviews memDB

func (m *memReviews) Create(_ context.Context, rv *review.Review) (*review.Review, error) {
	if m.failOn == "review" {
		return nil, errStorage
	}
	rv.ID = (*memDB)(m).assignID()
	rv.ReviewDate = time.Now().UTC()
	rv.CreatedAt = rv.ReviewDate
	rv.UpdatedAt = rv.ReviewDate
	m.reviews[rv.ID] = *rv
	return rv, nil
}

func (m *memReviews) Delete(_ context.Context, id int64) error {
	if _, ok := m.reviews[id]; !ok {
		return review.ErrReviewNotFound
	}
	delete(m.reviews, id)
	return nil
}
