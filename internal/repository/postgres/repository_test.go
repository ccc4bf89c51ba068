package postgres

import (
	"context"
	"fmt"
	"testing"

	"bazaarHub/domain"
	"bazaarHub/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	return db
}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, ctx: context.Background(), db: newTestDB(t)}
}

func (f *fixture) user(name, role string) domain.User {
	u := domain.User{FullName: name, Email: fmt.Sprintf("%s@shop.test", name), Password: "x", Role: role, IsVerified: true}
	require.NoError(f.t, NewUserRepository(f.db).Create(f.ctx, &u))
	return u
}

func (f *fixture) category(name string, charge *float64) domain.Category {
	c := domain.Category{Name: name, ServiceCharge: charge}
	require.NoError(f.t, NewCategoryRepository(f.db).Create(f.ctx, &c))
	return c
}

func (f *fixture) product(vendor *domain.User, category *domain.Category, price float64, stock int) domain.Product {
	p := domain.Product{Name: "item", Price: price, Stock: stock}
	if vendor != nil {
		p.VendorID = ptr(vendor.ID)
	}
	if category != nil {
		p.CategoryID = ptr(category.ID)
	}
	require.NoError(f.t, NewProductRepository(f.db).Create(f.ctx, &p))
	return p
}

// order stores an order directly with the given status, bypassing stock.
func (f *fixture) order(buyer domain.User, status string, items ...domain.OrderItem) domain.Order {
	o := domain.Order{BuyerID: buyer.ID, Status: status, PaymentStatus: domain.PaymentStatusUnpaid, Items: items}
	for _, it := range items {
		o.Total += it.LineTotal()
	}
	require.NoError(f.t, f.db.Create(&o).Error)
	return o
}

func line(p domain.Product, qty int) domain.OrderItem {
	return domain.OrderItem{ProductID: p.ID, VendorID: p.VendorID, Price: p.Price, Quantity: qty}
}
