package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kitsu-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	// one pooled connection, otherwise every conn sees its own :memory: db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AdminUser{},
		&models.RefreshToken{},
	)
	require.NoError(t, err)

	return db
}

func seedMenuItem(t *testing.T, db *gorm.DB, name, price string) models.MenuItem {
	t.Helper()

	item := models.MenuItem{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Available: true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func seedOrder(t *testing.T, db *gorm.DB, svc *OrderService, items []CartItem) *models.Order {
	t.Helper()

	order, err := svc.CreateOrder(t.Context(), CreateOrderRequest{
		CustomerName:    "test_customer",
		CustomerPhone:   "0812345678",
		CustomerAddress: "123 Test Road",
		Items:           items,
	})
	require.NoError(t, err)
	return order
}
