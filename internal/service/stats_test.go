package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kitsu-backend/internal/models"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	orders := &OrderService{DB: db}
	payments := &PaymentService{DB: db}
	stats := &StatsService{DB: db}

	breakfast := seedMenuItem(t, db, "Breakfast Set", "120.00")
	premium := seedMenuItem(t, db, "Premium Set", "400.00")

	// paid today
	paid := seedOrder(t, db, orders, []CartItem{
		{ID: breakfast.ID, Quantity: 3},
		{ID: premium.ID, Quantity: 1},
	})
	withIntent, err := payments.CreateIntent(t.Context(), paid.ID)
	require.NoError(t, err)
	_, err = payments.HandleWebhook(t.Context(), *withIntent.PaymentIntentID, WebhookStatusSuccess)
	require.NoError(t, err)

	// unpaid today, counts toward order totals but not revenue
	seedOrder(t, db, orders, []CartItem{{ID: breakfast.ID, Quantity: 1}})

	// paid, but yesterday
	old := seedOrder(t, db, orders, []CartItem{{ID: premium.ID, Quantity: 2}})
	yesterday := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", old.ID).
		Updates(map[string]interface{}{
			"created_at":     yesterday,
			"payment_status": models.PaymentStatusPaid,
		}).Error)

	got, err := stats.Dashboard(t.Context())
	require.NoError(t, err)

	require.Equal(t, "760.00", got.TodayRevenue)
	require.Equal(t, int64(2), got.TodayOrderCount)
	require.Equal(t, int64(3), got.TotalOrders)

	require.NotEmpty(t, got.PopularItems)
	require.Equal(t, "Breakfast Set", got.PopularItems[0].MenuItemName)
	require.Equal(t, int64(4), got.PopularItems[0].TotalQuantity)
}

func TestDashboardStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	stats := &StatsService{DB: db}

	got, err := stats.Dashboard(t.Context())
	require.NoError(t, err)
	require.Equal(t, "0.00", got.TodayRevenue)
	require.Zero(t, got.TodayOrderCount)
	require.Zero(t, got.TotalOrders)
	require.Empty(t, got.PopularItems)
}
