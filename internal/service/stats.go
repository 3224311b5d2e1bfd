package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kitsu-backend/internal/models"
)

type StatsService struct {
	DB *gorm.DB
}

type PopularItem struct {
	MenuItemName  string `json:"menu_item_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

type DashboardStats struct {
	TodayRevenue    string        `json:"today_revenue"`
	TodayOrderCount int64         `json:"today_order_count"`
	TotalOrders     int64         `json:"total_orders"`
	PopularItems    []PopularItem `json:"popular_items"`
}

// Dashboard aggregates today's numbers on every call; the shop is small
// enough that caching would be pointless.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	db := s.DB.WithContext(ctx)

	var revenue decimal.NullDecimal
	err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("SUM(total_price)").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}

	var todayCount int64
	err = db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Count(&todayCount).Error
	if err != nil {
		return nil, err
	}

	var totalOrders int64
	if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return nil, err
	}

	popular := []PopularItem{}
	err = db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", dayStart, dayEnd).
		Select("order_items.menu_item_name AS menu_item_name, SUM(order_items.quantity) AS total_quantity").
		Group("order_items.menu_item_name").
		Order("total_quantity DESC").
		Limit(5).
		Scan(&popular).Error
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	if revenue.Valid {
		total = revenue.Decimal
	}

	return &DashboardStats{
		TodayRevenue:    total.StringFixed(2),
		TodayOrderCount: todayCount,
		TotalOrders:     totalOrders,
		PopularItems:    popular,
	}, nil
}
