package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kitsu-backend/internal/models"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

type CartItem struct {
	ID       uint `json:"id"`
	Quantity uint `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	PaymentSlip     string
	Items           []CartItem
}

type OrderService struct {
	DB *gorm.DB
}

// CreateOrder resolves the cart against the catalog and persists the
// order with its line items in one transaction. The total is always
// recomputed server-side from catalog prices.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if req.CustomerName == "" || req.CustomerPhone == "" || req.CustomerAddress == "" {
		return nil, fmt.Errorf("%w: customer_name, customer_phone and customer_address are required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	ids := make([]uint, 0, len(req.Items))
	for i := range req.Items {
		if req.Items[i].Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		ids = append(ids, req.Items[i].ID)
	}

	var menuItems []models.MenuItem
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&menuItems).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.MenuItem, len(menuItems))
	for _, item := range menuItems {
		byID[item.ID] = item
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: menu items with ids %v not found", ErrValidation, missing)
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		menuItem := byID[line.ID]
		total = total.Add(menuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			MenuItemName: menuItem.Name,
			Quantity:     line.Quantity,
			Price:        menuItem.Price,
		})
	}

	order := &models.Order{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		TotalPrice:      total,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusUnpaid,
		PaymentSlip:     req.PaymentSlip,
		Items:           items,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) AttachSlip(ctx context.Context, id uint, slipPath string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.PaymentSlip = slipPath
	if err := s.DB.WithContext(ctx).Model(order).Update("payment_slip", slipPath).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.DB.WithContext(ctx).Model(order).Update("status", status).Error; err != nil {
		return nil, err
	}
	return order, nil
}
