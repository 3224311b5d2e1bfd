package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kitsu-backend/internal/models"
)

const WebhookStatusSuccess = "success"

type PaymentService struct {
	DB *gorm.DB
}

type WebhookResult struct {
	Order            *models.Order
	Paid             bool
	AlreadyProcessed bool
}

// CreateIntent attaches a mock payment intent to an order. Calling it
// again while the order is still unpaid returns the intent already
// issued instead of minting a new one.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: order %d already paid", ErrConflict, orderID)
	}

	if order.PaymentIntentID != nil && order.PaymentStatus == models.PaymentStatusUnpaid {
		return &order, nil
	}

	intentID := "KT-" + uuid.NewString()
	order.PaymentIntentID = &intentID
	order.PaymentStatus = models.PaymentStatusUnpaid
	if order.Status == models.OrderStatusPending {
		order.Status = models.OrderStatusAwaitingPayment
	}

	updates := map[string]interface{}{
		"payment_intent_id": intentID,
		"payment_status":    order.PaymentStatus,
		"status":            order.Status,
	}
	if err := s.DB.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

func (s *PaymentService) GetByIntent(ctx context.Context, intentID string) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).Where("payment_intent_id = ?", intentID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: intent %s", ErrNotFound, intentID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// HandleWebhook advances the payment state machine for the order that
// owns the intent. The row lock serializes concurrent deliveries of the
// same event; a PAID order short-circuits, so a duplicate delivery is a
// no-op. FAILED leaves the order status untouched.
func (s *PaymentService) HandleWebhook(ctx context.Context, intentID, status string) (*WebhookResult, error) {
	if intentID == "" || status == "" {
		return nil, fmt.Errorf("%w: intent_id and status are required", ErrValidation)
	}

	result := &WebhookResult{}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// sqlite (tests) is single-writer and has no FOR UPDATE
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var order models.Order
		err := q.Where("payment_intent_id = ?", intentID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: intent %s", ErrNotFound, intentID)
		}
		if err != nil {
			return err
		}

		if order.PaymentStatus == models.PaymentStatusPaid {
			result.Order = &order
			result.AlreadyProcessed = true
			return nil
		}

		if status == WebhookStatusSuccess {
			now := time.Now().UTC()
			order.PaymentStatus = models.PaymentStatusPaid
			order.Status = models.OrderStatusPreparing
			order.PaidAt = &now

			err := tx.Model(&order).Updates(map[string]interface{}{
				"payment_status": order.PaymentStatus,
				"status":         order.Status,
				"paid_at":        order.PaidAt,
			}).Error
			if err != nil {
				return err
			}

			result.Order = &order
			result.Paid = true
			return nil
		}

		order.PaymentStatus = models.PaymentStatusFailed
		if err := tx.Model(&order).Update("payment_status", order.PaymentStatus).Error; err != nil {
			return err
		}
		result.Order = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Paid {
		// reload with items for the notification message
		var full models.Order
		if err := s.DB.WithContext(ctx).Preload("Items").First(&full, result.Order.ID).Error; err == nil {
			result.Order = &full
		}
	}

	return result, nil
}
