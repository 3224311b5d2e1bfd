package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"kitsu-backend/internal/logging"
	"kitsu-backend/internal/models"
	"kitsu-backend/internal/mykafka"
	"kitsu-backend/internal/notify"
	"kitsu-backend/internal/service"
)

type PaymentHandler struct {
	Svc      *service.PaymentService
	Producer *mykafka.Producer
	Notifier *notify.Telegram
}

type createIntentRequest struct {
	OrderID uint `json:"order_id"`
}

type webhookRequest struct {
	IntentID string `json:"intent_id"`
	Status   string `json:"status"`
}

func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_intent")

	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_intent_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateIntent(ctx, req.OrderID)
	if err != nil {
		l.Warn("create_intent_error", "order_id", req.OrderID, "error", err)
		return serviceError(c, err)
	}

	l.Info("create_intent_success", "order_id", order.ID, "intent_id", *order.PaymentIntentID)
	return c.JSON(http.StatusCreated, echo.Map{
		"intent_id":   *order.PaymentIntentID,
		"order_id":    order.ID,
		"amount":      order.TotalPrice.StringFixed(2),
		"status":      order.PaymentStatus,
	})
}

func (h *PaymentHandler) GetStatus(c echo.Context) error {
	intentID := c.Param("intent_id")

	order, err := h.Svc.GetByIntent(c.Request().Context(), intentID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"intent_id":      intentID,
		"payment_status": order.PaymentStatus,
		"order_status":   order.Status,
		"paid_at":        order.PaidAt,
	})
}

func (h *PaymentHandler) notifyPaid(c echo.Context, order *models.Order) {
	if h.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Notifier.NotifyOrderPaid(ctx, order); err != nil {
		logging.FromContext(c.Request().Context()).Warn("telegram_error", "order_id", order.ID, "error", err)
	}
}

// SimulatorWebhook receives the payment simulator's callback. Duplicate
// deliveries for a paid order answer 200 "Already processed" without
// touching the row.
func (h *PaymentHandler) SimulatorWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.simulator_webhook")

	var req webhookRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("webhook_error", "status", 400, "reason", "invalid json", "error", err)
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("invalid JSON"))
	}

	result, err := h.Svc.HandleWebhook(ctx, req.IntentID, req.Status)
	if err != nil {
		l.Warn("webhook_error", "intent_id", req.IntentID, "error", err)
		return serviceError(c, err)
	}

	if result.AlreadyProcessed {
		l.Info("webhook_duplicate", "intent_id", req.IntentID, "order_id", result.Order.ID)
		return c.JSON(http.StatusOK, echo.Map{"message": "Already processed"})
	}

	if result.Paid {
		h.notifyPaid(c, result.Order)
		if h.Producer != nil {
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			err := h.Producer.PublishEvent(pctx, fmt.Sprint(result.Order.ID), map[string]interface{}{
				"type":     "order_paid",
				"order_id": result.Order.ID,
			})
			if err != nil {
				l.Warn("kafka_publish_error", "error", err)
			}
		}
		l.Info("webhook_paid", "intent_id", req.IntentID, "order_id", result.Order.ID)
		return c.JSON(http.StatusOK, echo.Map{"message": "Payment confirmed"})
	}

	l.Info("webhook_failed", "intent_id", req.IntentID, "order_id", result.Order.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment failed"})
}

// StripeWebhook is a placeholder until a real Stripe account is wired up.
func (h *PaymentHandler) StripeWebhook(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Stripe webhook received"})
}

// OmiseWebhook is a placeholder until a real Omise account is wired up.
func (h *PaymentHandler) OmiseWebhook(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Omise webhook received"})
}
