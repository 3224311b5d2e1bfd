package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"kitsu-backend/internal/logging"
	"kitsu-backend/internal/models"
	"kitsu-backend/internal/mykafka"
	"kitsu-backend/internal/notify"
	"kitsu-backend/internal/service"
)

type OrderHandler struct {
	Svc       *service.OrderService
	Producer  *mykafka.Producer
	Notifier  *notify.Telegram
	UploadDir string
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]interface{}) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_error", "error", err)
	}
}

func (h *OrderHandler) notifyCreated(c echo.Context, order *models.Order) {
	if h.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Notifier.NotifyOrderCreated(ctx, order); err != nil {
		logging.FromContext(c.Request().Context()).Warn("telegram_error", "order_id", order.ID, "error", err)
	}
}

func (h *OrderHandler) saveSlip(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("slip-%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	path := filepath.Join(h.UploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

// SubmitFinal accepts the storefront checkout form: customer fields plus
// the cart as a JSON-encoded array string, optionally with a payment
// slip image.
func (h *OrderHandler) SubmitFinal(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.submit_final")

	req := service.CreateOrderRequest{
		CustomerName:    c.FormValue("customer_name"),
		CustomerPhone:   c.FormValue("customer_phone"),
		CustomerAddress: c.FormValue("customer_address"),
	}

	itemsRaw := c.FormValue("items")
	if itemsRaw == "" {
		l.Warn("submit_final_error", "status", 400, "reason", "items missing")
		return errorResponse(c, http.StatusBadRequest, errors.New("items field is required"))
	}
	if err := json.Unmarshal([]byte(itemsRaw), &req.Items); err != nil {
		l.Warn("submit_final_error", "status", 400, "reason", "invalid items json", "error", err)
		return errorResponse(c, http.StatusBadRequest, errors.New("items must be a JSON array"))
	}

	if file, err := c.FormFile("payment_slip"); err == nil {
		path, err := h.saveSlip(file)
		if err != nil {
			l.Warn("submit_final_error", "status", 500, "reason", "slip save failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		req.PaymentSlip = path
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		if req.PaymentSlip != "" {
			if rmErr := os.Remove(req.PaymentSlip); rmErr != nil {
				l.Warn("slip_cleanup_error", "path", req.PaymentSlip, "error", rmErr)
			}
		}
		l.Warn("submit_final_error", "error", err)
		return serviceError(c, err)
	}

	h.notifyCreated(c, order)
	h.publish(c, fmt.Sprint(order.ID), map[string]interface{}{
		"type":        "order_created",
		"order_id":    order.ID,
		"total_price": order.TotalPrice.StringFixed(2),
	})

	l.Info("submit_final_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "Order created successfully!",
		"order_id":    order.ID,
		"total_price": order.TotalPrice.StringFixed(2),
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UploadSlip(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	file, err := c.FormFile("payment_slip")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("payment_slip file is required"))
	}

	path, err := h.saveSlip(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	order, err := h.Svc.AttachSlip(c.Request().Context(), id, path)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logging.FromContext(c.Request().Context()).Warn("slip_cleanup_error", "path", path, "error", rmErr)
		}
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}
