package handlers

import (
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"kitsu-backend/internal/models"
)

func TestSubmitFinal(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedMenuItem("Breakfast Set", "120.00", true)

	rec, c := env.doFormRequest("/api/orders/submit-final", map[string]string{
		"customer_name":    "test_customer",
		"customer_phone":   "0812345678",
		"customer_address": "123 Test Road",
		"items":            fmt.Sprintf(`[{"id": %d, "quantity": 2}]`, item.ID),
	})
	require.NoError(t, env.Order.SubmitFinal(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message    string `json:"message"`
		OrderID    uint   `json:"order_id"`
		TotalPrice string `json:"total_price"`
	}
	decodeBody(t, rec.Body, &resp)
	require.Equal(t, "240.00", resp.TotalPrice)
	require.NotZero(t, resp.OrderID)

	var order models.Order
	require.NoError(t, env.DB.Preload("Items").First(&order, resp.OrderID).Error)
	require.Len(t, order.Items, 1)
	require.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
}

func TestSubmitFinalEmptyItems(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doFormRequest("/api/orders/submit-final", map[string]string{
		"customer_name":    "test_customer",
		"customer_phone":   "0812345678",
		"customer_address": "123 Test Road",
		"items":            "[]",
	})
	require.NoError(t, env.Order.SubmitFinal(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitFinalMalformedItems(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doFormRequest("/api/orders/submit-final", map[string]string{
		"customer_name":    "test_customer",
		"customer_phone":   "0812345678",
		"customer_address": "123 Test Road",
		"items":            "not json",
	})
	require.NoError(t, env.Order.SubmitFinal(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitFinalUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doFormRequest("/api/orders/submit-final", map[string]string{
		"customer_name":    "test_customer",
		"customer_phone":   "0812345678",
		"customer_address": "123 Test Road",
		"items":            `[{"id": 9999, "quantity": 1}]`,
	})
	require.NoError(t, env.Order.SubmitFinal(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedMenuItem("Breakfast Set", "120.00", true)

	rec, c := env.doFormRequest("/api/orders/submit-final", map[string]string{
		"customer_name":    "test_customer",
		"customer_phone":   "0812345678",
		"customer_address": "123 Test Road",
		"items":            fmt.Sprintf(`[{"id": %d, "quantity": 1}]`, item.ID),
	})
	require.NoError(t, env.Order.SubmitFinal(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/orders/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Order.GetOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	decodeBody(t, rec.Body, &order)
	require.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	require.Len(t, order.Items, 1)
}

func TestSubmitFinalWithSlip(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedMenuItem("Breakfast Set", "120.00", true)

	rec, c := env.doUploadRequest(http.MethodPost, "/api/orders/submit-final", map[string]string{
		"customer_name":    "test_customer",
		"customer_phone":   "0812345678",
		"customer_address": "123 Test Road",
		"items":            fmt.Sprintf(`[{"id": %d, "quantity": 1}]`, item.ID),
	}, "payment_slip", []byte("fake image bytes"))
	require.NoError(t, env.Order.SubmitFinal(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, env.DB.First(&order).Error)
	require.NotEmpty(t, order.PaymentSlip)

	data, err := os.ReadFile(order.PaymentSlip)
	require.NoError(t, err)
	require.Equal(t, "fake image bytes", string(data))
}

func TestSubmitFinalRejectedCleansUpSlip(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doUploadRequest(http.MethodPost, "/api/orders/submit-final", map[string]string{
		"customer_name":    "test_customer",
		"customer_phone":   "0812345678",
		"customer_address": "123 Test Road",
		"items":            `[{"id": 9999, "quantity": 1}]`,
	}, "payment_slip", []byte("fake image bytes"))
	require.NoError(t, env.Order.SubmitFinal(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// rejected submission must not leave the slip behind
	entries, err := os.ReadDir(env.Order.UploadDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestUploadSlip(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedMenuItem("Breakfast Set", "120.00", true)
	orderID := env.placeOrder(item.ID, 1)

	rec, c := env.doUploadRequest(http.MethodPatch, "/api/orders/1/slip", nil,
		"payment_slip", []byte("fake image bytes"))
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Order.UploadSlip(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	require.NoError(t, env.DB.First(&order, orderID).Error)
	require.NotEmpty(t, order.PaymentSlip)

	data, err := os.ReadFile(order.PaymentSlip)
	require.NoError(t, err)
	require.Equal(t, "fake image bytes", string(data))
}

func TestUploadSlipMissingFile(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedMenuItem("Breakfast Set", "120.00", true)
	env.placeOrder(item.ID, 1)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/orders/1/slip", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Order.UploadSlip(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadSlipUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doUploadRequest(http.MethodPatch, "/api/orders/9999/slip", nil,
		"payment_slip", []byte("fake image bytes"))
	c.SetParamNames("id")
	c.SetParamValues("9999")
	require.NoError(t, env.Order.UploadSlip(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	entries, err := os.ReadDir(env.Order.UploadDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestGetOrderNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/orders/9999", nil)
	c.SetParamNames("id")
	c.SetParamValues("9999")
	require.NoError(t, env.Order.GetOrder(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
