package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kitsu-backend/internal/logging"
	"kitsu-backend/internal/models"
)

// Telegram sends order notifications to a chat via the Bot API.
// Delivery is best effort: callers log errors and move on.
type Telegram struct {
	Token  string
	ChatID string
	Client *http.Client
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		Token:  token,
		ChatID: chatID,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (t *Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != ""
}

func (t *Telegram) NotifyOrderCreated(ctx context.Context, order *models.Order) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Kitsu Kitchen: New Order!\n\n")
	fmt.Fprintf(&b, "Order ID: %d\n", order.ID)
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "Address: %s\n\n", order.CustomerAddress)
	fmt.Fprintf(&b, "Total: %s\n", order.TotalPrice.StringFixed(2))
	b.WriteString("\nItems:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s (x%d)\n", item.MenuItemName, item.Quantity)
	}

	return t.send(ctx, b.String())
}

func (t *Telegram) NotifyOrderPaid(ctx context.Context, order *models.Order) error {
	msg := fmt.Sprintf(
		"Kitsu Kitchen: Order %d paid!\n\nCustomer: %s\nTotal: %s",
		order.ID, order.CustomerName, order.TotalPrice.StringFixed(2),
	)
	return t.send(ctx, msg)
}

func (t *Telegram) send(ctx context.Context, text string) error {
	if !t.Enabled() {
		logging.FromContext(ctx).Warn("telegram_skip", "reason", "credentials not set")
		return nil
	}

	payload := map[string]string{
		"chat_id": t.ChatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram: api status %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
