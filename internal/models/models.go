package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending         = "PENDING"
	OrderStatusAwaitingPayment = "AWAITING_PAYMENT"
	OrderStatusPreparing       = "PREPARING"
	OrderStatusDelivering      = "DELIVERING"
	OrderStatusCompleted       = "COMPLETED"
	OrderStatusCancelled       = "CANCELLED"
)

const (
	PaymentStatusUnpaid   = "UNPAID"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusAwaitingPayment,
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string          `gorm:"not null"                   json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`
	ImageURL    string          `json:"image_url"`
	// no gorm default tag: gorm drops zero-value fields from the INSERT
	// when one is set, so Available=false would come back true
	Available bool `gorm:"not null" json:"is_available"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	CustomerName    string          `gorm:"not null"                    json:"customer_name"`
	CustomerPhone   string          `gorm:"not null"                    json:"customer_phone"`
	CustomerAddress string          `gorm:"not null"                    json:"customer_address"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status          string          `gorm:"not null"                    json:"status"`
	PaymentStatus   string          `gorm:"not null"                    json:"payment_status"`
	PaymentIntentID *string         `gorm:"uniqueIndex"                 json:"payment_intent_id,omitempty"`
	PaymentSlip     string          `json:"payment_slip,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem is a snapshot of one menu line at the time the order was
// placed. Name and price are denormalized so later catalog edits do not
// rewrite history.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	OrderID      uint            `gorm:"index;not null"             json:"order_id"`
	MenuItemName string          `gorm:"not null"                   json:"menu_item_name"`
	Quantity     uint            `gorm:"not null;check:quantity>0"  json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`
}

type AdminUser struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
