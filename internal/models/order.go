package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. There is deliberately no transition table: any known status
// may follow any other, matching the admin workflow of the original system.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Delivery modes.
const (
	DeliveryModeDelivery = "DELIVERY"
	DeliveryModePickup   = "PICKUP"
)

// NormalizeOrderStatus matches a status token case-insensitively against the
// known set. The second return reports whether the token was recognized.
func NormalizeOrderStatus(status string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return s, true
	}
	return s, false
}

// NormalizeDeliveryMode matches a delivery mode case-insensitively. An empty
// mode defaults to DELIVERY.
func NormalizeDeliveryMode(mode string) (string, bool) {
	m := strings.ToUpper(strings.TrimSpace(mode))
	if m == "" {
		return DeliveryModeDelivery, true
	}
	switch m {
	case DeliveryModeDelivery, DeliveryModePickup:
		return m, true
	}
	return m, false
}

type Order struct {
	OrderID         int64           `gorm:"primaryKey;autoIncrement" json:"orderId"`
	UserID          int64           `gorm:"not null" json:"userId"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalAmount"`
	Status          string          `gorm:"not null;default:'PENDING'" json:"status"`
	DeliveryMode    string          `gorm:"not null;default:'DELIVERY'" json:"deliveryMode"`
	DeliveryAddress string          `gorm:"column:delivery_address" json:"deliveryAddress,omitempty"`
	OrderDate       time.Time       `gorm:"column:order_date;not null" json:"orderDate"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	OrderItemID int64           `gorm:"primaryKey;autoIncrement" json:"orderItemId"`
	OrderID     int64           `gorm:"not null" json:"-"`
	MenuItemID  int64           `gorm:"not null" json:"menuItemId"`
	ItemName    string          `gorm:"not null" json:"itemName"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(10,2)" json:"totalPrice"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
