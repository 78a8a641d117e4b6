package models

import (
	"fmt"
	"time"
)

// Order lifecycle event types as they appear on the bus. UpdateOrderStatus
// derives the type from the new status ("ORDER_" + status), so the stream can
// also carry types outside this list.
const (
	EventTypeOrderCreated   = "ORDER_CREATED"
	EventTypeOrderConfirmed = "ORDER_CONFIRMED"
	EventTypeOrderPreparing = "ORDER_PREPARING"
	EventTypeOrderReady     = "ORDER_READY"
	EventTypeOrderDelivered = "ORDER_DELIVERED"
	EventTypeOrderCancelled = "ORDER_CANCELLED"
)

// SourceOrderService labels order events published by this service.
const SourceOrderService = "ORDER-SERVICE"

// AMQP header keys carried alongside every order event so consumers can route
// without touching the payload.
const (
	HeaderEventType = "eventType"
	HeaderOrderID   = "orderId"
	HeaderUserID    = "userId"
	HeaderSource    = "source"
)

// OrderEvent is the wire record published to the order-events queue on every
// significant order transition. It is never persisted by this service.
type OrderEvent struct {
	EventID       string    `json:"eventId"`
	EventType     string    `json:"eventType"`
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	Timestamp     time.Time `json:"timestamp"`
	SourceService string    `json:"sourceService"`
}

// NewOrderEvent stamps a fresh event for the given order transition.
// The event id is assigned once here and never mutated.
func NewOrderEvent(eventType string, orderID, userID int64) *OrderEvent {
	now := time.Now()
	return &OrderEvent{
		EventID:       fmt.Sprintf("EVT-%d-%d", orderID, now.UnixMilli()),
		EventType:     eventType,
		OrderID:       fmt.Sprintf("%d", orderID),
		UserID:        fmt.Sprintf("%d", userID),
		Timestamp:     now,
		SourceService: SourceOrderService,
	}
}
