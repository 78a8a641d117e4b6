package models

import "time"

// Notification lifecycle statuses. Transitions only move forward:
// PENDING -> SENT or PENDING -> FAILED.
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)

// EventTypeDirectNotification tags ad-hoc notifications published by the
// order service's admin messaging path.
const EventTypeDirectNotification = "DIRECT_NOTIFICATION"

// NotificationEvent is the processor's unit of work. It is created by one of
// the ingestion paths, mutated exactly once (the status transition) and then
// discarded; nothing here is persisted.
type NotificationEvent struct {
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	UserID    string    `json:"userId"`
	OrderID   string    `json:"orderId,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Channel   string    `json:"channel"` // EMAIL, SMS, PUSH, WEBSOCKET
	Timestamp time.Time `json:"timestamp"`
}

// NewNotificationEvent builds a PENDING event. An empty channel falls back to
// EMAIL. The timestamp is set once here and never touched again.
func NewNotificationEvent(eventType, userID, message, channel string) *NotificationEvent {
	if channel == "" {
		channel = DefaultChannel
	}
	return &NotificationEvent{
		EventType: eventType,
		UserID:    userID,
		Message:   message,
		Channel:   channel,
		Status:    NotificationStatusPending,
		Timestamp: time.Now(),
	}
}

// MarkSent moves the event to SENT. Terminal states are never overwritten.
func (e *NotificationEvent) MarkSent() {
	if e.Status == NotificationStatusPending {
		e.Status = NotificationStatusSent
	}
}

// MarkFailed moves the event to FAILED. Terminal states are never overwritten.
func (e *NotificationEvent) MarkFailed() {
	if e.Status == NotificationStatusPending {
		e.Status = NotificationStatusFailed
	}
}
