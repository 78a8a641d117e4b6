package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/config"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/errs"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/notifier"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/utils"
)

// NotificationRequest is the direct send-now payload.
type NotificationRequest struct {
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	Channel   string `json:"channel"`
}

// NotificationsHandler exposes the notification pipeline over REST. Every
// endpoint returns as soon as the work is scheduled or published, never after
// delivery completes.
type NotificationsHandler struct {
	svc       *notifier.Service
	publisher notifier.Publisher
	bus       *config.BusConfig
	logger    *zap.Logger
}

func NewNotificationsHandler(svc *notifier.Service, publisher notifier.Publisher, bus *config.BusConfig, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		svc:       svc,
		publisher: publisher,
		bus:       bus,
		logger:    logger,
	}
}

// SendNotification handles POST /api/notifications/send.
func (h *NotificationsHandler) SendNotification(c *fiber.Ctx) error {
	var req NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fmt.Errorf("invalid notification payload: %w", errs.ErrValidation))
	}
	if req.EventType == "" || req.UserID == "" {
		return sendError(c, fmt.Errorf("eventType and userId are required: %w", errs.ErrValidation))
	}

	h.logger.Info("Sending notification via API",
		zap.String("event_type", req.EventType),
		zap.String("user_id", req.UserID),
	)

	h.svc.SendNotification(req.EventType, req.UserID, req.Message, req.Channel)

	return c.SendString("Notification sent successfully")
}

// PublishNotificationEvent handles POST /api/notifications/publish-event.
// The event is pushed onto the bus as-is; processing happens on the consumer
// side.
func (h *NotificationsHandler) PublishNotificationEvent(c *fiber.Ctx) error {
	var event models.NotificationEvent
	if err := c.BodyParser(&event); err != nil {
		return sendError(c, fmt.Errorf("invalid notification event: %w", errs.ErrValidation))
	}

	body, err := json.Marshal(event)
	if err != nil {
		return sendError(c, fmt.Errorf("failed to marshal notification event: %w", err))
	}

	if err := h.publisher.Publish(h.bus.ProcessNotificationRequests, nil, body); err != nil {
		h.logger.Error("Failed to publish notification event", zap.Error(err))
		return sendError(c, fmt.Errorf("failed to publish event: %w", err))
	}

	return c.SendString("Notification event published successfully")
}

// SendOrderNotification handles POST /api/notifications/order-notification.
// The message text comes from the fixed order-event mapping, never from the
// caller.
func (h *NotificationsHandler) SendOrderNotification(c *fiber.Ctx) error {
	orderID := c.Query("orderId")
	userID := c.Query("userId")
	eventType := c.Query("eventType")
	channel := c.Query("channel", "EMAIL")

	if orderID == "" || userID == "" || eventType == "" {
		return sendError(c, fmt.Errorf("orderId, userId and eventType are required: %w", errs.ErrValidation))
	}

	h.logger.Info("Sending order notification",
		zap.String("order_id", orderID),
		zap.String("user_id", userID),
		zap.String("event_type", eventType),
	)

	message := notifier.OrderMessage(eventType, orderID)
	event := models.NewNotificationEvent(eventType, userID, message, channel)
	event.OrderID = orderID
	event.EventID = utils.OrderNotificationID(orderID)

	h.svc.ProcessNotification(event)

	return c.SendString("Order notification sent successfully")
}
