package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/rabbitmq"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/utils"
)

// NotificationRequestConsumer consumes already-structured notification
// events and forwards them straight to the processor. Errors are surfaced,
// not swallowed: a bad message is nacked and left to the broker's policy.
type NotificationRequestConsumer struct {
	loop
	processor Processor
}

func NewNotificationRequestConsumer(conn *rabbitmq.Connection, queue string, prefetch int, processor Processor, logger *zap.Logger) *NotificationRequestConsumer {
	return &NotificationRequestConsumer{
		loop:      newLoop(conn, queue, prefetch, "notification-request-consumer", logger),
		processor: processor,
	}
}

func (c *NotificationRequestConsumer) Start() error {
	return c.start(c)
}

func (c *NotificationRequestConsumer) Stop() error {
	return c.stop()
}

func (c *NotificationRequestConsumer) HandleDelivery(msg amqp.Delivery) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal notification event: %w", err)
	}

	// Direct-notification payloads arrive without an id or status.
	if event.EventID == "" {
		event.EventID = utils.APINotificationID()
	}
	if event.Status == "" {
		event.Status = models.NotificationStatusPending
	}
	if event.Channel == "" {
		event.Channel = models.DefaultChannel
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.logger.Info("Processing notification request",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
	)

	c.processor.ProcessNotification(&event)

	return nil
}
