package ingest

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/notifier"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/rabbitmq"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/utils"
)

// OrderEventConsumer consumes the order-lifecycle stream. Routing metadata
// travels in the AMQP headers; the payload stays opaque. Processing errors
// are returned (and the message nacked) so the broker's redelivery policy can
// take another swing — deliberately the opposite of the publish side's
// fire-and-forget contract.
type OrderEventConsumer struct {
	loop
	processor Processor
}

func NewOrderEventConsumer(conn *rabbitmq.Connection, queue string, prefetch int, processor Processor, logger *zap.Logger) *OrderEventConsumer {
	return &OrderEventConsumer{
		loop:      newLoop(conn, queue, prefetch, "order-event-consumer", logger),
		processor: processor,
	}
}

func (c *OrderEventConsumer) Start() error {
	return c.start(c)
}

func (c *OrderEventConsumer) Stop() error {
	return c.stop()
}

// HandleDelivery builds a notification from one order event and hands it to
// the processor. Channel defaults to EMAIL for this path.
func (c *OrderEventConsumer) HandleDelivery(msg amqp.Delivery) error {
	eventType := headerString(msg.Headers, models.HeaderEventType)
	orderID := headerString(msg.Headers, models.HeaderOrderID)
	userID := headerString(msg.Headers, models.HeaderUserID)

	if eventType == "" || orderID == "" {
		return fmt.Errorf("order event is missing eventType/orderId headers")
	}

	c.logger.Info("Processing order event",
		zap.String("event_type", eventType),
		zap.String("order_id", orderID),
	)

	message := notifier.OrderMessage(eventType, orderID)
	event := models.NewNotificationEvent(eventType, userID, message, models.DefaultChannel)
	event.OrderID = orderID
	event.EventID = utils.OrderNotificationID(orderID)

	c.processor.ProcessNotification(event)

	return nil
}
