package consumer

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DeliveryHandler is the interface ingestion consumers implement to process
// one inbound bus message. The full delivery is passed through because some
// streams carry their metadata in AMQP headers rather than the body.
type DeliveryHandler interface {
	HandleDelivery(msg amqp.Delivery) error
}

// ProcessMessage runs one delivery through a handler and settles it:
// ACK on success, NACK without requeue on failure. A failed message is
// surfaced to the broker, whose redelivery policy (DLX or otherwise) is the
// only retry mechanism; the handler itself never retries.
func ProcessMessage(logger *zap.Logger, queue string, msg amqp.Delivery, handler DeliveryHandler) {
	logger.Debug("Received message from queue",
		zap.String("queue", queue),
		zap.Uint64("delivery_tag", msg.DeliveryTag),
	)

	if err := handler.HandleDelivery(msg); err != nil {
		logger.Error("Failed to process message from queue",
			zap.String("queue", queue),
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.Error(err),
		)
		rejectMessage(logger, msg)
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("Failed to ack message from queue",
			zap.String("queue", queue),
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.Error(err),
		)
		rejectMessage(logger, msg)
		return
	}

	logger.Debug("Message from queue processed successfully",
		zap.String("queue", queue),
		zap.Uint64("delivery_tag", msg.DeliveryTag),
	)
}

// rejectMessage nacks a message with requeue=false.
func rejectMessage(logger *zap.Logger, msg amqp.Delivery) {
	if err := msg.Nack(false, false); err != nil {
		logger.Error("Failed to nack a message",
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.Error(err),
		)
	}
}
