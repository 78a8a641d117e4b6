// Package ingest consumes the order-event and notification-request streams
// and normalizes them into notification events handed to the processor.
package ingest

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/consumer"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/rabbitmq"
)

// Processor receives normalized notification events. Satisfied by
// notifier.Service.
type Processor interface {
	ProcessNotification(event *models.NotificationEvent)
}

// loop is the shared consume-and-restart machinery behind both ingestion
// consumers. It runs on the bus delivery channel, settles messages through
// consumer.ProcessMessage, and re-registers itself when the channel drops.
type loop struct {
	conn        *rabbitmq.Connection
	queue       string
	prefetch    int
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	consumerTag string
	started     bool
}

func newLoop(conn *rabbitmq.Connection, queue string, prefetch int, name string, logger *zap.Logger) loop {
	ctx, cancel := context.WithCancel(context.Background())
	return loop{
		conn:        conn,
		queue:       queue,
		prefetch:    prefetch,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		consumerTag: fmt.Sprintf("%s-%d", name, time.Now().Unix()),
	}
}

func (l *loop) start(handler consumer.DeliveryHandler) error {
	if l.queue == "" {
		return fmt.Errorf("queue name is required")
	}

	if err := l.conn.SetQoS(l.prefetch); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := l.startConsuming(handler); err != nil {
		return err
	}

	l.started = true
	l.logger.Info("Consumer started",
		zap.String("queue", l.queue),
		zap.String("consumer_tag", l.consumerTag),
	)
	return nil
}

func (l *loop) startConsuming(handler consumer.DeliveryHandler) error {
	messages, err := l.conn.ConsumeMessages(l.queue, l.consumerTag)
	if err != nil {
		return fmt.Errorf("failed to start consuming from queue %s: %w", l.queue, err)
	}

	go l.processMessages(messages, handler)

	return nil
}

func (l *loop) stop() error {
	l.logger.Info("Stopping consumer",
		zap.String("queue", l.queue),
		zap.String("consumer_tag", l.consumerTag),
	)
	l.cancel()

	if err := l.conn.CancelConsumer(l.consumerTag); err != nil {
		l.logger.Error("Failed to cancel consumer",
			zap.String("consumer_tag", l.consumerTag),
			zap.Error(err),
		)
	}

	return nil
}

func (l *loop) processMessages(messages <-chan amqp.Delivery, handler consumer.DeliveryHandler) {
	for {
		select {
		case <-l.ctx.Done():
			l.logger.Info("Consumer context cancelled, stopping message processing",
				zap.String("queue", l.queue),
			)
			return
		case msg, ok := <-messages:
			if !ok {
				l.restartConsuming(handler)
				return
			}
			consumer.ProcessMessage(l.logger, l.queue, msg, handler)
		}
	}
}

// restartConsuming retries registration after the delivery channel closed,
// waiting for the connection to recover first.
func (l *loop) restartConsuming(handler consumer.DeliveryHandler) {
	l.logger.Warn("Message channel closed, attempting to restart consumer...",
		zap.String("queue", l.queue),
	)

	for l.started {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		time.Sleep(2 * time.Second)

		if !l.conn.IsHealthy() {
			continue
		}

		if err := l.startConsuming(handler); err != nil {
			l.logger.Error("Failed to restart consuming after channel close, will retry",
				zap.String("queue", l.queue),
				zap.Error(err),
			)
			time.Sleep(5 * time.Second)
			continue
		}

		l.logger.Info("Restarted consumer after channel close",
			zap.String("queue", l.queue),
		)
		return
	}
}

// headerString reads a string-valued AMQP header.
func headerString(headers amqp.Table, key string) string {
	if headers == nil {
		return ""
	}
	if v, ok := headers[key].(string); ok {
		return v
	}
	return ""
}
