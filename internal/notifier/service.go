package notifier

import (
	"context"
	"encoding/json"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/config"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/utils"
)

// Publisher is the slice of the bus client the processor needs for the
// "sent" follow-up events. Best-effort only.
type Publisher interface {
	Publish(queue string, headers amqp.Table, body []byte) error
}

// Service owns the lifecycle of a single notification event: it schedules
// the dispatch on its own goroutine, applies the one status transition the
// event ever gets, and emits the follow-up "sent" event.
type Service struct {
	dispatcher *Dispatcher
	publisher  Publisher
	bus        *config.BusConfig
	logger     *zap.Logger
	wg         sync.WaitGroup
}

func NewService(dispatcher *Dispatcher, publisher Publisher, bus *config.BusConfig, logger *zap.Logger) *Service {
	return &Service{
		dispatcher: dispatcher,
		publisher:  publisher,
		bus:        bus,
		logger:     logger,
	}
}

// ProcessNotification schedules the dispatch of one event and returns
// immediately; the caller is never blocked by channel latency. Faults inside
// the scheduled work are contained there: the event goes to FAILED and the
// error is logged, nothing propagates to a goroutine nobody is watching.
func (s *Service) ProcessNotification(event *models.NotificationEvent) {
	s.logger.Info("Processing notification",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("channel", event.Channel),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				event.MarkFailed()
				s.logger.Error("Notification dispatch panicked",
					zap.String("event_id", event.EventID),
					zap.Any("panic", r),
				)
			}
		}()

		if err := s.dispatcher.Dispatch(context.Background(), event); err != nil {
			event.MarkFailed()
			s.logger.Error("Notification dispatch failed",
				zap.String("event_id", event.EventID),
				zap.String("channel", event.Channel),
				zap.Error(err),
			)
			return
		}

		event.MarkSent()
		s.publishNotificationSent(event)
	}()
}

// SendNotification builds a PENDING event from the raw parts and hands it to
// ProcessNotification. Used by the direct API path.
func (s *Service) SendNotification(eventType, userID, message, channel string) {
	event := models.NewNotificationEvent(eventType, userID, message, channel)
	event.EventID = utils.APINotificationID()
	s.ProcessNotification(event)
}

// Wait blocks until every scheduled notification has finished dispatching.
// Used to drain in-flight work on shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}

// publishNotificationSent emits the follow-up event carrying the final event
// state. Failures are logged and never escalated.
func (s *Service) publishNotificationSent(event *models.NotificationEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("Failed to marshal notification sent event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.Publish(s.bus.SendNotifications, nil, body); err != nil {
		s.logger.Warn("Failed to publish notification sent event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("Published notification sent event",
		zap.String("event_id", event.EventID),
	)
}
