package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/catalog"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/config"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/ingest"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/notifier"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/order"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/rabbitmq"
)

// Service wires the application components together: the order workflow, the
// notification processor and the two ingestion consumers, all sharing one bus
// connection.
type Service struct {
	Orders   *order.Service
	Notifier *notifier.Service

	orderEvents          *ingest.OrderEventConsumer
	notificationRequests *ingest.NotificationRequestConsumer
	logger               *zap.Logger
}

// New builds the full component graph.
func New(cfg *config.Config, db *gorm.DB, rmq *rabbitmq.Connection, logger *zap.Logger) *Service {
	catalogClient := catalog.NewHTTPClient(&cfg.Catalog, logger)

	// No real mail transport is configured; email falls back to a simulated
	// send inside the dispatcher.
	dispatcher := notifier.NewDispatcher(nil, logger)
	notifierSvc := notifier.NewService(dispatcher, rmq, &cfg.Bus, logger)

	orderSvc := order.NewService(db, catalogClient, rmq, &cfg.Bus, logger)

	return &Service{
		Orders:   orderSvc,
		Notifier: notifierSvc,
		orderEvents: ingest.NewOrderEventConsumer(
			rmq, cfg.Bus.ProcessOrderEvents, cfg.Bus.PrefetchCount, notifierSvc, logger),
		notificationRequests: ingest.NewNotificationRequestConsumer(
			rmq, cfg.Bus.ProcessNotificationRequests, cfg.Bus.PrefetchCount, notifierSvc, logger),
		logger: logger,
	}
}

// StartConsumers registers both ingestion consumers on the bus.
func (s *Service) StartConsumers() error {
	if err := s.orderEvents.Start(); err != nil {
		return err
	}
	return s.notificationRequests.Start()
}

// StopConsumers cancels both ingestion consumers.
func (s *Service) StopConsumers() {
	if err := s.orderEvents.Stop(); err != nil {
		s.logger.Error("Error stopping order event consumer", zap.Error(err))
	}
	if err := s.notificationRequests.Stop(); err != nil {
		s.logger.Error("Error stopping notification request consumer", zap.Error(err))
	}
}
