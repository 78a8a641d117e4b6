package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/catalog"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/config"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/errs"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
)

// Publisher is the slice of the bus client the order workflow needs.
// Every publish here is fire-and-forget: a bus failure is logged and
// swallowed, it never rolls back or fails the order mutation that preceded it.
type Publisher interface {
	Publish(queue string, headers amqp.Table, body []byte) error
}

// Service owns order creation, catalog validation, total computation and
// status transitions, and emits one order event per significant transition.
type Service struct {
	db        *gorm.DB
	catalog   catalog.Client
	publisher Publisher
	bus       *config.BusConfig
	logger    *zap.Logger
}

func NewService(db *gorm.DB, catalogClient catalog.Client, publisher Publisher, bus *config.BusConfig, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		catalog:   catalogClient,
		publisher: publisher,
		bus:       bus,
		logger:    logger,
	}
}

// CreateOrderRequest is the inbound order payload.
type CreateOrderRequest struct {
	UserID          int64              `json:"userId"`
	Items           []OrderItemRequest `json:"items"`
	DeliveryMode    string             `json:"deliveryMode"`
	DeliveryAddress string             `json:"deliveryAddress"`
}

type OrderItemRequest struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
}

// CreateOrder validates every item against the catalog, computes the total
// with exact decimal arithmetic, persists the order as PENDING and publishes
// an ORDER_CREATED event. Client-supplied names and prices are never trusted;
// the catalog's values are authoritative.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("user ID is required: %w", errs.ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order items cannot be empty: %w", errs.ErrValidation)
	}

	mode, ok := models.NormalizeDeliveryMode(req.DeliveryMode)
	if !ok {
		return nil, fmt.Errorf("unknown delivery mode %q: %w", req.DeliveryMode, errs.ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive for menu item %d: %w", item.MenuItemID, errs.ErrValidation)
		}

		menuItem, err := s.catalog.GetMenuItem(ctx, item.MenuItemID)
		if err != nil {
			s.logger.Error("Error validating menu item",
				zap.Int64("menu_item_id", item.MenuItemID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("invalid menu item ID %d: %w", item.MenuItemID, errs.ErrValidation)
		}
		if menuItem == nil {
			return nil, fmt.Errorf("menu item not found with ID %d: %w", item.MenuItemID, errs.ErrValidation)
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("menu item not available: %s: %w", menuItem.Name, errs.ErrValidation)
		}

		lineTotal := menuItem.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, models.OrderItem{
			MenuItemID: item.MenuItemID,
			ItemName:   menuItem.Name,
			Quantity:   item.Quantity,
			Price:      menuItem.Price,
			TotalPrice: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	o := &models.Order{
		UserID:          req.UserID,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		DeliveryMode:    mode,
		DeliveryAddress: req.DeliveryAddress,
		OrderDate:       time.Now(),
		Items:           items,
	}

	if err := createOrder(ctx, s.db, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.logger.Info("Order created",
		zap.Int64("order_id", o.OrderID),
		zap.Int64("user_id", o.UserID),
		zap.String("total_amount", o.TotalAmount.String()),
	)

	s.publishOrderEvent(models.EventTypeOrderCreated, o.OrderID, o.UserID)

	return o, nil
}

// GetOrderByID loads one order with its items.
func (s *Service) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	o, err := findOrderByID(ctx, s.db, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found with ID %d: %w", orderID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	return o, nil
}

// GetUserOrders returns a user's orders, newest first.
func (s *Service) GetUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	return findOrdersByUser(ctx, s.db, userID)
}

// GetAllOrders returns every order (admin).
func (s *Service) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return findAllOrders(ctx, s.db)
}

// UpdateOrderStatus persists a status change and publishes the matching
// "ORDER_<STATUS>" event. The token is matched case-insensitively against the
// known statuses; there is no transition table, any known status may follow
// any other.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	normalized, ok := models.NormalizeOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown order status %q: %w", status, errs.ErrValidation)
	}

	o, err := s.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := updateOrderStatus(ctx, s.db, orderID, normalized); err != nil {
		return nil, fmt.Errorf("failed to update order %d status: %w", orderID, err)
	}
	o.Status = normalized

	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", normalized),
	)

	s.publishOrderEvent("ORDER_"+normalized, o.OrderID, o.UserID)

	return o, nil
}

// OrderStatistics returns the total order count plus per-status counts.
func (s *Service) OrderStatistics(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64)

	totalOrders, err := countOrders(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	stats["totalOrders"] = totalOrders

	byStatus := map[string]string{
		"pendingOrders":   models.OrderStatusPending,
		"confirmedOrders": models.OrderStatusConfirmed,
		"deliveredOrders": models.OrderStatusDelivered,
		"cancelledOrders": models.OrderStatusCancelled,
	}
	for key, status := range byStatus {
		n, err := countOrdersByStatus(ctx, s.db, status)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s orders: %w", status, err)
		}
		stats[key] = n
	}

	return stats, nil
}

// publishOrderEvent publishes one order event with routing metadata in the
// AMQP headers. Fire-and-forget: the order mutation has already committed and
// a broker failure must not surface to the caller.
func (s *Service) publishOrderEvent(eventType string, orderID, userID int64) {
	event := models.NewOrderEvent(eventType, orderID, userID)

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal order event",
			zap.String("event_type", eventType),
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	headers := amqp.Table{
		models.HeaderEventType: event.EventType,
		models.HeaderOrderID:   event.OrderID,
		models.HeaderUserID:    event.UserID,
		models.HeaderSource:    event.SourceService,
	}

	if err := s.publisher.Publish(s.bus.OrderEvents, headers, body); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("event_type", eventType),
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Published order event",
		zap.String("event_type", eventType),
		zap.Int64("order_id", orderID),
		zap.String("queue", s.bus.OrderEvents),
	)
}

// PublishNotificationRequest publishes an ad-hoc DIRECT_NOTIFICATION payload
// onto the notification-requests queue, independent of the order-event
// stream. Used for admin messaging; never returns an error, failures are
// logged only.
func (s *Service) PublishNotificationRequest(orderID, userID int64, message, channel string) {
	if channel == "" {
		channel = models.DefaultChannel
	}

	payload := map[string]any{
		"eventType": models.EventTypeDirectNotification,
		"orderId":   fmt.Sprintf("%d", orderID),
		"userId":    fmt.Sprintf("%d", userID),
		"message":   message,
		"channel":   channel,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal notification request",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.Publish(s.bus.NotificationRequests, nil, body); err != nil {
		s.logger.Warn("Failed to publish notification request",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Published notification request",
		zap.Int64("order_id", orderID),
		zap.String("channel", channel),
	)
}
