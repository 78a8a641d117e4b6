package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/errs"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/order"
)

// OrdersHandler exposes the order workflow over REST.
type OrdersHandler struct {
	svc    *order.Service
	logger *zap.Logger
}

func NewOrdersHandler(svc *order.Service, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		svc:    svc,
		logger: logger,
	}
}

// CreateOrder handles POST /api/orders.
func (h *OrdersHandler) CreateOrder(c *fiber.Ctx) error {
	var req order.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fmt.Errorf("invalid order payload: %w", errs.ErrValidation))
	}

	h.logger.Info("Creating order", zap.Int64("user_id", req.UserID))

	created, err := h.svc.CreateOrder(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetOrderByID handles GET /api/orders/:orderId.
func (h *OrdersHandler) GetOrderByID(c *fiber.Ctx) error {
	orderID, err := pathInt64(c, "orderId")
	if err != nil {
		return sendError(c, err)
	}

	o, err := h.svc.GetOrderByID(c.Context(), orderID)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(o)
}

// GetUserOrders handles GET /api/orders/user/:userId.
func (h *OrdersHandler) GetUserOrders(c *fiber.Ctx) error {
	userID, err := pathInt64(c, "userId")
	if err != nil {
		return sendError(c, err)
	}

	orders, err := h.svc.GetUserOrders(c.Context(), userID)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(orders)
}

// GetAllOrders handles GET /api/orders/admin/all.
func (h *OrdersHandler) GetAllOrders(c *fiber.Ctx) error {
	orders, err := h.svc.GetAllOrders(c.Context())
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(orders)
}

// UpdateOrderStatus handles PATCH /api/orders/admin/:orderId/status?status=.
func (h *OrdersHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := pathInt64(c, "orderId")
	if err != nil {
		return sendError(c, err)
	}

	status := c.Query("status")
	if status == "" {
		return sendError(c, fmt.Errorf("status query parameter is required: %w", errs.ErrValidation))
	}

	h.logger.Info("Updating order status",
		zap.Int64("order_id", orderID),
		zap.String("status", status),
	)

	updated, err := h.svc.UpdateOrderStatus(c.Context(), orderID, status)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(updated)
}

// NotifyOrder handles POST /api/orders/admin/:orderId/notify?message=&channel=.
// The publish itself is fire-and-forget; the endpoint only fails when the
// order does not exist.
func (h *OrdersHandler) NotifyOrder(c *fiber.Ctx) error {
	orderID, err := pathInt64(c, "orderId")
	if err != nil {
		return sendError(c, err)
	}

	message := c.Query("message")
	if message == "" {
		return sendError(c, fmt.Errorf("message query parameter is required: %w", errs.ErrValidation))
	}
	channel := c.Query("channel", "EMAIL")

	o, err := h.svc.GetOrderByID(c.Context(), orderID)
	if err != nil {
		return sendError(c, err)
	}

	h.svc.PublishNotificationRequest(o.OrderID, o.UserID, message, channel)

	return c.SendString("Custom notification sent successfully")
}

// OrderStatistics handles GET /api/orders/admin/statistics.
func (h *OrdersHandler) OrderStatistics(c *fiber.Ctx) error {
	stats, err := h.svc.OrderStatistics(c.Context())
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(stats)
}

// pathInt64 parses a numeric path parameter.
func pathInt64(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, errs.ErrValidation)
	}
	return v, nil
}
