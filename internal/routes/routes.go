package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/handlers"
)

// SetupRoutes configures all application routes with dependencies
func SetupRoutes(
	app *fiber.App,
	healthHandler *handlers.HealthHandler,
	ordersHandler *handlers.OrdersHandler,
	notificationsHandler *handlers.NotificationsHandler,
) {
	app.Get("/health", healthHandler.HealthCheck)

	orders := app.Group("/api/orders")
	{
		orders.Post("/", ordersHandler.CreateOrder)
		orders.Get("/admin/all", ordersHandler.GetAllOrders)
		orders.Get("/admin/statistics", ordersHandler.OrderStatistics)
		orders.Patch("/admin/:orderId/status", ordersHandler.UpdateOrderStatus)
		orders.Post("/admin/:orderId/notify", ordersHandler.NotifyOrder)
		orders.Get("/user/:userId", ordersHandler.GetUserOrders)
		orders.Get("/:orderId", ordersHandler.GetOrderByID)
	}

	notifications := app.Group("/api/notifications")
	{
		notifications.Post("/send", notificationsHandler.SendNotification)
		notifications.Post("/publish-event", notificationsHandler.PublishNotificationEvent)
		notifications.Post("/order-notification", notificationsHandler.SendOrderNotification)
	}
}
