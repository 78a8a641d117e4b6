package notifier

import (
	"fmt"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
)

// OrderMessage renders the customer-facing text for an order lifecycle event.
// The mapping is fixed; unmapped event types fall back to a generic update
// line carrying the raw event type.
func OrderMessage(eventType, orderID string) string {
	switch eventType {
	case models.EventTypeOrderCreated:
		return fmt.Sprintf("Your order #%s has been received and is being prepared!", orderID)
	case models.EventTypeOrderConfirmed:
		return fmt.Sprintf("Your order #%s has been confirmed and is now being prepared.", orderID)
	case models.EventTypeOrderPreparing:
		return fmt.Sprintf("Your order #%s is now being prepared.", orderID)
	case models.EventTypeOrderReady:
		return fmt.Sprintf("Your order #%s is ready for pickup/delivery!", orderID)
	case models.EventTypeOrderDelivered:
		return fmt.Sprintf("Your order #%s has been successfully delivered.", orderID)
	case models.EventTypeOrderCancelled:
		return fmt.Sprintf("Your order #%s has been cancelled. Refund will be processed shortly.", orderID)
	default:
		return fmt.Sprintf("Update for your order #%s: %s", orderID, eventType)
	}
}
