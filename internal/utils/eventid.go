package utils

import (
	"fmt"
	"time"
)

// Event id prefixes. Order-derived notifications and API-created
// notifications keep distinct prefixes so the send-notifications stream stays
// greppable by origin.
const (
	orderNotificationPrefix = "ORD"
	apiNotificationPrefix   = "API"
)

// OrderNotificationID builds an id for a notification derived from an order
// event: ORD-{orderId}-{epochMillis}.
func OrderNotificationID(orderID string) string {
	return fmt.Sprintf("%s-%s-%d", orderNotificationPrefix, orderID, time.Now().UnixMilli())
}

// APINotificationID builds an id for a notification constructed through the
// direct API: API-{epochMillis}.
func APINotificationID() string {
	return fmt.Sprintf("%s-%d", apiNotificationPrefix, time.Now().UnixMilli())
}
