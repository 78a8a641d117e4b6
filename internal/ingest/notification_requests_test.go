package ingest

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
)

func TestNotificationRequestHandleDelivery(t *testing.T) {
	t.Parallel()

	proc := &capturingProcessor{}
	c := NewNotificationRequestConsumer(nil, "process-notification-requests", 1, proc, zap.NewNop())

	body := []byte(`{
		"eventId": "API-1",
		"eventType": "PROMO",
		"userId": "42",
		"message": "2 for 1 tonight",
		"status": "PENDING",
		"channel": "PUSH",
		"timestamp": "2026-09-01T12:00:00Z"
	}`)

	require.NoError(t, c.HandleDelivery(amqp.Delivery{Body: body}))
	require.Len(t, proc.events, 1)

	event := proc.events[0]
	assert.Equal(t, "API-1", event.EventID)
	assert.Equal(t, "PROMO", event.EventType)
	assert.Equal(t, "PUSH", event.Channel)
	assert.Equal(t, models.NotificationStatusPending, event.Status)
}

// Direct-notification payloads from the order service carry no id, status or
// timestamp; the consumer backfills them before processing.
func TestNotificationRequestHandleDeliveryBackfillsDefaults(t *testing.T) {
	t.Parallel()

	proc := &capturingProcessor{}
	c := NewNotificationRequestConsumer(nil, "process-notification-requests", 1, proc, zap.NewNop())

	body := []byte(`{
		"eventType": "DIRECT_NOTIFICATION",
		"orderId": "17",
		"userId": "42",
		"message": "your pizza left the oven"
	}`)

	require.NoError(t, c.HandleDelivery(amqp.Delivery{Body: body}))
	require.Len(t, proc.events, 1)

	event := proc.events[0]
	assert.Regexp(t, `^API-\d+$`, event.EventID)
	assert.Equal(t, models.NotificationStatusPending, event.Status)
	assert.Equal(t, models.DefaultChannel, event.Channel)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, "17", event.OrderID)
}

func TestNotificationRequestHandleDeliveryBadPayload(t *testing.T) {
	t.Parallel()

	proc := &capturingProcessor{}
	c := NewNotificationRequestConsumer(nil, "process-notification-requests", 1, proc, zap.NewNop())

	err := c.HandleDelivery(amqp.Delivery{Body: []byte(`{not json`)})
	assert.Error(t, err)
	assert.Empty(t, proc.events)
}
