package consumer

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAcknowledger struct {
	acked        bool
	nacked       bool
	nackedTag    uint64
	nackRequeued bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.nackedTag = tag
	a.nackRequeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return errors.New("not used")
}

type handlerFunc func(msg amqp.Delivery) error

func (f handlerFunc) HandleDelivery(msg amqp.Delivery) error {
	return f(msg)
}

func TestProcessMessageAcksOnSuccess(t *testing.T) {
	t.Parallel()

	ack := &fakeAcknowledger{}
	msg := amqp.Delivery{Acknowledger: ack, DeliveryTag: 7}

	ProcessMessage(zap.NewNop(), "q", msg, handlerFunc(func(amqp.Delivery) error {
		return nil
	}))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}

func TestProcessMessageNacksWithoutRequeueOnFailure(t *testing.T) {
	t.Parallel()

	ack := &fakeAcknowledger{}
	msg := amqp.Delivery{Acknowledger: ack, DeliveryTag: 7}

	ProcessMessage(zap.NewNop(), "q", msg, handlerFunc(func(amqp.Delivery) error {
		return errors.New("bad payload")
	}))

	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.Equal(t, uint64(7), ack.nackedTag)
	assert.False(t, ack.nackRequeued, "failed messages go to the broker's DLX, never straight back to the queue")
}
