package notifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/models"
)

// smsLatency models the SMS provider round trip.
const smsLatency = 500 * time.Millisecond

// MailSender is the outbound mail transport. When no transport is configured
// the dispatcher falls back to a simulated send instead of failing.
type MailSender interface {
	Send(to, subject, body string) error
}

// Dispatcher performs the actual delivery for a single channel. Each handler
// is a side-effecting function whose success is "did not return an error";
// delivery here is best-effort with no receipts.
type Dispatcher struct {
	mail   MailSender
	logger *zap.Logger
}

func NewDispatcher(mail MailSender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mail:   mail,
		logger: logger,
	}
}

// Dispatch routes one event to its channel handler. Channel names are
// matched case-insensitively; an unrecognized channel is a warn-and-skip, not
// an error, so the event still proceeds to its status update.
func (d *Dispatcher) Dispatch(ctx context.Context, event *models.NotificationEvent) error {
	switch models.ParseChannel(event.Channel) {
	case models.ChannelEmail:
		return d.sendEmail(event)
	case models.ChannelSMS:
		return d.sendSMS(ctx, event)
	case models.ChannelPush:
		return d.sendPush(event)
	case models.ChannelWebSocket:
		return d.sendWebSocket(event)
	default:
		d.logger.Warn("Unknown notification channel",
			zap.String("channel", event.Channel),
			zap.String("event_id", event.EventID),
		)
		return nil
	}
}

func (d *Dispatcher) sendEmail(event *models.NotificationEvent) error {
	subject := "Pizzeria Order Update - " + event.EventType

	if d.mail == nil {
		d.logger.Info("EMAIL simulation",
			zap.String("to", "user-"+event.UserID),
			zap.String("subject", subject),
			zap.String("message", event.Message),
		)
		return nil
	}

	if err := d.mail.Send("user-"+event.UserID, subject, event.Message); err != nil {
		return fmt.Errorf("email sending failed for %s: %w", event.EventID, err)
	}

	d.logger.Info("Email sent", zap.String("event_id", event.EventID))
	return nil
}

// sendSMS waits out the simulated provider round trip. A cancellation signal
// during the wait is absorbed so a delayed SMS never poisons the surrounding
// task; the handler still returns normally.
func (d *Dispatcher) sendSMS(ctx context.Context, event *models.NotificationEvent) error {
	d.logger.Info("SMS simulation",
		zap.String("user_id", event.UserID),
		zap.String("message", event.Message),
	)

	timer := time.NewTimer(smsLatency)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	return nil
}

func (d *Dispatcher) sendPush(event *models.NotificationEvent) error {
	d.logger.Info("PUSH simulation",
		zap.String("user_id", event.UserID),
		zap.String("message", event.Message),
	)
	return nil
}

func (d *Dispatcher) sendWebSocket(event *models.NotificationEvent) error {
	d.logger.Info("WEBSOCKET simulation",
		zap.String("user_id", event.UserID),
		zap.String("message", event.Message),
	)
	return nil
}
