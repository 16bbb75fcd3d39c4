package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
	"github.com/willowrootwellness/willowroot-backend/pkg/mailer"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox/payloads"
)

// EventTypeAttribute is the message attribute the outbox publisher stamps
// with the domain event type.
const EventTypeAttribute = "event_type"

// Consumer turns published domain events into transactional email. Email is
// strictly fire-and-forget: every failure is logged and the message is acked
// so a broken mailbox can never wedge the subscription.
type Consumer struct {
	mail mailer.Sender
	logg *logger.Logger
}

// NewConsumer builds the notification consumer.
func NewConsumer(mail mailer.Sender, logg *logger.Logger) (*Consumer, error) {
	if mail == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{mail: mail, logg: logg}, nil
}

// Run pulls from the subscription until the context ends.
func (c *Consumer) Run(ctx context.Context, sub *pubsub.Subscriber) error {
	if sub == nil {
		return fmt.Errorf("subscriber required")
	}
	return sub.Receive(ctx, func(msgCtx context.Context, msg *pubsub.Message) {
		c.HandleMessage(msgCtx, msg.Attributes[EventTypeAttribute], msg.Data)
		msg.Ack()
	})
}

// HandleMessage decodes one published envelope and sends the matching email.
func (c *Consumer) HandleMessage(ctx context.Context, eventType string, data []byte) {
	logCtx := c.logg.WithField(ctx, "event_type", eventType)

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logg.Error(logCtx, "undecodable event envelope, dropping", err)
		return
	}
	logCtx = c.logg.WithField(logCtx, "event_id", envelope.EventID)

	msg, ok, err := c.buildEmail(enums.OutboxEventType(eventType), envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "undecodable event payload, dropping", err)
		return
	}
	if !ok {
		c.logg.Info(logCtx, "event carries no email, skipping")
		return
	}

	if err := c.mail.Send(ctx, msg); err != nil {
		c.logg.Error(logCtx, "notification email failed", err)
		return
	}
	c.logg.Info(logCtx, "notification email sent")
}

// buildEmail maps an event to its email. Returns ok=false when the event
// type is not mailed or the payload names no recipient.
func (c *Consumer) buildEmail(eventType enums.OutboxEventType, data json.RawMessage) (mailer.Message, bool, error) {
	switch eventType {
	case enums.EventOrderCreated:
		var event payloads.OrderCreatedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return mailer.Message{}, false, err
		}
		if event.Email == "" {
			return mailer.Message{}, false, nil
		}
		return orderConfirmationEmail(event), true, nil

	case enums.EventOrderCancelled:
		var event payloads.OrderCancelledEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return mailer.Message{}, false, err
		}
		if event.Email == "" {
			return mailer.Message{}, false, nil
		}
		return orderCancelledEmail(event, event.Email), true, nil

	case enums.EventBookingConfirmed:
		var event payloads.BookingConfirmedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return mailer.Message{}, false, err
		}
		if event.Email == "" {
			return mailer.Message{}, false, nil
		}
		return bookingConfirmedEmail(event, event.Email), true, nil

	case enums.EventBookingCancelled:
		var event payloads.BookingCancelledEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return mailer.Message{}, false, err
		}
		if event.Email == "" {
			return mailer.Message{}, false, nil
		}
		return bookingCancelledEmail(event, event.Email), true, nil
	}
	return mailer.Message{}, false, nil
}
