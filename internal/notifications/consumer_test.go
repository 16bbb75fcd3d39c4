package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
	"github.com/willowrootwellness/willowroot-backend/pkg/mailer"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox/payloads"
)

type captureSender struct {
	sent    []mailer.Message
	sendErr error
}

func (s *captureSender) Send(_ context.Context, msg mailer.Message) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newTestConsumer(t *testing.T) (*Consumer, *captureSender) {
	t.Helper()
	sender := &captureSender{}
	consumer, err := NewConsumer(sender, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	return consumer, sender
}

func envelopeFor(t *testing.T, payload any) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	raw, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       data,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}

func TestHandleMessageOrderConfirmation(t *testing.T) {
	t.Parallel()

	consumer, sender := newTestConsumer(t)
	raw := envelopeFor(t, payloads.OrderCreatedEvent{
		OrderID:     uuid.New(),
		OrderNumber: 10042,
		UserID:      uuid.New(),
		Email:       "rowan@example.com",
		Total:       34.05,
		ItemCount:   2,
	})

	consumer.HandleMessage(context.Background(), string(enums.EventOrderCreated), raw)

	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "rowan@example.com" {
		t.Fatalf("wrong recipient: %s", msg.To)
	}
	if !strings.Contains(msg.Subject, "10042") {
		t.Fatalf("subject should name the order: %q", msg.Subject)
	}
	if !strings.Contains(msg.TextBody, "$34.05") {
		t.Fatalf("body should carry the total: %q", msg.TextBody)
	}
}

func TestHandleMessageBookingConfirmation(t *testing.T) {
	t.Parallel()

	consumer, sender := newTestConsumer(t)
	raw := envelopeFor(t, payloads.BookingConfirmedEvent{
		BookingID:   uuid.New(),
		UserID:      uuid.New(),
		Email:       "rowan@example.com",
		SessionType: enums.SessionInitialConsult,
		ScheduledAt: time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC),
	})

	consumer.HandleMessage(context.Background(), string(enums.EventBookingConfirmed), raw)

	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].TextBody, "initial consult") {
		t.Fatalf("body should name the session type: %q", sender.sent[0].TextBody)
	}
}

func TestHandleMessageSkipsWithoutRecipient(t *testing.T) {
	t.Parallel()

	consumer, sender := newTestConsumer(t)
	raw := envelopeFor(t, payloads.OrderCreatedEvent{
		OrderID:     uuid.New(),
		OrderNumber: 10001,
	})

	consumer.HandleMessage(context.Background(), string(enums.EventOrderCreated), raw)

	if len(sender.sent) != 0 {
		t.Fatalf("no recipient means no email, got %d", len(sender.sent))
	}
}

func TestHandleMessageIgnoresUnknownEventTypes(t *testing.T) {
	t.Parallel()

	consumer, sender := newTestConsumer(t)
	raw := envelopeFor(t, map[string]string{"anything": "goes"})

	consumer.HandleMessage(context.Background(), "inventory.rebalanced", raw)

	if len(sender.sent) != 0 {
		t.Fatalf("unknown events are not mailed, got %d", len(sender.sent))
	}
}

func TestHandleMessageSwallowsSendFailures(t *testing.T) {
	t.Parallel()

	consumer, sender := newTestConsumer(t)
	sender.sendErr = errors.New("smtp gateway down")
	raw := envelopeFor(t, payloads.OrderCreatedEvent{
		OrderNumber: 10002,
		Email:       "rowan@example.com",
	})

	// must not panic or propagate
	consumer.HandleMessage(context.Background(), string(enums.EventOrderCreated), raw)
}

func TestHandleMessageDropsGarbage(t *testing.T) {
	t.Parallel()

	consumer, sender := newTestConsumer(t)
	consumer.HandleMessage(context.Background(), string(enums.EventOrderCreated), []byte("not json"))
	if len(sender.sent) != 0 {
		t.Fatal("garbage should be dropped")
	}
}
