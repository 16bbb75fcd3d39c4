package notifications

import (
	"fmt"
	"strings"

	"github.com/willowrootwellness/willowroot-backend/pkg/mailer"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox/payloads"
)

const signoff = "\n\nWith care,\nThe Willowroot Wellness Apothecary"

func orderConfirmationEmail(event payloads.OrderCreatedEvent) mailer.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Thank you for your order #%d.\n\n", event.OrderNumber)
	fmt.Fprintf(&body, "We received %d item(s) totalling $%.2f.\n", event.ItemCount, event.Total)
	body.WriteString("Your herbs are being prepared and you will hear from us when they ship.")
	body.WriteString(signoff)

	return mailer.Message{
		To:       event.Email,
		Subject:  fmt.Sprintf("Order #%d confirmed", event.OrderNumber),
		TextBody: body.String(),
	}
}

func orderCancelledEmail(event payloads.OrderCancelledEvent, to string) mailer.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Your order #%d has been cancelled.\n\n", event.OrderNumber)
	if event.Reason != "" {
		fmt.Fprintf(&body, "Reason: %s\n\n", event.Reason)
	}
	body.WriteString("If this was unexpected, reply to this email and we will sort it out.")
	body.WriteString(signoff)

	return mailer.Message{
		To:       to,
		Subject:  fmt.Sprintf("Order #%d cancelled", event.OrderNumber),
		TextBody: body.String(),
	}
}

func bookingConfirmedEmail(event payloads.BookingConfirmedEvent, to string) mailer.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Your %s session is confirmed for %s.\n\n",
		strings.ReplaceAll(event.SessionType.String(), "_", " "),
		event.ScheduledAt.Format("Monday, January 2 at 3:04 PM"),
	)
	body.WriteString("Please arrive a few minutes early so we can settle in.")
	body.WriteString(signoff)

	return mailer.Message{
		To:       to,
		Subject:  "Your session is confirmed",
		TextBody: body.String(),
	}
}

func bookingCancelledEmail(event payloads.BookingCancelledEvent, to string) mailer.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Your %s session has been cancelled.\n",
		strings.ReplaceAll(event.SessionType.String(), "_", " "))
	if event.CreditReturned {
		body.WriteString("\nThe session credit has been returned to your package.")
	}
	body.WriteString(signoff)

	return mailer.Message{
		To:       to,
		Subject:  "Your session was cancelled",
		TextBody: body.String(),
	}
}
