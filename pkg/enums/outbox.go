package enums

// OutboxEventType names a domain event persisted through the outbox.
type OutboxEventType string

const (
	EventOrderCreated     OutboxEventType = "order.created"
	EventOrderCancelled   OutboxEventType = "order.cancelled"
	EventBookingConfirmed OutboxEventType = "booking.confirmed"
	EventBookingCancelled OutboxEventType = "booking.cancelled"
)

func (t OutboxEventType) String() string {
	return string(t)
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder   OutboxAggregateType = "order"
	AggregateBooking OutboxAggregateType = "booking"
)

func (t OutboxAggregateType) String() string {
	return string(t)
}
