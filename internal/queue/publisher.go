package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends events to RabbitMQ. It dials per publish: bookings are
// infrequent and a fresh connection survives broker restarts without
// extra bookkeeping.
type Publisher struct {
	url string
	log *slog.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	return &Publisher{url: url, log: logger}
}

// PublishTicketIssued publishes ev to the ticket.issued queue as a
// persistent message. Errors are logged and returned.
func (p *Publisher) PublishTicketIssued(ctx context.Context, ev TicketIssuedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("rabbitmq dial failed", "err", err)
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("rabbitmq channel open failed", "err", err)
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(TicketIssuedQueue, true, false, false, false, nil); err != nil {
		p.log.Error("rabbitmq queue declare failed", "err", err)
		return fmt.Errorf("declare queue: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.RegistrationID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", TicketIssuedQueue, false, false, pub); err != nil {
		p.log.Error("rabbitmq publish failed", "err", err, "registration", ev.RegistrationID)
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
