package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueName is the single durable queue all engine events land on; consumers
// route on the envelope's event field.
const QueueName = "swap.events"

// Publisher publishes envelopes to RabbitMQ. It dials per publish so a broker
// restart never leaves the engine holding a dead connection; the cost is
// acceptable at notification volume.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Publish sends one event. Messages are persistent so they survive broker
// restarts. Any error is returned for logging; callers must not treat it as
// a failure of the operation that produced the event.
func (p *Publisher) Publish(ctx context.Context, event string, payload interface{}) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(Envelope{
		EventID:   uuid.NewString(),
		Event:     event,
		EmittedAt: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",        // default exchange
		QueueName, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
