package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DispatchPayload is the message enqueued for an async send. The engine
// re-checks everything on consumption, so redelivery is harmless.
type DispatchPayload struct {
	ProspectID string `json:"prospect_id"`
	TemplateID string `json:"template_id,omitempty"`
	ForceSend  bool   `json:"force_send,omitempty"`
	Origin     string `json:"origin"`
}

type DispatchProducerInterface interface {
	PublishDispatch(ctx context.Context, payload DispatchPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishDispatch(ctx context.Context, payload DispatchPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %v", err)
	}

	return nil
}
