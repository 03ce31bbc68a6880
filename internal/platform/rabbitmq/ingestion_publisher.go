package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"docmanager/internal/model"
)

// IngestionPublisher pushes freshly triggered ingestion records onto a
// durable queue for a processing worker to pick up.
type IngestionPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewIngestionPublisher(conn *amqp.Connection, queueName string) *IngestionPublisher {
	return &IngestionPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *IngestionPublisher) PublishTriggered(ctx context.Context, ing model.Ingestion) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare ingestion queue failed: %w", err)
	}

	payload, err := json.Marshal(ing)
	if err != nil {
		return fmt.Errorf("marshal ingestion event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish ingestion event failed: %w", err)
	}
	return nil
}
