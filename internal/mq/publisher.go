package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Stagehand/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeResultsSaved MessageType = "results.saved"
)

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// ResultsSavedPayload — payload сообщения с результатом pipeline.
type ResultsSavedPayload struct {
	RunID  uuid.UUID `json:"run_id"`
	Result string    `json:"result"`
}

// NewResultsSavedMessage собирает сообщение о результате run.
func NewResultsSavedMessage(runID uuid.UUID, data domain.ProcessedData) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeResultsSaved,
		Payload:   ResultsSavedPayload{RunID: runID, Result: data.Result},
		Timestamp: time.Now(),
	}
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn     *Connection
	topology Topology
	logger   *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, topology Topology, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:     conn,
		topology: topology,
		logger:   logger,
	}
}

// Publish публикует сообщение в exchange топологии.
func (p *Publisher) Publish(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			p.topology.Exchange,   // exchange
			p.topology.RoutingKey, // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Type:         string(msg.Type),
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", p.topology.Exchange, p.topology.RoutingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", p.topology.Exchange,
			"routing_key", p.topology.RoutingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishResultsSaved публикует результат run.
func (p *Publisher) PublishResultsSaved(ctx context.Context, runID uuid.UUID, data domain.ProcessedData) error {
	return p.Publish(ctx, NewResultsSavedMessage(runID, data))
}
