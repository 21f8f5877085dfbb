package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Topology — exchange, очередь и routing key для результатов.
type Topology struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

// Validate проверяет, что все имена заданы.
func (t Topology) Validate() error {
	if t.Exchange == "" {
		return fmt.Errorf("%w: exchange is required", ErrInvalidTopology)
	}
	if t.Queue == "" {
		return fmt.Errorf("%w: queue is required", ErrInvalidTopology)
	}
	if t.RoutingKey == "" {
		return fmt.Errorf("%w: routing key is required", ErrInvalidTopology)
	}
	return nil
}

// SetupTopology объявляет exchange, очередь и привязку. Операции идемпотентны.
func SetupTopology(ctx context.Context, conn *Connection, t Topology) error {
	if err := t.Validate(); err != nil {
		return err
	}

	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			t.Exchange, // name
			"direct",   // type
			true,       // durable
			false,      // auto-deleted
			false,      // internal
			false,      // no-wait
			nil,        // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", t.Exchange, err)
		}

		_, err = ch.QueueDeclare(
			t.Queue, // name
			true,    // durable
			false,   // delete when unused
			false,   // exclusive
			false,   // no-wait
			nil,     // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", t.Queue, err)
		}

		err = ch.QueueBind(
			t.Queue,      // queue name
			t.RoutingKey, // routing key
			t.Exchange,   // exchange
			false,        // no-wait
			nil,          // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", t.Queue, t.Exchange, err)
		}

		return nil
	})
}
