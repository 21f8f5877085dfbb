package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/mq"
	"github.com/shaiso/Stagehand/internal/resources"
)

// ResultPublisher — публикация результата в брокер.
type ResultPublisher interface {
	PublishResultsSaved(ctx context.Context, runID uuid.UUID, data domain.ProcessedData) error
}

// AMQPSink публикует сообщение results.saved в RabbitMQ.
type AMQPSink struct {
	publisher ResultPublisher
	exchange  string
	closeFn   func() error
	logger    *slog.Logger
}

// NewAMQPSink создаёт sink поверх publisher. closeFn может быть nil.
func NewAMQPSink(publisher ResultPublisher, exchange string, closeFn func() error, logger *slog.Logger) *AMQPSink {
	return &AMQPSink{
		publisher: publisher,
		exchange:  exchange,
		closeFn:   closeFn,
		logger:    logger,
	}
}

// OpenAMQPSink — SinkFactory для "amqp".
//
// Подключается к брокеру и объявляет топологию.
func OpenAMQPSink(ctx context.Context, cfg domain.PipelineConfig, _ *resources.Set, logger *slog.Logger) (Sink, error) {
	topology := mq.Topology{
		Exchange:   cfg.AMQP.Exchange,
		Queue:      cfg.AMQP.Queue,
		RoutingKey: cfg.AMQP.RoutingKey,
	}
	if err := topology.Validate(); err != nil {
		return nil, err
	}

	conn, err := mq.NewConnection(cfg.AMQP.URL, logger)
	if err != nil {
		return nil, err
	}

	if err := mq.SetupTopology(ctx, conn, topology); err != nil {
		conn.Close()
		return nil, err
	}

	publisher := mq.NewPublisher(conn, topology, logger)
	return NewAMQPSink(publisher, topology.Exchange, conn.Close, logger), nil
}

func (s *AMQPSink) Name() string { return SinkAMQP }

// Persist публикует результат вместе с run ID.
func (s *AMQPSink) Persist(ctx context.Context, data domain.ProcessedData) error {
	if err := s.publisher.PublishResultsSaved(ctx, domain.RunIDFromContext(ctx), data); err != nil {
		return err
	}

	s.logger.Info("results saved", "result", data.Result, "exchange", s.exchange)
	return nil
}

// Close закрывает соединение с брокером.
func (s *AMQPSink) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}
