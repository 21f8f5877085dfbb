package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Stagehand/internal/domain"
	"github.com/shaiso/Stagehand/internal/objectstore"
	"github.com/shaiso/Stagehand/internal/resources"
)

// ObjectWriter — запись JSON-объекта в хранилище.
type ObjectWriter interface {
	PutJSON(ctx context.Context, name string, v any) (string, error)
}

// resultObject — содержимое объекта с результатом.
type resultObject struct {
	RunID     uuid.UUID `json:"run_id"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// S3Sink пишет результат объектом <prefix>/<id>.json.
type S3Sink struct {
	store  ObjectWriter
	bucket string
	logger *slog.Logger
	now    func() time.Time
}

// NewS3Sink создаёт sink поверх store.
func NewS3Sink(store ObjectWriter, bucket string, logger *slog.Logger) *S3Sink {
	return &S3Sink{
		store:  store,
		bucket: bucket,
		logger: logger,
		now:    time.Now,
	}
}

// OpenS3Sink — SinkFactory для "s3". Создаёт bucket, если его нет.
func OpenS3Sink(ctx context.Context, cfg domain.PipelineConfig, _ *resources.Set, logger *slog.Logger) (Sink, error) {
	client, err := objectstore.NewMinIOClient(cfg.S3)
	if err != nil {
		return nil, err
	}

	store, err := objectstore.NewStore(client, cfg.S3)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	return NewS3Sink(store, store.Bucket(), logger), nil
}

func (s *S3Sink) Name() string { return SinkS3 }
func (s *S3Sink) Close() error { return nil }

// Persist кладёт объект. Имя объекта — run ID, без него — новый UUID.
func (s *S3Sink) Persist(ctx context.Context, data domain.ProcessedData) error {
	runID := domain.RunIDFromContext(ctx)
	name := runID
	if name == uuid.Nil {
		name = uuid.New()
	}

	key, err := s.store.PutJSON(ctx, name.String()+".json", resultObject{
		RunID:     runID,
		Result:    data.Result,
		CreatedAt: s.now(),
	})
	if err != nil {
		return err
	}

	s.logger.Info("results saved", "result", data.Result, "bucket", s.bucket, "key", key)
	return nil
}
