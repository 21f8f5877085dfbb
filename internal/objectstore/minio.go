package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shaiso/Stagehand/internal/domain"
)

// Validate проверяет параметры S3.
func Validate(cfg domain.S3Config) error {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return fmt.Errorf("%w: endpoint is required", ErrInvalidConfig)
	}
	if strings.Contains(cfg.Endpoint, "://") {
		return fmt.Errorf("%w: endpoint must be host:port without scheme", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	}
	return nil
}

// NewMinIOClient создаёт клиент MinIO.
func NewMinIOClient(cfg domain.S3Config) (*minio.Client, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	opts := &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	}
	return minio.New(cfg.Endpoint, opts)
}

// Store пишет JSON-объекты в один bucket.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
	region string
}

// NewStore создаёт Store поверх готового клиента.
func NewStore(client *minio.Client, cfg domain.S3Config) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("minio client is required")
	}
	return &Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		region: cfg.Region,
	}, nil
}

// Bucket возвращает имя bucket.
func (s *Store) Bucket() string {
	return s.bucket
}

// EnsureBucket создаёт bucket, если его нет.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("make bucket %s: %w", s.bucket, err)
	}
	return nil
}

// PutJSON сериализует v и кладёт объект под ключом ObjectKey(prefix, name).
// Возвращает итоговый ключ.
func (s *Store) PutJSON(ctx context.Context, name string, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal object: %w", err)
	}

	key := ObjectKey(s.prefix, name)
	opts := minio.PutObjectOptions{ContentType: "application/json"}
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), opts); err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", s.bucket, key, err)
	}
	return key, nil
}

// ObjectKey склеивает префикс и имя объекта.
func ObjectKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
