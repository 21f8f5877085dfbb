// Package objectstore сохраняет результаты run в S3-совместимое хранилище (MinIO).
package objectstore
