package pipeline

import (
	"errors"
	"fmt"
)

// Ошибки pipeline.
var (
	// ErrRequiresPostgres — sink "postgres" без БД postgres.
	ErrRequiresPostgres = errors.New("sink requires postgres database")
)

// PersistError — результат не удалось сохранить.
type PersistError struct {
	// Sink — имя sink ("log", "postgres", "amqp", "s3").
	Sink string

	// Cause — исходная ошибка.
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Sink, e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
