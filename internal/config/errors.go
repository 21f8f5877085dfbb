package config

import (
	"errors"
	"fmt"
)

// ErrInvalid — конфигурация не может быть построена или не прошла валидацию.
var ErrInvalid = errors.New("invalid configuration")

// Error — ошибка этапа загрузки конфигурации.
//
// errors.Is(err, ErrInvalid) всегда true; исходная причина (если есть)
// доступна через errors.Is/As.
type Error struct {
	// Field — ключ конфигурации (например, "database.port"). Может быть пустым.
	Field string

	// Reason — что именно не так.
	Reason string

	// Err — исходная ошибка (чтение файла, декодирование).
	Err error
}

func (e *Error) Error() string {
	msg := "config"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalid}
	}
	return []error{ErrInvalid, e.Err}
}

func fieldError(field, reason string) *Error {
	return &Error{Field: field, Reason: reason}
}
