package resources

import (
	"errors"
	"fmt"
)

// Ошибки ресурсов.
var (
	// ErrUnknownDriver — бэкенд с таким именем не зарегистрирован.
	ErrUnknownDriver = errors.New("unknown driver")

	// ErrClosed — handle уже освобождён.
	ErrClosed = errors.New("resource closed")
)

// Имена подсистем в порядке инициализации.
const (
	SubsystemDatabase = "database"
	SubsystemCache    = "cache"
)

// InitError — подсистему не удалось поднять.
//
// После InitError последующие подсистемы не инициализируются.
type InitError struct {
	// Subsystem — "database" или "cache".
	Subsystem string

	// Cause — исходная ошибка бэкенда.
	Cause error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Subsystem, e.Cause)
}

func (e *InitError) Unwrap() error {
	return e.Cause
}
