package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrAlreadyStarted — Run уже вызывался. Orchestrator выполняет ровно один run.
	ErrAlreadyStarted = errors.New("run already started")

	// ErrInvalidTransition — недопустимый переход состояния.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNoProvider — не задан источник конфигурации.
	ErrNoProvider = errors.New("config provider is required")

	// ErrNoInitializer — не задан Initializer ресурсов.
	ErrNoInitializer = errors.New("resource initializer is required")

	// ErrNoRunner — не задана фабрика pipeline.
	ErrNoRunner = errors.New("runner factory is required")
)
