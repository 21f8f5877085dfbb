package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run — единственный запуск pipeline в рамках процесса.
//
// Run создаётся оркестратором при старте и живёт до выхода процесса.
// Повторный запуск не предусмотрен.
type Run struct {
	// ID — уникальный идентификатор run (попадает в логи как run_id).
	ID uuid.UUID `json:"id"`

	// State — текущее состояние.
	State State `json:"state"`

	// StartedAt — время перехода в INITIALIZING.
	// Nil, если run ещё не начался.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время перехода в DONE или FAILED.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// FailedStage — этап, на котором run упал.
	FailedStage Stage `json:"failed_stage,omitempty"`

	// Error — текст ошибки, если run завершился с FAILED.
	Error string `json:"error,omitempty"`
}

// NewRun создаёт run в состоянии IDLE.
func NewRun() *Run {
	return &Run{
		ID:    uuid.New(),
		State: StateIdle,
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён (в любом статусе).
func (r *Run) IsFinished() bool {
	return r.State.IsTerminal()
}

// MarkInitializing переводит run в INITIALIZING.
func (r *Run) MarkInitializing() {
	now := time.Now()
	r.State = StateInitializing
	r.StartedAt = &now
}

// MarkRunning переводит run в RUNNING.
func (r *Run) MarkRunning() {
	r.State = StateRunning
}

// MarkDone переводит run в DONE.
func (r *Run) MarkDone() {
	now := time.Now()
	r.State = StateDone
	r.FinishedAt = &now
}

// MarkFailed переводит run в FAILED с ошибкой.
func (r *Run) MarkFailed(stage Stage, err string) {
	now := time.Now()
	r.State = StateFailed
	r.FinishedAt = &now
	r.FailedStage = stage
	r.Error = err
}

type runIDKey struct{}

// ContextWithRunID сохраняет ID run в контексте.
func ContextWithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext извлекает ID run из контекста.
// Возвращает uuid.Nil, если ID не найден.
func RunIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(runIDKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
