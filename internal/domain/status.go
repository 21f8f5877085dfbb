package domain

// State — состояние run в оркестраторе.
//
// Жизненный цикл:
//
//	IDLE → INITIALIZING → RUNNING → DONE
//	             ↘            ↘
//	              FAILED ←─────┘
type State string

const (
	// StateIdle — run создан, ни один этап ещё не начался.
	StateIdle State = "IDLE"

	// StateInitializing — загрузка конфигурации и поднятие ресурсов.
	StateInitializing State = "INITIALIZING"

	// StateRunning — выполняется pipeline (produce → persist).
	StateRunning State = "RUNNING"

	// StateDone — все этапы завершились успешно.
	StateDone State = "DONE"

	// StateFailed — один из этапов завершился ошибкой.
	StateFailed State = "FAILED"
)

// IsTerminal возвращает true, если состояние финальное.
func (s State) IsTerminal() bool {
	switch s {
	case StateDone, StateFailed:
		return true
	default:
		return false
	}
}

// CanTransition проверяет, допустим ли переход из s в next.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateIdle:
		return next == StateInitializing
	case StateInitializing:
		return next == StateRunning || next == StateFailed
	case StateRunning:
		return next == StateDone || next == StateFailed
	default:
		return false
	}
}

// String возвращает строковое представление State.
func (s State) String() string {
	return string(s)
}

// Stage — этап pipeline, в котором произошло событие.
type Stage string

// Этапы run.
const (
	StageConfig    Stage = "config"
	StageResources Stage = "resources"
	StagePipeline  Stage = "pipeline"
)
