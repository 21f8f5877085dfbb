package orchestrator

import (
	"fmt"
	"time"

	"github.com/shaiso/Stagehand/internal/domain"
)

// Transition — запись о смене состояния run.
type Transition struct {
	From domain.State
	To   domain.State
	At   time.Time
}

// String возвращает "FROM → TO".
func (t Transition) String() string {
	return fmt.Sprintf("%s → %s", t.From, t.To)
}

// transition переводит run в состояние to.
//
// Вызывается под o.mu.
func (o *Orchestrator) transition(to domain.State, stage domain.Stage, cause error) error {
	from := o.run.State
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}

	switch to {
	case domain.StateInitializing:
		o.run.MarkInitializing()
	case domain.StateRunning:
		o.run.MarkRunning()
	case domain.StateDone:
		o.run.MarkDone()
	case domain.StateFailed:
		o.run.MarkFailed(stage, cause.Error())
	}

	o.transitions = append(o.transitions, Transition{From: from, To: to, At: o.now()})
	return nil
}
