package sched

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// TaskID uniquely identifies a task in the scheduler.
type TaskID uint64

// Task describes one periodic task. It is never mutated once simulation starts.
type Task struct {
	ID       TaskID `yaml:"id"`
	Period   int64  `yaml:"period"`   // time units between successive releases
	WCET     int64  `yaml:"wcet"`     // execution units each instance needs
	Deadline int64  `yaml:"deadline"` // relative deadline; 0 means the period
	Offset   int64  `yaml:"offset"`   // time of the first release
}

// NewTask creates a task with an implicit deadline released at time 0.
func NewTask(id TaskID, period, wcet int64) Task {
	return Task{
		ID:     id,
		Period: period,
		WCET:   wcet,
	}
}

// RelativeDeadline returns the deadline measured from a release.
func (t Task) RelativeDeadline() int64 {
	if t.Deadline == 0 {
		return t.Period
	}
	return t.Deadline
}

// Utilization is WCET / Period.
func (t Task) Utilization() float64 {
	return float64(t.WCET) / float64(t.Period)
}

// ErrInvalidTask is wrapped by every TaskError.
var ErrInvalidTask = errors.New("invalid task")

// TaskError reports which field of which task failed validation.
type TaskError struct {
	ID     TaskID
	Field  string
	Reason string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d: %s %s", e.ID, e.Field, e.Reason)
}

func (e *TaskError) Unwrap() error { return ErrInvalidTask }

// ValidateTasks rejects task sets the engine cannot simulate meaningfully.
// A WCET larger than the period is allowed but logged, since the task can never keep up.
func ValidateTasks(tasks []Task) error {
	seen := make(map[TaskID]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return &TaskError{ID: t.ID, Field: "id", Reason: "already exists"}
		}
		seen[t.ID] = struct{}{}

		switch {
		case t.Period <= 0:
			return &TaskError{ID: t.ID, Field: "period", Reason: fmt.Sprintf("must be positive, got %d", t.Period)}
		case t.WCET <= 0:
			return &TaskError{ID: t.ID, Field: "wcet", Reason: fmt.Sprintf("must be positive, got %d", t.WCET)}
		case t.Deadline < 0:
			return &TaskError{ID: t.ID, Field: "deadline", Reason: fmt.Sprintf("must not be negative, got %d", t.Deadline)}
		case t.Deadline > t.Period:
			return &TaskError{ID: t.ID, Field: "deadline", Reason: fmt.Sprintf("%d exceeds period %d", t.Deadline, t.Period)}
		case t.Offset < 0:
			return &TaskError{ID: t.ID, Field: "offset", Reason: fmt.Sprintf("must not be negative, got %d", t.Offset)}
		}

		if t.WCET > t.Period {
			logrus.Warnf("task %d: wcet %d exceeds period %d, every instance will overrun", t.ID, t.WCET, t.Period)
		}
	}
	if total := TotalUtilization(tasks); total > 1 {
		logrus.Warnf("total utilization %.3f exceeds 1, the task set is overloaded", total)
	}
	return nil
}

// TotalUtilization sums the utilization of every task.
func TotalUtilization(tasks []Task) float64 {
	u := 0.0
	for _, t := range tasks {
		u += t.Utilization()
	}
	return u
}
