// internal/sched/schedulerEvent.go

package sched

import "fmt"

// EventKind represents the type of timeline event
type EventKind int

const (
	EventIdle EventKind = iota
	EventRunning
	EventPreempted
	EventDeadlineMissed
	EventCompleted
	EventOverrun
)

// Event is emitted for every time unit (Running or Idle) and on key actions.
type Event struct {
	Time int64
	Kind EventKind
	Task TaskID // running, missing, completing or overrunning task; the new task for EventPreempted
	From TaskID // preempted task, only for EventPreempted
}

func (k EventKind) String() string {
	switch k {
	case EventIdle:
		return "Idle"
	case EventRunning:
		return "Running"
	case EventPreempted:
		return "Preempted"
	case EventDeadlineMissed:
		return "DeadlineMissed"
	case EventCompleted:
		return "Completed"
	case EventOverrun:
		return "Overrun"
	default:
		return "Unknown"
	}
}

func (e Event) String() string {
	switch e.Kind {
	case EventIdle:
		return fmt.Sprintf("t=%d Idle", e.Time)
	case EventPreempted:
		return fmt.Sprintf("t=%d Preempted{from=%d, to=%d}", e.Time, e.From, e.Task)
	default:
		return fmt.Sprintf("t=%d %s{task=%d}", e.Time, e.Kind, e.Task)
	}
}
