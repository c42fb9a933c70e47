package report

import (
	"fmt"
	"io"

	"rtsched/internal/sched"
)

// WriteTrace prints the timeline one line per event, the way a console trace reads.
func WriteTrace(w io.Writer, res sched.Result) {
	_, _ = fmt.Fprintf(w, "=== Running Preemptive %s Simulation ===\n", res.Policy)
	for _, ev := range res.Events {
		_, _ = fmt.Fprintln(w, traceLine(ev))
	}
	_, _ = fmt.Fprintln(w)
}

func traceLine(ev sched.Event) string {
	switch ev.Kind {
	case sched.EventIdle:
		return fmt.Sprintf("Time %d: Idle", ev.Time)
	case sched.EventRunning:
		return fmt.Sprintf("Time %d: Task %d is running.", ev.Time, ev.Task)
	case sched.EventPreempted:
		return fmt.Sprintf("  [!] Preemption at Time %d: Task %d preempts Task %d", ev.Time, ev.Task, ev.From)
	case sched.EventDeadlineMissed:
		return fmt.Sprintf("  !! Deadline Missed by Task %d", ev.Task)
	case sched.EventCompleted:
		return fmt.Sprintf("  [+] Task %d Completed.", ev.Task)
	case sched.EventOverrun:
		return fmt.Sprintf("  [~] Overrun at Time %d: Task %d released before finishing", ev.Time, ev.Task)
	default:
		return ev.String()
	}
}
