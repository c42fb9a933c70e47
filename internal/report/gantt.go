package report

import (
	"fmt"
	"io"
	"strings"

	"rtsched/internal/sched"
)

// Gantt cell marks.
const (
	cellRun    = '#'
	cellMissed = '!'
	cellEmpty  = '.'
	cellIdle   = '_'
)

// Gantt renders the timeline as one row per task plus a processor row.
// A task row marks '#' where it ran and '!' where it ran past its deadline.
// The cpu row marks '_' for idle units and '^' where a preemption happened.
func Gantt(res sched.Result) string {
	width := int(res.Horizon)
	rows := make(map[sched.TaskID][]byte, len(res.Tasks))
	for _, t := range res.Tasks {
		rows[t.ID] = []byte(strings.Repeat(string(cellEmpty), width))
	}
	cpu := []byte(strings.Repeat(" ", width))

	for _, ev := range res.Events {
		if ev.Time < 0 || ev.Time >= res.Horizon {
			continue
		}
		switch ev.Kind {
		case sched.EventRunning:
			rows[ev.Task][ev.Time] = cellRun
		case sched.EventDeadlineMissed:
			rows[ev.Task][ev.Time] = cellMissed
		case sched.EventIdle:
			cpu[ev.Time] = cellIdle
		case sched.EventPreempted:
			cpu[ev.Time] = '^'
		}
	}

	label := len("cpu")
	for _, t := range res.Tasks {
		if n := len(fmt.Sprintf("T%d", t.ID)); n > label {
			label = n
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s |%s|\n", label, "t", scale(width))
	for _, t := range res.Tasks {
		fmt.Fprintf(&b, "%-*s |%s|\n", label, fmt.Sprintf("T%d", t.ID), rows[t.ID])
	}
	fmt.Fprintf(&b, "%-*s |%s|\n", label, "cpu", cpu)
	return b.String()
}

// scale puts the time value above every tenth column.
func scale(width int) string {
	line := []byte(strings.Repeat(" ", width))
	for t := 0; t < width; t += 10 {
		copy(line[t:], fmt.Sprint(t))
	}
	return string(line[:width])
}

// WriteGantt prints the chart with a title.
func WriteGantt(w io.Writer, res sched.Result) {
	_, _ = fmt.Fprintf(w, "%s Gantt chart\n%s\n", res.Policy, Gantt(res))
}
