// Package report renders simulation results for people: a text trace, a CSV
// event log, an ASCII Gantt chart and a per-task summary table.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"rtsched/internal/sched"
)

// TaskSummary aggregates the jobs of one task.
type TaskSummary struct {
	ID            sched.TaskID
	Period        int64
	WCET          int64
	Deadline      int64
	Releases      int
	Completed     int
	Missed        int // jobs that ran past their deadline
	Overruns      int // jobs discarded unfinished by the next release
	Preemptions   int
	Executed      int64
	WorstResponse int64 // -1 when no job completed
}

// Summary aggregates one simulation run.
type Summary struct {
	Policy      string
	Horizon     int64
	Utilization float64
	Busy        int64
	Idle        int64
	Preemptions int
	Tasks       []TaskSummary
}

// Summarize computes per-task and run-wide statistics from a result.
func Summarize(res sched.Result) Summary {
	sum := Summary{
		Policy:      res.Policy,
		Horizon:     res.Horizon,
		Utilization: sched.TotalUtilization(res.Tasks),
		Tasks:       make([]TaskSummary, len(res.Tasks)),
	}

	index := make(map[sched.TaskID]int, len(res.Tasks))
	for i, t := range res.Tasks {
		index[t.ID] = i
		sum.Tasks[i] = TaskSummary{
			ID:            t.ID,
			Period:        t.Period,
			WCET:          t.WCET,
			Deadline:      t.RelativeDeadline(),
			WorstResponse: -1,
		}
	}

	for _, j := range res.Jobs {
		ts := &sum.Tasks[index[sched.TaskID(j.Task)]]
		ts.Releases++
		ts.Executed += j.Executed
		ts.Preemptions += j.Preemptions
		if j.Completed() {
			ts.Completed++
			if rt := j.ResponseTime(); rt > ts.WorstResponse {
				ts.WorstResponse = rt
			}
		}
		if j.Missed {
			ts.Missed++
		}
		if j.Overrun {
			ts.Overruns++
		}
	}

	for _, ev := range res.Events {
		switch ev.Kind {
		case sched.EventRunning:
			sum.Busy++
		case sched.EventIdle:
			sum.Idle++
		case sched.EventPreempted:
			sum.Preemptions++
		}
	}
	return sum
}

// WriteSummary renders the summary as a table.
func WriteSummary(w io.Writer, sum Summary) {
	_, _ = fmt.Fprintf(w, "%s summary over %d time units\n", sum.Policy, sum.Horizon)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Task", "Period", "WCET", "Deadline", "Releases", "Completed", "Missed", "Overruns", "Preempted", "Worst response"})
	for _, ts := range sum.Tasks {
		worst := "-"
		if ts.WorstResponse >= 0 {
			worst = fmt.Sprint(ts.WorstResponse)
		}
		table.Append([]string{
			fmt.Sprint(ts.ID),
			fmt.Sprint(ts.Period),
			fmt.Sprint(ts.WCET),
			fmt.Sprint(ts.Deadline),
			fmt.Sprint(ts.Releases),
			fmt.Sprint(ts.Completed),
			fmt.Sprint(ts.Missed),
			fmt.Sprint(ts.Overruns),
			fmt.Sprint(ts.Preemptions),
			worst,
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "", "",
		fmt.Sprintf("U=%.3f", sum.Utilization),
		fmt.Sprintf("busy=%d", sum.Busy),
		fmt.Sprintf("idle=%d", sum.Idle),
	})
	table.Render()
}
