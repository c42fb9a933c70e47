package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"rtsched/internal/sched"
)

// CSVLog writes one row per event, for any number of runs.
type CSVLog struct {
	cw *csv.Writer
}

// NewCSVLog writes the header and returns a log ready for results.
func NewCSVLog(w io.Writer) (*CSVLog, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"policy", "tick", "event", "task_id", "from_task"}); err != nil {
		return nil, err
	}
	return &CSVLog{cw: cw}, nil
}

// Write appends the events of one run. Columns that do not apply to an event are left empty.
func (l *CSVLog) Write(res sched.Result) error {
	for _, ev := range res.Events {
		rec := []string{
			res.Policy,
			strconv.FormatInt(ev.Time, 10),
			ev.Kind.String(),
			"",
			"",
		}
		if ev.Kind != sched.EventIdle {
			rec[3] = strconv.FormatUint(uint64(ev.Task), 10)
		}
		if ev.Kind == sched.EventPreempted {
			rec[4] = strconv.FormatUint(uint64(ev.From), 10)
		}
		if err := l.cw.Write(rec); err != nil {
			return err
		}
	}
	l.cw.Flush()
	return l.cw.Error()
}
