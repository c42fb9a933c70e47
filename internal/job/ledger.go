// Package job keeps one record per released task instance.
package job

// Job is one instance of a periodic task.
type Job struct {
	Task        uint64
	Seq         int   // 1-based instance number within its task
	Release     int64 // arrival time
	Deadline    int64 // absolute deadline
	Start       int64 // first executed unit, -1 if never run
	Finish      int64 // last executed unit, -1 if not completed
	Executed    int64 // units of work performed
	Preemptions int
	Missed      bool // ran at or past its deadline with work remaining
	Overrun     bool // discarded by the next release before completing
}

// Completed reports whether the job finished its work.
func (j Job) Completed() bool { return j.Finish >= 0 }

// ResponseTime is the time from release to the end of the last executed unit,
// or -1 for an unfinished job.
func (j Job) ResponseTime() int64 {
	if !j.Completed() {
		return -1
	}
	return j.Finish + 1 - j.Release
}

// Ledger records jobs in release order.
type Ledger struct {
	jobs []Job
	open map[uint64]int // task -> index of its unfinished job
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{open: make(map[uint64]int)}
}

// Release opens a new job for task. An unfinished previous job is marked as overrun.
func (l *Ledger) Release(task uint64, seq int, release, deadline int64) {
	if i, ok := l.open[task]; ok {
		l.jobs[i].Overrun = true
	}
	l.jobs = append(l.jobs, Job{
		Task:     task,
		Seq:      seq,
		Release:  release,
		Deadline: deadline,
		Start:    -1,
		Finish:   -1,
	})
	l.open[task] = len(l.jobs) - 1
}

func (l *Ledger) current(task uint64) *Job {
	i, ok := l.open[task]
	if !ok {
		return nil
	}
	return &l.jobs[i]
}

// Run records one executed unit at time now.
func (l *Ledger) Run(task uint64, now int64) {
	j := l.current(task)
	if j == nil {
		return
	}
	if j.Start < 0 {
		j.Start = now
	}
	j.Executed++
}

// Preempt counts a preemption of task's open job.
func (l *Ledger) Preempt(task uint64) {
	if j := l.current(task); j != nil {
		j.Preemptions++
	}
}

// Miss flags task's open job as having missed its deadline.
func (l *Ledger) Miss(task uint64) {
	if j := l.current(task); j != nil {
		j.Missed = true
	}
}

// Complete closes task's open job at time now.
func (l *Ledger) Complete(task uint64, now int64) {
	if j := l.current(task); j != nil {
		j.Finish = now
		delete(l.open, task)
	}
}

// Jobs returns a copy of every job in release order.
func (l *Ledger) Jobs() []Job {
	out := make([]Job, len(l.jobs))
	copy(out, l.jobs)
	return out
}
