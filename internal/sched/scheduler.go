// internal/sched/scheduler.go

package sched

import (
	"errors"

	"github.com/sirupsen/logrus"

	"rtsched/internal/job"
)

// Options tune a simulation run.
type Options struct {
	Horizon        int64 // time units to simulate; 0 means the hyperperiod
	ReportOverruns bool  // emit EventOverrun when a release discards unfinished work
}

// Result is the outcome of one simulation run.
type Result struct {
	Policy  string
	Horizon int64
	Tasks   []Task
	Events  []Event
	Jobs    []job.Job
}

// Scheduler simulates preemptive uniprocessor scheduling of periodic tasks,
// one time unit at a time, and records the timeline as events.
type Scheduler struct {
	policy  Policy
	opts    Options
	tasks   []Task
	clock   *TickClock  // current time unit and horizon
	store   *StateStore // runtime state of every task
	ready   *ReadySet   // released tasks waiting for the processor
	jobs    *job.Ledger // one record per released instance
	current TaskID      // task on the processor, meaningful only if running
	running bool
	events  []Event
}

// New validates the task set and prepares a simulation under policy.
func New(tasks []Task, policy Policy, opts Options) (*Scheduler, error) {
	if policy == nil {
		return nil, errors.New("no scheduling policy")
	}
	if err := ValidateTasks(tasks); err != nil {
		return nil, err
	}

	horizon := opts.Horizon
	if horizon <= 0 {
		h, err := TaskHorizon(tasks)
		if err != nil {
			return nil, err
		}
		horizon = h
	}

	own := make([]Task, len(tasks))
	copy(own, tasks)
	store := NewStateStore(own)

	return &Scheduler{
		policy: policy,
		opts:   opts,
		tasks:  own,
		clock:  NewTickClock(horizon),
		store:  store,
		ready:  NewReadySet(store, policy),
		jobs:   job.NewLedger(),
	}, nil
}

// Simulate runs tasks under policy over their hyperperiod and returns the timeline.
func Simulate(tasks []Task, policy Policy) ([]Event, error) {
	s, err := New(tasks, policy, Options{})
	if err != nil {
		return nil, err
	}
	return s.Run().Events, nil
}

// Run simulates every remaining time unit up to the horizon.
func (s *Scheduler) Run() Result {
	logrus.Infof("%s: simulating %d tasks over %d time units", s.policy.Name(), len(s.tasks), s.clock.Horizon())
	for s.Step() {
	}
	return s.Result()
}

// Step simulates the current time unit and advances the clock.
// It returns false once the horizon has been reached.
func (s *Scheduler) Step() bool {
	if !s.clock.Running() {
		return false
	}
	now := s.clock.Now()

	s.admit(now)
	s.preempt(now)
	s.dispatch()
	s.execute(now)

	s.clock.Advance()
	return true
}

// Result returns the events and jobs recorded so far.
func (s *Scheduler) Result() Result {
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return Result{
		Policy:  s.policy.Name(),
		Horizon: s.clock.Horizon(),
		Tasks:   s.tasks,
		Events:  events,
		Jobs:    s.jobs.Jobs(),
	}
}

// Current returns the task on the processor, if any.
func (s *Scheduler) Current() (TaskID, bool) { return s.current, s.running }

// Ready returns the queued task ids, highest priority first.
func (s *Scheduler) Ready() []TaskID { return s.ready.IDs() }

// State returns the runtime state of a task, or nil for an unknown id.
func (s *Scheduler) State(id TaskID) *TaskState { return s.store.Get(id) }

// admit releases every task whose next release is now, in input order.
// A release always resets the instance, even when the previous one is unfinished.
func (s *Scheduler) admit(now int64) {
	for _, st := range s.store.All() {
		if st.NextRelease != now {
			continue
		}
		id := st.Task.ID

		// the ready set orders by live state, so take the task out before changing it
		s.ready.Remove(id)
		discarded := st.release(now)
		s.jobs.Release(uint64(id), st.Releases, now, st.Deadline)

		if discarded > 0 {
			logrus.Debugf("t=%d: task %d re-released with %d units unfinished", now, id, discarded)
			if s.opts.ReportOverruns {
				s.emit(Event{Time: now, Kind: EventOverrun, Task: id})
			}
		}

		if s.running && s.current == id {
			continue
		}
		s.ready.Push(id)
	}
}

// preempt switches to the best ready task if it strictly outranks the running one.
func (s *Scheduler) preempt(now int64) {
	if !s.running || s.ready.Empty() {
		return
	}
	challenger, _ := s.ready.Peek()
	if s.policy.Compare(s.store.Get(challenger), s.store.Get(s.current)) >= 0 {
		return
	}

	from := s.current
	s.ready.Remove(challenger)
	s.ready.Push(from)
	s.current = challenger
	s.jobs.Preempt(uint64(from))

	logrus.Debugf("t=%d: task %d preempts task %d", now, challenger, from)
	s.emit(Event{Time: now, Kind: EventPreempted, Task: challenger, From: from})
}

// dispatch gives an idle processor to the best ready task.
func (s *Scheduler) dispatch() {
	if s.running {
		return
	}
	if id, ok := s.ready.Pop(); ok {
		s.current = id
		s.running = true
	}
}

// execute performs one unit of work for the running task, or records idle time.
func (s *Scheduler) execute(now int64) {
	if !s.running {
		s.emit(Event{Time: now, Kind: EventIdle})
		return
	}

	id := s.current
	st := s.store.Get(id)
	s.emit(Event{Time: now, Kind: EventRunning, Task: id})
	st.Remaining--
	s.jobs.Run(uint64(id), now)

	if now >= st.Deadline && st.Remaining > 0 {
		s.jobs.Miss(uint64(id))
		s.emit(Event{Time: now, Kind: EventDeadlineMissed, Task: id})
	}
	if st.Remaining == 0 {
		s.jobs.Complete(uint64(id), now)
		s.emit(Event{Time: now, Kind: EventCompleted, Task: id})
		s.running = false
	}
}

func (s *Scheduler) emit(ev Event) {
	logrus.Trace(ev)
	s.events = append(s.events, ev)
}
