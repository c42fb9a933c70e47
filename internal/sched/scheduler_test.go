package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func running(t int64, id TaskID) Event { return Event{Time: t, Kind: EventRunning, Task: id} }
func completed(t int64, id TaskID) Event { return Event{Time: t, Kind: EventCompleted, Task: id} }
func missed(t int64, id TaskID) Event { return Event{Time: t, Kind: EventDeadlineMissed, Task: id} }
func overrun(t int64, id TaskID) Event { return Event{Time: t, Kind: EventOverrun, Task: id} }
func idle(t int64) Event { return Event{Time: t, Kind: EventIdle} }
func preempted(t int64, from, to TaskID) Event {
	return Event{Time: t, Kind: EventPreempted, Task: to, From: from}
}

func exampleTasks() []Task {
	return []Task{NewTask(1, 5, 3), NewTask(2, 8, 3)}
}

func mustRun(t *testing.T, tasks []Task, p Policy, opts Options) Result {
	t.Helper()
	s, err := New(tasks, p, opts)
	require.NoError(t, err)
	return s.Run()
}

func eventsOfKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func TestSimulate_RMSExample_PreemptsAtFive(t *testing.T) {
	// GIVEN tasks {1: T=5 C=3} and {2: T=8 C=3} under RMS
	events, err := Simulate(exampleTasks(), RMS{})
	require.NoError(t, err)

	// THEN task 1 completes at the end of t=2, task 2 runs from t=3,
	// task 1 preempts it at t=5 and completes after t=7, task 2 resumes at t=8
	want := []Event{
		running(0, 1), running(1, 1), running(2, 1), completed(2, 1),
		running(3, 2), running(4, 2),
		preempted(5, 2, 1), running(5, 1), running(6, 1), running(7, 1), completed(7, 1),
		running(8, 2),
	}
	require.GreaterOrEqual(t, len(events), len(want))
	assert.Equal(t, want, events[:len(want)])

	// AND the run covers the whole hyperperiod
	assert.Equal(t, int64(39), events[len(events)-1].Time)
	assert.Equal(t, idle(39), events[len(events)-1])
}

func TestSimulate_RMSExample_PreemptionPoints(t *testing.T) {
	res := mustRun(t, exampleTasks(), RMS{}, Options{})

	assert.Equal(t, int64(40), res.Horizon)
	assert.Equal(t, []Event{
		preempted(5, 2, 1),
		preempted(10, 2, 1),
		preempted(20, 2, 1),
		preempted(25, 2, 1),
		preempted(35, 2, 1),
	}, eventsOfKind(res.Events, EventPreempted))
	assert.Equal(t, []Event{idle(14), idle(39)}, eventsOfKind(res.Events, EventIdle))
}

func TestSimulate_EDFExample(t *testing.T) {
	res := mustRun(t, exampleTasks(), EDF{}, Options{})

	// task 2 keeps the processor at t=5 (deadline 8 < 10) and is only
	// preempted when task 1's deadline is strictly earlier
	assert.Equal(t, []Event{preempted(10, 2, 1), preempted(25, 2, 1)}, eventsOfKind(res.Events, EventPreempted))
	assert.Contains(t, res.Events, completed(5, 2))
	assert.Empty(t, eventsOfKind(res.Events, EventDeadlineMissed))
}

func TestSimulate_ReleaseDiscardsUnfinishedWork(t *testing.T) {
	// GIVEN the RMS example with overrun reporting
	res := mustRun(t, exampleTasks(), RMS{}, Options{ReportOverruns: true})

	// THEN task 2's first instance, preempted with one unit left, is replaced at t=8
	assert.Equal(t, []Event{overrun(8, 2)}, eventsOfKind(res.Events, EventOverrun))
	i := indexOf(res.Events, overrun(8, 2))
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, running(8, 2), res.Events[i+1])

	// AND the new instance needs its full WCET: it runs at 8, 9 and 13
	assert.Contains(t, res.Events, completed(13, 2))

	// AND without the option the timeline is otherwise identical
	plain := mustRun(t, exampleTasks(), RMS{}, Options{})
	assert.Equal(t, len(res.Events)-1, len(plain.Events))
}

func indexOf(events []Event, want Event) int {
	for i, ev := range events {
		if ev == want {
			return i
		}
	}
	return -1
}

func TestSimulate_EDFDynamicPriority(t *testing.T) {
	// GIVEN A {T=3 C=1} and B {T=5 C=3}
	tasks := []Task{NewTask(1, 3, 1), NewTask(2, 5, 3)}

	// WHEN simulated under EDF
	edf := mustRun(t, tasks, EDF{}, Options{})

	// THEN at t=3 B (deadline 5) keeps running over A (deadline 6),
	// but at t=6 A (deadline 9) preempts B (deadline 10)
	assert.Contains(t, edf.Events, running(3, 2))
	assert.Contains(t, edf.Events, completed(3, 2))
	assert.Equal(t, []Event{preempted(6, 2, 1)}, eventsOfKind(edf.Events, EventPreempted))

	// AND under RMS A always wins
	rms := mustRun(t, tasks, RMS{}, Options{})
	assert.Equal(t, []Event{preempted(3, 2, 1), preempted(6, 2, 1), preempted(12, 2, 1)},
		eventsOfKind(rms.Events, EventPreempted))
}

func TestSimulate_TieNeverPreempts(t *testing.T) {
	// GIVEN A {T=4 C=1} and B {T=6 C=3}; at t=8 both have deadline 12
	tasks := []Task{NewTask(1, 4, 1), NewTask(2, 6, 3)}

	// WHEN simulated under EDF
	res := mustRun(t, tasks, EDF{}, Options{})

	// THEN B finishes at t=8 and A waits until t=9
	assert.Empty(t, eventsOfKind(res.Events, EventPreempted))
	assert.Contains(t, res.Events, completed(8, 2))
	assert.Contains(t, res.Events, completed(9, 1))

	// AND RMS, where A's period is strictly shorter, does preempt there
	rms := mustRun(t, tasks, RMS{}, Options{})
	assert.Equal(t, []Event{preempted(8, 2, 1)}, eventsOfKind(rms.Events, EventPreempted))
}

func TestSimulate_EqualPeriodsUnderRMS(t *testing.T) {
	// tasks with the same period are ordered by id and never preempt each other
	tasks := []Task{NewTask(2, 4, 2), NewTask(1, 4, 2)}
	events, err := Simulate(tasks, RMS{})
	require.NoError(t, err)

	assert.Equal(t, []Event{
		running(0, 1), running(1, 1), completed(1, 1),
		running(2, 2), running(3, 2), completed(3, 2),
	}, events)
}

func TestSimulate_DeadlineMissReportedEveryUnit(t *testing.T) {
	// GIVEN a task needing 5 units within a relative deadline of 2
	tasks := []Task{{ID: 1, Period: 10, WCET: 5, Deadline: 2}}

	events, err := Simulate(tasks, EDF{})
	require.NoError(t, err)

	// THEN every unit executed at or past the deadline with work left is a miss
	assert.Equal(t, []Event{missed(2, 1), missed(3, 1)}, eventsOfKind(events, EventDeadlineMissed))
	assert.Contains(t, events, completed(4, 1))
	assert.Len(t, eventsOfKind(events, EventIdle), 5)
}

func TestSimulate_DeadlineMonotonic(t *testing.T) {
	tasks := []Task{
		{ID: 1, Period: 10, WCET: 2},
		{ID: 2, Period: 10, WCET: 2, Deadline: 4},
	}

	dm := mustRun(t, tasks, DM{}, Options{})
	assert.Equal(t, running(0, 2), dm.Events[0])

	rms := mustRun(t, tasks, RMS{}, Options{})
	assert.Equal(t, running(0, 1), rms.Events[0])
}

func TestSimulate_Offset(t *testing.T) {
	events, err := Simulate([]Task{{ID: 1, Period: 4, WCET: 1, Offset: 2}}, RMS{})
	require.NoError(t, err)

	assert.Equal(t, []Event{idle(0), idle(1), running(2, 1), completed(2, 1), idle(3)}, events)
}

func TestScheduler_RunningTaskReleasedKeepsProcessor(t *testing.T) {
	// GIVEN a task whose WCET exceeds its period
	s, err := New([]Task{NewTask(1, 2, 3)}, RMS{}, Options{Horizon: 6, ReportOverruns: true})
	require.NoError(t, err)

	// WHEN stepped through the horizon
	for s.Step() {
		// THEN it is never queued while it holds the processor
		assert.Empty(t, s.Ready())
	}

	res := s.Result()
	assert.Equal(t, []Event{overrun(2, 1), overrun(4, 1)}, eventsOfKind(res.Events, EventOverrun))
	assert.Empty(t, eventsOfKind(res.Events, EventCompleted))
	assert.Len(t, eventsOfKind(res.Events, EventRunning), 6)
}

func TestScheduler_Exclusivity(t *testing.T) {
	sets := [][]Task{
		exampleTasks(),
		{NewTask(1, 3, 1), NewTask(2, 5, 3)},
		{NewTask(1, 4, 2), NewTask(2, 6, 2), NewTask(3, 12, 3)},
		{NewTask(1, 2, 3), NewTask(2, 3, 1)},
	}
	for _, tasks := range sets {
		for _, p := range Policies() {
			s, err := New(tasks, p, Options{ReportOverruns: true})
			require.NoError(t, err)

			for s.Step() {
				id, ok := s.Current()
				if ok {
					assert.NotContains(t, s.Ready(), id, "%s: running task %d is queued", p.Name(), id)
				}
				ready := s.Ready()
				seen := make(map[TaskID]bool)
				for _, r := range ready {
					assert.False(t, seen[r], "%s: task %d queued twice", p.Name(), r)
					seen[r] = true
				}
			}

			perTick := make(map[int64]int)
			for _, ev := range s.Result().Events {
				if ev.Kind == EventRunning || ev.Kind == EventIdle {
					perTick[ev.Time]++
				}
			}
			assert.Len(t, perTick, int(s.Result().Horizon))
			for tick, n := range perTick {
				assert.Equal(t, 1, n, "%s: tick %d has %d running/idle events", p.Name(), tick, n)
			}
		}
	}
}

func TestScheduler_WorkConservation(t *testing.T) {
	sets := [][]Task{
		exampleTasks(),
		{NewTask(1, 3, 1), NewTask(2, 5, 3)},
		{NewTask(1, 4, 2), NewTask(2, 6, 2), NewTask(3, 12, 3)},
	}
	for _, tasks := range sets {
		period := make(map[TaskID]Task)
		for _, task := range tasks {
			period[task.ID] = task
		}
		for _, p := range Policies() {
			res := mustRun(t, tasks, p, Options{})
			for _, c := range eventsOfKind(res.Events, EventCompleted) {
				task := period[c.Task]
				lastRelease := (c.Time / task.Period) * task.Period
				var ran int64
				for _, ev := range res.Events {
					if ev.Kind == EventRunning && ev.Task == c.Task && ev.Time >= lastRelease && ev.Time <= c.Time {
						ran++
					}
				}
				assert.Equal(t, task.WCET, ran, "%s: task %d completed at %d", p.Name(), c.Task, c.Time)
			}
		}
	}
}

func TestScheduler_RMSStaticPriority(t *testing.T) {
	s, err := New(exampleTasks(), RMS{}, Options{})
	require.NoError(t, err)

	for s.Step() {
		// the order between the two tasks never changes
		assert.Negative(t, RMS{}.Compare(s.State(1), s.State(2)))

		// and task 2 only runs when task 1 has nothing pending
		if id, ok := s.Current(); ok && id == 2 {
			assert.Zero(t, s.State(1).Remaining)
		}
	}
	assert.Equal(t, 8, s.State(1).Releases)
	assert.Equal(t, 5, s.State(2).Releases)
}

func TestScheduler_Deterministic(t *testing.T) {
	tasks := []Task{NewTask(3, 6, 2), NewTask(1, 4, 1), NewTask(2, 12, 4)}
	for _, p := range Policies() {
		a := mustRun(t, tasks, p, Options{ReportOverruns: true})
		b := mustRun(t, tasks, p, Options{ReportOverruns: true})
		assert.Equal(t, a, b)
	}
}

func TestScheduler_HorizonOverride(t *testing.T) {
	res := mustRun(t, exampleTasks(), RMS{}, Options{Horizon: 12})
	assert.Equal(t, int64(12), res.Horizon)
	assert.Equal(t, int64(11), res.Events[len(res.Events)-1].Time)
}

func TestScheduler_EmptyTaskSet(t *testing.T) {
	events, err := Simulate(nil, EDF{})
	require.NoError(t, err)
	assert.Equal(t, []Event{idle(0)}, events)
}

func TestScheduler_Jobs(t *testing.T) {
	res := mustRun(t, exampleTasks(), RMS{}, Options{})

	require.Len(t, res.Jobs, 13)
	first := res.Jobs[1]
	assert.Equal(t, uint64(2), first.Task)
	assert.Equal(t, int64(3), first.Start)
	assert.Equal(t, int64(2), first.Executed)
	assert.Equal(t, 1, first.Preemptions)
	assert.True(t, first.Overrun)
	assert.False(t, first.Completed())
}

func TestNew_RejectsInvalidTasks(t *testing.T) {
	_, err := New([]Task{NewTask(1, 0, 1)}, RMS{}, Options{})
	require.ErrorIs(t, err, ErrInvalidTask)

	_, err = New(exampleTasks(), nil, Options{})
	require.Error(t, err)
}
