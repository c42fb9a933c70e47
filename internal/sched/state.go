package sched

// TaskState is the engine-owned runtime record of one task.
type TaskState struct {
	Task        Task
	Remaining   int64 // execution units left in the current instance; 0 when none is pending
	Deadline    int64 // absolute deadline of the current instance
	NextRelease int64 // absolute time of the next instance's arrival
	Releases    int   // instances released so far
}

// release starts a new instance at time now. It reports the work the previous
// instance still had when it was discarded.
func (s *TaskState) release(now int64) (discarded int64) {
	discarded = s.Remaining
	s.Remaining = s.Task.WCET
	s.Deadline = now + s.Task.RelativeDeadline()
	s.NextRelease += s.Task.Period
	s.Releases++
	return discarded
}

// StateStore holds one TaskState per task, in input order, indexed by id.
type StateStore struct {
	states []*TaskState
	index  map[TaskID]int
}

// NewStateStore initializes a state per task: nothing pending, first release at the task's offset.
func NewStateStore(tasks []Task) *StateStore {
	st := &StateStore{
		states: make([]*TaskState, len(tasks)),
		index:  make(map[TaskID]int, len(tasks)),
	}
	for i, t := range tasks {
		st.states[i] = &TaskState{Task: t, NextRelease: t.Offset}
		st.index[t.ID] = i
	}
	return st
}

// Get returns the state of the task with the given id, or nil.
func (st *StateStore) Get(id TaskID) *TaskState {
	i, ok := st.index[id]
	if !ok {
		return nil
	}
	return st.states[i]
}

// All returns every state in input order.
func (st *StateStore) All() []*TaskState { return st.states }

// Len is the number of tasks.
func (st *StateStore) Len() int { return len(st.states) }
