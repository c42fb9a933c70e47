package sched

import (
	"cmp"
	"fmt"
	"strings"
)

// Policy orders tasks by priority. Compare returns a negative value when a has
// strictly higher priority than b, zero when their priority fields are equal.
// The same Compare drives both the ready set and the preemption test.
type Policy interface {
	Name() string
	Compare(a, b *TaskState) int
}

// RMS is rate-monotonic: shorter period, higher priority.
type RMS struct{}

func (RMS) Name() string { return "RMS" }

func (RMS) Compare(a, b *TaskState) int { return cmp.Compare(a.Task.Period, b.Task.Period) }

// EDF is earliest-deadline-first: earlier absolute deadline, higher priority.
// Deadlines change at every release, so the order between two tasks can flip.
type EDF struct{}

func (EDF) Name() string { return "EDF" }

func (EDF) Compare(a, b *TaskState) int { return cmp.Compare(a.Deadline, b.Deadline) }

// DM is deadline-monotonic: shorter relative deadline, higher priority.
// It matches RMS when every deadline equals its period.
type DM struct{}

func (DM) Name() string { return "DM" }

func (DM) Compare(a, b *TaskState) int {
	return cmp.Compare(a.Task.RelativeDeadline(), b.Task.RelativeDeadline())
}

// Policies lists every supported policy in the order the CLI runs them.
func Policies() []Policy { return []Policy{RMS{}, EDF{}, DM{}} }

// ParsePolicy resolves a policy name, case-insensitively.
func ParsePolicy(name string) (Policy, error) {
	for _, p := range Policies() {
		if strings.EqualFold(p.Name(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown policy %q (want rms, edf or dm)", name)
}
