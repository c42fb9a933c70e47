package sched

import (
	"cmp"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// ReadySet holds the ids of released tasks that are not running, ordered by a
// policy. The ordering reads the live TaskState of each id, so a member's state
// must not change while it is queued: Remove it, mutate, then Push it again.
type ReadySet struct {
	rbt     *redblacktree.Tree // ids ordered by policy, then by id
	members map[TaskID]struct{}
	store   *StateStore
	policy  Policy
}

// NewReadySet creates an empty ready set over the given store.
func NewReadySet(store *StateStore, policy Policy) *ReadySet {
	r := &ReadySet{
		members: make(map[TaskID]struct{}),
		store:   store,
		policy:  policy,
	}
	r.rbt = redblacktree.NewWith(r.order)
	return r
}

// order is the tree comparator. Equal priorities fall back to the lower id first,
// which keeps the order total.
func (r *ReadySet) order(a, b any) int {
	ia, ib := a.(TaskID), b.(TaskID)
	if c := r.policy.Compare(r.store.Get(ia), r.store.Get(ib)); c != 0 {
		return c
	}
	return cmp.Compare(ia, ib)
}

// Push adds id. Pushing a member twice is a no-op.
func (r *ReadySet) Push(id TaskID) {
	if r.Contains(id) {
		return
	}
	r.rbt.Put(id, struct{}{})
	r.members[id] = struct{}{}
}

// Peek returns the highest-priority id without removing it.
func (r *ReadySet) Peek() (TaskID, bool) {
	node := r.rbt.Left()
	if node == nil {
		return 0, false
	}
	return node.Key.(TaskID), true
}

// Pop removes and returns the highest-priority id.
func (r *ReadySet) Pop() (TaskID, bool) {
	id, ok := r.Peek()
	if !ok {
		return 0, false
	}
	r.Remove(id)
	return id, true
}

// Remove drops id if present.
func (r *ReadySet) Remove(id TaskID) {
	if !r.Contains(id) {
		return
	}
	r.rbt.Remove(id)
	delete(r.members, id)
}

// Contains reports whether id is queued.
func (r *ReadySet) Contains(id TaskID) bool {
	_, ok := r.members[id]
	return ok
}

// Len is the number of queued ids.
func (r *ReadySet) Len() int { return r.rbt.Size() }

// Empty reports whether nothing is queued.
func (r *ReadySet) Empty() bool { return r.rbt.Empty() }

// IDs returns the queued ids from highest to lowest priority.
func (r *ReadySet) IDs() []TaskID {
	keys := r.rbt.Keys()
	ids := make([]TaskID, len(keys))
	for i, k := range keys {
		ids[i] = k.(TaskID)
	}
	return ids
}
