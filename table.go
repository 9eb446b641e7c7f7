package hook

import (
	"slices"
)

// bucket holds the callbacks registered at one exact priority, in
// registration order.
type bucket struct {
	priority  Priority
	callbacks []Callback
}

// table is the priority table of one event: buckets sorted ascending by
// priority. Buckets are created on first use and never removed.
type table struct {
	buckets []*bucket
	size    int
}

func comparePriority(b *bucket, p Priority) int {
	return b.priority.Compare(p)
}

// add appends cb to the bucket for p, creating the bucket in sorted position.
func (t *table) add(p Priority, cb Callback) {
	i, found := slices.BinarySearchFunc(t.buckets, p, comparePriority)
	if !found {
		t.buckets = slices.Insert(t.buckets, i, &bucket{priority: p})
	}
	t.buckets[i].callbacks = append(t.buckets[i].callbacks, cb)
	t.size++
}

// step is one callback of a snapshot together with its resolved priority.
type step struct {
	priority Priority
	callback Callback
}

// snapshot flattens the table into execution order. The result does not
// share memory with the table, so later registrations cannot affect it.
func (t *table) snapshot() []step {
	steps := make([]step, 0, t.size)
	for _, b := range t.buckets {
		for _, cb := range b.callbacks {
			steps = append(steps, step{priority: b.priority, callback: cb})
		}
	}
	return steps
}

func (t *table) priorities() []Priority {
	out := make([]Priority, len(t.buckets))
	for i, b := range t.buckets {
		out[i] = b.priority
	}
	return out
}
