// Package schedule runs deferred callbacks from the frame loop.
//
// Events are keyed to a caller-supplied clock and fire inside Advance, on
// the goroutine that drives the frame loop, so callbacks may mutate frame
// state without locking.
package schedule

import (
	"container/heap"
)

// Event is a pending callback.
type Event struct {
	Due  float64 // Clock time in seconds
	Name string
	fn   func()
	seq  uint64
}

type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Due != h[j].Due {
		return h[i].Due < h[j].Due
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(*Event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Queue orders events by due time, first-in first-out on ties.
type Queue struct {
	events eventHeap
	seq    uint64
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// At schedules fn to run once the clock reaches due.
func (q *Queue) At(due float64, name string, fn func()) {
	q.seq++
	heap.Push(&q.events, &Event{Due: due, Name: name, fn: fn, seq: q.seq})
}

// Advance runs every event due at or before now, in due order. Events
// scheduled by a callback run in the same call if they are already due.
// It returns the number of events fired.
func (q *Queue) Advance(now float64) int {
	fired := 0
	for len(q.events) > 0 && q.events[0].Due <= now {
		e := heap.Pop(&q.events).(*Event)
		e.fn()
		fired++
	}
	return fired
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Next returns the earliest pending event.
func (q *Queue) Next() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	return *q.events[0], true
}
