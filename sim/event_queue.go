package sim

import "container/heap"

// eventEntry wraps an Event with its insertion sequence for deterministic
// FIFO tie-breaking when fire times are equal.
type eventEntry struct {
	event Event
	seq   uint64
}

// eventHeap implements heap.Interface ordered by (Timestamp, seq).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []eventEntry

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].event.Timestamp() != h[j].event.Timestamp() {
		return h[i].event.Timestamp() < h[j].event.Timestamp()
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(eventEntry))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = eventEntry{}
	*h = old[:n-1]
	return item
}

// EventQueue is a priority queue of pending events with a total order on
// (fire time, insertion sequence). The sequence counter belongs to the queue,
// so independent simulations never share ordering state.
//
// Thread-safety: NOT thread-safe. Owned by a single Simulator.
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates an empty EventQueue.
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make(eventHeap, 0)}
}

// Schedule inserts an event. Events with equal fire times pop in the order
// they were scheduled.
func (q *EventQueue) Schedule(ev Event) {
	q.nextSeq++
	heap.Push(&q.events, eventEntry{event: ev, seq: q.nextSeq})
}

// Next removes and returns the lowest-ordered pending event.
// Returns ErrEmptyQueue if nothing is pending.
func (q *EventQueue) Next() (Event, error) {
	if len(q.events) == 0 {
		return nil, ErrEmptyQueue
	}
	return heap.Pop(&q.events).(eventEntry).event, nil
}

// Peek returns the next event without removing it, or nil when empty.
func (q *EventQueue) Peek() Event {
	if len(q.events) == 0 {
		return nil
	}
	return q.events[0].event
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}
