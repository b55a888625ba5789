package event

import (
	"context"
	"sync"
	"sync/atomic"
)

// MaxEvents is the default queue capacity, an upper bound on events per cycle.
const MaxEvents = 256

// Queue is a bounded multi-producer, single-consumer FIFO of events.
type Queue struct {
	_ [0]func() // prevent accidental copying.

	mu    sync.Mutex
	head  int
	count int
	slots []Event

	dropped atomic.Uint64

	ready chan struct{}
	room  chan struct{}
}

// NewQueue returns a queue holding up to capacity events. Non-positive capacity selects MaxEvents.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = MaxEvents
	}
	return &Queue{
		slots: make([]Event, capacity),
		ready: make(chan struct{}, 1),
		room:  make(chan struct{}, 1),
	}
}

func (q *Queue) Cap() int { return len(q.slots) }

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Dropped returns the number of events lost to a full queue since creation.
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }

func (q *Queue) tryPush(e Event) (ok, more bool) {
	q.mu.Lock()
	if q.count == len(q.slots) {
		q.mu.Unlock()
		return false, false
	}
	q.slots[(q.head+q.count)%len(q.slots)] = e
	q.count++
	more = q.count < len(q.slots)
	q.mu.Unlock()

	signal(q.ready)
	return true, more
}

// TryPush enqueues e, returning false (and counting a drop) if the queue is full.
func (q *Queue) TryPush(e Event) bool {
	ok, _ := q.tryPush(e)
	if !ok {
		q.dropped.Add(1)
	}
	return ok
}

// Push enqueues e, blocking until there is room or ctx is done.
func (q *Queue) Push(ctx context.Context, e Event) error {
	for {
		ok, more := q.tryPush(e)
		if ok {
			if more {
				// Pass the wakeup on to other blocked producers.
				signal(q.room)
			}
			return nil
		}
		select {
		case <-q.room:
		case <-ctx.Done():
			q.dropped.Add(1)
			return ctx.Err()
		}
	}
}

// PushDropOldest enqueues e, evicting the oldest event when full. It reports whether an
// event was evicted.
func (q *Queue) PushDropOldest(e Event) (evicted bool) {
	q.mu.Lock()
	if q.count == len(q.slots) {
		q.head = (q.head + 1) % len(q.slots)
		q.count--
		evicted = true
	}
	q.slots[(q.head+q.count)%len(q.slots)] = e
	q.count++
	q.mu.Unlock()

	if evicted {
		q.dropped.Add(1)
	}
	signal(q.ready)
	return evicted
}

// Pop dequeues the oldest event, returning false if the queue is empty.
func (q *Queue) Pop() (Event, bool) {
	q.mu.Lock()
	if q.count == 0 {
		q.mu.Unlock()
		return Event{}, false
	}
	e := q.slots[q.head]
	q.slots[q.head] = Event{}
	q.head = (q.head + 1) % len(q.slots)
	q.count--
	q.mu.Unlock()

	signal(q.room)
	return e, true
}

// Wait blocks until the queue is non-empty or ctx is done. Only the consumer may wait.
func (q *Queue) Wait(ctx context.Context) error {
	for {
		if q.Len() > 0 {
			return nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
