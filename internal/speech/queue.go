package speech

import (
	"context"
	"sync"
	"time"
)

// DefaultQueueSize bounds how many utterances may wait for playback.
const DefaultQueueSize = 64

// Queue is a bounded FIFO of utterances. Enqueue never blocks; Dequeue
// waits for an item, the queue closing, or the context.
type Queue struct {
	mu      sync.Mutex
	items   []Utterance
	maxSize int
	closed  bool
	// ready is closed and replaced whenever items arrive or the queue
	// closes, waking every waiting Dequeue.
	ready chan struct{}
	stats QueueStats
}

// QueueStats tracks queue activity.
type QueueStats struct {
	Enqueued    int64
	Dequeued    int64
	Dropped     int64
	Cleared     int64
	PeakSize    int
	LastEnqueue time.Time
	LastDequeue time.Time
}

// NewQueue returns an empty queue. A non-positive maxSize uses
// DefaultQueueSize.
func NewQueue(maxSize int) *Queue {
	if maxSize <= 0 {
		maxSize = DefaultQueueSize
	}
	return &Queue{
		items:   make([]Utterance, 0, maxSize),
		maxSize: maxSize,
		ready:   make(chan struct{}),
	}
}

// Enqueue appends u to the back of the queue.
func (q *Queue) Enqueue(u Utterance) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	if len(q.items) >= q.maxSize {
		q.stats.Dropped++
		return ErrQueueFull
	}

	q.items = append(q.items, u)
	q.stats.Enqueued++
	q.stats.LastEnqueue = time.Now()
	if len(q.items) > q.stats.PeakSize {
		q.stats.PeakSize = len(q.items)
	}
	q.signal()
	return nil
}

// Dequeue removes and returns the front utterance, waiting until one is
// available. It returns ErrQueueClosed once the queue is closed, even if
// items remain.
func (q *Queue) Dequeue(ctx context.Context) (Utterance, error) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return Utterance{}, ErrQueueClosed
		}
		if len(q.items) > 0 {
			u := q.items[0]
			q.items[0] = Utterance{}
			q.items = q.items[1:]
			q.stats.Dequeued++
			q.stats.LastDequeue = time.Now()
			q.mu.Unlock()
			return u, nil
		}
		ready := q.ready
		q.mu.Unlock()

		select {
		case <-ready:
		case <-ctx.Done():
			return Utterance{}, ctx.Err()
		}
	}
}

// Clear drops every queued utterance and returns how many were dropped.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	q.items = q.items[:0]
	q.stats.Cleared += int64(n)
	return n
}

// Len returns the number of queued utterances.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Stats returns a snapshot of the queue counters.
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

// Close wakes every waiter and rejects further operations.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	q.signal()
	return nil
}

// signal must be called with the lock held.
func (q *Queue) signal() {
	close(q.ready)
	q.ready = make(chan struct{})
}
