// Package output owns final narration delivery: a bounded
// class-partitioned queue fed by the producers, drained by a single
// consumer that speaks one item at a time.
package output

import (
	"sync"

	"github.com/riftcast/riftcast/internal/domain"
	"github.com/riftcast/riftcast/internal/logger"
)

// Queue is the bounded priority queue in front of the speech renderer.
// Lower classes drain first; within a class order is FIFO. The top of
// the capacity is reserved headroom only ClassGame may use, so viewer
// questions and system notices can never starve live narration.
//
// Push never blocks. A rejected item is dropped at the producer with a
// sentinel error; producers log and move on.
type Queue struct {
	mu      sync.Mutex
	classes [3][]domain.NarrationRequest
	size    int

	max      int
	reserved int

	notify chan struct{}
	log    *logger.Logger
}

// NewQueue creates a queue holding at most max items, with only max
// minus reserved slots available to non-game classes.
func NewQueue(max, reserved int, log *logger.Logger) *Queue {
	return &Queue{
		max:      max,
		reserved: reserved,
		notify:   make(chan struct{}, 1),
		log:      log,
	}
}

// Push enqueues a request or rejects it. ClassGame is rejected only
// when the queue is completely full; everything else is also rejected
// once the reserved watermark is reached.
func (q *Queue) Push(req domain.NarrationRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size >= q.max {
		q.log.Warn("queue full, dropping %s item", req.Class)
		return domain.ErrQueueFull
	}
	if req.Class != domain.ClassGame && q.size >= q.reserved {
		q.log.Warn("queue at reserved watermark, dropping %s item", req.Class)
		return domain.ErrReservedFull
	}

	q.classes[req.Class] = append(q.classes[req.Class], req)
	q.size++

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Pop removes and returns the next request: the oldest item of the
// lowest non-empty class. ok is false when the queue is empty.
func (q *Queue) Pop() (req domain.NarrationRequest, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for class := range q.classes {
		items := q.classes[class]
		if len(items) == 0 {
			continue
		}
		req = items[0]
		q.classes[class] = items[1:]
		q.size--
		return req, true
	}
	return domain.NarrationRequest{}, false
}

// Len returns the total number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Wait returns the channel the consumer blocks on. It carries one
// token per wakeup, not per item; the consumer drains until Pop fails.
func (q *Queue) Wait() <-chan struct{} { return q.notify }
