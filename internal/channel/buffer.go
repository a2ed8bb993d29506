package channel

import (
	"sync"

	"github.com/tradestack/trade-store/internal/model"
)

// partitionQueue is a growable FIFO ring holding the envelopes of one
// in-memory partition. Peek returns the head without removing it; the head is
// removed only on Ack, so an envelope fetched but never acknowledged is
// delivered again.
type partitionQueue struct {
	mu       sync.Mutex
	buf      []model.Envelope
	head     int
	tail     int
	count    int
	capacity int
	inflight bool
}

func newPartitionQueue(initialCapacity int) *partitionQueue {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return &partitionQueue{
		buf:      make([]model.Envelope, initialCapacity),
		capacity: initialCapacity,
	}
}

// push appends an envelope, growing the ring when it reaches 70% capacity.
func (q *partitionQueue) push(env model.Envelope) {
	q.mu.Lock()
	defer q.mu.Unlock()

	threshold := (q.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}
	if q.count+1 >= threshold {
		q.grow()
	}

	q.buf[q.tail] = env
	q.tail = (q.tail + 1) % q.capacity
	q.count++
}

// peek returns the head envelope and marks the partition in flight.
// Returns false when the partition is empty or already has a delivery out.
func (q *partitionQueue) peek() (model.Envelope, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 || q.inflight {
		return model.Envelope{}, false
	}
	q.inflight = true
	return q.buf[q.head], true
}

// ack removes the in-flight head and allows the next delivery.
func (q *partitionQueue) ack() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.inflight {
		return
	}
	q.buf[q.head] = model.Envelope{}
	q.head = (q.head + 1) % q.capacity
	q.count--
	q.inflight = false
}

// release clears the in-flight mark without removing the head, so the
// envelope is redelivered on the next peek.
func (q *partitionQueue) release() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inflight = false
}

func (q *partitionQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// grow doubles the ring capacity. Must be called with lock held.
func (q *partitionQueue) grow() {
	newCapacity := q.capacity * 2
	newBuf := make([]model.Envelope, newCapacity)

	if q.count > 0 {
		if q.head < q.tail {
			copy(newBuf, q.buf[q.head:q.tail])
		} else {
			n := copy(newBuf, q.buf[q.head:])
			copy(newBuf[n:], q.buf[:q.tail])
		}
	}

	q.buf = newBuf
	q.head = 0
	q.tail = q.count
	q.capacity = newCapacity
}
