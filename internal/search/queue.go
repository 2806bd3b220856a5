package search

import "sync"

// Unbounded is a multi-producer queue whose Push never blocks: memory
// is the only bound on outstanding items, so producers see no
// backpressure. Consumers choose between the non-blocking TryPop
// (the dispatch loop's poll) and the blocking Pop (the reporter).
type Unbounded[T any] struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    []T
	closed   bool
}

// NewUnbounded returns an empty open queue.
func NewUnbounded[T any]() *Unbounded[T] {
	q := &Unbounded[T]{}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

// Push appends v. It fails only after Close, which means the
// consumer side has already terminated.
func (q *Unbounded[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return Sendf("push on closed queue")
	}
	q.items = append(q.items, v)
	q.nonEmpty.Signal()
	return nil
}

// TryPop removes the oldest item without blocking. The second return
// is false when the queue is currently empty or closed and drained.
func (q *Unbounded[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.pop(), true
}

// Pop blocks until an item is available or the queue is closed and
// drained, in which case the second return is false.
func (q *Unbounded[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.nonEmpty.Wait()
	}
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.pop(), true
}

func (q *Unbounded[T]) pop() T {
	v := q.items[0]
	q.items = q.items[1:]
	return v
}

// Close rejects further pushes and wakes blocked consumers once the
// remaining items are drained. Callers close only after every
// producer has terminated.
func (q *Unbounded[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.nonEmpty.Broadcast()
}

// Len reports the number of queued items.
func (q *Unbounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
