// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq

// lockNode is a doubly-linked list element of LockedQueue.
type lockNode[T any] struct {
	value T
	next  *lockNode[T]
	prev  *lockNode[T]
}

// LockedQueue is a coarse-grained locked FIFO queue.
//
// A doubly-linked sequence guarded by one SpinLock; every operation
// holds the lock for its minimal critical section. FIFO order is the
// lock acquisition order. The variant exists as the baseline the
// lock-free queues are measured against.
type LockedQueue[T any] struct {
	lock  SpinLock
	first *lockNode[T]
	last  *lockNode[T]
	size  int
}

// NewLocked creates a locked queue guarded by the given spin lock.
//
//	q := linkq.NewLocked[int](new(linkq.TASLock))
//	q := linkq.NewLocked[int](linkq.NewCLH())
func NewLocked[T any](lock SpinLock) *LockedQueue[T] {
	return &LockedQueue[T]{lock: lock}
}

// Enqueue appends an element to the tail.
func (q *LockedQueue[T]) Enqueue(elem *T) {
	n := &lockNode[T]{value: *elem}

	q.lock.Acquire()
	if q.last == nil {
		q.first, q.last = n, n
	} else {
		n.prev = q.last
		q.last.next = n
		q.last = n
	}
	q.size++
	q.lock.Release()
}

// Dequeue removes and returns the head element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *LockedQueue[T]) Dequeue() (T, error) {
	q.lock.Acquire()
	n := q.first
	if n == nil {
		q.lock.Release()
		var zero T
		return zero, ErrWouldBlock
	}
	q.first = n.next
	if q.first == nil {
		q.last = nil
	} else {
		q.first.prev = nil
	}
	q.size--
	q.lock.Release()

	n.next = nil
	return n.value, nil
}

// Len returns the current element count. Informational only: the value
// may be stale by the time the caller observes it.
func (q *LockedQueue[T]) Len() int {
	q.lock.Acquire()
	n := q.size
	q.lock.Release()
	return n
}

// Attach returns the queue itself; the locked variant needs no
// per-worker state.
func (q *LockedQueue[T]) Attach() Queue[T] {
	return q
}
