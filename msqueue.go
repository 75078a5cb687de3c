// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// node is a singly-linked list element shared by the lock-free queues.
// value is write-once at construction; next transitions nil → successor
// exactly once, under the CAS that publishes it.
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// MSQueue is the Michael & Scott (1996) lock-free unbounded queue.
//
// A singly-linked list with a permanent sentinel. head references the
// sentinel whose successor holds the next dequeuable item; tail
// references some node at or behind the true last node, lagging by at
// most one step. Both are advanced by CAS; every operation helps a
// lagging tail forward, which gives lock-freedom: at least one
// operation completes in a bounded number of steps system-wide.
//
// Multi-producer multi-consumer safe. This is the same design that
// underlies most runtime-provided concurrent linked queues, and it is
// the shared substrate of the batch variants.
type MSQueue[T any] struct {
	_    pad
	head atomic.Pointer[node[T]]
	_    pad
	tail atomic.Pointer[node[T]]
	_    pad
}

// NewMS creates an empty Michael–Scott queue.
func NewMS[T any]() *MSQueue[T] {
	q := &MSQueue[T]{}
	sentinel := new(node[T])
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Enqueue appends an element to the tail. Lock-free; never fails.
func (q *MSQueue[T]) Enqueue(elem *T) {
	n := &node[T]{value: *elem}
	sw := spin.Wait{}
	for {
		t := q.tail.Load()
		next := t.next.Load()
		if t == q.tail.Load() {
			if next == nil {
				// Link at the end, then swing tail (best effort:
				// a helper advances it if our CAS loses).
				if t.next.CompareAndSwap(nil, n) {
					q.tail.CompareAndSwap(t, n)
					return
				}
			} else {
				// Tail is lagging; help advance it.
				q.tail.CompareAndSwap(t, next)
			}
		}
		sw.Once()
	}
}

// Dequeue removes and returns the head element. Lock-free.
// Returns (zero-value, ErrWouldBlock) if the queue is observed empty.
func (q *MSQueue[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		h := q.head.Load()
		t := q.tail.Load()
		next := h.next.Load()
		if h == q.head.Load() {
			if h == t {
				if next == nil {
					var zero T
					return zero, ErrWouldBlock
				}
				// Tail is behind; help advance it.
				q.tail.CompareAndSwap(t, next)
			} else {
				// The value must be read before the head CAS: once the
				// CAS succeeds, next is the new sentinel and another
				// dequeuer may treat its slot as dead.
				v := next.value
				if q.head.CompareAndSwap(h, next) {
					return v, nil
				}
			}
		}
		sw.Once()
	}
}

// Attach returns the queue itself; the MS variant needs no per-worker
// state.
func (q *MSQueue[T]) Attach() Queue[T] {
	return q
}
