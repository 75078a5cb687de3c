// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq

import "code.hybscloud.com/spin"

// DefaultBatchThreshold is the stage buffer size that triggers a splice
// when no explicit threshold is configured.
const DefaultBatchThreshold = 16

// MinBatchThreshold is the smallest accepted threshold; lower values
// are clamped.
const MinBatchThreshold = 2

// localBuf is a per-worker staging fragment: a detached chain of nodes
// not yet published to the shared list. It is owned by exactly one
// goroutine and never observed concurrently.
type localBuf[T any] struct {
	first *node[T]
	last  *node[T]
	size  int
}

func (b *localBuf[T]) add(n *node[T]) {
	if b.first == nil {
		b.first, b.last = n, n
	} else {
		// Still thread-local; the release CAS that later publishes
		// first makes the whole chain visible downstream.
		b.last.next.Store(n)
		b.last = n
	}
	b.size++
}

func (b *localBuf[T]) empty() bool { return b.size == 0 }

func (b *localBuf[T]) clear() {
	b.first, b.last = nil, nil
	b.size = 0
}

// BatchQueue is a lock-free unbounded queue with per-worker batching.
//
// The shared structure is the MS queue; on top of it every worker view
// stages enqueued items in a local chain and splices the whole chain
// onto the shared tail in a single CAS once it reaches the batch
// threshold. Amortizing many enqueues over one shared CAS cuts
// contention on the tail dramatically under heavy multi-producer load.
//
// Items of one batch linearise together at the splice CAS and keep
// their local order; batches never interleave. A staged item is
// invisible to other workers until its batch is spliced; call Flush on
// the view (or keep dequeuing from it) to publish a partial batch.
//
// Use Attach to obtain per-worker views; the BatchQueue itself only
// carries the shared list and the threshold.
type BatchQueue[T any] struct {
	list      MSQueue[T]
	threshold int
}

// NewBatch creates a batch queue. threshold is the stage buffer size
// that forces a splice; zero or negative selects
// DefaultBatchThreshold, values below MinBatchThreshold are clamped.
func NewBatch[T any](threshold int) *BatchQueue[T] {
	q := &BatchQueue[T]{threshold: normalizeThreshold(threshold)}
	sentinel := new(node[T])
	q.list.head.Store(sentinel)
	q.list.tail.Store(sentinel)
	return q
}

func normalizeThreshold(threshold int) int {
	if threshold <= 0 {
		return DefaultBatchThreshold
	}
	if threshold < MinBatchThreshold {
		return MinBatchThreshold
	}
	return threshold
}

// Attach returns a fresh per-worker view carrying its own stage buffer.
func (q *BatchQueue[T]) Attach() Queue[T] {
	return &BatchView[T]{q: q}
}

// splice publishes the chain [buf.first..buf.last] onto the shared tail
// in one CAS and clears the buffer. The release semantics of the link
// CAS make every internal next pointer of the chain visible downstream.
func (q *BatchQueue[T]) splice(buf *localBuf[T]) {
	first, last := buf.first, buf.last
	if first == nil {
		return
	}
	sw := spin.Wait{}
	for {
		t := q.list.tail.Load()
		next := t.next.Load()
		if t == q.list.tail.Load() {
			if next == nil {
				if t.next.CompareAndSwap(nil, first) {
					// Swing tail straight to the batch end; helpers
					// advance it step by step if this CAS loses.
					q.list.tail.CompareAndSwap(t, last)
					buf.clear()
					return
				}
			} else {
				// Someone else linked first; help advance tail.
				q.list.tail.CompareAndSwap(t, next)
			}
		}
		sw.Once()
	}
}

// BatchView is a per-worker view of a BatchQueue. Not safe for use by
// more than one goroutine.
type BatchView[T any] struct {
	q   *BatchQueue[T]
	buf localBuf[T]
}

// Enqueue stages the element in the local buffer. When the buffer
// already holds a full batch, that batch is spliced onto the shared
// list first, so the n-th item past the threshold publishes the
// preceding threshold-sized batch.
func (v *BatchView[T]) Enqueue(elem *T) {
	if v.buf.size >= v.q.threshold {
		v.q.splice(&v.buf)
	}
	v.buf.add(&node[T]{value: *elem})
}

// Dequeue removes and returns the head element of the shared list.
// When the shared list is observed empty but this view holds staged
// items, the stage buffer is spliced first and the dequeue retried, so
// a worker that both produces and consumes cannot starve on its own
// pending batch. Returns (zero-value, ErrWouldBlock) if empty.
func (v *BatchView[T]) Dequeue() (T, error) {
	q := &v.q.list
	sw := spin.Wait{}
	for {
		h := q.head.Load()
		t := q.tail.Load()
		next := h.next.Load()
		if h == q.head.Load() {
			if h == t {
				if next == nil {
					if !v.buf.empty() {
						v.q.splice(&v.buf)
						continue
					}
					var zero T
					return zero, ErrWouldBlock
				}
				q.tail.CompareAndSwap(t, next)
			} else {
				// Read the value before the head CAS; afterwards next
				// is the new sentinel.
				val := next.value
				if q.head.CompareAndSwap(h, next) {
					return val, nil
				}
			}
		}
		sw.Once()
	}
}

// Flush splices a partially filled stage buffer onto the shared list.
// No-op when nothing is staged.
func (v *BatchView[T]) Flush() {
	v.q.splice(&v.buf)
}
