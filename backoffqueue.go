// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq

import (
	"time"

	"code.hybscloud.com/spin"
)

const (
	backoffMinDelay = 50 * time.Nanosecond
	backoffMaxDelay = 50 * time.Microsecond
	backoffMaxShift = 10
)

// backoffPause busy-waits for backoffMinDelay << fails, capped at
// backoffMaxDelay. The shift saturates at backoffMaxShift so the delay
// computation cannot overflow regardless of the failure count.
func backoffPause(fails int) {
	shift := fails
	if shift > backoffMaxShift {
		shift = backoffMaxShift
	}
	delay := backoffMinDelay << shift
	if delay > backoffMaxDelay {
		delay = backoffMaxDelay
	}
	sw := spin.Wait{}
	start := time.Now()
	for time.Since(start) < delay {
		sw.Once()
	}
}

// BackoffBatchQueue is the batch queue with exponential backoff on
// splice contention.
//
// Identical to BatchQueue except for the retry policy of the splice
// CAS: each consecutive failed attempt to link the staged chain doubles
// a busy-wait delay before the next attempt, from 50ns up to 50µs.
// Helping a lagging tail forward is not contention and never counts as
// a failure; winning the link CAS resets nothing because the buffer is
// gone.
//
// Under moderate producer counts the plain BatchQueue usually wins; the
// backoff variant pulls ahead when many producers splice into the same
// tail and raw retry traffic starts to degrade everyone's progress.
type BackoffBatchQueue[T any] struct {
	list      MSQueue[T]
	threshold int
}

// NewBackoff creates a backoff batch queue. threshold follows the same
// rules as NewBatch.
func NewBackoff[T any](threshold int) *BackoffBatchQueue[T] {
	q := &BackoffBatchQueue[T]{threshold: normalizeThreshold(threshold)}
	sentinel := new(node[T])
	q.list.head.Store(sentinel)
	q.list.tail.Store(sentinel)
	return q
}

// Attach returns a fresh per-worker view carrying its own stage buffer.
func (q *BackoffBatchQueue[T]) Attach() Queue[T] {
	return &BackoffView[T]{q: q}
}

// splice publishes the staged chain like BatchQueue.splice, but after
// every direct link-CAS failure it backs off exponentially before
// retrying. Only lost link CASes count; helper iterations that advance
// a lagging tail retry immediately.
func (q *BackoffBatchQueue[T]) splice(buf *localBuf[T]) {
	first, last := buf.first, buf.last
	if first == nil {
		return
	}
	fails := 0
	for {
		t := q.list.tail.Load()
		next := t.next.Load()
		if t == q.list.tail.Load() {
			if next == nil {
				if t.next.CompareAndSwap(nil, first) {
					q.list.tail.CompareAndSwap(t, last)
					buf.clear()
					return
				}
				// Lost the link CAS to another producer.
				backoffPause(fails)
				fails++
				continue
			}
			q.list.tail.CompareAndSwap(t, next)
		}
	}
}

// BackoffView is a per-worker view of a BackoffBatchQueue. Not safe for
// use by more than one goroutine.
type BackoffView[T any] struct {
	q   *BackoffBatchQueue[T]
	buf localBuf[T]
}

// Enqueue stages the element in the local buffer, splicing a full batch
// onto the shared list first.
func (v *BackoffView[T]) Enqueue(elem *T) {
	if v.buf.size >= v.q.threshold {
		v.q.splice(&v.buf)
	}
	v.buf.add(&node[T]{value: *elem})
}

// Dequeue removes and returns the head element of the shared list,
// splicing this view's own staged items first when the shared list is
// observed empty. Returns (zero-value, ErrWouldBlock) if empty.
func (v *BackoffView[T]) Dequeue() (T, error) {
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
func (v *BackoffView[T]) Flush() {
	v.q.splice(&v.buf)
}
