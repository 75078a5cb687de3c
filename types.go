// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq

// Queue is the combined producer-consumer interface for an unbounded
// FIFO queue.
//
// Enqueue appends and never fails; Dequeue is non-blocking and returns
// ErrWouldBlock when the queue is observed empty. Lock-free variants may
// report emptiness spuriously while a concurrent enqueue is in flight;
// callers that expect more data should retry (with backoff or yield).
//
// The interface intentionally excludes length because accurate counts in
// lock-free algorithms require expensive cross-core synchronization.
// Track counts in application logic when needed.
//
// Example:
//
//	q := linkq.NewMS[int]()
//
//	v := 42
//	q.Enqueue(&v)
//
//	elem, err := q.Dequeue()
//	if err == nil {
//		fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs.
// The queue stores a copy of the pointed-to value, so the original can
// be modified after Enqueue returns.
type Producer[T any] interface {
	// Enqueue appends an element to the logical tail.
	// The queue is unbounded: Enqueue never fails and never blocks
	// indefinitely under contention (locked variants wait only on the
	// lock; lock-free variants guarantee global progress).
	Enqueue(elem *T)
}

// Consumer is the interface for dequeueing elements.
//
// Dequeue returns the element by value, copied out of the removed node.
// The node itself becomes unreachable and is reclaimed by the garbage
// collector, so a stale reader can never observe a recycled slot.
type Consumer[T any] interface {
	// Dequeue removes and returns the oldest remaining element
	// (non-blocking). Returns (zero-value, ErrWouldBlock) if the queue
	// is observed empty at the linearisation point.
	Dequeue() (T, error)
}

// Attacher yields a per-worker view of a shared queue.
//
// The shared variants (lock-based, Michael–Scott) return themselves;
// the batch variants return a fresh handle carrying that worker's local
// stage buffer. Each worker goroutine attaches once and uses only its
// own view; a view must not be shared across goroutines.
//
// Example:
//
//	shared := linkq.NewBatch[int](16)
//
//	go func() { // one view per worker
//	    q := shared.Attach()
//	    for _, v := range produce() {
//	        q.Enqueue(&v)
//	    }
//	    if f, ok := q.(linkq.Flusher); ok {
//	        f.Flush()
//	    }
//	}()
type Attacher[T any] interface {
	Attach() Queue[T]
}

// Flusher publishes a partially filled local stage buffer.
//
// Batch queue views implement this interface. Call Flush after a
// producer loop finishes so that items below the batch threshold become
// visible to consumers without waiting for further enqueues.
//
// Flush is a no-op on an empty buffer. The type assertion naturally
// handles views without local staging:
//
//	if f, ok := q.(linkq.Flusher); ok {
//	    f.Flush()
//	}
type Flusher interface {
	Flush()
}

// SpinLock is the mutual-exclusion capability backing the lock-based
// queue.
//
// Acquire blocks (by spinning) until the caller holds the lock; Release
// transfers holdership. At most one holder exists at any time, and a
// Release happens-before the next successful Acquire. Fairness is not
// required in general: TASLock makes no ordering promise, CLHLock
// admits waiters in FIFO order.
type SpinLock interface {
	Acquire()
	Release()
}
