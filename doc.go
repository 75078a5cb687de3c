// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package linkq provides unbounded linked-list FIFO queue implementations
// for comparing lock-based and lock-free queue designs under
// multi-producer/multi-consumer workloads.
//
// The package offers four queue families:
//
//   - Locked: a doubly-linked queue guarded by a pluggable spin lock
//     (test-and-set or CLH)
//   - MS: the Michael–Scott lock-free queue
//   - Batch: a lock-free queue with per-worker staging that splices
//     whole batches onto the shared tail in a single CAS
//   - Backoff: the batch queue with exponential backoff on tail-CAS
//     contention
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	q := linkq.NewMS[Event]()
//	q := linkq.NewLocked[*Request](linkq.NewCLH())
//	q := linkq.NewBatch[Event](16)
//
// Builder API selects the variant by name (useful when the variant is
// configuration-driven):
//
//	shared := linkq.Build[Event](linkq.New(linkq.VariantBatch).BatchThreshold(32))
//	q := shared.Attach()
//
// # Basic Usage
//
// All queues share the same interface for enqueueing and dequeueing:
//
//	q := linkq.NewMS[int]()
//
//	// Enqueue (unbounded, never fails)
//	value := 42
//	q.Enqueue(&value)
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if linkq.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Per-Worker Views
//
// The batch variants keep a thread-local stage buffer. Go has no
// thread-local storage, so staging state travels in an explicit
// per-worker view obtained from Attach:
//
//	shared := linkq.NewBatch[Task](16)
//
//	// Producer
//	go func() {
//	    q := shared.Attach()
//	    for task := range tasks {
//	        q.Enqueue(&task)
//	    }
//	    if f, ok := q.(linkq.Flusher); ok {
//	        f.Flush() // publish the final partial batch
//	    }
//	}()
//
//	// Consumer
//	go func() {
//	    q := shared.Attach()
//	    backoff := iox.Backoff{}
//	    for {
//	        task, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(task)
//	    }
//	}()
//
// The shared variants implement Attach too (returning themselves), so
// harness code can treat every family uniformly through Attacher.
//
// # Ordering
//
// Every variant is FIFO per queue. The linearisation point differs:
// lock acquisition order for the locked queue, the CAS that installs a
// node as tail.next for the MS queue, and the CAS that splices a batch
// for the batch variants. Items inside one batch become visible
// atomically and keep their local order; batches never interleave.
//
// # Emptiness
//
// Dequeue returns [ErrWouldBlock] when the queue is observed empty.
// For the lock-free variants emptiness may be spurious: a concurrent
// enqueue that has not linearised yet is invisible. Consumers that
// expect further data retry with backoff:
//
//	backoff := iox.Backoff{}
//	for {
//	    elem, err := q.Dequeue()
//	    if err != nil {
//	        backoff.Wait()
//	        continue
//	    }
//	    backoff.Reset()
//	    handle(elem)
//	}
//
// # Memory Reclamation
//
// Nodes are linked only after they are fully constructed and become
// unreachable after head advances past them; the garbage collector
// reclaims them. No hazard pointers or epoch schemes are needed, and a
// dequeuer that read a next pointer before a concurrent head advance
// still holds a valid node.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but
// cannot observe happens-before relationships established through
// atomic memory orderings. The spin locks and lock-free lists here
// synchronise through atomics with acquire-release semantics, which the
// detector may flag as false positives. Stress-volume and
// timing-sensitive tests skip themselves at run time when
// [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package linkq
