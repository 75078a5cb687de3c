// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/linkq"
)

// =============================================================================
// Single-Goroutine Basic Operations
// =============================================================================

// allVariants constructs one queue per variant for table-driven tests.
func allVariants() map[string]linkq.Attacher[int] {
	out := make(map[string]linkq.Attacher[int])
	for _, v := range linkq.Variants() {
		out[string(v)] = linkq.Build[int](linkq.New(v).BatchThreshold(4))
	}
	return out
}

// drain dequeues through the view until empty, flushing staged items
// first so batch views publish their partial buffers.
func drain(q linkq.Queue[int]) []int {
	if f, ok := q.(linkq.Flusher); ok {
		f.Flush()
	}
	var out []int
	for {
		v, err := q.Dequeue()
		if err != nil {
			return out
		}
		out = append(out, v)
	}
}

// TestFIFOAllVariants verifies single-goroutine FIFO order and the
// empty indicator for every variant.
func TestFIFOAllVariants(t *testing.T) {
	for name, shared := range allVariants() {
		t.Run(name, func(t *testing.T) {
			q := shared.Attach()

			if _, err := q.Dequeue(); !errors.Is(err, linkq.ErrWouldBlock) {
				t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
			}

			for i := range 100 {
				v := i + 100
				q.Enqueue(&v)
			}
			if f, ok := q.(linkq.Flusher); ok {
				f.Flush()
			}

			for i := range 100 {
				val, err := q.Dequeue()
				if err != nil {
					t.Fatalf("Dequeue(%d): %v", i, err)
				}
				if val != i+100 {
					t.Fatalf("Dequeue(%d): got %d, want %d", i, val, i+100)
				}
			}

			if _, err := q.Dequeue(); !errors.Is(err, linkq.ErrWouldBlock) {
				t.Fatalf("Dequeue after drain: got %v, want ErrWouldBlock", err)
			}
		})
	}
}

// TestInterleavedAllVariants alternates enqueue and dequeue so head and
// tail chase each other through many nodes.
func TestInterleavedAllVariants(t *testing.T) {
	for name, shared := range allVariants() {
		t.Run(name, func(t *testing.T) {
			q := shared.Attach()
			next := 0
			for i := range 1000 {
				q.Enqueue(&i)
				if i%3 == 2 {
					continue // let the queue grow
				}
				val, err := q.Dequeue()
				if err != nil {
					t.Fatalf("Dequeue at %d: %v", i, err)
				}
				if val != next {
					t.Fatalf("Dequeue at %d: got %d, want %d", i, val, next)
				}
				next++
			}
			rest := drain(q)
			for _, val := range rest {
				if val != next {
					t.Fatalf("drain: got %d, want %d", val, next)
				}
				next++
			}
			if next != 1000 {
				t.Fatalf("total dequeued: got %d, want 1000", next)
			}
		})
	}
}

// TestEnqueueCopiesValue verifies the queue stores the pointed-to value
// at enqueue time, not the pointer.
func TestEnqueueCopiesValue(t *testing.T) {
	q := linkq.NewMS[int]()
	v := 7
	q.Enqueue(&v)
	v = 8
	got, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got != 7 {
		t.Fatalf("Dequeue: got %d, want 7", got)
	}
}

// TestLenLocked verifies the informational length counter of the
// lock-based queue.
func TestLenLocked(t *testing.T) {
	q := linkq.NewLocked[int](new(linkq.TASLock))
	for i := range 5 {
		q.Enqueue(&i)
	}
	if got := q.Len(); got != 5 {
		t.Fatalf("Len: got %d, want 5", got)
	}
	if _, err := q.Dequeue(); err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got := q.Len(); got != 4 {
		t.Fatalf("Len after dequeue: got %d, want 4", got)
	}
}

// =============================================================================
// Builder
// =============================================================================

// TestBuilderVariants checks each variant name builds the matching
// implementation.
func TestBuilderVariants(t *testing.T) {
	tests := []struct {
		variant linkq.Variant
		want    string
	}{
		{linkq.VariantLockTAS, "*linkq.LockedQueue[int]"},
		{linkq.VariantLockCLH, "*linkq.LockedQueue[int]"},
		{linkq.VariantMS, "*linkq.MSQueue[int]"},
		{linkq.VariantBatch, "*linkq.BatchQueue[int]"},
		{linkq.VariantBackoff, "*linkq.BackoffBatchQueue[int]"},
	}
	for _, tc := range tests {
		shared := linkq.Build[int](linkq.New(tc.variant))
		var got string
		switch shared.(type) {
		case *linkq.LockedQueue[int]:
			got = "*linkq.LockedQueue[int]"
		case *linkq.MSQueue[int]:
			got = "*linkq.MSQueue[int]"
		case *linkq.BatchQueue[int]:
			got = "*linkq.BatchQueue[int]"
		case *linkq.BackoffBatchQueue[int]:
			got = "*linkq.BackoffBatchQueue[int]"
		}
		if got != tc.want {
			t.Fatalf("Build(%s): got %s, want %s", tc.variant, got, tc.want)
		}
	}
}

// TestBuilderUnknownVariant checks the builder panics on a name outside
// Variants.
func TestBuilderUnknownVariant(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New with unknown variant: no panic")
		}
	}()
	linkq.New(linkq.Variant("bogus"))
}

// TestErrorClassification checks the would-block signal is semantic and
// non-failing.
func TestErrorClassification(t *testing.T) {
	q := linkq.NewMS[int]()
	_, err := q.Dequeue()
	if !linkq.IsWouldBlock(err) {
		t.Fatalf("IsWouldBlock: got false for %v", err)
	}
	if !linkq.IsSemantic(err) {
		t.Fatalf("IsSemantic: got false for %v", err)
	}
	if !linkq.IsNonFailure(err) {
		t.Fatalf("IsNonFailure: got false for %v", err)
	}
}
