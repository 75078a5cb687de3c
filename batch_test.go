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
// Batch Staging and Splice Visibility
// =============================================================================

// TestBatchStagingInvisible verifies staged items stay invisible to
// other views until a full batch is spliced: with threshold 16, the
// first 16 enqueues publish nothing, the 17th publishes exactly the
// first 16.
func TestBatchStagingInvisible(t *testing.T) {
	shared := linkq.NewBatch[int](16)
	producer := shared.Attach()
	consumer := shared.Attach()

	for i := range 16 {
		producer.Enqueue(&i)
	}
	if _, err := consumer.Dequeue(); !errors.Is(err, linkq.ErrWouldBlock) {
		t.Fatalf("Dequeue before splice: got %v, want ErrWouldBlock", err)
	}

	v := 16
	producer.Enqueue(&v) // splices the staged 16

	for i := range 16 {
		val, err := consumer.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != i {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, val, i)
		}
	}

	// The 17th item is staged again.
	if _, err := consumer.Dequeue(); !errors.Is(err, linkq.ErrWouldBlock) {
		t.Fatalf("Dequeue of staged 17th: got %v, want ErrWouldBlock", err)
	}

	producer.(linkq.Flusher).Flush()
	val, err := consumer.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue after Flush: %v", err)
	}
	if val != 16 {
		t.Fatalf("Dequeue after Flush: got %d, want 16", val)
	}
}

// TestBatchFlushEmpty verifies Flush on an empty stage buffer is a
// no-op.
func TestBatchFlushEmpty(t *testing.T) {
	shared := linkq.NewBatch[int](8)
	q := shared.Attach()
	q.(linkq.Flusher).Flush()
	if _, err := q.Dequeue(); !errors.Is(err, linkq.ErrWouldBlock) {
		t.Fatalf("Dequeue after empty Flush: got %v, want ErrWouldBlock", err)
	}
}

// TestBatchSelfSplice verifies a view that produced below the threshold
// can dequeue its own staged items without an explicit Flush.
func TestBatchSelfSplice(t *testing.T) {
	shared := linkq.NewBatch[int](16)
	q := shared.Attach()

	for i := range 3 {
		q.Enqueue(&i)
	}
	for i := range 3 {
		val, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != i {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, val, i)
		}
	}
	if _, err := q.Dequeue(); !errors.Is(err, linkq.ErrWouldBlock) {
		t.Fatalf("Dequeue after drain: got %v, want ErrWouldBlock", err)
	}
}

// TestBatchViewsIndependent verifies two views stage independently and
// each view's items keep their local order after both are flushed.
func TestBatchViewsIndependent(t *testing.T) {
	shared := linkq.NewBatch[int](4)
	a := shared.Attach()
	b := shared.Attach()

	for i := range 4 {
		v := 100 + i
		a.Enqueue(&v)
		w := 200 + i
		b.Enqueue(&w)
	}
	a.(linkq.Flusher).Flush()
	b.(linkq.Flusher).Flush()

	c := shared.Attach()
	got := drain(c)
	if len(got) != 8 {
		t.Fatalf("drained %d items, want 8", len(got))
	}
	// Each view's items keep their local order.
	nextA, nextB := 100, 200
	for _, v := range got {
		switch {
		case v >= 200:
			if v != nextB {
				t.Fatalf("view b order: got %d, want %d", v, nextB)
			}
			nextB++
		default:
			if v != nextA {
				t.Fatalf("view a order: got %d, want %d", v, nextA)
			}
			nextA++
		}
	}
}

// TestBatchThresholdNormalization checks the default and the minimum
// clamp.
func TestBatchThresholdNormalization(t *testing.T) {
	// Zero selects the default: 16 staged items stay invisible.
	shared := linkq.NewBatch[int](0)
	p := shared.Attach()
	c := shared.Attach()
	for i := range linkq.DefaultBatchThreshold {
		p.Enqueue(&i)
	}
	if _, err := c.Dequeue(); !errors.Is(err, linkq.ErrWouldBlock) {
		t.Fatalf("default threshold: staged batch visible too early: %v", err)
	}

	// Threshold 1 clamps to 2: the second enqueue must not splice,
	// the third must.
	shared2 := linkq.NewBatch[int](1)
	p2 := shared2.Attach()
	c2 := shared2.Attach()
	for i := range 2 {
		p2.Enqueue(&i)
	}
	if _, err := c2.Dequeue(); !errors.Is(err, linkq.ErrWouldBlock) {
		t.Fatalf("clamped threshold: staged batch visible too early: %v", err)
	}
	v := 2
	p2.Enqueue(&v)
	if _, err := c2.Dequeue(); err != nil {
		t.Fatalf("clamped threshold: splice missing: %v", err)
	}
}
