// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package linkq_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/linkq"
)

// =============================================================================
// Backoff Batch Queue
// =============================================================================

// TestBackoffStagingParity verifies the backoff variant keeps the batch
// variant's staging semantics: same threshold behavior, same Flush.
func TestBackoffStagingParity(t *testing.T) {
	shared := linkq.NewBackoff[int](8)
	producer := shared.Attach()
	consumer := shared.Attach()

	for i := range 8 {
		producer.Enqueue(&i)
	}
	if _, err := consumer.Dequeue(); !errors.Is(err, linkq.ErrWouldBlock) {
		t.Fatalf("Dequeue before splice: got %v, want ErrWouldBlock", err)
	}

	v := 8
	producer.Enqueue(&v)
	for i := range 8 {
		val, err := consumer.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != i {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, val, i)
		}
	}

	producer.(linkq.Flusher).Flush()
	val, err := consumer.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue after Flush: %v", err)
	}
	if val != 8 {
		t.Fatalf("Dequeue after Flush: got %d, want 8", val)
	}
}

// TestBackoffUnderContention drives many producers splicing into the
// same tail. The check is progress and conservation, not timing: the
// backoff path must never lose or duplicate a batch however often the
// link CAS is lost.
func TestBackoffUnderContention(t *testing.T) {
	if linkq.RaceEnabled {
		t.Skip("skip: stress volume is impractical under the race detector")
	}

	const (
		numP         = 16
		itemsPerProd = 5_000
		threshold    = 4 // small batches maximize splice frequency
	)
	shared := linkq.NewBackoff[int](threshold)

	var wg sync.WaitGroup
	wg.Add(numP)
	start := make(chan struct{})
	for p := 0; p < numP; p++ {
		go func(id int) {
			defer wg.Done()
			q := shared.Attach()
			<-start
			for i := 0; i < itemsPerProd; i++ {
				v := id*1_000_000 + i
				q.Enqueue(&v)
			}
			q.(linkq.Flusher).Flush()
		}(p)
	}
	close(start)
	wg.Wait()

	seen := make([]atomix.Int32, numP*itemsPerProd)
	q := shared.Attach()
	got := 0
	for {
		v, err := q.Dequeue()
		if err != nil {
			break
		}
		seen[(v/1_000_000)*itemsPerProd+v%1_000_000].Add(1)
		got++
	}
	if got != numP*itemsPerProd {
		t.Fatalf("dequeued %d items, want %d", got, numP*itemsPerProd)
	}
	for i := range seen {
		if seen[i].Load() != 1 {
			t.Fatalf("value index %d delivered %d times, want 1", i, seen[i].Load())
		}
	}
}

// TestBackoffDrainLatency bounds the time a splice burst takes end to
// end; the 50µs delay cap keeps worst-case staging latency far below
// the watchdog scale.
func TestBackoffDrainLatency(t *testing.T) {
	if linkq.RaceEnabled {
		t.Skip("skip: timing test")
	}
	shared := linkq.NewBackoff[int](2)
	q := shared.Attach()
	start := time.Now()
	for i := range 10_000 {
		q.Enqueue(&i)
	}
	q.(linkq.Flusher).Flush()
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("uncontended splice burst took %v", elapsed)
	}
}
