// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sim

import (
	"math/rand"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"

	"code.hybscloud.com/linkq"
	"code.hybscloud.com/linkq/internal/bench"
)

// Worker serves requests from its own queue view until it dequeues a
// poison sentinel. Service time is CPU-bound busy work uniformly
// distributed around MeanWork, so workers hold their core the way a
// request handler would instead of yielding into the scheduler.
type Worker struct {
	ID       int
	Queue    linkq.Queue[*Request]
	Recorder *bench.Recorder

	// MeanWork is the average synthetic service time; zero disables
	// the work phase and measures pure queue transfer.
	MeanWork time.Duration

	rng *rand.Rand
}

// Run serves until poison.
func (w *Worker) Run() {
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano() + int64(w.ID)))
	}
	backoff := iox.Backoff{}
	for {
		start := time.Now()
		req, err := w.Queue.Dequeue()
		if err != nil {
			if linkq.IsWouldBlock(err) {
				backoff.Wait()
				continue
			}
			return
		}
		backoff.Reset()

		now := time.Now()
		req.DequeuedAt = now.UnixNano()
		if req.IsPoison() {
			w.Recorder.RecordControlDequeue()
			return
		}
		w.Recorder.RecordDequeue(now.Sub(start))
		w.Recorder.RecordRequestLatency(time.Duration(req.DequeuedAt - req.CreatedAt))
		w.serve()
	}
}

// serve burns CPU for a uniformly random duration in
// [MeanWork/2, 3·MeanWork/2).
func (w *Worker) serve() {
	if w.MeanWork <= 0 {
		return
	}
	d := w.MeanWork/2 + time.Duration(w.rng.Int63n(int64(w.MeanWork)))
	sw := spin.Wait{}
	start := time.Now()
	for time.Since(start) < d {
		sw.Once()
	}
}
