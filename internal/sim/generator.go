// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sim

import (
	"math/rand"
	"time"

	"code.hybscloud.com/linkq"

	"code.hybscloud.com/linkq/internal/bench"
)

// Generator is a simulated client: it enqueues Count requests through
// its own queue view with a random pause of up to MaxDelay between
// consecutive requests. One Generator is driven by one goroutine.
type Generator struct {
	ID       int
	Queue    linkq.Queue[*Request]
	Recorder *bench.Recorder

	StartID     int64
	Count       int
	PayloadSize int

	// MaxDelay bounds the random inter-arrival pause; zero disables
	// pausing and produces a saturating client.
	MaxDelay time.Duration

	rng *rand.Rand
}

// Run generates the client's request stream and flushes any staged
// remainder.
func (g *Generator) Run() {
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano() + int64(g.ID)))
	}
	for i := 0; i < g.Count; i++ {
		if g.MaxDelay > 0 {
			time.Sleep(time.Duration(g.rng.Int63n(int64(g.MaxDelay) + 1)))
		}
		req := NewRequest(g.StartID+int64(i), g.PayloadSize)
		start := time.Now()
		req.EnqueuedAt = start.UnixNano()
		g.Queue.Enqueue(&req)
		g.Recorder.RecordEnqueue(time.Since(start))
	}
	if f, ok := g.Queue.(linkq.Flusher); ok {
		f.Flush()
	}
}
