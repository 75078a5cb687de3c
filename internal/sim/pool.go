// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sim

import (
	"sync"
	"time"

	"code.hybscloud.com/linkq"

	"code.hybscloud.com/linkq/internal/bench"
)

// Pool runs a fixed set of workers over one shared queue.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

// NewPool attaches n workers to the shared queue.
func NewPool(n int, shared linkq.Attacher[*Request], rec *bench.Recorder, meanWork time.Duration) *Pool {
	p := &Pool{workers: make([]*Worker, n)}
	for i := range p.workers {
		p.workers[i] = &Worker{
			ID:       i,
			Queue:    shared.Attach(),
			Recorder: rec,
			MeanWork: meanWork,
		}
	}
	return p
}

// Size returns the worker count.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker goroutine.
func (p *Pool) Start() {
	p.wg.Add(len(p.workers))
	for _, w := range p.workers {
		w := w
		go func() {
			defer p.wg.Done()
			w.Run()
		}()
	}
}

// Wait blocks until every worker has dequeued its poison and returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
