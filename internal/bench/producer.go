// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"time"

	"code.hybscloud.com/linkq"
)

// Producer enqueues a fixed number of messages through its own queue
// view and records per-operation durations. One Producer is driven by
// exactly one goroutine.
type Producer struct {
	ID       int
	Queue    linkq.Queue[*Message]
	Recorder *Recorder

	// StartID is the first message ID; IDs are contiguous per producer
	// so consumers can verify intra-producer FIFO order.
	StartID int64
	Count   int

	// PayloadSize bytes per message; zero means nil payloads.
	PayloadSize int
}

// Run produces Count messages and flushes any staged remainder.
func (p *Producer) Run() {
	for i := 0; i < p.Count; i++ {
		var payload []byte
		if p.PayloadSize > 0 {
			payload = make([]byte, p.PayloadSize)
		}
		m := NewMessage(p.StartID+int64(i), payload)
		start := time.Now()
		m.EnqueuedAt = start.UnixNano()
		p.Queue.Enqueue(&m)
		p.Recorder.RecordEnqueue(time.Since(start))
	}
	// Batch views hold up to threshold staged items after the loop;
	// publish them so consumers can finish the run.
	if f, ok := p.Queue.(linkq.Flusher); ok {
		f.Flush()
	}
}
