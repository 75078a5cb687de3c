// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/linkq"
)

// Consumer drains messages from its own queue view until it dequeues a
// poison sentinel. One Consumer is driven by exactly one goroutine.
type Consumer struct {
	ID       int
	Queue    linkq.Queue[*Message]
	Recorder *Recorder
}

// Run dequeues until poison. Empty observations back off through iox
// rather than hammering the head; a successful dequeue resets the
// backoff.
func (c *Consumer) Run() {
	backoff := iox.Backoff{}
	for {
		start := time.Now()
		m, err := c.Queue.Dequeue()
		if err != nil {
			if linkq.IsWouldBlock(err) {
				backoff.Wait()
				continue
			}
			return
		}
		backoff.Reset()

		now := time.Now()
		m.DequeuedAt = now.UnixNano()
		if m.IsPoison() {
			c.Recorder.RecordControlDequeue()
			return
		}
		c.Recorder.RecordDequeue(now.Sub(start))
		c.Recorder.RecordRequestLatency(time.Duration(m.DequeuedAt - m.CreatedAt))
	}
}
