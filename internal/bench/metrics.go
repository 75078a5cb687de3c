// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"fmt"
	"strings"
	"time"

	"code.hybscloud.com/atomix"
)

// Recorder accumulates benchmark measurements.
//
// All methods are safe for concurrent use from any number of producer
// and consumer goroutines; each accumulator is an independent atomic
// add, so recording perturbs the measured workload as little as an
// uncontended atomic allows. Data and control operations are counted
// separately so that poison plumbing never skews the data averages.
type Recorder struct {
	enqueueOps   atomix.Int64
	enqueueNanos atomix.Int64
	dequeueOps   atomix.Int64
	dequeueNanos atomix.Int64

	controlEnqueues atomix.Int64
	controlDequeues atomix.Int64

	latencyOps   atomix.Int64
	latencyNanos atomix.Int64
}

// RecordEnqueue records one data enqueue and its duration.
func (r *Recorder) RecordEnqueue(d time.Duration) {
	r.enqueueOps.Add(1)
	r.enqueueNanos.Add(int64(d))
}

// RecordDequeue records one data dequeue and its duration.
func (r *Recorder) RecordDequeue(d time.Duration) {
	r.dequeueOps.Add(1)
	r.dequeueNanos.Add(int64(d))
}

// RecordControlEnqueue counts a poison enqueue.
func (r *Recorder) RecordControlEnqueue() {
	r.controlEnqueues.Add(1)
}

// RecordControlDequeue counts a poison dequeue.
func (r *Recorder) RecordControlDequeue() {
	r.controlDequeues.Add(1)
}

// RecordRequestLatency records one end-to-end request latency, from
// message creation to dequeue.
func (r *Recorder) RecordRequestLatency(d time.Duration) {
	r.latencyOps.Add(1)
	r.latencyNanos.Add(int64(d))
}

// Snapshot derives a Summary from the current accumulator values.
// elapsed is the wall-clock duration of the run and drives throughput.
func (r *Recorder) Snapshot(elapsed time.Duration) Summary {
	s := Summary{
		Elapsed:         elapsed,
		Enqueues:        r.enqueueOps.Load(),
		Dequeues:        r.dequeueOps.Load(),
		ControlEnqueues: r.controlEnqueues.Load(),
		ControlDequeues: r.controlDequeues.Load(),
	}
	s.AvgEnqueue = safeDiv(r.enqueueNanos.Load(), s.Enqueues)
	s.AvgDequeue = safeDiv(r.dequeueNanos.Load(), s.Dequeues)
	s.AvgLatency = safeDiv(r.latencyNanos.Load(), r.latencyOps.Load())
	if elapsed > 0 {
		s.Throughput = float64(s.Dequeues) / elapsed.Seconds()
	}
	return s
}

// safeDiv returns sum/count as a float, or 0 when count is 0.
func safeDiv(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// Summary is an immutable snapshot of one benchmark run.
type Summary struct {
	Label string

	Elapsed         time.Duration
	Enqueues        int64
	Dequeues        int64
	ControlEnqueues int64
	ControlDequeues int64

	// Averages in nanoseconds.
	AvgEnqueue float64
	AvgDequeue float64
	AvgLatency float64

	// Data dequeues per second.
	Throughput float64
}

// String renders the summary as the multi-line report the result files
// carry.
func (s Summary) String() string {
	var b strings.Builder
	if s.Label != "" {
		fmt.Fprintf(&b, "=== %s ===\n", s.Label)
	}
	fmt.Fprintf(&b, "elapsed:          %v\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "enqueues:         %d (+%d control)\n", s.Enqueues, s.ControlEnqueues)
	fmt.Fprintf(&b, "dequeues:         %d (+%d control)\n", s.Dequeues, s.ControlDequeues)
	fmt.Fprintf(&b, "avg enqueue:      %s\n", formatNanos(s.AvgEnqueue))
	fmt.Fprintf(&b, "avg dequeue:      %s\n", formatNanos(s.AvgDequeue))
	fmt.Fprintf(&b, "avg latency:      %s\n", formatNanos(s.AvgLatency))
	fmt.Fprintf(&b, "throughput:       %.0f msg/s\n", s.Throughput)
	return b.String()
}

// formatNanos renders a nanosecond quantity in the most readable unit.
func formatNanos(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.2fµs", ns/1e3)
	default:
		return fmt.Sprintf("%.2fms", ns/1e6)
	}
}
