// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/linkq"
)

// Runner executes one benchmark run described by a Config.
//
// The lifecycle mirrors a draining shutdown: consumers start first,
// producers push their quota and flush, then one poison per consumer is
// enqueued so every consumer observes exactly one sentinel and exits.
// The run is complete when all consumers have returned.
type Runner struct {
	Config   Config
	Log      *slog.Logger
	recorder Recorder
}

// NewRunner creates a runner. A nil logger falls back to slog.Default.
func NewRunner(cfg Config, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{Config: cfg, Log: log}
}

// Run executes the benchmark and returns its summary.
func (r *Runner) Run() Summary {
	cfg := r.Config
	shared := cfg.build()

	r.Log.Info("benchmark start",
		"variant", cfg.Variant,
		"producers", cfg.Producers,
		"consumers", cfg.Consumers,
		"messages_per_producer", cfg.MessagesPerProducer,
	)

	stop := watchdog(cfg.Timeout(), cfg.Label(), r.Log)
	defer stop()

	start := time.Now()

	var consumers sync.WaitGroup
	consumers.Add(cfg.Consumers)
	for i := 0; i < cfg.Consumers; i++ {
		c := &Consumer{ID: i, Queue: shared.Attach(), Recorder: &r.recorder}
		go func() {
			defer consumers.Done()
			c.Run()
		}()
	}

	var producers sync.WaitGroup
	producers.Add(cfg.Producers)
	for i := 0; i < cfg.Producers; i++ {
		p := &Producer{
			ID:          i,
			Queue:       shared.Attach(),
			Recorder:    &r.recorder,
			StartID:     int64(i) * int64(cfg.MessagesPerProducer),
			Count:       cfg.MessagesPerProducer,
			PayloadSize: cfg.PayloadSize,
		}
		go func() {
			defer producers.Done()
			p.Run()
		}()
	}
	producers.Wait()

	// Poison rides the same queue as data, so it is delivered only
	// after every previously published message.
	ctl := shared.Attach()
	for i := 0; i < cfg.Consumers; i++ {
		m := Poison()
		ctl.Enqueue(&m)
		r.recorder.RecordControlEnqueue()
	}
	if f, ok := ctl.(linkq.Flusher); ok {
		f.Flush()
	}
	consumers.Wait()

	s := r.recorder.Snapshot(time.Since(start))
	s.Label = cfg.Label()
	r.Log.Info("benchmark done",
		"label", s.Label,
		"elapsed", s.Elapsed.Round(time.Millisecond),
		"throughput", int64(s.Throughput),
	)
	return s
}

// watchdog dumps every goroutine stack if the run outlives the
// deadline, then keeps quiet; a hung run leaves evidence instead of a
// silent stall. The returned stop function disarms it.
func watchdog(d time.Duration, label string, log *slog.Logger) func() {
	if d <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-done:
		case <-t.C:
			buf := make([]byte, 1<<20)
			n := runtime.Stack(buf, true)
			log.Error("benchmark exceeded deadline",
				"label", label,
				"deadline", d,
				"stacks", string(buf[:n]),
			)
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
