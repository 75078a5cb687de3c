// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"code.hybscloud.com/linkq"

	"code.hybscloud.com/linkq/internal/bench"
)

// Config describes one simulation run.
type Config struct {
	Variant           string
	Clients           int
	Workers           int
	RequestsPerClient int
	PayloadSize       int
	BatchThreshold    int

	// MaxDelay bounds the client inter-arrival pause; MeanWork is the
	// average per-request service time.
	MaxDelay time.Duration
	MeanWork time.Duration
}

// Validate rejects impossible populations and unknown variants.
func (c *Config) Validate() error {
	known := false
	for _, v := range linkq.Variants() {
		if string(v) == c.Variant {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("sim: unknown variant %q", c.Variant)
	}
	if c.Clients < 1 {
		return fmt.Errorf("sim: clients must be >= 1, got %d", c.Clients)
	}
	if c.Workers < 1 {
		return fmt.Errorf("sim: workers must be >= 1, got %d", c.Workers)
	}
	if c.RequestsPerClient < 1 {
		return fmt.Errorf("sim: requests_per_client must be >= 1, got %d", c.RequestsPerClient)
	}
	return nil
}

// Label names the run in summaries.
func (c *Config) Label() string {
	return fmt.Sprintf("sim %s clients=%d workers=%d n=%d", c.Variant, c.Clients, c.Workers, c.RequestsPerClient)
}

// Simulator wires client generators and a worker pool over one queue.
type Simulator struct {
	Config   Config
	Log      *slog.Logger
	recorder bench.Recorder
}

// NewSimulator creates a simulator. A nil logger falls back to
// slog.Default.
func NewSimulator(cfg Config, log *slog.Logger) *Simulator {
	if log == nil {
		log = slog.Default()
	}
	return &Simulator{Config: cfg, Log: log}
}

// Run executes the simulation and returns its summary.
func (s *Simulator) Run() (bench.Summary, error) {
	cfg := s.Config
	if err := cfg.Validate(); err != nil {
		return bench.Summary{}, err
	}
	shared := linkq.Build[*Request](linkq.New(linkq.Variant(cfg.Variant)).BatchThreshold(cfg.BatchThreshold))

	s.Log.Info("simulation start",
		"variant", cfg.Variant,
		"clients", cfg.Clients,
		"workers", cfg.Workers,
		"requests_per_client", cfg.RequestsPerClient,
	)

	start := time.Now()

	pool := NewPool(cfg.Workers, shared, &s.recorder, cfg.MeanWork)
	pool.Start()

	var clients sync.WaitGroup
	clients.Add(cfg.Clients)
	for i := 0; i < cfg.Clients; i++ {
		g := &Generator{
			ID:          i,
			Queue:       shared.Attach(),
			Recorder:    &s.recorder,
			StartID:     int64(i) * int64(cfg.RequestsPerClient),
			Count:       cfg.RequestsPerClient,
			PayloadSize: cfg.PayloadSize,
			MaxDelay:    cfg.MaxDelay,
		}
		go func() {
			defer clients.Done()
			g.Run()
		}()
	}
	clients.Wait()

	ctl := shared.Attach()
	for i := 0; i < pool.Size(); i++ {
		req := PoisonRequest()
		ctl.Enqueue(&req)
		s.recorder.RecordControlEnqueue()
	}
	if f, ok := ctl.(linkq.Flusher); ok {
		f.Flush()
	}
	pool.Wait()

	sum := s.recorder.Snapshot(time.Since(start))
	sum.Label = cfg.Label()
	s.Log.Info("simulation done",
		"label", sum.Label,
		"elapsed", sum.Elapsed.Round(time.Millisecond),
		"throughput", int64(sum.Throughput),
	)
	return sum, nil
}
