// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"log/slog"
)

// Sweep axes of the automated benchmark. Consumer count scales with the
// producer population but never drops below four, so small sweeps still
// exercise multi-consumer contention.
var (
	sweepProducers = []int{4, 8, 16, 32}
	sweepSizes     = []int{10_000, 50_000, 200_000, 500_000}
)

// AutoRunner sweeps every variant across the producer-count and
// request-size axes, persisting one summary per combination.
type AutoRunner struct {
	// Base supplies the fixed knobs (threshold, payload, timeout,
	// result sinks); the sweep overrides variant and populations.
	Base Config

	// Variants limits the sweep; empty means every known variant.
	Variants []string

	Log *slog.Logger
}

// Run executes the full sweep and returns every summary in execution
// order. Persistence failures are logged and skipped; the summaries are
// diagnostic output, not the product of the run.
func (a *AutoRunner) Run() ([]Summary, error) {
	log := a.Log
	if log == nil {
		log = slog.Default()
	}
	variants := a.Variants
	if len(variants) == 0 {
		variants = variantNames()
	}

	store, err := OpenStore(a.Base.ResultsDir, a.Base.DBPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	var out []Summary
	for _, variant := range variants {
		for _, producers := range sweepProducers {
			for _, size := range sweepSizes {
				cfg := a.Base
				cfg.Variant = variant
				cfg.Producers = producers
				cfg.Consumers = sweepConsumers(producers)
				cfg.MessagesPerProducer = size
				cfg.applyDefaults()
				if err := cfg.Validate(); err != nil {
					return out, err
				}

				s := NewRunner(cfg, log).Run()
				if err := store.Save(s); err != nil {
					log.Warn("save results", "label", s.Label, "err", err)
				}
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func sweepConsumers(producers int) int {
	if c := producers / 2; c > 4 {
		return c
	}
	return 4
}
