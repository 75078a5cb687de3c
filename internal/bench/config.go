// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"code.hybscloud.com/linkq"
)

// Config describes one benchmark run. Zero fields take the defaults
// from DefaultConfig; unknown YAML keys are rejected.
type Config struct {
	// Variant selects the queue implementation under test.
	Variant string `json:"variant"`

	Producers           int `json:"producers"`
	Consumers           int `json:"consumers"`
	MessagesPerProducer int `json:"messages_per_producer"`
	PayloadSize         int `json:"payload_size"`

	// BatchThreshold applies to the batch and backoff variants only.
	BatchThreshold int `json:"batch_threshold"`

	// TimeoutSeconds arms the watchdog; a run exceeding it gets its
	// goroutine stacks dumped.
	TimeoutSeconds int `json:"timeout_seconds"`

	// ResultsDir receives the timestamped summary file; empty disables
	// file output. DBPath names an optional SQLite results database.
	ResultsDir string `json:"results_dir"`
	DBPath     string `json:"db_path"`
}

// DefaultConfig returns the configuration used when a field is unset.
func DefaultConfig() Config {
	return Config{
		Variant:             string(linkq.VariantMS),
		Producers:           4,
		Consumers:           4,
		MessagesPerProducer: 10_000,
		BatchThreshold:      linkq.DefaultBatchThreshold,
		TimeoutSeconds:      10,
	}
}

// LoadConfig reads a YAML run description, strict about unknown keys,
// and fills unset fields from DefaultConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("bench: open config: %w", err)
	}
	defer f.Close()

	cfg := Config{}
	if err := yaml.NewDecoder(f, yaml.Strict()).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("bench: decode config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Variant == "" {
		c.Variant = d.Variant
	}
	if c.Producers == 0 {
		c.Producers = d.Producers
	}
	if c.Consumers == 0 {
		c.Consumers = d.Consumers
	}
	if c.MessagesPerProducer == 0 {
		c.MessagesPerProducer = d.MessagesPerProducer
	}
	if c.BatchThreshold == 0 {
		c.BatchThreshold = d.BatchThreshold
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
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
		return fmt.Errorf("bench: unknown variant %q", c.Variant)
	}
	if c.Producers < 1 {
		return fmt.Errorf("bench: producers must be >= 1, got %d", c.Producers)
	}
	if c.Consumers < 1 {
		return fmt.Errorf("bench: consumers must be >= 1, got %d", c.Consumers)
	}
	if c.MessagesPerProducer < 1 {
		return fmt.Errorf("bench: messages_per_producer must be >= 1, got %d", c.MessagesPerProducer)
	}
	if c.PayloadSize < 0 {
		return fmt.Errorf("bench: payload_size must be >= 0, got %d", c.PayloadSize)
	}
	return nil
}

// Timeout returns the watchdog deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Label names the run in summaries and result files.
func (c *Config) Label() string {
	return fmt.Sprintf("%s p=%d c=%d n=%d", c.Variant, c.Producers, c.Consumers, c.MessagesPerProducer)
}

// variantNames lists every known variant as plain strings.
func variantNames() []string {
	vs := linkq.Variants()
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

// build constructs the queue under test from the variant name.
func (c *Config) build() linkq.Attacher[*Message] {
	return linkq.Build[*Message](linkq.New(linkq.Variant(c.Variant)).BatchThreshold(c.BatchThreshold))
}
