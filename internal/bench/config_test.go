// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
variant: batch
producers: 8
consumers: 2
messages_per_producer: 500
batch_threshold: 32
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "batch", cfg.Variant)
	require.Equal(t, 8, cfg.Producers)
	require.Equal(t, 2, cfg.Consumers)
	require.Equal(t, 500, cfg.MessagesPerProducer)
	require.Equal(t, 32, cfg.BatchThreshold)
	// Unset fields take defaults.
	require.Equal(t, 10, cfg.TimeoutSeconds)
}

func TestLoadConfigStrict(t *testing.T) {
	path := writeConfig(t, `
variant: ms
no_such_knob: true
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigUnknownVariant(t *testing.T) {
	path := writeConfig(t, `variant: bogus`)
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "unknown variant")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Producers = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Consumers = -1
	require.Error(t, bad.Validate())

	bad = cfg
	bad.MessagesPerProducer = 0
	require.Error(t, bad.Validate())

	bad = cfg
	bad.PayloadSize = -1
	require.Error(t, bad.Validate())
}

func TestLabel(t *testing.T) {
	cfg := Config{Variant: "ms", Producers: 4, Consumers: 2, MessagesPerProducer: 100}
	require.Equal(t, "ms p=4 c=2 n=100", cfg.Label())
}
