// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"code.hybscloud.com/linkq"
	"code.hybscloud.com/linkq/internal/bench"
	"code.hybscloud.com/linkq/internal/sim"
)

func cmdRoot() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "qbench",
		Short: "Benchmark the linkq concurrent queue family",
		Long: `qbench drives the linkq queues (lock-based, Michael-Scott,
batch, backoff) through configurable producer/consumer workloads and
reports per-operation and end-to-end timings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(cmdRun())
	root.AddCommand(cmdAuto())
	root.AddCommand(cmdSim())
	return root
}

func setupLogging(level string) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

func cmdRun() *cobra.Command {
	var (
		variant    string
		producers  int
		consumers  int
		count      int
		payload    int
		threshold  int
		timeoutSec int
		resultsDir string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "run [CONFIG-FILE]",
		Short: "Execute one benchmark run",
		Long: `Execute one benchmark run. With a YAML config file the flags
override the file; without one the flags describe the whole run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := bench.DefaultConfig()
			if len(args) == 1 {
				loaded, err := bench.LoadConfig(args[0])
				if err != nil {
					return err
				}
				cfg = loaded
			}
			flags := cmd.Flags()
			if flags.Changed("variant") {
				cfg.Variant = variant
			}
			if flags.Changed("producers") {
				cfg.Producers = producers
			}
			if flags.Changed("consumers") {
				cfg.Consumers = consumers
			}
			if flags.Changed("count") {
				cfg.MessagesPerProducer = count
			}
			if flags.Changed("payload") {
				cfg.PayloadSize = payload
			}
			if flags.Changed("threshold") {
				cfg.BatchThreshold = threshold
			}
			if flags.Changed("timeout") {
				cfg.TimeoutSeconds = timeoutSec
			}
			if flags.Changed("results-dir") {
				cfg.ResultsDir = resultsDir
			}
			if flags.Changed("db") {
				cfg.DBPath = dbPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			store, err := bench.OpenStore(cfg.ResultsDir, cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			s := bench.NewRunner(cfg, slog.Default()).Run()
			fmt.Print(s.String())
			if err := store.Save(s); err != nil {
				slog.Warn("save results", "label", s.Label, "err", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", string(linkq.VariantMS), "queue variant: "+variantList())
	cmd.Flags().IntVar(&producers, "producers", 4, "producer goroutines")
	cmd.Flags().IntVar(&consumers, "consumers", 4, "consumer goroutines")
	cmd.Flags().IntVar(&count, "count", 10_000, "messages per producer")
	cmd.Flags().IntVar(&payload, "payload", 0, "payload bytes per message")
	cmd.Flags().IntVar(&threshold, "threshold", linkq.DefaultBatchThreshold, "batch threshold (batch and backoff variants)")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 10, "watchdog deadline in seconds")
	cmd.Flags().StringVar(&resultsDir, "results-dir", "", "directory for summary files")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite results database")
	return cmd
}

func cmdAuto() *cobra.Command {
	var (
		variants   []string
		payload    int
		threshold  int
		timeoutSec int
		resultsDir string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Run the automated sweep across variants and populations",
		Long: `Run every selected variant across producer counts 4/8/16/32 and
request sizes 10k/50k/200k/500k, persisting one summary per combination.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := bench.DefaultConfig()
			base.PayloadSize = payload
			base.BatchThreshold = threshold
			base.TimeoutSeconds = timeoutSec
			base.ResultsDir = resultsDir
			base.DBPath = dbPath

			auto := &bench.AutoRunner{Base: base, Variants: variants, Log: slog.Default()}
			summaries, err := auto.Run()
			for _, s := range summaries {
				fmt.Print(s.String())
				fmt.Println()
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&variants, "variants", nil, "variants to sweep (default all: "+variantList()+")")
	cmd.Flags().IntVar(&payload, "payload", 0, "payload bytes per message")
	cmd.Flags().IntVar(&threshold, "threshold", linkq.DefaultBatchThreshold, "batch threshold (batch and backoff variants)")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 10, "watchdog deadline in seconds per run")
	cmd.Flags().StringVar(&resultsDir, "results-dir", "results", "directory for summary files")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite results database")
	return cmd
}

func cmdSim() *cobra.Command {
	var (
		variant   string
		clients   int
		workers   int
		count     int
		payload   int
		threshold int
		maxDelay  time.Duration
		meanWork  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the synthetic server simulation",
		Long: `Run a synthetic server: client goroutines generate requests with
random inter-arrival pauses and a worker pool serves them with
CPU-bound synthetic work.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sim.Config{
				Variant:           variant,
				Clients:           clients,
				Workers:           workers,
				RequestsPerClient: count,
				PayloadSize:       payload,
				BatchThreshold:    threshold,
				MaxDelay:          maxDelay,
				MeanWork:          meanWork,
			}
			s, err := sim.NewSimulator(cfg, slog.Default()).Run()
			if err != nil {
				return err
			}
			fmt.Print(s.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", string(linkq.VariantMS), "queue variant: "+variantList())
	cmd.Flags().IntVar(&clients, "clients", 8, "client goroutines")
	cmd.Flags().IntVar(&workers, "workers", 4, "worker goroutines")
	cmd.Flags().IntVar(&count, "count", 10_000, "requests per client")
	cmd.Flags().IntVar(&payload, "payload", 0, "payload bytes per request")
	cmd.Flags().IntVar(&threshold, "threshold", linkq.DefaultBatchThreshold, "batch threshold (batch and backoff variants)")
	cmd.Flags().DurationVar(&maxDelay, "max-delay", 0, "max client inter-arrival pause")
	cmd.Flags().DurationVar(&meanWork, "mean-work", 0, "mean synthetic service time per request")
	return cmd
}

func variantList() string {
	names := make([]string, 0, len(linkq.Variants()))
	for _, v := range linkq.Variants() {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}
