// Package main provides the CLI entry point for k2bench, a micro-benchmark
// comparing a flat bit matrix with a k²-tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/weiihann/k2bench/harness"
	"github.com/weiihann/k2bench/report"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("k2bench failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "k2bench",
		Short: "Compare query time and space of a bit matrix and a k2-tree",
		Long: `K2bench builds random sparse boolean matrices over a fixed geometric
sweep of sizes, encodes each as a flat bit matrix and as a k2-tree, and
records one point-query latency and the storage footprint of each.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger), newVerifyCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the timing and space sweep",
		Long: `Run the canonical sweep and append the results to output/time.csv
and output/space.csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context(), logger, cmd.OutOrStdout(),
				harness.DefaultConfig())
		},
	}
}

func newVerifyCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that both structures answer every query identically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := harness.DefaultConfig()
			cfg.Sizes = harness.VerifySizes()

			return runVerify(cmd.Context(), logger, cfg)
		},
	}
}

func newRunner(
	ctx context.Context,
	logger *slog.Logger,
	cfg harness.Config,
) (*harness.Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	baseline, err := harness.Lookup("bitmatrix")
	if err != nil {
		return nil, err
	}

	compressed, err := harness.Lookup("k2tree")
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.Any("sizes", cfg.Sizes),
		slog.String("model", string(cfg.Model)),
		slog.Int("stem_k", cfg.StemK),
		slog.Int("leaf_k", cfg.LeafK),
		slog.Int64("seed", seed),
	)

	rng := mrand.New(mrand.NewSource(seed))

	return harness.NewRunner(baseline, compressed, rng, logger), nil
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	out io.Writer,
	cfg harness.Config,
) error {
	runner, err := newRunner(ctx, logger, cfg)
	if err != nil {
		return err
	}

	// Step 1: Measure. Any trial failure aborts before a table is touched.
	results, err := runner.Sweep(ctx, cfg)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	// Step 2: Persist. The two tables are independent; a failure on one
	// does not stop the other.
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return &report.IOError{Op: "create dir", Path: cfg.OutputDir, Err: err}
	}

	tables := []struct {
		name    string
		records []harness.Record
	}{
		{harness.TimeTable, results.Time},
		{harness.SpaceTable, results.Space},
	}

	var errs []error

	for _, tbl := range tables {
		sink := report.NewSink(filepath.Join(cfg.OutputDir, tbl.name))
		sink.Add(tbl.records...)

		if err := sink.Flush(); err != nil {
			logger.ErrorContext(ctx, "failed to write table",
				slog.String("path", sink.Path()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)

			continue
		}

		logger.InfoContext(ctx, "table written",
			slog.String("path", sink.Path()),
			slog.Int("rows", len(tbl.records)),
		)
	}

	// Step 3: Summarise.
	if err := report.Generate(out, "Query time", report.Nanoseconds, results.Time); err != nil {
		errs = append(errs, fmt.Errorf("generate time report: %w", err))
	}

	if err := report.Generate(out, "Space usage", report.Bytes, results.Space); err != nil {
		errs = append(errs, fmt.Errorf("generate space report: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}

func runVerify(ctx context.Context, logger *slog.Logger, cfg harness.Config) error {
	runner, err := newRunner(ctx, logger, cfg)
	if err != nil {
		return err
	}

	if err := runner.VerifySweep(ctx, cfg); err != nil {
		return err
	}

	logger.InfoContext(ctx, "verification complete",
		slog.Int("sizes", len(cfg.Sizes)),
	)

	return nil
}
