package harness

import (
	"context"
	"fmt"
	"log/slog"
	mrand "math/rand"
	"time"

	"github.com/weiihann/k2bench/workload"
)

// Runner executes trials comparing a baseline and a compressed structure.
// It is not safe for concurrent use.
type Runner struct {
	Baseline   Adapter
	Compressed Adapter
	Logger     *slog.Logger

	rng *mrand.Rand
	gen *workload.Generator
}

// NewRunner creates a Runner. rng drives both workload generation and the
// choice of query coordinates; seed it for reproducible runs.
func NewRunner(
	baseline, compressed Adapter,
	rng *mrand.Rand,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		Baseline:   baseline,
		Compressed: compressed,
		Logger: logger.With(
			slog.String("baseline", baseline.Name()),
			slog.String("compressed", compressed.Name()),
		),
		rng: rng,
		gen: workload.NewGenerator(rng),
	}
}

// RunQueryTrial times exactly one point query at a random coordinate on
// each structure built from a fresh n x n workload.
func (r *Runner) RunQueryTrial(ctx context.Context, n int, cfg Config) (Record, error) {
	base, comp, err := r.buildPair(ctx, n, cfg)
	if err != nil {
		return Record{}, err
	}

	x, y := r.rng.Intn(n), r.rng.Intn(n)

	baseTime, err := timeQuery(base, x, y)
	if err != nil {
		return Record{}, err
	}

	compTime, err := timeQuery(comp, x, y)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		N:          n,
		Baseline:   baseTime.Nanoseconds(),
		Compressed: compTime.Nanoseconds(),
	}

	r.Logger.InfoContext(ctx, "query time measured",
		slog.Int("n", n),
		slog.Int("x", x),
		slog.Int("y", y),
		slog.Int64(base.Name()+"_ns", rec.Baseline),
		slog.Int64(comp.Name()+"_ns", rec.Compressed),
	)

	return rec, nil
}

// RunSpaceTrial reports the footprint of each structure built from a fresh
// n x n workload.
func (r *Runner) RunSpaceTrial(ctx context.Context, n int, cfg Config) (Record, error) {
	base, comp, err := r.buildPair(ctx, n, cfg)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		N:          n,
		Baseline:   int64(base.SizeInBytes()),
		Compressed: int64(comp.SizeInBytes()),
	}

	r.Logger.InfoContext(ctx, "space usage measured",
		slog.Int("n", n),
		slog.Int64(base.Name()+"_bytes", rec.Baseline),
		slog.Int64(comp.Name()+"_bytes", rec.Compressed),
	)

	return rec, nil
}

// Sweep runs a query trial and then a space trial for every size in
// cfg.Sizes, in order. The first error aborts the sweep and no partial
// results are returned.
func (r *Runner) Sweep(ctx context.Context, cfg Config) (*Results, error) {
	results := &Results{
		Time:  make([]Record, 0, len(cfg.Sizes)),
		Space: make([]Record, 0, len(cfg.Sizes)),
	}

	for _, n := range cfg.Sizes {
		q, err := r.RunQueryTrial(ctx, n, cfg)
		if err != nil {
			return nil, fmt.Errorf("query trial n=%d: %w", n, err)
		}

		s, err := r.RunSpaceTrial(ctx, n, cfg)
		if err != nil {
			return nil, fmt.Errorf("space trial n=%d: %w", n, err)
		}

		results.Time = append(results.Time, q)
		results.Space = append(results.Space, s)
	}

	return results, nil
}

// VerifySweep checks cross-representation equivalence for every size in
// cfg.Sizes and stops at the first mismatch or build failure.
func (r *Runner) VerifySweep(ctx context.Context, cfg Config) error {
	for _, n := range cfg.Sizes {
		base, comp, err := r.buildPair(ctx, n, cfg)
		if err != nil {
			return fmt.Errorf("verify n=%d: %w", n, err)
		}

		if err := Verify(base, comp, n, n); err != nil {
			return fmt.Errorf("verify n=%d: %w", n, err)
		}

		r.Logger.InfoContext(ctx, "structures agree", slog.Int("n", n))
	}

	return nil
}

// buildPair generates a workload and builds both structures. The
// compressed build gets a clone; the baseline keeps the original.
func (r *Runner) buildPair(
	ctx context.Context,
	n int,
	cfg Config,
) (Structure, Structure, error) {
	m, summary, err := r.gen.Generate(n, cfg.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("generate workload: %w", err)
	}

	r.Logger.DebugContext(ctx, "workload generated",
		slog.Int("n", summary.Size),
		slog.Int("set_bits", summary.SetBits),
		slog.Float64("density", summary.Density()),
	)

	comp, err := Build(ctx, r.Logger, r.Compressed, m.Clone(), cfg.StemK, cfg.LeafK)
	if err != nil {
		return nil, nil, err
	}

	base, err := Build(ctx, r.Logger, r.Baseline, m, cfg.StemK, cfg.LeafK)
	if err != nil {
		return nil, nil, err
	}

	return base, comp, nil
}

func timeQuery(s Structure, x, y int) (time.Duration, error) {
	start := time.Now()
	_, err := s.Get(x, y)
	elapsed := time.Since(start)

	if err != nil {
		return 0, err
	}

	return elapsed, nil
}
