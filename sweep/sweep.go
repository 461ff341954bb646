package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/attatrol/mixedsom"
	"github.com/attatrol/mixedsom/record"
)

// ErrInvalidConfig is returned for a sweep configuration that plans no runs.
var ErrInvalidConfig = errors.New("sweep: invalid configuration")

// Config describes the parameter grid of a sweep.
type Config struct {
	// MinSize and MaxSize bound the side of the square maps.
	MinSize, MaxSize int

	// BetaStart, BetaEnd and BetaStep describe the strong-neuron thresholds,
	// both ends inclusive. A zero step runs BetaStart only.
	BetaStart, BetaEnd, BetaStep float64

	// Alpha is the weak-neuron threshold shared by every run.
	Alpha float64

	// Replays is the number of runs per (size, beta) pair.
	Replays int

	// Epochs is the number of epochs per run, also used as schedule horizon.
	Epochs int

	// Seed is the seed of the first run; run i uses Seed+i.
	Seed int64
}

// DefaultConfig returns the parameter grid of a full experiment: 3x3 to 6x6
// maps, beta from 1 to 6 in steps of 0.1, 5 replays of 500 epochs.
func DefaultConfig() Config {
	return Config{
		MinSize:   3,
		MaxSize:   6,
		BetaStart: 1,
		BetaEnd:   6,
		BetaStep:  0.1,
		Alpha:     0,
		Replays:   5,
		Epochs:    500,
		Seed:      1,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.MinSize < 1 || c.MaxSize < c.MinSize:
		return fmt.Errorf("%w: sizes %d..%d", ErrInvalidConfig, c.MinSize, c.MaxSize)
	case math.IsNaN(c.BetaStart) || math.IsNaN(c.BetaEnd) || math.IsNaN(c.BetaStep):
		return fmt.Errorf("%w: beta range contains NaN", ErrInvalidConfig)
	case c.BetaStep < 0 || c.BetaEnd < c.BetaStart:
		return fmt.Errorf("%w: beta %v..%v step %v", ErrInvalidConfig, c.BetaStart, c.BetaEnd, c.BetaStep)
	case c.BetaStart < c.Alpha:
		return fmt.Errorf("%w: beta %v below alpha %v", ErrInvalidConfig, c.BetaStart, c.Alpha)
	case c.Replays < 1:
		return fmt.Errorf("%w: %d replays", ErrInvalidConfig, c.Replays)
	case c.Epochs < 1:
		return fmt.Errorf("%w: %d epochs", ErrInvalidConfig, c.Epochs)
	}
	return nil
}

// Betas returns the beta values of the sweep in ascending order.
func (c Config) Betas() []float64 {
	if c.BetaStep == 0 {
		return []float64{c.BetaStart}
	}
	// Stepping by index keeps the end value reachable despite rounding.
	steps := int(math.Floor((c.BetaEnd-c.BetaStart)/c.BetaStep + 1e-9))
	out := make([]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		out = append(out, c.BetaStart+float64(i)*c.BetaStep)
	}
	return out
}

// Run identifies one training run of a sweep.
type Run struct {
	Index  int
	Width  int
	Height int
	Beta   float64
	Replay int
	Seed   int64
}

// Plan lists the runs of cfg: sizes outermost, then betas, then replays.
func Plan(cfg Config) ([]Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	betas := cfg.Betas()
	runs := make([]Run, 0, (cfg.MaxSize-cfg.MinSize+1)*len(betas)*cfg.Replays)
	for size := cfg.MinSize; size <= cfg.MaxSize; size++ {
		for _, beta := range betas {
			for z := range cfg.Replays {
				i := len(runs)
				runs = append(runs, Run{
					Index:  i,
					Width:  size,
					Height: size,
					Beta:   beta,
					Replay: z,
					Seed:   cfg.Seed + int64(i),
				})
			}
		}
	}
	return runs, nil
}

// Result is the outcome of one run.
type Result struct {
	Run

	StartError float64
	EndError   float64
	MinError   float64
	MaxError   float64

	// DeadNeurons is the number of neurons without records after training.
	DeadNeurons int
	Duration    time.Duration
}

// Runner executes sweeps.
type Runner struct {
	base mixedsom.Builder
	cfg  Config
	opts options
}

// NewRunner creates a runner. base supplies every map setting the sweep
// does not vary; its grid size, thresholds, seed and horizon are replaced
// per run.
func NewRunner(base mixedsom.Builder, cfg Config, optFns ...Option) *Runner {
	return &Runner{
		base: base,
		cfg:  cfg,
		opts: applyOptions(optFns),
	}
}

// Run executes every planned run over clones of src. Results are returned
// in plan order. The first failing run cancels the others; results of runs
// that finished are still returned, the rest are left zero.
func (r *Runner) Run(ctx context.Context, src *record.MemorySource, schema *record.Schema) ([]Result, error) {
	runs, err := Plan(r.cfg)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	if r.opts.resources == nil {
		g.SetLimit(runtime.GOMAXPROCS(0))
	}

	r.opts.logger.InfoContext(ctx, "sweep started", "runs", len(runs))
	start := time.Now()

	for _, run := range runs {
		if err := r.opts.resources.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer r.opts.resources.ReleaseWorker()
			res, err := r.runOne(gctx, run, src.Clone(), schema)
			if err != nil {
				return fmt.Errorf("sweep: run %d (%dx%d beta %v): %w", run.Index, run.Width, run.Height, run.Beta, err)
			}
			results[run.Index] = res
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		r.opts.logger.WarnContext(ctx, "sweep stopped", "error", err, "duration", time.Since(start))
		return results, err
	}
	r.opts.logger.InfoContext(ctx, "sweep finished", "runs", len(runs), "duration", time.Since(start))
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, run Run, src record.Source, schema *record.Schema) (Result, error) {
	start := time.Now()
	logger := r.opts.logger.WithRun(strconv.Itoa(run.Index))

	b := r.base.
		Size(run.Width, run.Height).
		Thresholds(r.cfg.Alpha, run.Beta).
		Seed(run.Seed).
		Horizon(r.cfg.Epochs).
		Logger(logger)
	if r.opts.resources != nil {
		b = b.Resources(r.opts.resources)
	}
	if r.opts.metricsCollector != nil {
		b = b.Metrics(r.opts.metricsCollector)
	}

	som, err := b.Build(ctx, src, schema)
	if err != nil {
		return Result{}, err
	}
	defer som.Close()

	tr, err := mixedsom.Train(ctx, som, mixedsom.EpochLimit(r.cfg.Epochs))
	if err != nil {
		return Result{}, err
	}
	clusters, err := mixedsom.ProduceClusterResult(ctx, som, src)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Run:         run,
		StartError:  tr.Errors[0],
		EndError:    tr.FinalError(),
		MinError:    tr.Errors[0],
		MaxError:    tr.Errors[0],
		DeadNeurons: clusters.Count() - clusters.NonEmpty(),
		Duration:    time.Since(start),
	}
	for _, e := range tr.Errors[1:] {
		res.MinError = min(res.MinError, e)
		res.MaxError = max(res.MaxError, e)
	}

	logger.DebugContext(ctx, "run finished",
		"width", run.Width,
		"height", run.Height,
		"beta", run.Beta,
		"end_error", res.EndError,
		"dead_neurons", res.DeadNeurons,
	)
	return res, nil
}
