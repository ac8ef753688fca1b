// SPDX-License-Identifier: MIT

package race

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/matrace/eigen"
	"github.com/katalvlaran/matrace/matrix"
	"github.com/katalvlaran/matrace/strategy"
)

// ErrAllFailed means no strategy produced a usable result. The individual
// causes stay reachable through errors.Is / errors.As on the returned
// error.
var ErrAllFailed = errors.New("race: all strategies failed")

// Runner races an operation across its strategies. The zero configuration
// runs Sequential, SharedMemory and ProcessIsolated in that order with no
// per-attempt timeout and a no-op logger; construction is cheap and a
// Runner is safe for concurrent use.
type Runner struct {
	strategies []strategy.Strategy
	log        *zap.Logger
	timeout    time.Duration // per attempt; 0 means none
}

// Option configures a Runner.
type Option func(*Runner)

// WithStrategies replaces the default strategy set. Order matters: it is
// both execution order and the tie-break order for equal timings.
func WithStrategies(ss ...strategy.Strategy) Option {
	return func(r *Runner) { r.strategies = ss }
}

// WithLogger attaches a logger; attempts and selections are logged at
// Info, failures at Warn.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithTimeout bounds each individual attempt. An attempt that overruns
// fails with context.DeadlineExceeded and the race moves on.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// NewRunner builds a Runner; see Runner for the defaults.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		strategies: []strategy.Strategy{
			strategy.NewSequential(),
			strategy.NewSharedMemory(),
			strategy.NewProcessIsolated(),
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// runRace executes f once per strategy, in order, timing every attempt.
// The fastest successful attempt's value wins; equal timings keep the
// earlier strategy. When every attempt fails the returned error wraps
// ErrAllFailed plus each attempt's cause.
func runRace[T any](ctx context.Context, r *Runner, op string, f func(ctx context.Context, s strategy.Strategy) (T, error)) (T, *Record, error) {
	rec := &Record{RunID: uuid.NewString(), Op: op}
	values := make([]T, len(r.strategies))

	for i, s := range r.strategies {
		attemptCtx, cancel := r.attemptContext(ctx)
		start := time.Now()
		v, err := f(attemptCtx, s)
		elapsed := time.Since(start)
		cancel()

		values[i] = v
		rec.Attempts = append(rec.Attempts, Attempt{Strategy: s.Name(), Elapsed: elapsed, Err: err})
		if err != nil {
			r.log.Warn("attempt failed",
				zap.String("run_id", rec.RunID),
				zap.String("op", op),
				zap.String("strategy", s.Name()),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))

			continue
		}
		r.log.Info("attempt done",
			zap.String("run_id", rec.RunID),
			zap.String("op", op),
			zap.String("strategy", s.Name()),
			zap.Duration("elapsed", elapsed))
	}

	best := -1
	for i, a := range rec.Attempts {
		if !a.Ok() {
			continue
		}
		if best < 0 || a.Elapsed < rec.Attempts[best].Elapsed {
			best = i
		}
	}
	if best < 0 {
		causes := []error{ErrAllFailed}
		for _, a := range rec.Attempts {
			causes = append(causes, a.Err)
		}
		var zero T

		return zero, rec, errors.Join(causes...)
	}

	rec.Winner = rec.Attempts[best].Strategy
	rec.Elapsed = rec.Attempts[best].Elapsed
	r.log.Info("winner selected",
		zap.String("run_id", rec.RunID),
		zap.String("op", op),
		zap.String("strategy", rec.Winner),
		zap.Duration("elapsed", rec.Elapsed))

	return values[best], rec, nil
}

func (r *Runner) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}

	return context.WithCancel(ctx)
}

// Add races the element-wise sum.
func (r *Runner) Add(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, *Record, error) {
	return runRace(ctx, r, "add", func(ctx context.Context, s strategy.Strategy) (*matrix.Dense, error) {
		return s.Add(ctx, a, b)
	})
}

// Sub races the element-wise difference.
func (r *Runner) Sub(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, *Record, error) {
	return runRace(ctx, r, "sub", func(ctx context.Context, s strategy.Strategy) (*matrix.Dense, error) {
		return s.Sub(ctx, a, b)
	})
}

// Mul races the matrix product.
func (r *Runner) Mul(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, *Record, error) {
	return runRace(ctx, r, "mul", func(ctx context.Context, s strategy.Strategy) (*matrix.Dense, error) {
		return s.Mul(ctx, a, b)
	})
}

// detResult carries the determinant pair through the generic race.
type detResult struct {
	det      float64
	singular bool
}

// Determinant races the pivoted elimination. A singular input is a
// successful attempt with det=0 for every strategy, so it participates in
// selection like any other result.
func (r *Runner) Determinant(ctx context.Context, m *matrix.Dense) (det float64, singular bool, rec *Record, err error) {
	v, rec, err := runRace(ctx, r, "det", func(ctx context.Context, s strategy.Strategy) (detResult, error) {
		d, sing, derr := s.Determinant(ctx, m)

		return detResult{det: d, singular: sing}, derr
	})

	return v.det, v.singular, rec, err
}

// Eigen races the QR iteration. A non-converged result is still a
// successful attempt; callers inspect Result.Converged.
func (r *Runner) Eigen(ctx context.Context, m *matrix.Dense, p eigen.Params) (*eigen.Result, *Record, error) {
	return runRace(ctx, r, "eigen", func(ctx context.Context, s strategy.Strategy) (*eigen.Result, error) {
		return s.Eigen(ctx, m, p)
	})
}
