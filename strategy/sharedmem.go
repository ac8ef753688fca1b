// SPDX-License-Identifier: MIT

package strategy

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/matrace/eigen"
	"github.com/katalvlaran/matrace/gauss"
	"github.com/katalvlaran/matrace/matrix"
)

// DefaultMinChunk is the smallest index range worth handing to a worker;
// below it the pool overhead dwarfs the arithmetic and the strategy runs
// the loop inline instead.
const DefaultMinChunk = 64

// SharedMemory partitions independent work units (flat cell ranges, row
// ranges of an elimination step, the row-dimension of an orthogonalization
// reduction) across a bounded worker pool operating on one shared
// workspace. Partitioning is strictly by disjoint index ranges, so no
// locks are needed; the errgroup join at every step boundary is the
// barrier that orders dependent work after its dependency.
type SharedMemory struct {
	Workers  int // pool size; <=0 means runtime.NumCPU()
	MinChunk int // minimum indices per worker; <=0 means DefaultMinChunk
}

// NewSharedMemory returns a pool-backed strategy with default sizing.
func NewSharedMemory() *SharedMemory { return &SharedMemory{} }

// Name implements Strategy.
func (*SharedMemory) Name() string { return "shared-memory" }

func (s *SharedMemory) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}

	return runtime.NumCPU()
}

func (s *SharedMemory) minChunk() int {
	if s.MinChunk > 0 {
		return s.MinChunk
	}

	return DefaultMinChunk
}

// apply runs fn(i) for every i in [0,n), partitioned into contiguous
// chunks across the pool. Each index is touched by exactly one worker, so
// fn may write shared state as long as distinct indices mean disjoint
// memory. Returns once every worker has finished; apply is the step
// barrier.
func (s *SharedMemory) apply(ctx context.Context, n int, fn func(i int)) error {
	chunk := (n + s.workers() - 1) / s.workers()
	if chunk < s.minChunk() {
		// Inline fallback: pool overhead would exceed the work.
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			fn(i)
		}

		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				fn(i)
			}

			return nil
		})
	}

	return g.Wait()
}

// reduce computes Σ term(i) for i in [0,n) with per-chunk partial sums.
// Partials are combined in ascending chunk order, so the result is
// deterministic for a fixed pool size. The reduction completes, and is
// visible to all workers, before reduce returns; dependent work
// (normalization, elimination updates) is therefore ordered after it.
func (s *SharedMemory) reduce(ctx context.Context, n int, term func(i int) float64) (float64, error) {
	chunk := (n + s.workers() - 1) / s.workers()
	if chunk < s.minChunk() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += term(i)
		}

		return sum, nil
	}

	nChunks := (n + chunk - 1) / chunk
	partials := make([]float64, nChunks)
	g, _ := errgroup.WithContext(ctx)
	for c := 0; c < nChunks; c++ {
		c := c
		lo, hi := c*chunk, min((c+1)*chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum := 0.0
			for i := lo; i < hi; i++ {
				sum += term(i)
			}
			partials[c] = sum

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	sum := 0.0
	for _, p := range partials {
		sum += p
	}

	return sum, nil
}

// elementwise is the scheduled variant of matrix.addSub: same validation,
// same math, cell range partitioned across the pool.
func (s *SharedMemory) elementwise(ctx context.Context, a, b *matrix.Dense, sign float64, tag string) (*matrix.Dense, error) {
	if err := matrix.ValidateBinarySameShape(a, b); err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	res, err := matrix.NewDense(a.Rows(), a.Cols())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	ad, bd, rd := a.Raw(), b.Raw(), res.Raw()
	if err = s.apply(ctx, len(rd), func(i int) {
		rd[i] = ad[i] + sign*bd[i]
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}

	return res, nil
}

// Add implements Strategy.
func (s *SharedMemory) Add(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	return s.elementwise(ctx, a, b, +1, "Add")
}

// Sub implements Strategy.
func (s *SharedMemory) Sub(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	return s.elementwise(ctx, a, b, -1, "Sub")
}

// Mul implements Strategy: output rows are independent units, so the row
// range is partitioned across the pool; each worker runs the same k→j
// inner accumulation as the sequential kernel over its rows.
func (s *SharedMemory) Mul(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, fmt.Errorf("Mul: %w", err)
	}
	res, err := matrix.NewDense(a.Rows(), b.Cols())
	if err != nil {
		return nil, fmt.Errorf("Mul: %w", err)
	}
	ad, bd, rd := a.Raw(), b.Raw(), res.Raw()
	n, c := a.Cols(), b.Cols()
	if err = s.apply(ctx, a.Rows(), func(i int) {
		rowA, rowR := i*n, i*c
		for k := 0; k < n; k++ {
			av := ad[rowA+k]
			if av == 0 {
				continue
			}
			rowB := k * c
			for j := 0; j < c; j++ {
				rd[rowR+j] += av * bd[rowB+j]
			}
		}
	}); err != nil {
		return nil, fmt.Errorf("Mul: %w", err)
	}

	return res, nil
}

// Determinant implements Strategy. Pivot selection and the row swap stay
// serial (they are O(n) and order-sensitive); the row updates below the
// pivot are the embarrassingly parallel unit and fan out across the pool.
// The apply join is the barrier between step k and step k+1: parallelism
// lives within a step, never across steps, because each step consumes the
// previous step's pivot.
func (s *SharedMemory) Determinant(ctx context.Context, m *matrix.Dense) (float64, bool, error) {
	w, err := gauss.NewWorkspace(m)
	if err != nil {
		return 0, false, err
	}
	n := w.N()
	for k := 0; k < n; k++ {
		if err = ctx.Err(); err != nil {
			return 0, false, err
		}
		p, mag := w.PivotRow(k)
		if mag < gauss.PivotEps {
			return 0.0, true, nil
		}
		w.Swap(k, p)
		base := k + 1
		if err = s.apply(ctx, n-base, func(off int) {
			w.EliminateRow(base+off, k)
		}); err != nil {
			return 0, false, err
		}
	}

	return w.Det(), false, nil
}

// Eigen implements Strategy: the same round loop as eigen.Run, with the
// per-column reductions of Gram-Schmidt and the matrix products scheduled
// on the pool.
func (s *SharedMemory) Eigen(ctx context.Context, m *matrix.Dense, p eigen.Params) (*eigen.Result, error) {
	st, err := eigen.NewState(m, p)
	if err != nil {
		return nil, err
	}
	mul := func(a, b *matrix.Dense) (*matrix.Dense, error) { return s.Mul(ctx, a, b) }
	for !st.Exhausted() {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		q, r, err := s.qr(ctx, st.Iterate())
		if err != nil {
			return nil, err
		}
		if err = st.Advance(q, r, mul); err != nil {
			return nil, err
		}
		if st.Converged() {
			break
		}
	}

	return st.Finish(), nil
}

// qr is the pool-scheduled modified Gram-Schmidt. Columns stay strictly
// ordered (column j needs every k < j finished); within a column, the
// row-dimension copy, the projection dot product, the subtraction, the
// norm and the final scaling each fan out over [0,n) with a join between
// the reduction and the dependent update.
func (s *SharedMemory) qr(ctx context.Context, a *matrix.Dense) (q, r *matrix.Dense, err error) {
	if err = matrix.ValidateSquareNonNil(a); err != nil {
		return nil, nil, fmt.Errorf("qr: %w", err)
	}
	n := a.Rows()
	if q, err = matrix.NewDense(n, n); err != nil {
		return nil, nil, err
	}
	if r, err = matrix.NewDense(n, n); err != nil {
		return nil, nil, err
	}
	ad, qd, rd := a.Raw(), q.Raw(), r.Raw()
	for j := 0; j < n; j++ {
		if err = s.apply(ctx, n, func(i int) {
			qd[i*n+j] = ad[i*n+j]
		}); err != nil {
			return nil, nil, err
		}
		for k := 0; k < j; k++ {
			// Projection coefficient: must be complete before the
			// subtraction below reads it.
			dot, derr := s.reduce(ctx, n, func(i int) float64 {
				return qd[i*n+k] * qd[i*n+j]
			})
			if derr != nil {
				return nil, nil, derr
			}
			rd[k*n+j] = dot
			if err = s.apply(ctx, n, func(i int) {
				qd[i*n+j] -= dot * qd[i*n+k]
			}); err != nil {
				return nil, nil, err
			}
		}
		norm, nerr := s.reduce(ctx, n, func(i int) float64 {
			return qd[i*n+j] * qd[i*n+j]
		})
		if nerr != nil {
			return nil, nil, nerr
		}
		norm = math.Sqrt(norm)
		if norm < eigen.BreakdownEps {
			return nil, nil, fmt.Errorf("qr: column %d: %w", j, eigen.ErrBreakdown)
		}
		rd[j*n+j] = norm
		if err = s.apply(ctx, n, func(i int) {
			qd[i*n+j] /= norm
		}); err != nil {
			return nil, nil, err
		}
	}

	return q, r, nil
}
