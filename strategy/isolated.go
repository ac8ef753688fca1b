// SPDX-License-Identifier: MIT

package strategy

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/katalvlaran/matrace/eigen"
	"github.com/katalvlaran/matrace/gauss"
	"github.com/katalvlaran/matrace/matrix"
)

// DefaultMaxWorkers caps how many isolated workers one operation may
// spawn at a time. An operation that would need more fails up front with
// ErrResourceExhausted instead of degrading.
const DefaultMaxWorkers = 4096

// ProcessIsolated runs one worker per unit of work. A worker never
// touches the operands: the coordinator serializes the slice of input the
// unit needs, the worker decodes its private copy, computes, and answers
// over its own dedicated byte channel using the fixed-size framing in
// codec.go. The coordinator drains the channels in unit-index order, so
// reassembly needs no sequence numbers and results land deterministically.
//
// Failure locality: a worker that cannot produce its payload closes its
// channel with the cause, the coordinator sees that exact error on read,
// tears down the remaining channels and joins every worker before
// reporting. One bad unit fails the attempt; it never wedges it.
type ProcessIsolated struct {
	MaxWorkers int // spawn ceiling per operation; <=0 means DefaultMaxWorkers

	// test seams; nil outside tests
	onSpawn   func(unit int)
	onCollect func(unit int)
}

// NewProcessIsolated returns an isolated-worker strategy with the default
// spawn ceiling.
func NewProcessIsolated() *ProcessIsolated { return &ProcessIsolated{} }

// Name implements Strategy.
func (*ProcessIsolated) Name() string { return "process-isolated" }

func (p *ProcessIsolated) maxWorkers() int {
	if p.MaxWorkers > 0 {
		return p.MaxWorkers
	}

	return DefaultMaxWorkers
}

// fanOut spawns one worker per unit in [0,units) and drains their answers
// in unit order.
//
//   - request(u) is evaluated on the coordinator and shipped to worker u
//     as its only view of the inputs;
//   - work(u, in) runs in the worker against the decoded private copy;
//   - respLen(u) is the exact float count worker u must answer with;
//   - sink(u, out) is applied on the coordinator, in ascending u.
//
// On any failure the remaining channels are closed with the cause so no
// writer blocks forever, every worker is joined, and the first error comes
// back wrapped with ErrWorker while still matching the original cause via
// errors.Is.
func (p *ProcessIsolated) fanOut(
	ctx context.Context,
	tag string,
	units int,
	request func(unit int) []float64,
	respLen func(unit int) int,
	work func(unit int, in []float64) ([]float64, error),
	sink func(unit int, out []float64),
) error {
	if units > p.maxWorkers() {
		return fmt.Errorf("%s: %d workers needed, ceiling is %d: %w",
			tag, units, p.maxWorkers(), ErrResourceExhausted)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	readers := make([]*io.PipeReader, units)
	var wg sync.WaitGroup
	for u := 0; u < units; u++ {
		pr, pw := io.Pipe()
		readers[u] = pr
		req := encodeFloats(request(u))
		if p.onSpawn != nil {
			p.onSpawn(u)
		}
		wg.Add(1)
		go func(u int, pw *io.PipeWriter, req []byte) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				pw.CloseWithError(err)

				return
			}
			in, _ := decodeFloats(req, 0, len(req)/wordSize)
			out, err := work(u, in)
			if err != nil {
				pw.CloseWithError(err)

				return
			}
			if err = writeFloats(pw, out); err != nil {
				pw.CloseWithError(err)

				return
			}
			pw.Close()
		}(u, pw, req)
	}

	var ferr error
	for u := 0; u < units; u++ {
		if ferr == nil {
			ferr = ctx.Err()
		}
		if ferr != nil {
			// Unblock the writer; its payload is no longer wanted.
			readers[u].CloseWithError(ferr)

			continue
		}
		out, err := readFloats(readers[u], respLen(u))
		if err != nil {
			ferr = fmt.Errorf("%s: unit %d: %w: %w", tag, u, ErrWorker, err)
			readers[u].CloseWithError(err)

			continue
		}
		readers[u].Close()
		sink(u, out)
		if p.onCollect != nil {
			p.onCollect(u)
		}
	}
	wg.Wait()

	return ferr
}

// elementwise fans out one worker per cell; each receives exactly the two
// operand values of its cell and answers with one.
func (p *ProcessIsolated) elementwise(ctx context.Context, a, b *matrix.Dense, sign float64, tag string) (*matrix.Dense, error) {
	if err := matrix.ValidateBinarySameShape(a, b); err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	res, err := matrix.NewDense(a.Rows(), a.Cols())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	ad, bd, rd := a.Raw(), b.Raw(), res.Raw()
	err = p.fanOut(ctx, tag, len(rd),
		func(u int) []float64 { return []float64{ad[u], bd[u]} },
		func(int) int { return 1 },
		func(_ int, in []float64) ([]float64, error) {
			return []float64{in[0] + sign*in[1]}, nil
		},
		func(u int, out []float64) { rd[u] = out[0] },
	)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Add implements Strategy.
func (p *ProcessIsolated) Add(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	return p.elementwise(ctx, a, b, +1, "Add")
}

// Sub implements Strategy.
func (p *ProcessIsolated) Sub(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	return p.elementwise(ctx, a, b, -1, "Sub")
}

// Mul implements Strategy: one worker per output cell. Worker (i,j)
// receives row i of a followed by column j of b and answers with their
// dot product.
func (p *ProcessIsolated) Mul(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, fmt.Errorf("Mul: %w", err)
	}
	res, err := matrix.NewDense(a.Rows(), b.Cols())
	if err != nil {
		return nil, fmt.Errorf("Mul: %w", err)
	}
	rd := res.Raw()
	n, c := a.Cols(), b.Cols()
	err = p.fanOut(ctx, "Mul", len(rd),
		func(u int) []float64 {
			row, _ := a.CopyRow(u / c)
			col, _ := b.CopyCol(u % c)

			return append(row, col...)
		},
		func(int) int { return 1 },
		func(_ int, in []float64) ([]float64, error) {
			dot := 0.0
			for k := 0; k < n; k++ {
				dot += in[k] * in[n+k]
			}

			return []float64{dot}, nil
		},
		func(u int, out []float64) { rd[u] = out[0] },
	)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Determinant implements Strategy. The coordinator keeps the workspace,
// picks pivots and swaps rows; for every elimination step it fans out one
// worker per row below the pivot. A worker receives its row segment and
// the pivot segment, eliminates, and ships the updated segment back. All
// channels of step k are drained before step k+1 begins, because step k+1
// pivots on rows step k produced.
func (p *ProcessIsolated) Determinant(ctx context.Context, m *matrix.Dense) (float64, bool, error) {
	w, err := gauss.NewWorkspace(m)
	if err != nil {
		return 0, false, err
	}
	n := w.N()
	for k := 0; k < n; k++ {
		piv, mag := w.PivotRow(k)
		if mag < gauss.PivotEps {
			return 0.0, true, nil
		}
		w.Swap(k, piv)
		base, seg := k+1, n-k
		err = p.fanOut(ctx, "Determinant", n-base,
			func(off int) []float64 {
				return append(w.Segment(base+off, k), w.Segment(k, k)...)
			},
			func(int) int { return seg },
			func(_ int, in []float64) ([]float64, error) {
				return gauss.EliminateSegment(in[:seg], in[seg:]), nil
			},
			func(off int, out []float64) { _ = w.SetSegment(base+off, k, out) },
		)
		if err != nil {
			return 0, false, err
		}
	}

	return w.Det(), false, nil
}

// Eigen implements Strategy: one worker per round. The worker receives a
// snapshot of the current iterate, factors it, and ships Q followed by R
// as one 2n² payload; the coordinator applies the similarity update and
// decides convergence. Decomposition breakdown travels back through the
// channel closure and still matches eigen.ErrBreakdown.
func (p *ProcessIsolated) Eigen(ctx context.Context, m *matrix.Dense, prm eigen.Params) (*eigen.Result, error) {
	st, err := eigen.NewState(m, prm)
	if err != nil {
		return nil, err
	}
	n := st.Iterate().Rows()
	sq := n * n
	for !st.Exhausted() {
		q, qerr := matrix.NewDense(n, n)
		if qerr != nil {
			return nil, qerr
		}
		r, rerr := matrix.NewDense(n, n)
		if rerr != nil {
			return nil, rerr
		}
		err = p.fanOut(ctx, "Eigen", 1,
			func(int) []float64 {
				return append([]float64(nil), st.Iterate().Raw()...)
			},
			func(int) int { return 2 * sq },
			func(_ int, in []float64) ([]float64, error) {
				am, aerr := matrix.NewDense(n, n)
				if aerr != nil {
					return nil, aerr
				}
				copy(am.Raw(), in)
				wq, wr, werr := eigen.QR(am)
				if werr != nil {
					return nil, werr
				}
				out := make([]float64, 0, 2*sq)
				out = append(out, wq.Raw()...)

				return append(out, wr.Raw()...), nil
			},
			func(_ int, out []float64) {
				copy(q.Raw(), out[:sq])
				copy(r.Raw(), out[sq:])
			},
		)
		if err != nil {
			return nil, err
		}
		if err = st.Advance(q, r, nil); err != nil {
			return nil, err
		}
		if st.Converged() {
			break
		}
	}

	return st.Finish(), nil
}
