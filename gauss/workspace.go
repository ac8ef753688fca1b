// SPDX-License-Identifier: MIT

package gauss

import (
	"fmt"
	"math"

	"github.com/katalvlaran/matrace/matrix"
)

// PivotEps is the singularity threshold: a pivot with |value| below it
// declares the matrix singular (determinant exactly 0) and stops the
// elimination early. No division ever happens against such a pivot.
const PivotEps = 1e-12

// Workspace is a mutable N×N elimination scratchpad: a contiguous row-major
// copy of the input plus the running determinant sign. It is created fresh
// per computation and is dead once the determinant has been read.
//
// Invariant: after step k completes, every entry below the diagonal in
// columns 0..k is exactly zero.
type Workspace struct {
	n    int
	sign float64
	a    []float64 // row-major n*n copy, mutated in place
}

// NewWorkspace copies m into a fresh elimination workspace.
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare.
// Complexity: O(n²) for the copy.
func NewWorkspace(m *matrix.Dense) (*Workspace, error) {
	if err := matrix.ValidateSquareNonNil(m); err != nil {
		return nil, fmt.Errorf("NewWorkspace: %w", err)
	}
	n := m.Rows()
	a := make([]float64, n*n)
	copy(a, m.Raw())

	return &Workspace{n: n, sign: 1.0, a: a}, nil
}

// N returns the workspace dimension.
func (w *Workspace) N() int { return w.n }

// Sign returns the running sign multiplier (±1).
func (w *Workspace) Sign() float64 { return w.sign }

// At reads entry (i,j). Bounds are the caller's responsibility; the
// workspace is an internal hot structure, not a public matrix type.
func (w *Workspace) At(i, j int) float64 { return w.a[i*w.n+j] }

// PivotRow selects the partial pivot for column k: the row p ≥ k maximizing
// |A[p,k]|, ties resolved to the smallest index. Returns the row and the
// winning magnitude so the caller can test it against PivotEps.
// Complexity: O(n-k).
func (w *Workspace) PivotRow(k int) (row int, mag float64) {
	row = k
	mag = math.Abs(w.a[k*w.n+k])
	for i := k + 1; i < w.n; i++ {
		if v := math.Abs(w.a[i*w.n+k]); v > mag {
			mag = v
			row = i
		}
	}

	return row, mag
}

// Swap exchanges rows r1 and r2 and flips the determinant sign.
// A self-swap is a no-op and does not touch the sign.
func (w *Workspace) Swap(r1, r2 int) {
	if r1 == r2 {
		return
	}
	a, n := w.a, w.n
	for j := 0; j < n; j++ {
		a[r1*n+j], a[r2*n+j] = a[r2*n+j], a[r1*n+j]
	}
	w.sign = -w.sign
}

// EliminateRow applies the step-k row update to row i (i > k):
//
//	factor = A[i,k] / A[k,k]
//	A[i,k] = 0 exactly (written, not computed, to avoid rounding drift)
//	A[i,j] -= factor * A[k,j]   for j > k
//
// Rows are disjoint for a fixed k, so different i may run concurrently;
// step k must be fully complete before step k+1 starts.
// Complexity: O(n-k).
func (w *Workspace) EliminateRow(i, k int) {
	a, n := w.a, w.n
	factor := a[i*n+k] / a[k*n+k]
	a[i*n+k] = 0.0
	for j := k + 1; j < n; j++ {
		a[i*n+j] -= factor * a[k*n+j]
	}
}

// Segment returns a fresh copy of row i restricted to columns k..n-1,
// exactly the snapshot an isolated row worker needs for step k.
func (w *Workspace) Segment(i, k int) []float64 {
	seg := make([]float64, w.n-k)
	copy(seg, w.a[i*w.n+k:(i+1)*w.n])

	return seg
}

// SetSegment writes seg back into row i starting at column k. seg must
// carry exactly n-k values; this is the reassembly half of Segment.
func (w *Workspace) SetSegment(i, k int, seg []float64) error {
	if len(seg) != w.n-k {
		return fmt.Errorf("SetSegment(%d,%d): got %d values, want %d: %w",
			i, k, len(seg), w.n-k, matrix.ErrDimensionMismatch)
	}
	copy(w.a[i*w.n+k:(i+1)*w.n], seg)

	return nil
}

// Det returns sign * product of the diagonal, the determinant once the
// elimination has run to completion.
func (w *Workspace) Det() float64 {
	det := w.sign
	for i := 0; i < w.n; i++ {
		det *= w.a[i*w.n+i]
	}

	return det
}

// EliminateSegment is the pure, shared-nothing form of the row update:
// row and pivot are the column-k..n-1 segments of row i and of the pivot
// row. The returned segment has an exact 0.0 in position 0.
//
// This is the payload function of the process-isolated strategy: it sees
// only the two segments, never the workspace.
func EliminateSegment(row, pivot []float64) []float64 {
	out := make([]float64, len(row))
	factor := row[0] / pivot[0]
	out[0] = 0.0
	for j := 1; j < len(row); j++ {
		out[j] = row[j] - factor*pivot[j]
	}

	return out
}
