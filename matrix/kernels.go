// SPDX-License-Identifier: MIT
// Package matrix: sequential linear-algebra kernels.
// These are the single-control-flow reference implementations. The strategy
// package reuses their validation and result allocation and re-schedules
// only the inner loops; the mathematics lives here exactly once.

package matrix

import "fmt"

// Operation tags for unified error wrapping (no magic strings at call sites).
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opScale     = "Scale"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
)

// kernelErrorf wraps err with an operation tag, preserving the sentinel
// for errors.Is. Call only with a non-nil err.
func kernelErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes element-wise out = a + sign*b for sign ∈ {+1, -1}.
// Shared validation/allocation for Add and Sub; operands are not mutated.
//
// Implementation:
//   - Stage 1: ValidateBinarySameShape(a, b); allocate the result.
//   - Stage 2: one flat pass 0..r*c-1 over the backing slices.
//
// Determinism: fixed flat order. Complexity: Time O(r*c), Space O(r*c).
func addSub(a, b *Dense, sign float64, tag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, kernelErrorf(tag, err)
	}
	res, err := NewDense(a.r, a.c)
	if err != nil {
		return nil, kernelErrorf(tag, err)
	}
	for idx := range res.data {
		res.data[idx] = a.data[idx] + sign*b.data[idx]
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B into a fresh Dense.
// Errors: ErrNilMatrix, ErrDimensionMismatch. Time O(r*c).
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub computes the element-wise difference C = A - B into a fresh Dense.
// Errors: ErrNilMatrix, ErrDimensionMismatch. Time O(r*c).
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: ValidateMulCompatible (a.Cols == b.Rows); allocate C.
//   - Stage 2: i→k→j accumulation with row-major strides, skipping zero
//     A[i,k] to avoid useless multiplies.
//
// Determinism: fixed loop order, stable accumulation.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, kernelErrorf(opMul, err)
	}
	res, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, kernelErrorf(opMul, err)
	}
	var av float64
	var rowA, rowB, rowR int
	for i := 0; i < a.r; i++ {
		rowA = i * a.c
		rowR = i * b.c
		for k := 0; k < a.c; k++ {
			av = a.data[rowA+k]
			if av == 0 {
				continue
			}
			rowB = k * b.c
			for j := 0; j < b.c; j++ {
				res.data[rowR+j] += av * b.data[rowB+j]
			}
		}
	}

	return res, nil
}

// MulRow computes one row of the product A × B: out[j] = Σ_k row[k]*B[k,j].
// row must carry a.Cols == b.Rows elements. This is the per-row unit of
// work the strategies schedule independently; Mul above is the fused loop.
// Errors: ErrNilMatrix, ErrDimensionMismatch. Time O(n*c).
func MulRow(row []float64, b *Dense) ([]float64, error) {
	if err := ValidateNotNil(b); err != nil {
		return nil, kernelErrorf(opMul, err)
	}
	if len(row) != b.r {
		return nil, kernelErrorf(opMul, ErrDimensionMismatch)
	}
	out := make([]float64, b.c)
	for k, av := range row {
		if av == 0 {
			continue
		}
		rowB := k * b.c
		for j := 0; j < b.c; j++ {
			out[j] += av * b.data[rowB+j]
		}
	}

	return out, nil
}

// MatVec computes y = m · x for a column vector x with len(x) == m.Cols().
// Skips zero x[j] entries. Errors: ErrNilMatrix, ErrDimensionMismatch.
// Time O(r*c), Space O(r).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, kernelErrorf(opMatVec, err)
	}
	if len(x) != m.c {
		return nil, kernelErrorf(opMatVec, ErrDimensionMismatch)
	}
	y := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		base := i * m.c
		acc := 0.0
		for j, xv := range x {
			if xv != 0 {
				acc += m.data[base+j] * xv
			}
		}
		y[i] = acc
	}

	return y, nil
}

// Scale returns a fresh matrix with elements alpha * m[i,j].
// NaN/Inf alphas propagate per IEEE-754. Errors: ErrNilMatrix. Time O(r*c).
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, kernelErrorf(opScale, err)
	}
	res, err := NewDense(m.r, m.c)
	if err != nil {
		return nil, kernelErrorf(opScale, err)
	}
	for idx := range res.data {
		res.data[idx] = m.data[idx] * alpha
	}

	return res, nil
}

// Transpose returns a fresh matrix with rows and columns swapped (mᵀ).
// Errors: ErrNilMatrix. Time O(r*c), Space O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, kernelErrorf(opTranspose, err)
	}
	res, err := NewDense(m.c, m.r)
	if err != nil {
		return nil, kernelErrorf(opTranspose, err)
	}
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[base+j]
		}
	}

	return res, nil
}
