// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matrace/matrix"
)

// mustFromRows builds a Dense or fails the test.
func mustFromRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)

	return m
}

// requireAllClose asserts element-wise equality within eps.
func requireAllClose(t *testing.T, want [][]float64, got *matrix.Dense, eps float64) {
	t.Helper()
	require.Equal(t, len(want), got.Rows())
	require.Equal(t, len(want[0]), got.Cols())
	for i := range want {
		for j := range want[i] {
			v, err := got.At(i, j)
			require.NoError(t, err)
			require.InDelta(t, want[i][j], v, eps, "cell (%d,%d)", i, j)
		}
	}
}

// TestAddSubExact checks exact per-cell sums and differences.
func TestAddSubExact(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := mustFromRows(t, [][]float64{{0.5, -2, 3}, {1, 1, -6}})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	requireAllClose(t, [][]float64{{1.5, 0, 6}, {5, 6, 0}}, sum, 0)

	diff, err := matrix.Sub(a, b)
	require.NoError(t, err)
	requireAllClose(t, [][]float64{{0.5, 4, 0}, {3, 4, 12}}, diff, 0)
}

// TestAddShapeMismatch must fail fast, before any arithmetic.
func TestAddShapeMismatch(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}}) // 2x3
	b := mustFromRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}) // 3x2

	_, err := matrix.Add(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Sub(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Add(nil, b)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMulReference checks the product against a hand-computed reference.
func TestMulReference(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}}) // 2x3
	b := mustFromRows(t, [][]float64{{7, 8}, {9, 10}, {11, 12}}) // 3x2

	prod, err := matrix.Mul(a, b)
	require.NoError(t, err)
	requireAllClose(t, [][]float64{{58, 64}, {139, 154}}, prod, 1e-12)

	// Inner-dimension mismatch: 2x3 times 2x3.
	_, err = matrix.Mul(a, a)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestMulIdentity verifies A·I == A.
func TestMulIdentity(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]float64{{1, -2}, {3.5, 4}})
	id, err := matrix.Identity(2)
	require.NoError(t, err)

	prod, err := matrix.Mul(a, id)
	require.NoError(t, err)
	requireAllClose(t, [][]float64{{1, -2}, {3.5, 4}}, prod, 0)
}

// TestMulRowMatchesMul checks the per-row unit against the fused kernel.
func TestMulRowMatchesMul(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]float64{{1, 2, 3}, {0, -1, 2}})
	b := mustFromRows(t, [][]float64{{1, 0}, {2, 1}, {-1, 3}})

	whole, err := matrix.Mul(a, b)
	require.NoError(t, err)

	for i := 0; i < a.Rows(); i++ {
		row, err := a.CopyRow(i)
		require.NoError(t, err)
		got, err := matrix.MulRow(row, b)
		require.NoError(t, err)
		for j := 0; j < b.Cols(); j++ {
			want, err := whole.At(i, j)
			require.NoError(t, err)
			require.Equal(t, want, got[j])
		}
	}

	_, err = matrix.MulRow([]float64{1, 2}, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestNaNPropagation: kernels leave IEEE-754 specials untouched.
func TestNaNPropagation(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]float64{{math.NaN(), 1}})
	b := mustFromRows(t, [][]float64{{1, math.Inf(1)}})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	v, _ := sum.At(0, 0)
	require.True(t, math.IsNaN(v))
	v, _ = sum.At(0, 1)
	require.True(t, math.IsInf(v, 1))
}

// TestScaleTranspose covers the convenience kernels.
func TestScaleTranspose(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})

	sc, err := matrix.Scale(a, -2)
	require.NoError(t, err)
	requireAllClose(t, [][]float64{{-2, -4}, {-6, -8}}, sc, 0)

	tr, err := matrix.Transpose(mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}}))
	require.NoError(t, err)
	requireAllClose(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, tr, 0)
}
