// SPDX-License-Identifier: MIT

package strategy_test

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/matrace/eigen"
	"github.com/katalvlaran/matrace/matrix"
	"github.com/katalvlaran/matrace/strategy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// all returns every execution model, with the pool variant forced onto its
// parallel paths even for the small fixtures used here.
func all() []strategy.Strategy {
	return []strategy.Strategy{
		strategy.NewSequential(),
		&strategy.SharedMemory{Workers: 3, MinChunk: 1},
		strategy.NewProcessIsolated(),
	}
}

func mustFromRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)

	return m
}

// randomDense fills an r×c matrix from a fixed seed so every run and every
// strategy sees identical inputs.
func randomDense(t *testing.T, rng *rand.Rand, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)
	d := m.Raw()
	for i := range d {
		d[i] = rng.Float64()*20 - 10
	}

	return m
}

func requireSameDense(t *testing.T, want, got *matrix.Dense, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	wd, gd := want.Raw(), got.Raw()
	for i := range wd {
		require.InDelta(t, wd[i], gd[i], tol, "cell %d", i)
	}
}

// TestStrategiesAgreeElementwise: all three models produce identical sums
// and differences on the same inputs.
func TestStrategiesAgreeElementwise(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	a := randomDense(t, rng, 5, 9)
	b := randomDense(t, rng, 5, 9)

	wantAdd, err := matrix.Add(a, b)
	require.NoError(t, err)
	wantSub, err := matrix.Sub(a, b)
	require.NoError(t, err)

	for _, s := range all() {
		gotAdd, err := s.Add(context.Background(), a, b)
		require.NoError(t, err, s.Name())
		requireSameDense(t, wantAdd, gotAdd, 1e-12)

		gotSub, err := s.Sub(context.Background(), a, b)
		require.NoError(t, err, s.Name())
		requireSameDense(t, wantSub, gotSub, 1e-12)
	}
}

// TestStrategiesAgreeMul: a 6×4 by 4×7 product matches the sequential
// kernel under every model.
func TestStrategiesAgreeMul(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	a := randomDense(t, rng, 6, 4)
	b := randomDense(t, rng, 4, 7)

	want, err := matrix.Mul(a, b)
	require.NoError(t, err)

	for _, s := range all() {
		got, err := s.Mul(context.Background(), a, b)
		require.NoError(t, err, s.Name())
		requireSameDense(t, want, got, 1e-9)
	}
}

// TestStrategiesAgreeDeterminant: same pivots, same arithmetic order per
// row, so the results agree tightly.
func TestStrategiesAgreeDeterminant(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(13))
	m := randomDense(t, rng, 7, 7)

	for _, s := range all() {
		det, singular, err := s.Determinant(context.Background(), m)
		require.NoError(t, err, s.Name())
		require.False(t, singular, s.Name())
		require.NotZero(t, det, s.Name())
	}

	seqDet, _, err := strategy.NewSequential().Determinant(context.Background(), m)
	require.NoError(t, err)
	for _, s := range all()[1:] {
		det, _, err := s.Determinant(context.Background(), m)
		require.NoError(t, err, s.Name())
		require.InDelta(t, seqDet, det, math.Abs(seqDet)*1e-9, s.Name())
	}
}

// TestStrategiesAgreeSingular: linearly dependent rows report the defined
// result det=0, singular=true, with no error, under every model.
func TestStrategiesAgreeSingular(t *testing.T) {
	t.Parallel()

	m := mustFromRows(t, [][]float64{
		{1, 2, 3},
		{2, 4, 6},
		{0, 1, -1},
	})
	for _, s := range all() {
		det, singular, err := s.Determinant(context.Background(), m)
		require.NoError(t, err, s.Name())
		require.True(t, singular, s.Name())
		require.Equal(t, 0.0, det, s.Name())
	}
}

// TestStrategiesAgreeEigen: a symmetric fixture converges under every
// model to the same spectrum, and each model's round loop certifies an
// already-diagonal input in exactly one round.
func TestStrategiesAgreeEigen(t *testing.T) {
	t.Parallel()

	m := mustFromRows(t, [][]float64{
		{2, 1, 0},
		{1, 3, 1},
		{0, 1, 4},
	})
	diag := mustFromRows(t, [][]float64{
		{6, 0, 0},
		{0, -1, 0},
		{0, 0, 2.5},
	})

	var want []float64
	for _, s := range all() {
		res, err := s.Eigen(context.Background(), m, eigen.Params{})
		require.NoError(t, err, s.Name())
		require.True(t, res.Converged, s.Name())

		got := append([]float64(nil), res.Values...)
		sort.Float64s(got)
		if want == nil {
			want = got
		} else {
			require.InDeltaSlice(t, want, got, 1e-6, s.Name())
		}

		dres, err := s.Eigen(context.Background(), diag, eigen.Params{})
		require.NoError(t, err, s.Name())
		require.True(t, dres.Converged, s.Name())
		require.Equal(t, 1, dres.Rounds, s.Name())
	}
}

// TestShapeMismatchFailsFast: every model rejects incompatible shapes
// before spawning any work.
func TestShapeMismatchFailsFast(t *testing.T) {
	t.Parallel()

	a := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	rect := mustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	for _, s := range all() {
		_, err := s.Add(context.Background(), a, b)
		require.ErrorIs(t, err, matrix.ErrDimensionMismatch, s.Name())

		_, err = s.Sub(context.Background(), a, b)
		require.ErrorIs(t, err, matrix.ErrDimensionMismatch, s.Name())

		_, err = s.Mul(context.Background(), b, rect)
		require.ErrorIs(t, err, matrix.ErrDimensionMismatch, s.Name())

		_, _, err = s.Determinant(context.Background(), rect)
		require.ErrorIs(t, err, matrix.ErrNonSquare, s.Name())

		_, err = s.Eigen(context.Background(), rect, eigen.Params{})
		require.ErrorIs(t, err, matrix.ErrNonSquare, s.Name())
	}
}

// TestCancelledContext: an already-cancelled context stops every model
// before it produces a result.
func TestCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := mustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	for _, s := range all() {
		_, err := s.Add(ctx, a, a)
		require.ErrorIs(t, err, context.Canceled, s.Name())

		_, _, err = s.Determinant(ctx, a)
		require.ErrorIs(t, err, context.Canceled, s.Name())
	}
}

// TestOperandsUntouched: running all models over the same inputs leaves
// the operands bit-identical, so strategies can race on shared fixtures.
func TestOperandsUntouched(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(17))
	a := randomDense(t, rng, 5, 5)
	b := randomDense(t, rng, 5, 5)
	aBefore := append([]float64(nil), a.Raw()...)
	bBefore := append([]float64(nil), b.Raw()...)

	for _, s := range all() {
		_, err := s.Mul(context.Background(), a, b)
		require.NoError(t, err)
		_, _, err = s.Determinant(context.Background(), a)
		require.NoError(t, err)
		_, err = s.Eigen(context.Background(), a, eigen.Params{MaxRounds: 10})
		require.NoError(t, err)
	}

	require.Equal(t, aBefore, a.Raw())
	require.Equal(t, bBefore, b.Raw())
}
