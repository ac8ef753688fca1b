// SPDX-License-Identifier: MIT

package strategy

import (
	"context"

	"github.com/katalvlaran/matrace/eigen"
	"github.com/katalvlaran/matrace/matrix"
)

// Strategy is one execution model over the full operation set. Every
// variant is stateless across invocations and safe for concurrent use.
//
// Operands are never mutated and never retained: each call works on its
// own copy, so two strategies can run back-to-back (or concurrently) on
// the same inputs without observing each other's intermediate state.
//
// Determinant returns (det, singular, err): a sub-threshold pivot is the
// defined result det=0 with singular=true, not an error. Eigen returns
// best-effort results with Converged=false when the round cap is spent;
// only decomposition breakdown is an error.
type Strategy interface {
	// Name identifies the variant in records and logs.
	Name() string

	// Add computes the element-wise sum of two same-shape matrices.
	Add(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error)

	// Sub computes the element-wise difference of two same-shape matrices.
	Sub(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error)

	// Mul computes the matrix product; requires a.Cols() == b.Rows().
	Mul(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error)

	// Determinant runs Gaussian elimination with partial pivoting.
	Determinant(ctx context.Context, m *matrix.Dense) (det float64, singular bool, err error)

	// Eigen runs QR iteration with the given parameters.
	Eigen(ctx context.Context, m *matrix.Dense, p eigen.Params) (*eigen.Result, error)
}
