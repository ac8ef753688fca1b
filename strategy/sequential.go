// SPDX-License-Identifier: MIT

package strategy

import (
	"context"

	"github.com/katalvlaran/matrace/eigen"
	"github.com/katalvlaran/matrace/gauss"
	"github.com/katalvlaran/matrace/matrix"
)

// Sequential is the single-control-flow baseline: the kernels run exactly
// as written in matrix, gauss and eigen, with no suspension points. The
// context is honored only at entry; once a sequential computation starts
// it runs to completion.
type Sequential struct{}

// NewSequential returns the baseline strategy.
func NewSequential() *Sequential { return &Sequential{} }

// Name implements Strategy.
func (*Sequential) Name() string { return "sequential" }

// Add implements Strategy via the flat-loop kernel.
func (*Sequential) Add(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return matrix.Add(a, b)
}

// Sub implements Strategy via the flat-loop kernel.
func (*Sequential) Sub(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return matrix.Sub(a, b)
}

// Mul implements Strategy via the i→k→j kernel.
func (*Sequential) Mul(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return matrix.Mul(a, b)
}

// Determinant implements Strategy via the baseline elimination loop.
func (*Sequential) Determinant(ctx context.Context, m *matrix.Dense) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	return gauss.Determinant(m)
}

// Eigen implements Strategy via the baseline QR iteration.
func (*Sequential) Eigen(ctx context.Context, m *matrix.Dense, p eigen.Params) (*eigen.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return eigen.Run(m, p)
}
