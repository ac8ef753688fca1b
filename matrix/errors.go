// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors. All kernels return
// these sentinels (wrapped with an operation tag at the facade) and tests
// match them via errors.Is. No kernel panics on user-triggered conditions.

package matrix

import "errors"

var (
	// ErrBadShape is returned when requested extents are invalid (r<=0 or
	// c<=0) or when row data is ragged. Creation validates before allocating.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that a row or column index is outside valid
	// bounds. Public indexers (At/Set) return this, they never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand dimensions:
	// Add/Sub with different shapes, or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input
	// wasn't. Determinant and eigen computations reject such inputs before
	// touching any element.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNilMatrix indicates that a nil *Dense was passed where a value is
	// required.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)
