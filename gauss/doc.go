// SPDX-License-Identifier: MIT

// Package gauss computes determinants by Gaussian elimination with partial
// pivoting.
//
// The elimination runs over a Workspace: a mutable N×N flat copy of the
// input carrying a running sign multiplier that flips on every row swap.
// Determinant is the sequential baseline; the individual steps (PivotRow,
// Swap, EliminateRow, EliminateSegment) are exported so the execution
// strategies can reschedule the row updates of one pivot step while keeping
// the strict step-k-after-step-k-1 ordering.
//
// A pivot whose magnitude falls below PivotEps does not fail the
// computation: the matrix is singular and the determinant is exactly 0.
// The algorithm never divides by such a pivot.
package gauss
