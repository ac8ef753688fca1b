// SPDX-License-Identifier: MIT

// Package eigen extracts eigenvalues and eigenvectors by classical QR
// iteration.
//
// Each round factors the current iterate A into an orthonormal Q and an
// upper-triangular R via modified Gram-Schmidt, accumulates the transform
// V ← V·Q, and recombines A ← R·Q. The diagonal of A converges toward the
// eigenvalues and the columns of V toward the eigenvectors of a
// diagonalizable real matrix.
//
// Two outcomes are results, not errors: a singular/near-rank-deficient
// input breaks the decomposition (ErrBreakdown, no eigenvalues returned),
// and exhausting the round cap returns the best-available iterate tagged
// Converged=false with the actual round count.
//
// Known limitation: matrices with complex-conjugate eigenvalue pairs (pure
// rotations and their relatives) never meet the off-diagonal tolerance;
// the iteration runs to its round cap and reports non-convergence. This
// solver does not extract 2×2 Schur blocks.
package eigen
