// SPDX-License-Identifier: MIT

package gauss

import "github.com/katalvlaran/matrace/matrix"

// Determinant computes det(m) by Gaussian elimination with partial
// pivoting, the sequential baseline every strategy must agree with.
//
// Implementation:
//   - Stage 1: copy m into a Workspace (square validated there).
//   - Stage 2: for each pivot column k: select the pivot (largest |A[i,k]|,
//     i ≥ k, ties to the smallest index); a sub-PivotEps pivot means the
//     matrix is singular: return 0 immediately, with singular=true, as a
//     defined result, not an error; otherwise swap the pivot row up
//     (flipping the sign) and eliminate every row below.
//   - Stage 3: determinant = sign * product of the final diagonal.
//
// Determinism: fixed k → i → j order.
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare (before elimination).
// Complexity: Time O(n³), Space O(n²) for the workspace.
func Determinant(m *matrix.Dense) (det float64, singular bool, err error) {
	w, err := NewWorkspace(m)
	if err != nil {
		return 0, false, err
	}

	return Eliminate(w)
}

// Eliminate drives a prepared workspace to completion and reads the
// determinant. Split from Determinant so callers that build the workspace
// themselves (the strategies) reuse the identical control flow.
func Eliminate(w *Workspace) (det float64, singular bool, err error) {
	n := w.N()
	for k := 0; k < n; k++ {
		p, mag := w.PivotRow(k)
		if mag < PivotEps {
			return 0.0, true, nil
		}
		w.Swap(k, p)
		for i := k + 1; i < n; i++ {
			w.EliminateRow(i, k)
		}
	}

	return w.Det(), false, nil
}
