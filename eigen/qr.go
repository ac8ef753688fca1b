// SPDX-License-Identifier: MIT

package eigen

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/matrace/matrix"
)

// BreakdownEps is the column-norm floor for Gram-Schmidt: a working column
// whose norm drops below it means the matrix is numerically rank-deficient
// and the decomposition must fail rather than emit garbage.
const BreakdownEps = 1e-14

// ErrBreakdown is returned when orthogonalization meets a near-zero-norm
// column. The computation aborts; no eigenvalues are produced.
var ErrBreakdown = errors.New("eigen: QR breakdown, matrix is rank-deficient")

// QR factors a square matrix into Q (orthonormal columns) and R (upper
// triangular) by modified Gram-Schmidt.
//
// Implementation:
//   - Stage 1: validate square input; allocate Q and R.
//   - Stage 2: for each column j: start from A[:,j], subtract the
//     projection onto every previously finished column k < j (recording
//     R[k,j]), then normalize (recording R[j,j]). A norm below
//     BreakdownEps aborts with ErrBreakdown.
//
// The per-column reductions (dot products, subtractions, the norm) run
// over the row dimension; that axis is what the strategies parallelize;
// columns themselves are strictly ordered.
//
// Determinism: fixed j → k → i order.
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare, ErrBreakdown.
// Complexity: Time O(n³), Space O(n²).
func QR(a *matrix.Dense) (q, r *matrix.Dense, err error) {
	if err = matrix.ValidateSquareNonNil(a); err != nil {
		return nil, nil, fmt.Errorf("QR: %w", err)
	}
	n := a.Rows()
	if q, err = matrix.NewDense(n, n); err != nil {
		return nil, nil, fmt.Errorf("QR: %w", err)
	}
	if r, err = matrix.NewDense(n, n); err != nil {
		return nil, nil, fmt.Errorf("QR: %w", err)
	}

	ad, qd, rd := a.Raw(), q.Raw(), r.Raw()
	for j := 0; j < n; j++ {
		// Working column = column j of A.
		for i := 0; i < n; i++ {
			qd[i*n+j] = ad[i*n+j]
		}
		// Orthogonalize against every finished column.
		for k := 0; k < j; k++ {
			dot := 0.0
			for i := 0; i < n; i++ {
				dot += qd[i*n+k] * qd[i*n+j]
			}
			rd[k*n+j] = dot
			for i := 0; i < n; i++ {
				qd[i*n+j] -= dot * qd[i*n+k]
			}
		}
		// Normalize.
		norm := 0.0
		for i := 0; i < n; i++ {
			norm += qd[i*n+j] * qd[i*n+j]
		}
		norm = math.Sqrt(norm)
		if norm < BreakdownEps {
			return nil, nil, fmt.Errorf("QR: column %d: %w", j, ErrBreakdown)
		}
		rd[j*n+j] = norm
		for i := 0; i < n; i++ {
			qd[i*n+j] /= norm
		}
	}

	return q, r, nil
}
