// SPDX-License-Identifier: MIT

// Package matrix provides the dense float64 storage and the element-wise
// and multiplication kernels shared by every execution strategy.
//
// Dense is a row-major matrix over one flat backing slice. All kernels
// perform strict fail-fast validation, never mutate their operands, and
// return package-level sentinel errors matched via errors.Is:
//
//	sum, err := matrix.Add(a, b)      // ErrDimensionMismatch on shape clash
//	prod, err := matrix.Mul(a, b)     // requires a.Cols() == b.Rows()
//
// Numeric semantics are plain IEEE-754 double precision: NaN and ±Inf
// propagate through the arithmetic untouched; no kernel special-cases them.
//
// Ownership: every kernel allocates a fresh result. Callers that hand a
// Dense to concurrently running code must pass Clone(); the backing slice
// exposed by Raw is shared state, not a copy.
package matrix
