// SPDX-License-Identifier: MIT
// Package strategy: sentinel error set. Matched via errors.Is; wrapped at
// the facade with the strategy/operation context.

package strategy

import "errors"

var (
	// ErrResourceExhausted means the process-isolated attempt would need
	// more workers than its configured ceiling allows. The attempt fails;
	// other strategies are unaffected.
	ErrResourceExhausted = errors.New("strategy: worker budget exhausted")

	// ErrWorker means an isolated worker failed or produced a short or
	// malformed payload. Partial elimination/QR state is not
	// self-consistent, so the whole strategy attempt fails.
	ErrWorker = errors.New("strategy: worker failed")
)
