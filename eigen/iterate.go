// SPDX-License-Identifier: MIT

package eigen

import (
	"fmt"
	"math"

	"github.com/katalvlaran/matrace/matrix"
)

// Defaults: single source of truth for the zero-value Params behavior.
const (
	// DefaultTol is the off-diagonal magnitude below which the iterate
	// counts as converged.
	DefaultTol = 1e-10

	// DefaultMaxRounds caps the iteration; hitting the cap yields a
	// best-effort, non-converged result rather than an error.
	DefaultMaxRounds = 500
)

// Params tunes one eigen computation. The zero value means defaults.
type Params struct {
	Tol       float64 // convergence tolerance, > 0; 0 ⇒ DefaultTol
	MaxRounds int     // round cap, > 0; 0 ⇒ DefaultMaxRounds
}

// withDefaults normalizes zero fields to the package defaults.
func (p Params) withDefaults() Params {
	if p.Tol <= 0 {
		p.Tol = DefaultTol
	}
	if p.MaxRounds <= 0 {
		p.MaxRounds = DefaultMaxRounds
	}

	return p
}

// Result is the consumable outcome of a QR iteration.
// Values holds the final diagonal; Vectors the accumulated transform whose
// columns estimate the eigenvectors; Rounds the rounds actually spent.
// Converged=false marks a best-effort result that exhausted MaxRounds.
type Result struct {
	Values    []float64
	Vectors   *matrix.Dense
	Rounds    int
	Converged bool
}

// MulFunc multiplies two matrices. Strategies substitute their scheduled
// variant; nil means the sequential matrix.Mul.
type MulFunc func(a, b *matrix.Dense) (*matrix.Dense, error)

// State accumulates across QR rounds: the current iterate A, the
// accumulated orthogonal transform V, the round counter and the bounds.
// Created once per computation, mutated once per round, consumed by
// Finish at termination.
type State struct {
	n      int
	a      *matrix.Dense // current iterate, replaced each round
	v      *matrix.Dense // accumulated transform, V ← V·Q each round
	rounds int
	p      Params
}

// NewState clones m into a fresh iteration state with V = I.
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare.
func NewState(m *matrix.Dense, p Params) (*State, error) {
	if err := matrix.ValidateSquareNonNil(m); err != nil {
		return nil, fmt.Errorf("NewState: %w", err)
	}
	v, err := matrix.Identity(m.Rows())
	if err != nil {
		return nil, fmt.Errorf("NewState: %w", err)
	}

	return &State{n: m.Rows(), a: m.Clone(), v: v, p: p.withDefaults()}, nil
}

// Iterate exposes the current iterate. The strategies read it to build the
// round's snapshot; they must not mutate it.
func (s *State) Iterate() *matrix.Dense { return s.a }

// Rounds returns the number of completed rounds.
func (s *State) Rounds() int { return s.rounds }

// Exhausted reports whether the round cap has been reached.
func (s *State) Exhausted() bool { return s.rounds >= s.p.MaxRounds }

// Converged reports whether every off-diagonal entry of the iterate is
// below the tolerance. O(n²).
func (s *State) Converged() bool {
	ad := s.a.Raw()
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			if i != j && math.Abs(ad[i*s.n+j]) > s.p.Tol {
				return false
			}
		}
	}

	return true
}

// Advance consumes one round's factors: V ← V·Q, A ← R·Q, rounds++.
// mul selects the multiplication kernel; nil uses matrix.Mul.
func (s *State) Advance(q, r *matrix.Dense, mul MulFunc) error {
	if mul == nil {
		mul = matrix.Mul
	}
	v, err := mul(s.v, q)
	if err != nil {
		return fmt.Errorf("Advance: V·Q: %w", err)
	}
	a, err := mul(r, q)
	if err != nil {
		return fmt.Errorf("Advance: R·Q: %w", err)
	}
	s.v, s.a = v, a
	s.rounds++

	return nil
}

// Finish consumes the state into a Result. The convergence flag reflects
// the final iterate, so a cap-exhausted run reports Converged=false.
func (s *State) Finish() *Result {
	vals := make([]float64, s.n)
	ad := s.a.Raw()
	for i := 0; i < s.n; i++ {
		vals[i] = ad[i*s.n+i]
	}

	return &Result{Values: vals, Vectors: s.v, Rounds: s.rounds, Converged: s.Converged()}
}

// Run is the sequential baseline: rounds of QR + Advance until the iterate
// converges or the cap is hit. An already-diagonal input still spends one
// round (the round that certifies convergence).
//
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare, ErrBreakdown.
// Complexity: Time O(rounds·n³), Space O(n²).
func Run(m *matrix.Dense, p Params) (*Result, error) {
	s, err := NewState(m, p)
	if err != nil {
		return nil, err
	}
	for !s.Exhausted() {
		q, r, err := QR(s.a)
		if err != nil {
			return nil, err
		}
		if err = s.Advance(q, r, nil); err != nil {
			return nil, err
		}
		if s.Converged() {
			break
		}
	}

	return s.Finish(), nil
}
