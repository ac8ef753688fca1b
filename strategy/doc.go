// SPDX-License-Identifier: MIT

// Package strategy provides the three interchangeable execution models for
// the matrace operation set: Sequential, SharedMemory and ProcessIsolated.
//
// All three run the identical mathematical decomposition (the kernels in
// matrix, the elimination steps in gauss, the QR rounds in eigen) and must
// agree on every result within floating-point tolerance. They differ only
// in how the independent units of work are scheduled:
//
//   - Sequential: one control flow, no concurrency; the correctness and
//     performance baseline.
//   - SharedMemory: a bounded worker pool partitions disjoint index ranges
//     of one shared workspace; a join at every algorithmic step boundary
//     substitutes for locking.
//   - ProcessIsolated: one worker per unit of work, no shared memory at
//     all. Each worker receives a serialized snapshot of exactly the
//     inputs its unit needs and returns a fixed-size binary payload over a
//     dedicated one-directional byte channel. The parent drains every
//     channel, joins every worker, and reassembles results by unit index;
//     channel completion order never implies index order.
//
// Failure is local: a worker fault, a malformed payload or an exhausted
// unit budget fails that one strategy attempt. The race package decides
// what to do with the survivors.
package strategy
