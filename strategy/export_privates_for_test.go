// SPDX-License-Identifier: MIT

package strategy

// Test-bridge for private symbols, consumed by strategy_test only.
// Keeps the production API narrow while letting white-box tests drive the
// wire codec and observe worker lifecycles.

var (
	// ExportedEncodeFloats exposes the payload encoder for codec tests.
	ExportedEncodeFloats = encodeFloats
	// ExportedDecodeFloats exposes the payload decoder for codec tests.
	ExportedDecodeFloats = decodeFloats
	// ExportedWriteFloats exposes the framed writer for codec tests.
	ExportedWriteFloats = writeFloats
	// ExportedReadFloats exposes the exact-count reader for codec tests.
	ExportedReadFloats = readFloats
)

// WordSize_TestOnly mirrors the wire size of one value.
const WordSize_TestOnly = wordSize

// SetSpawnHook_TestOnly registers fn to run on the coordinator right
// before each worker launch, with the worker's unit index.
func (p *ProcessIsolated) SetSpawnHook_TestOnly(fn func(unit int)) { p.onSpawn = fn }

// SetCollectHook_TestOnly registers fn to run on the coordinator right
// after each unit's payload has been read and applied, in unit order.
func (p *ProcessIsolated) SetCollectHook_TestOnly(fn func(unit int)) { p.onCollect = fn }
