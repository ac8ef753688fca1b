// SPDX-License-Identifier: MIT

package strategy_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matrace/strategy"
)

// TestCodecRoundTrip: concatenated slices decode back in order, including
// non-finite bit patterns.
func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	head := []float64{1.5, -2.25, 0}
	tail := []float64{math.Inf(1), math.Inf(-1), math.NaN()}
	buf := strategy.ExportedEncodeFloats(head, tail)
	require.Len(t, buf, 6*strategy.WordSize_TestOnly)

	got, off := strategy.ExportedDecodeFloats(buf, 0, 3)
	require.Equal(t, head, got)
	got, off = strategy.ExportedDecodeFloats(buf, off, 3)
	require.Equal(t, 6, off)
	require.True(t, math.IsInf(got[0], 1))
	require.True(t, math.IsInf(got[1], -1))
	require.True(t, math.IsNaN(got[2]))
}

// TestReadFloatsExactCount: the reader consumes exactly the requested
// frame and leaves the rest of the stream untouched.
func TestReadFloatsExactCount(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer
	require.NoError(t, strategy.ExportedWriteFloats(&stream, []float64{1, 2, 3}))
	require.NoError(t, strategy.ExportedWriteFloats(&stream, []float64{4, 5}))

	first, err := strategy.ExportedReadFloats(&stream, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, first)

	second, err := strategy.ExportedReadFloats(&stream, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 5}, second)
	require.Zero(t, stream.Len())
}

// TestReadFloatsTruncated: a short stream surfaces as ErrUnexpectedEOF,
// never as a silent partial frame.
func TestReadFloatsTruncated(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer
	require.NoError(t, strategy.ExportedWriteFloats(&stream, []float64{1, 2}))

	_, err := strategy.ExportedReadFloats(&stream, 3)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

// TestReadFloatsChannelClosure: a writer that closes its channel with a
// cause hands that exact cause to the blocked reader.
func TestReadFloatsChannelClosure(t *testing.T) {
	t.Parallel()

	cause := errors.New("worker gave up")
	pr, pw := io.Pipe()
	go func() {
		_ = strategy.ExportedWriteFloats(pw, []float64{42})
		pw.CloseWithError(cause)
	}()

	got, err := strategy.ExportedReadFloats(pr, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{42}, got)

	_, err = strategy.ExportedReadFloats(pr, 1)
	require.ErrorIs(t, err, cause)
}
