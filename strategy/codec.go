// SPDX-License-Identifier: MIT
// Package strategy: fixed-size binary framing for worker payloads.
//
// Every unit of work has a byte count known up front from its row/column
// extent: little-endian IEEE-754 words, 8 bytes each, no header, no
// delimiter. The parent always reads exactly the expected number of bytes
// with io.ReadFull, so a short write surfaces as ErrUnexpectedEOF instead
// of a hang or a silent partial result.

package strategy

import (
	"encoding/binary"
	"io"
	"math"
)

// wordSize is the wire size of one float64.
const wordSize = 8

// encodeFloats serializes the given slices back to back into one buffer.
func encodeFloats(slices ...[]float64) []byte {
	total := 0
	for _, s := range slices {
		total += len(s)
	}
	buf := make([]byte, total*wordSize)
	off := 0
	for _, s := range slices {
		for _, v := range s {
			binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
			off += wordSize
		}
	}

	return buf
}

// decodeFloats deserializes exactly n floats from buf starting at word
// offset off, returning the values and the next offset.
func decodeFloats(buf []byte, off, n int) ([]float64, int) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[(off+i)*wordSize:]))
	}

	return out, off + n
}

// writeFloats frames vals onto w. The receiver knows the count.
func writeFloats(w io.Writer, vals []float64) error {
	_, err := w.Write(encodeFloats(vals))

	return err
}

// readFloats reads exactly n floats from r. A short stream returns the
// underlying read error (io.ErrUnexpectedEOF for truncation, or whatever
// error the writer closed the channel with).
func readFloats(r io.Reader, n int) ([]float64, error) {
	buf := make([]byte, n*wordSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	out, _ := decodeFloats(buf, 0, n)

	return out, nil
}
