// SPDX-License-Identifier: MIT

// Package matio persists named matrices in a line-oriented text format
// and keeps an in-memory collection of them. The format is three parts:
// the name on its own line, the shape as "rows cols", then one line of
// space-separated values per row.
package matio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/matrace/matrix"
)

var (
	// ErrBadFormat means the stream does not parse as a named matrix.
	ErrBadFormat = errors.New("matio: bad format")

	// ErrNotFound means the store holds no matrix under the given name.
	ErrNotFound = errors.New("matio: matrix not found")
)

// Encode writes name and m onto w in the text format.
// Errors: matrix.ErrNilMatrix, ErrBadFormat for an unusable name, plus
// any writer error.
func Encode(w io.Writer, name string, m *matrix.Dense) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("Encode: name %q: %w", name, ErrBadFormat)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, name)
	fmt.Fprintln(bw, m.Rows(), m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if j > 0 {
				bw.WriteByte(' ')
			}
			v, _ := m.At(i, j)
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// Decode parses one named matrix from r.
// Errors: ErrBadFormat (wrapped with the offending line), plus any reader
// error.
func Decode(r io.Reader) (string, *matrix.Dense, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	name, err := scanLine(sc)
	if err != nil {
		return "", nil, fmt.Errorf("Decode: name: %w", err)
	}

	shape, err := scanLine(sc)
	if err != nil {
		return "", nil, fmt.Errorf("Decode: shape: %w", err)
	}
	dims := strings.Fields(shape)
	if len(dims) != 2 {
		return "", nil, fmt.Errorf("Decode: shape %q: %w", shape, ErrBadFormat)
	}
	rows, err := strconv.Atoi(dims[0])
	if err != nil {
		return "", nil, fmt.Errorf("Decode: rows %q: %w", dims[0], ErrBadFormat)
	}
	cols, err := strconv.Atoi(dims[1])
	if err != nil {
		return "", nil, fmt.Errorf("Decode: cols %q: %w", dims[1], ErrBadFormat)
	}

	m, err := matrix.NewDense(rows, cols)
	if err != nil {
		return "", nil, fmt.Errorf("Decode: shape %dx%d: %w", rows, cols, err)
	}
	d := m.Raw()
	for i := 0; i < rows; i++ {
		line, err := scanLine(sc)
		if err != nil {
			return "", nil, fmt.Errorf("Decode: row %d: %w", i, err)
		}
		fields := strings.Fields(line)
		if len(fields) != cols {
			return "", nil, fmt.Errorf("Decode: row %d has %d values, want %d: %w",
				i, len(fields), cols, ErrBadFormat)
		}
		for j, f := range fields {
			v, perr := strconv.ParseFloat(f, 64)
			if perr != nil {
				return "", nil, fmt.Errorf("Decode: row %d value %q: %w", i, f, ErrBadFormat)
			}
			d[i*cols+j] = v
		}
	}

	return name, m, nil
}

// scanLine returns the next non-blank line, trimmed.
func scanLine(sc *bufio.Scanner) (string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("unexpected end of input: %w", ErrBadFormat)
}

// SaveFile writes a named matrix to path, truncating any previous content.
func SaveFile(path, name string, m *matrix.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("SaveFile: %w", err)
	}
	if err = Encode(f, name, m); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}

// LoadFile reads one named matrix from path.
func LoadFile(path string) (string, *matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("LoadFile: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
