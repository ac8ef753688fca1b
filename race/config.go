// SPDX-License-Identifier: MIT

package race

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/matrace/eigen"
	"github.com/katalvlaran/matrace/strategy"
)

// Config is the file-level tuning surface for a race. Zero values mean
// the package defaults, so a partial file only overrides what it names.
type Config struct {
	// Timeout bounds each individual attempt; 0 disables the bound.
	Timeout time.Duration `yaml:"timeout"`

	// SharedWorkers sizes the shared-memory pool; 0 means NumCPU.
	SharedWorkers int `yaml:"shared_workers"`

	// SharedMinChunk is the smallest per-worker index range before the
	// pool falls back to inline loops; 0 means the package default.
	SharedMinChunk int `yaml:"shared_min_chunk"`

	// IsolatedMaxWorkers caps spawning per isolated operation; 0 means
	// the package default.
	IsolatedMaxWorkers int `yaml:"isolated_max_workers"`

	// EigenTol and EigenMaxRounds tune the QR iteration; 0 means the
	// eigen package defaults.
	EigenTol       float64 `yaml:"eigen_tol"`
	EigenMaxRounds int     `yaml:"eigen_max_rounds"`
}

// DefaultConfig returns the all-defaults configuration.
func DefaultConfig() Config { return Config{} }

// LoadConfig reads a YAML config file. Unknown keys are rejected so a
// typo'd override fails loudly instead of silently running defaults.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("race: read config: %w", err)
	}
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err = dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		// An empty file is a valid all-defaults config.
		return Config{}, fmt.Errorf("race: parse config %s: %w", path, err)
	}

	return c, nil
}

// Strategies materializes the configured strategy set in the canonical
// execution order.
func (c Config) Strategies() []strategy.Strategy {
	return []strategy.Strategy{
		strategy.NewSequential(),
		&strategy.SharedMemory{Workers: c.SharedWorkers, MinChunk: c.SharedMinChunk},
		&strategy.ProcessIsolated{MaxWorkers: c.IsolatedMaxWorkers},
	}
}

// EigenParams materializes the QR iteration tuning; zero fields defer to
// the eigen package defaults.
func (c Config) EigenParams() eigen.Params {
	return eigen.Params{Tol: c.EigenTol, MaxRounds: c.EigenMaxRounds}
}

// Runner builds a Runner from the configuration.
func (c Config) Runner(opts ...Option) *Runner {
	base := []Option{WithStrategies(c.Strategies()...)}
	if c.Timeout > 0 {
		base = append(base, WithTimeout(c.Timeout))
	}

	return NewRunner(append(base, opts...)...)
}
