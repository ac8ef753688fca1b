// SPDX-License-Identifier: MIT

package race_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matrace/race"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "race.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

// TestLoadConfig: named keys override, unnamed keys keep defaults.
func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
timeout: 2s
shared_workers: 8
isolated_max_workers: 512
eigen_max_rounds: 100
`)
	c, err := race.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, c.Timeout)
	require.Equal(t, 8, c.SharedWorkers)
	require.Zero(t, c.SharedMinChunk)
	require.Equal(t, 512, c.IsolatedMaxWorkers)
	require.Zero(t, c.EigenTol)
	require.Equal(t, 100, c.EigenMaxRounds)
}

// TestLoadConfigEmptyFile: an empty file is the all-defaults config.
func TestLoadConfigEmptyFile(t *testing.T) {
	t.Parallel()

	c, err := race.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, race.DefaultConfig(), c)
}

// TestLoadConfigUnknownKey: typos fail loudly.
func TestLoadConfigUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := race.LoadConfig(writeConfig(t, "shared_wrokers: 8\n"))
	require.Error(t, err)
}

// TestLoadConfigMissingFile surfaces the underlying read error.
func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := race.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestConfigStrategies: the materialized set keeps the canonical order
// and carries the overrides through.
func TestConfigStrategies(t *testing.T) {
	t.Parallel()

	c := race.Config{SharedWorkers: 8, IsolatedMaxWorkers: 512}
	ss := c.Strategies()
	require.Len(t, ss, 3)
	require.Equal(t, "sequential", ss[0].Name())
	require.Equal(t, "shared-memory", ss[1].Name())
	require.Equal(t, "process-isolated", ss[2].Name())
}
