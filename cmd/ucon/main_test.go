package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ucon "+version+"\n", out)
}

func TestDemo(t *testing.T) {
	out, _, err := execute(t, "demo")
	require.NoError(t, err)
	for _, section := range []string{"== storage ==", "== vectors ==", "== matrices ==",
		"== dictionaries ==", "== tables ==", "== end to end =="} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "View[int64][4] [0 0 9 0]")
	assert.Contains(t, out, "View[int64][4] [0 0 7 0]")
	assert.Contains(t, out, "View[int64][2] [31 41]")
}

func TestDemoDump(t *testing.T) {
	out, _, err := execute(t, "demo", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "Contiguous: (bool)")
	assert.Contains(t, out, "Strides: ([]int)")
}

func TestDemoDebugLogging(t *testing.T) {
	_, logs, err := execute(t, "demo", "--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"storage allocated"`)
	assert.Contains(t, logs, `"msg":"selection materialized"`)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ucon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  length: 6\n  rows: 4\n  cols: 2\n"), 0o600))

	out, _, err := execute(t, "demo", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "View[int64][6] [0 10 20 30 40 50]")
	assert.Contains(t, out, "View[int64][4 2]")
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ucon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  length: 1\n"), 0o600))

	_, _, err := execute(t, "demo", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, _, err = execute(t, "demo", "--log-level", "loud")
	require.Error(t, err)
}

func TestMetrics(t *testing.T) {
	out, _, err := execute(t, "metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "reason")
	assert.Contains(t, out, "construct")
	assert.Contains(t, out, "gather")

	out, _, err = execute(t, "metrics", "--no-demo", "--prometheus")
	require.NoError(t, err)
	assert.Contains(t, out, "ucon_storage_allocations_total")
}
