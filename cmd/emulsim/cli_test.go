package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/emulsion"
)

// run executes the CLI with a non-existent config file so the defaults apply.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCatalogCmd(t *testing.T) {
	out, _, err := run(t, "catalog")
	require.NoError(t, err)

	assert.Contains(t, out, "methyl-soyate")
	assert.Contains(t, out, "Epoxy-Polyamide")
	assert.Contains(t, out, "nonionic")
}

func TestCatalogCmd_FilterJSON(t *testing.T) {
	out, _, err := run(t, "--json", "catalog", "resin")
	require.NoError(t, err)

	var entries []catalogEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 8)
	for _, e := range entries {
		assert.Equal(t, "resin", e.Role)
		assert.Greater(t, e.R0, 0.0)
	}

	_, _, err = run(t, "catalog", "binder")
	assert.Error(t, err)
}

func TestEvaluateCmd_JSON(t *testing.T) {
	out, _, err := run(t, "--json", "evaluate",
		"--solvent", "methyl-soyate",
		"--surfactant", "sles",
		"--cosurfactant", "butanol",
		"--salinity", "1")
	require.NoError(t, err)

	var rep evaluateReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.InDelta(t, 50.0, rep.Formulation.Aqueous, 1e-9)
	assert.Greater(t, rep.Density, 800.0)
	assert.Less(t, rep.Density, 1100.0)

	// Anionic at S = 1: HLD = −0.17·EACN − 2
	want := -emulsion.HLDSlope*rep.EACN - 2.0
	assert.InDelta(t, want, rep.HLD, 1e-9)
	assert.Equal(t, string(emulsion.WinsorI), rep.Regime)
}

func TestEvaluateCmd_Text(t *testing.T) {
	out, _, err := run(t, "evaluate")
	require.NoError(t, err)

	assert.Contains(t, out, "Density")
	assert.Contains(t, out, "RED (alkyd)")
	assert.Contains(t, out, "HLD")
}

func TestEvaluateCmd_NoCosolvent(t *testing.T) {
	_, _, err := run(t, "evaluate", "--cosolvent", "", "--cosolvent-pct", "0")
	require.NoError(t, err)

	_, _, err = run(t, "evaluate", "--cosolvent", "")
	assert.ErrorIs(t, err, emulsion.ErrInvalidComponentData)
}

func TestEvaluateCmd_Errors(t *testing.T) {
	_, _, err := run(t, "evaluate", "--solvent", "kerosene")
	assert.ErrorIs(t, err, emulsion.ErrUnknownComponent)

	_, _, err = run(t, "evaluate", "--solvent-pct", "60", "--surfactant-pct", "30")
	assert.ErrorIs(t, err, emulsion.ErrInvalidComposition)
}

func TestOptimizeCmd(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "emulsim.prom")

	out, _, err := run(t, "--json", "optimize",
		"--solvent", "methyl-soyate",
		"--surfactant", "sles",
		"--cosurfactant", "butanol",
		"--starts", "2",
		"--metrics-out", metrics)
	require.NoError(t, err)

	var rep optimizeReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 2, rep.Starts)
	if rep.Success {
		require.NotNil(t, rep.Optimized)
		assert.InDelta(t, rep.Seed.Cosolvent, rep.Optimized.Cosolvent, 1e-9)
		assert.GreaterOrEqual(t, rep.Optimized.Aqueous, 10.0)
	}

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "emulsim_operations_total")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emulsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--config", path, "evaluate"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, errOut.String(), "setup complete")
}

func TestConfigFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emulsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("optimizer:\n  max_iterations: 0\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "evaluate"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, emulsion.ErrInvalidConfig)
}
