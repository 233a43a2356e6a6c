package emulsion

import (
	"math"
	"testing"
)

// AssertionConfig contains thresholds for formulation properties.
type AssertionConfig struct {
	// Allowed |Σ phases − 100|
	SumTolerance float64

	// |HLD| below this counts as balanced
	HLDBand float64

	// RED below this counts as inside the resin sphere
	MaxRED float64
}

// DefaultAssertionConfig returns the engine's own thresholds.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		SumTolerance: 1e-6,
		HLDBand:      DefaultHLDBand,
		MaxRED:       1.0,
	}
}

// AssertFractionsSum verifies the five phases of f sum to 100.
func AssertFractionsSum(t *testing.T, f Formulation, cfg AssertionConfig) {
	t.Helper()

	total := f.Phases().Total()
	if math.Abs(total-100) > cfg.SumTolerance {
		t.Errorf("Phases sum to %.9f, want 100 ± %g\n  %s", total, cfg.SumTolerance, f)
	}
}

// AssertInsideSphere verifies the blend dissolves the resin (RED < MaxRED).
//
// Geometric property:
//
//	Ra(blend, resin) < r0
func AssertInsideSphere(t *testing.T, m StabilityMetrics, cfg AssertionConfig) {
	t.Helper()

	if m.RED >= cfg.MaxRED {
		t.Errorf("Blend outside resin sphere: RED = %.4f (max: %.4f)", m.RED, cfg.MaxRED)
		return
	}
	t.Logf("✓ Inside sphere: RED = %.4f", m.RED)
}

// AssertBalanced verifies the system sits in the Winsor III window.
func AssertBalanced(t *testing.T, m StabilityMetrics, cfg AssertionConfig) {
	t.Helper()

	if math.Abs(m.HLD) >= cfg.HLDBand {
		t.Errorf("Emulsion not balanced: HLD = %.4f (band: ±%.4f)\n"+
			"HLD < 0 favors oil-in-water, HLD > 0 water-in-oil.",
			m.HLD, cfg.HLDBand)
		return
	}
	t.Logf("✓ Balanced: HLD = %.4f", m.HLD)
}

// AssertConverged verifies an optimization succeeded and stayed in bounds.
func AssertConverged(t *testing.T, r OptimizationResult, b Bounds) {
	t.Helper()

	if !r.Success {
		t.Fatalf("Optimization failed: %v", r.Err())
	}

	names := [dim]string{"solvent", "surfactant", "cosurfactant", "salinity"}
	x := r.Point.vector()
	for i, rg := range b.ranges() {
		if x[i] < rg.Min || x[i] > rg.Max {
			t.Errorf("%s = %.6f outside [%.2f, %.2f]", names[i], x[i], rg.Min, rg.Max)
		}
	}

	t.Logf("✓ Converged in %d iterations (%d evaluations): J = %.6g",
		r.Iterations, r.Evaluations, r.Objective)
	t.Logf("  %s", r.Formulation)
}
