// Package emulsion predicts whether a five-phase liquid formulation forms a
// stable microemulsion and dissolves a target resin, and searches for the
// composition that does both best.
//
// # Overview
//
// A formulation is five phase mass fractions in percent plus the salinity of
// its aqueous phase:
//
//	solvent + cosolvent + surfactant + cosurfactant + aqueous = 100
//
// The engine is a one-way pipeline of pure functions:
//
//   - Registry      - immutable component and resin records
//   - Formulation   - validated composition (NewFormulation, Normalize, FromOrganic)
//   - Blend         - density, flash point, blended solubility point
//   - Evaluate      - RED against the resin, HLD of the surfactant system
//   - Optimize      - bounded search minimizing instability
//
// # Quick Start
//
//	f, err := emulsion.FromOrganic(25, 5, 12, 8, 0.5, emulsion.DefaultCompositionRules())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a, err := emulsion.Analyze(f, components, resin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("RED: %.2f  HLD: %.2f\n", a.Metrics.RED, a.Metrics.HLD)
//
// # Mixing Rules
//
// Mass fractions wᵢ, densities ρᵢ, flash points FPᵢ:
//
//	ρ_mix  = 1 / Σ(wᵢ/ρᵢ)
//	FP_mix = 10^(Σ wᵢ·log10 FPᵢ)
//	vᵢ     = (wᵢ/ρᵢ) / Σ(wⱼ/ρⱼ)
//	HSP    = Σ vᵢ·HSPᵢ
//
// Hansen parameters blend by volume, not by mass.
//
// # RED: Relative Energy Difference
//
//	Ra  = sqrt(4·ΔδD² + ΔδP² + ΔδH²)
//	RED = Ra / r0
//
// Properties:
//   - RED < 1: blend is inside the resin's solubility sphere (dissolves it)
//   - RED ≥ 1: outside
//   - RED = 0: blend sits at the sphere center, whatever r0 is
//
// # HLD: Hydrophilic-Lipophilic Difference
//
//	anionic:   HLD = ln(S) − 0.17·EACN + cc
//	non-ionic: HLD = 0.13·S − 0.17·EACN + cc
//
// S is salinity in mass %, floored to 0.001. EACN is the effective oil value
// blended from the solvent EACN and the cosolvent contribution.
//
// System behavior by HLD:
//   - HLD < −0.5:   Winsor I (oil-in-water)
//   - |HLD| ≤ 0.5:  Winsor III (balanced, most stable)
//   - HLD > 0.5:    Winsor II (water-in-oil)
//
// # The Optimizer
//
// Cosolvent stays fixed; solvent, surfactant, cosurfactant and salinity move
// inside their bounds; water is the remainder. The objective
//
//	J = 10·HLD² + 5·RED² + 0.1·surfactant
//
// punishes imbalance hardest, poor solubility next and surfactant use least.
// Points leaving less water than the floor score a flat penalty.
//
//	res, err := emulsion.Optimize(ctx, emulsion.NewProblem(f, components, resin, emulsion.DefaultBounds()),
//	    emulsion.DefaultOptimizerConfig())
//	if err != nil {
//	    return err // invalid input or cancelled
//	}
//	if !res.Success {
//	    // Not converged: retry from another seed
//	}
//
// # Errors
//
// Every failure wraps one sentinel: ErrInvalidComposition,
// ErrInvalidComponentData, ErrInvalidStabilityInput, ErrOptimizationFailure,
// ErrUnknownComponent or ErrInvalidConfig. Use errors.Is to branch and
// errors.As with *FieldError for the offending field.
//
// # Testing
//
//	emulsion.AssertFractionsSum(t, f, emulsion.DefaultAssertionConfig())
//	emulsion.AssertBalanced(t, a.Metrics, emulsion.DefaultAssertionConfig())
//	emulsion.AssertConverged(t, res, emulsion.DefaultBounds())
package emulsion
