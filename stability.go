package emulsion

import (
	"math"
)

// HLD model constants (Salager).
const (
	// HLDSlope is k, the EACN coefficient.
	HLDSlope = 0.17

	// NonIonicSalinityCoefficient is b in the non-ionic salinity term b·S.
	NonIonicSalinityCoefficient = 0.13

	// MinSalinity floors S before the anionic ln(S).
	MinSalinity = 0.001
)

// StabilityMetrics are the two scalar stability indicators.
type StabilityMetrics struct {
	RED float64 // ≥ 0; < 1 means inside the resin's solubility sphere
	HLD float64 // Signed; ≈ 0 is the balanced middle-phase regime
}

// salinityTerm is the surfactant-class part of the HLD equation.
// S is already floored to MinSalinity.
type salinityTerm func(s float64) float64

// salinityTerms dispatches on surfactant class. A new class is a new entry.
var salinityTerms = map[IonicType]salinityTerm{
	Anionic:  math.Log,
	NonIonic: func(s float64) float64 { return NonIonicSalinityCoefficient * s },
}

// RED returns the relative energy difference Ra / r0 of a solubility point
// against a resin sphere. It does not validate r0; see Evaluate.
func RED(hsp HSP, resin Resin) float64 {
	return hsp.Distance(resin.HSP) / resin.R0
}

// EffectiveEACN combines the solvent EACN and the cosolvent's HLD
// contribution, weighted by their fractions (any consistent unit):
//
//	EACN_eff = (x_s·EACN_s + x_c·f_c) / (x_s + x_c)
//
// With no oil phase at all (x_s + x_c = 0) it returns 0.
func EffectiveEACN(solventFraction, cosolventFraction float64, solvent, cosolvent Component) float64 {
	oil := solventFraction + cosolventFraction
	if oil <= 0 {
		return 0
	}
	return (solventFraction*solvent.EACN + cosolventFraction*cosolvent.FHLD) / oil
}

// HLD computes the hydrophilic-lipophilic difference:
//
//	anionic:   HLD = ln(S) − k·EACN + cc
//	non-ionic: HLD = b·S   − k·EACN + cc
//
// S is the salinity in mass %, floored to MinSalinity so S = 0 stays finite.
func HLD(surfactant Component, eacn, salinity float64) (float64, error) {
	if math.IsNaN(salinity) || salinity < 0 {
		return 0, stabilityError("salinity", salinity, "must be non-negative")
	}
	term, ok := salinityTerms[surfactant.Ionic]
	if !ok {
		return 0, stabilityError("surfactant.ionic_type", float64(surfactant.Ionic), "no HLD model for this surfactant class")
	}
	s := math.Max(salinity, MinSalinity)
	return term(s) - HLDSlope*eacn + surfactant.CC, nil
}

// Evaluate computes RED against the resin and HLD for the surfactant.
func Evaluate(props MixtureProperties, resin Resin, surfactant Component, eacn, salinity float64) (StabilityMetrics, error) {
	if err := resin.Validate(); err != nil {
		return StabilityMetrics{}, err
	}
	if math.IsNaN(eacn) || math.IsInf(eacn, 0) {
		return StabilityMetrics{}, stabilityError("eacn", eacn, "must be finite")
	}
	hld, err := HLD(surfactant, eacn, salinity)
	if err != nil {
		return StabilityMetrics{}, err
	}
	return StabilityMetrics{
		RED: RED(props.HSP, resin),
		HLD: hld,
	}, nil
}
