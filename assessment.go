package emulsion

import (
	"fmt"
	"math"
)

// Winsor is the microemulsion phase-behavior regime implied by HLD.
type Winsor string

const (
	WinsorI   Winsor = "WINSOR_I"   // HLD < −band: oil-in-water, excess oil phase
	WinsorIII Winsor = "WINSOR_III" // |HLD| ≤ band: balanced middle phase
	WinsorII  Winsor = "WINSOR_II"  // HLD > band: water-in-oil, excess water phase
)

// Rating is a coarse qualitative grade.
type Rating string

const (
	RatingHigh      Rating = "HIGH"
	RatingMedium    Rating = "MEDIUM"
	RatingLow       Rating = "LOW"
	RatingExcellent Rating = "EXCELLENT"
	RatingPartial   Rating = "PARTIAL"
	RatingPoor      Rating = "POOR"
)

// DefaultHLDBand is the |HLD| window treated as balanced.
const DefaultHLDBand = 0.5

// Assessment grades a pair of stability metrics.
type Assessment struct {
	Regime     Winsor
	Stability  Rating // From |HLD|
	Solubility Rating // From RED
	Balanced   bool   // |HLD| within the band
	Soluble    bool   // RED < 1
	Reason     string
}

// Thresholds for the qualitative grades.
//
//	stability:  |HLD| < band → HIGH, < 2·band → MEDIUM, else LOW
//	solubility: RED < 1 → EXCELLENT, < 1.5 → PARTIAL, else POOR
const (
	solubleRED = 1.0
	partialRED = 1.5
)

// Assess classifies metrics against an HLD band. A non-positive band falls
// back to DefaultHLDBand.
func Assess(m StabilityMetrics, band float64) Assessment {
	if band <= 0 {
		band = DefaultHLDBand
	}

	a := Assessment{
		Balanced: math.Abs(m.HLD) < band,
		Soluble:  m.RED < solubleRED,
	}

	switch {
	case m.HLD < -band:
		a.Regime = WinsorI
	case m.HLD > band:
		a.Regime = WinsorII
	default:
		a.Regime = WinsorIII
	}

	switch abs := math.Abs(m.HLD); {
	case abs < band:
		a.Stability = RatingHigh
	case abs < 2*band:
		a.Stability = RatingMedium
	default:
		a.Stability = RatingLow
	}

	switch {
	case m.RED < solubleRED:
		a.Solubility = RatingExcellent
	case m.RED < partialRED:
		a.Solubility = RatingPartial
	default:
		a.Solubility = RatingPoor
	}

	a.Reason = fmt.Sprintf("HLD=%.3f (%s, band ±%.2f), RED=%.3f (%s)",
		m.HLD, a.Regime, band, m.RED, a.Solubility)

	return a
}
