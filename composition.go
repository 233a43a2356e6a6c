package emulsion

import (
	"fmt"
	"math"
)

const numPhases = 5

// Phases holds the five phase mass fractions in percent.
type Phases struct {
	Solvent      float64
	Cosolvent    float64
	Surfactant   float64
	Cosurfactant float64
	Aqueous      float64
}

func (p Phases) array() [numPhases]float64 {
	return [numPhases]float64{p.Solvent, p.Cosolvent, p.Surfactant, p.Cosurfactant, p.Aqueous}
}

// Organic returns the sum of the four non-aqueous phases.
func (p Phases) Organic() float64 {
	return p.Solvent + p.Cosolvent + p.Surfactant + p.Cosurfactant
}

// Total returns the sum of all five phases.
func (p Phases) Total() float64 {
	return p.Organic() + p.Aqueous
}

// CompositionRules configures formulation validation.
type CompositionRules struct {
	AqueousFloor float64 // Minimum aqueous percentage
	Tolerance    float64 // Allowed |Σ − 100|
}

// DefaultCompositionRules returns the interactive-design floor of 5% water.
// The optimizer uses its own, stricter floor.
func DefaultCompositionRules() CompositionRules {
	return CompositionRules{
		AqueousFloor: 5,
		Tolerance:    1e-6,
	}
}

// Formulation is a validated composition: five phase percentages summing to
// 100 plus the salinity of the aqueous phase (mass % salt). Fields are
// unexported so a built Formulation cannot be altered.
type Formulation struct {
	phases   Phases
	salinity float64
}

// Phases returns a copy of the phase percentages.
func (f Formulation) Phases() Phases { return f.phases }

func (f Formulation) Solvent() float64      { return f.phases.Solvent }
func (f Formulation) Cosolvent() float64    { return f.phases.Cosolvent }
func (f Formulation) Surfactant() float64   { return f.phases.Surfactant }
func (f Formulation) Cosurfactant() float64 { return f.phases.Cosurfactant }
func (f Formulation) Aqueous() float64      { return f.phases.Aqueous }
func (f Formulation) Salinity() float64     { return f.salinity }

// MassFractions returns the phases as fractions of 1 in phase order
// (solvent, cosolvent, surfactant, cosurfactant, aqueous).
func (f Formulation) MassFractions() [numPhases]float64 {
	w := f.phases.array()
	for i := range w {
		w[i] /= 100
	}
	return w
}

func (f Formulation) String() string {
	p := f.phases
	return fmt.Sprintf("solvent=%.2f%% cosolvent=%.2f%% surfactant=%.2f%% cosurfactant=%.2f%% aqueous=%.2f%% salinity=%.3f%%",
		p.Solvent, p.Cosolvent, p.Surfactant, p.Cosurfactant, p.Aqueous, f.salinity)
}

// NewFormulation validates an already-normalized composition. Nothing is
// rescaled or clamped: out-of-range input fails with ErrInvalidComposition.
func NewFormulation(p Phases, salinity float64, rules CompositionRules) (Formulation, error) {
	if err := checkPhases(p, salinity, rules); err != nil {
		return Formulation{}, err
	}
	if total := p.Total(); math.Abs(total-100) > rules.Tolerance {
		return Formulation{}, compositionError("total", total, "phases must sum to 100")
	}
	return Formulation{phases: p, salinity: salinity}, nil
}

// Normalize builds a Formulation from raw organic "budget shares". The
// aqueous percentage is taken as given; the four organic shares are rescaled
// proportionally so they fill exactly 100 − aqueous.
//
// All-zero organic shares are accepted only when there is no organic budget
// to fill (aqueous = 100); otherwise the budget would be undistributed and
// the input is rejected.
func Normalize(p Phases, salinity float64, rules CompositionRules) (Formulation, error) {
	if err := checkPhases(p, salinity, rules); err != nil {
		return Formulation{}, err
	}
	if p.Aqueous > 100+rules.Tolerance {
		return Formulation{}, compositionError("aqueous", p.Aqueous, "exceeds 100%")
	}

	budget := 100 - p.Aqueous
	organic := p.Organic()

	switch {
	case organic == 0 && budget <= rules.Tolerance:
		p.Aqueous = 100
	case organic == 0:
		return Formulation{}, compositionError("organic", organic,
			fmt.Sprintf("organic budget of %.4g%% has no shares to distribute", budget))
	case math.Abs(organic-budget) > rules.Tolerance:
		scale := budget / organic
		p.Solvent *= scale
		p.Cosolvent *= scale
		p.Surfactant *= scale
		p.Cosurfactant *= scale
	}

	return NewFormulation(p, salinity, rules)
}

// FromOrganic builds a Formulation from the four organic percentages, taking
// the aqueous phase as the remainder 100 − Σ organic.
func FromOrganic(solvent, cosolvent, surfactant, cosurfactant, salinity float64, rules CompositionRules) (Formulation, error) {
	p := Phases{
		Solvent:      solvent,
		Cosolvent:    cosolvent,
		Surfactant:   surfactant,
		Cosurfactant: cosurfactant,
	}
	p.Aqueous = 100 - p.Organic()
	return NewFormulation(p, salinity, rules)
}

func checkPhases(p Phases, salinity float64, rules CompositionRules) error {
	names := [numPhases]string{"solvent", "cosolvent", "surfactant", "cosurfactant", "aqueous"}
	for i, v := range p.array() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return compositionError(names[i], v, "must be finite")
		}
		if v < 0 {
			return compositionError(names[i], v, "must be non-negative")
		}
	}
	if p.Aqueous < rules.AqueousFloor {
		return compositionError("aqueous", p.Aqueous,
			fmt.Sprintf("below the %.4g%% floor", rules.AqueousFloor))
	}
	if math.IsNaN(salinity) || math.IsInf(salinity, 0) || salinity < 0 {
		return compositionError("salinity", salinity, "must be finite and non-negative")
	}
	return nil
}
