package emulsion

import (
	"fmt"
)

// Analysis is the full pipeline output for one formulation.
type Analysis struct {
	Formulation Formulation
	Properties  MixtureProperties
	EACN        float64 // Effective oil EACN
	Metrics     StabilityMetrics
}

// Analyze runs the property calculator and the stability evaluator for a
// formulation against a resin.
func Analyze(f Formulation, c Components, resin Resin) (Analysis, error) {
	if err := c.Validate(); err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}
	if f.Cosolvent() > 0 && c.Cosolvent.Absent() {
		return Analysis{}, fmt.Errorf("analyze: %w",
			componentError("cosolvent", f.Cosolvent(), "no record for a non-zero fraction"))
	}
	return analyze(f, c, resin)
}

// analyze skips record validation; callers have done it once up front.
func analyze(f Formulation, c Components, resin Resin) (Analysis, error) {
	props, err := ComputeProperties(f, c)
	if err != nil {
		return Analysis{}, err
	}

	eacn := EffectiveEACN(f.Solvent(), f.Cosolvent(), c.Solvent, c.Cosolvent)

	metrics, err := Evaluate(props, resin, c.Surfactant, eacn, f.Salinity())
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}

	return Analysis{
		Formulation: f,
		Properties:  props,
		EACN:        eacn,
		Metrics:     metrics,
	}, nil
}
