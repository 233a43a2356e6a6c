package emulsion

import (
	"fmt"
	"math"
)

// MixtureProperties are the bulk properties of a blend.
type MixtureProperties struct {
	Density         float64   // kg/m³, harmonic mass-fraction blend
	FlashPoint      float64   // °C, log-linear blend
	HSP             HSP       // Volume-fraction weighted solubility point
	VolumeFractions []float64 // Per part, same order as the input
	Price           float64   // Mass-weighted price per kg
}

// Part is one ingredient of a blend: a record and its mass fraction (0..1).
type Part struct {
	Component Component
	Weight    float64
}

// Blend computes mixture properties for any number of parts.
//
//	ρ_mix  = 1 / Σ(wᵢ/ρᵢ)
//	FP_mix = 10^(Σ wᵢ·log10(FPᵢ))
//	vᵢ     = (wᵢ/ρᵢ) / Σ(wⱼ/ρⱼ)
//	HSP    = Σ vᵢ·HSPᵢ
//
// Hansen parameters are volume-additive, hence the volume fractions.
// Weights are used as given; they are expected to sum to 1.
//
// Every present record is validated. An Absent record is allowed only with
// zero weight and is then skipped.
func Blend(parts []Part) (MixtureProperties, error) {
	if len(parts) == 0 {
		return MixtureProperties{}, componentError("parts", 0, "nothing to blend")
	}

	specificVolume := make([]float64, len(parts))
	var totalVolume, logFP, price float64

	for i, p := range parts {
		if math.IsNaN(p.Weight) || p.Weight < 0 {
			return MixtureProperties{}, compositionError(fmt.Sprintf("parts[%d].weight", i), p.Weight, "must be non-negative")
		}
		if p.Component.Absent() {
			if p.Weight != 0 {
				return MixtureProperties{}, componentError(fmt.Sprintf("parts[%d]", i), p.Weight, "no record for a non-zero weight")
			}
			continue
		}
		if err := p.Component.Validate(); err != nil {
			return MixtureProperties{}, err
		}

		specificVolume[i] = p.Weight / p.Component.Density
		totalVolume += specificVolume[i]
		logFP += p.Weight * math.Log10(p.Component.FlashPoint)
		price += p.Weight * p.Component.Price
	}

	if totalVolume <= 0 {
		return MixtureProperties{}, compositionError("weights", 0, "all weights are zero")
	}

	props := MixtureProperties{
		Density:         1 / totalVolume,
		FlashPoint:      math.Pow(10, logFP),
		VolumeFractions: make([]float64, len(parts)),
		Price:           price,
	}
	for i, p := range parts {
		v := specificVolume[i] / totalVolume
		props.VolumeFractions[i] = v
		for axis := range props.HSP {
			props.HSP[axis] += v * p.Component.HSP[axis]
		}
	}

	return props, nil
}

// ComputeProperties blends the five phases of a formulation.
// VolumeFractions come back in phase order.
func ComputeProperties(f Formulation, c Components) (MixtureProperties, error) {
	w := f.MassFractions()
	comps := c.ordered()

	parts := make([]Part, numPhases)
	for i := range parts {
		parts[i] = Part{Component: comps[i], Weight: w[i]}
	}

	props, err := Blend(parts)
	if err != nil {
		return MixtureProperties{}, fmt.Errorf("mixture properties: %w", err)
	}
	return props, nil
}
