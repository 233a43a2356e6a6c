package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexshd/emulsion"
)

// formulationFlags select records and organic percentages. Water is the
// remainder.
type formulationFlags struct {
	resin        string
	solvent      string
	cosolvent    string
	surfactant   string
	cosurfactant string
	aqueous      string

	solventPct      float64
	cosolventPct    float64
	surfactantPct   float64
	cosurfactantPct float64
	salinity        float64
}

func (f *formulationFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.resin, "resin", "alkyd", "target resin id")
	fs.StringVar(&f.solvent, "solvent", "methyl-sunflowerate", "solvent id")
	fs.StringVar(&f.cosolvent, "cosolvent", "benzyl-alcohol", `cosolvent id ("" for none)`)
	fs.StringVar(&f.surfactant, "surfactant", "apg", "surfactant id")
	fs.StringVar(&f.cosurfactant, "cosurfactant", "ethanol", "cosurfactant id")
	fs.StringVar(&f.aqueous, "aqueous", "water", "aqueous phase id")

	fs.Float64Var(&f.solventPct, "solvent-pct", 25, "solvent phase %")
	fs.Float64Var(&f.cosolventPct, "cosolvent-pct", 5, "cosolvent %")
	fs.Float64Var(&f.surfactantPct, "surfactant-pct", 12, "surfactant %")
	fs.Float64Var(&f.cosurfactantPct, "cosurfactant-pct", 8, "cosurfactant %")
	fs.Float64Var(&f.salinity, "salinity", 0.5, "salinity, % NaCl in the aqueous phase")
}

type resolved struct {
	formulation emulsion.Formulation
	components  emulsion.Components
	resin       emulsion.Resin
}

func (f *formulationFlags) resolve(a *app) (resolved, error) {
	comps, err := a.catalog.Resolve(emulsion.Selection{
		Solvent:      f.solvent,
		Cosolvent:    f.cosolvent,
		Surfactant:   f.surfactant,
		Cosurfactant: f.cosurfactant,
		Aqueous:      f.aqueous,
	})
	if err != nil {
		return resolved{}, err
	}

	resin, err := a.catalog.Resin(f.resin)
	if err != nil {
		return resolved{}, err
	}

	form, err := emulsion.FromOrganic(f.solventPct, f.cosolventPct, f.surfactantPct, f.cosurfactantPct,
		f.salinity, a.cfg.CompositionRules())
	if err != nil {
		return resolved{}, fmt.Errorf("formulation: %w", err)
	}

	return resolved{formulation: form, components: comps, resin: resin}, nil
}

// phasesReport is the JSON shape of a formulation.
type phasesReport struct {
	Solvent      float64 `json:"solvent"`
	Cosolvent    float64 `json:"cosolvent"`
	Surfactant   float64 `json:"surfactant"`
	Cosurfactant float64 `json:"cosurfactant"`
	Aqueous      float64 `json:"aqueous"`
	Salinity     float64 `json:"salinity"`
}

func reportPhases(f emulsion.Formulation) phasesReport {
	return phasesReport{
		Solvent:      f.Solvent(),
		Cosolvent:    f.Cosolvent(),
		Surfactant:   f.Surfactant(),
		Cosurfactant: f.Cosurfactant(),
		Aqueous:      f.Aqueous(),
		Salinity:     f.Salinity(),
	}
}
