package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexshd/emulsion"
)

type evaluateReport struct {
	Resin       string       `json:"resin"`
	Formulation phasesReport `json:"formulation"`
	Density     float64      `json:"density"`
	FlashPoint  float64      `json:"flash_point"`
	HSP         [3]float64   `json:"hsp"`
	Price       float64      `json:"price_per_kg"`
	EACN        float64      `json:"eacn"`
	RED         float64      `json:"red"`
	HLD         float64      `json:"hld"`
	Regime      string       `json:"regime"`
	Stability   string       `json:"stability"`
	Solubility  string       `json:"solubility"`
}

func newEvaluateCmd(a *app) *cobra.Command {
	var flags formulationFlags

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute mixture properties, RED and HLD for one formulation",
		Example: `  emulsim evaluate --solvent methyl-soyate --surfactant sles --salinity 1.2
  emulsim evaluate --cosolvent "" --cosolvent-pct 0 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := flags.resolve(a)
			if err != nil {
				return err
			}

			analysis, err := emulsion.Analyze(in.formulation, in.components, in.resin)
			if err != nil {
				return err
			}
			assessment := emulsion.Assess(analysis.Metrics, a.cfg.Stability.HLDBand)

			a.logger.Debug("evaluated",
				"resin", in.resin.ID,
				"red", analysis.Metrics.RED,
				"hld", analysis.Metrics.HLD)

			rep := evaluateReport{
				Resin:       in.resin.ID,
				Formulation: reportPhases(analysis.Formulation),
				Density:     analysis.Properties.Density,
				FlashPoint:  analysis.Properties.FlashPoint,
				HSP:         analysis.Properties.HSP,
				Price:       analysis.Properties.Price,
				EACN:        analysis.EACN,
				RED:         analysis.Metrics.RED,
				HLD:         analysis.Metrics.HLD,
				Regime:      string(assessment.Regime),
				Stability:   string(assessment.Stability),
				Solubility:  string(assessment.Solubility),
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			return rep.print(cmd)
		},
	}

	flags.register(cmd)
	return cmd
}

func (r evaluateReport) print(cmd *cobra.Command) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	f := r.Formulation
	fmt.Fprintf(tw, "Formulation\tsolvent %.2f%%  cosolvent %.2f%%  surfactant %.2f%%  cosurfactant %.2f%%  water %.2f%%\n",
		f.Solvent, f.Cosolvent, f.Surfactant, f.Cosurfactant, f.Aqueous)
	fmt.Fprintf(tw, "Salinity\t%.3f%%\n", f.Salinity)
	fmt.Fprintf(tw, "Density\t%.1f kg/m³\n", r.Density)
	fmt.Fprintf(tw, "Flash point\t%.1f °C\n", r.FlashPoint)
	fmt.Fprintf(tw, "HSP\t[%.2f, %.2f, %.2f]\n", r.HSP[0], r.HSP[1], r.HSP[2])
	fmt.Fprintf(tw, "Price\t%.2f /kg\n", r.Price)
	fmt.Fprintf(tw, "EACN\t%.3f\n", r.EACN)
	fmt.Fprintf(tw, "RED (%s)\t%.3f  %s\n", r.Resin, r.RED, r.Solubility)
	fmt.Fprintf(tw, "HLD\t%.3f  %s  %s\n", r.HLD, r.Regime, r.Stability)
	return tw.Flush()
}
