package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexshd/emulsion"
	"github.com/alexshd/emulsion/internal/telemetry"
)

type metricsReport struct {
	RED float64 `json:"red"`
	HLD float64 `json:"hld"`
}

type optimizeReport struct {
	RunID       string        `json:"run_id"`
	Resin       string        `json:"resin"`
	Success     bool          `json:"success"`
	Status      string        `json:"status"`
	Objective   float64       `json:"objective"`
	Iterations  int           `json:"iterations"`
	Evaluations int           `json:"evaluations"`
	Start       int           `json:"start"`
	Starts      int           `json:"starts"`
	Seed        phasesReport  `json:"seed"`
	SeedMetrics metricsReport `json:"seed_metrics"`
	Optimized   *phasesReport `json:"optimized,omitempty"`
	Metrics     metricsReport `json:"metrics"`
	Regime      string        `json:"regime,omitempty"`
}

func newOptimizeCmd(a *app) *cobra.Command {
	var (
		flags      formulationFlags
		starts     int
		seed       uint64
		metricsOut string
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search solvent, surfactant, cosurfactant and salinity for the most stable formulation",
		Long: `optimize holds the cosolvent fixed and moves solvent, surfactant,
cosurfactant and salinity inside the configured bounds, water taking the
remainder. It minimizes

  J = 10·HLD² + 5·RED² + 0.1·surfactant

Formulations leaving less water than optimizer.aqueous_floor are rejected.
A run that does not converge is reported, not treated as an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := flags.resolve(a)
			if err != nil {
				return err
			}

			before, err := emulsion.Analyze(in.formulation, in.components, in.resin)
			if err != nil {
				return err
			}

			runID := uuid.New().String()
			logger := a.logger.With("run", runID)

			opt := a.cfg.OptimizerSettings()
			if cmd.Flags().Changed("starts") {
				opt.Starts = starts
			}
			if cmd.Flags().Changed("seed") {
				opt.Seed = seed
			}
			opt.Logger = logger

			var rec *telemetry.Recorder
			if metricsOut != "" {
				rec = telemetry.NewRecorder()
				opt.Observer = rec
			}

			logger.Info("optimizing",
				"resin", in.resin.ID,
				"starts", opt.Starts,
				"formulation", in.formulation.String())

			res, err := emulsion.Optimize(cmd.Context(),
				emulsion.NewProblem(in.formulation, in.components, in.resin, a.cfg.Bounds()), opt)
			if err != nil {
				return err
			}

			if rec != nil {
				if err := rec.WriteTextfile(metricsOut); err != nil {
					return err
				}
			}

			rep := optimizeReport{
				RunID:       runID,
				Resin:       in.resin.ID,
				Success:     res.Success,
				Status:      string(res.Status),
				Objective:   res.Objective,
				Iterations:  res.Iterations,
				Evaluations: res.Evaluations,
				Start:       res.Start,
				Starts:      res.Starts,
				Seed:        reportPhases(in.formulation),
				SeedMetrics: metricsReport{RED: before.Metrics.RED, HLD: before.Metrics.HLD},
			}
			if res.Success {
				phases := reportPhases(res.Formulation)
				rep.Optimized = &phases
				rep.Metrics = metricsReport{RED: res.Metrics.RED, HLD: res.Metrics.HLD}
				rep.Regime = string(emulsion.Assess(res.Metrics, a.cfg.Stability.HLDBand).Regime)
				logger.Info("optimized", "objective", res.Objective, "iterations", res.Iterations)
			} else {
				logger.Warn("optimization did not converge", "err", res.Err())
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			return rep.print(cmd)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&starts, "starts", 1, "number of starts (1 = seed only)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random-start seed")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile")
	return cmd
}

func (r optimizeReport) print(cmd *cobra.Command) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run\t%s\n", r.RunID)
	fmt.Fprintf(tw, "Status\t%s after %d iterations (%d evaluations, start %d of %d)\n",
		r.Status, r.Iterations, r.Evaluations, r.Start, r.Starts)

	fmt.Fprintln(tw, "\tSEED\tOPTIMIZED")
	s := r.Seed
	var o phasesReport
	if r.Optimized != nil {
		o = *r.Optimized
	}
	rows := []struct {
		name      string
		seed, opt float64
	}{
		{"solvent %", s.Solvent, o.Solvent},
		{"cosolvent %", s.Cosolvent, o.Cosolvent},
		{"surfactant %", s.Surfactant, o.Surfactant},
		{"cosurfactant %", s.Cosurfactant, o.Cosurfactant},
		{"water %", s.Aqueous, o.Aqueous},
		{"salinity %", s.Salinity, o.Salinity},
		{"RED", r.SeedMetrics.RED, r.Metrics.RED},
		{"HLD", r.SeedMetrics.HLD, r.Metrics.HLD},
	}
	for _, row := range rows {
		if r.Optimized == nil {
			fmt.Fprintf(tw, "%s\t%.3f\t-\n", row.name, row.seed)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\n", row.name, row.seed, row.opt)
	}
	if r.Regime != "" {
		fmt.Fprintf(tw, "Regime\t\t%s\n", r.Regime)
	}
	return tw.Flush()
}
