package emulsion

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64
	Max float64
}

func (r Range) clamp(v float64) float64 {
	return math.Min(math.Max(v, r.Min), r.Max)
}

// Bounds box-constrains the optimizer's free variables (all in percent).
type Bounds struct {
	Solvent      Range
	Surfactant   Range
	Cosurfactant Range
	Salinity     Range
}

// DefaultBounds returns the usual search box:
// solvent 10–50, surfactant 5–25, cosurfactant 2–15, salinity 0–5.
func DefaultBounds() Bounds {
	return Bounds{
		Solvent:      Range{Min: 10, Max: 50},
		Surfactant:   Range{Min: 5, Max: 25},
		Cosurfactant: Range{Min: 2, Max: 15},
		Salinity:     Range{Min: 0, Max: 5},
	}
}

func (b Bounds) ranges() [dim]Range {
	return [dim]Range{b.Solvent, b.Surfactant, b.Cosurfactant, b.Salinity}
}

// Validate checks every range is finite, non-negative and ordered.
func (b Bounds) Validate() error {
	names := [dim]string{"solvent", "surfactant", "cosurfactant", "salinity"}
	for i, r := range b.ranges() {
		switch {
		case math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0):
			return &FieldError{Kind: ErrInvalidConfig, Field: "bounds." + names[i], Value: r.Min, Reason: "must be finite"}
		case r.Min < 0:
			return &FieldError{Kind: ErrInvalidConfig, Field: "bounds." + names[i] + ".min", Value: r.Min, Reason: "must be non-negative"}
		case r.Max < r.Min:
			return &FieldError{Kind: ErrInvalidConfig, Field: "bounds." + names[i] + ".max", Value: r.Max, Reason: "below min"}
		}
	}
	return nil
}

// Point is a candidate in the search space.
type Point struct {
	Solvent      float64
	Surfactant   float64
	Cosurfactant float64
	Salinity     float64
}

func (p Point) vector() vec {
	return vec{p.Solvent, p.Surfactant, p.Cosurfactant, p.Salinity}
}

func pointOf(v vec) Point {
	return Point{Solvent: v[0], Surfactant: v[1], Cosurfactant: v[2], Salinity: v[3]}
}

// Weights are the objective's tuning constants.
type Weights struct {
	HLD        float64
	RED        float64
	Surfactant float64
}

// Observer receives timing and outcome of optimizer operations
// ("optimize" per call, "optimize.start" per start).
type Observer interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// OptimizerConfig controls the search.
type OptimizerConfig struct {
	AqueousFloor      float64 // Implied aqueous % below this is infeasible
	Penalty           float64 // Objective value of infeasible points
	Weights           Weights
	MaxIterations     int     // Per start
	GradientTolerance float64 // Projected-gradient ∞-norm
	FunctionTolerance float64 // Relative objective decrease
	Starts            int     // 1 = seed only; more adds random starts
	Workers           int     // Concurrent starts; 0 = GOMAXPROCS
	Seed              uint64  // Random-start generator seed
	Logger            *slog.Logger
	Observer          Observer
}

// DefaultOptimizerConfig returns the reference weights (10, 5, 0.1), a 10%
// aqueous floor and a single start from the seed.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		AqueousFloor: 10,
		Penalty:      1e6,
		Weights: Weights{
			HLD:        10,
			RED:        5,
			Surfactant: 0.1,
		},
		MaxIterations:     500,
		GradientTolerance: 1e-5,
		FunctionTolerance: 2.220446049250313e-09,
		Starts:            1,
		Workers:           0,
		Seed:              1,
	}
}

// Validate checks the solver settings.
func (c OptimizerConfig) Validate() error {
	invalid := func(field string, v float64, reason string) error {
		return &FieldError{Kind: ErrInvalidConfig, Field: field, Value: v, Reason: reason}
	}
	switch {
	case c.AqueousFloor < 0 || c.AqueousFloor >= 100 || math.IsNaN(c.AqueousFloor):
		return invalid("aqueous_floor", c.AqueousFloor, "must be in [0, 100)")
	case !(c.Penalty > 0) || math.IsInf(c.Penalty, 0):
		return invalid("penalty", c.Penalty, "must be positive and finite")
	case c.Weights.HLD < 0 || c.Weights.RED < 0 || c.Weights.Surfactant < 0:
		return invalid("weights", math.Min(c.Weights.HLD, math.Min(c.Weights.RED, c.Weights.Surfactant)), "must be non-negative")
	case c.MaxIterations <= 0:
		return invalid("max_iterations", float64(c.MaxIterations), "must be positive")
	case !(c.GradientTolerance > 0):
		return invalid("gradient_tolerance", c.GradientTolerance, "must be positive")
	case !(c.FunctionTolerance > 0):
		return invalid("function_tolerance", c.FunctionTolerance, "must be positive")
	case c.Starts < 0:
		return invalid("starts", float64(c.Starts), "must not be negative")
	case c.Workers < 0:
		return invalid("workers", float64(c.Workers), "must not be negative")
	}
	return nil
}

// Problem is one optimization request. The cosolvent fraction stays at
// FixedCosolvent; the aqueous phase is the remainder.
type Problem struct {
	Seed           Formulation
	FixedCosolvent float64
	Components     Components
	Resin          Resin
	Bounds         Bounds
}

// NewProblem holds the cosolvent at the seed's current value.
func NewProblem(seed Formulation, c Components, resin Resin, bounds Bounds) Problem {
	return Problem{
		Seed:           seed,
		FixedCosolvent: seed.Cosolvent(),
		Components:     c,
		Resin:          resin,
		Bounds:         bounds,
	}
}

// Validate checks the records, resin and bounds once, before any search.
func (p Problem) Validate() error {
	if err := p.Components.Validate(); err != nil {
		return err
	}
	if err := p.Resin.Validate(); err != nil {
		return err
	}
	if math.IsNaN(p.FixedCosolvent) || p.FixedCosolvent < 0 || p.FixedCosolvent >= 100 {
		return compositionError("cosolvent", p.FixedCosolvent, "fixed fraction must be in [0, 100)")
	}
	if p.FixedCosolvent > 0 && p.Components.Cosolvent.Absent() {
		return componentError("cosolvent", p.FixedCosolvent, "no record for a non-zero fraction")
	}
	return p.Bounds.Validate()
}

// Objective is the function the optimizer minimizes:
//
//	J(x) = w_HLD·HLD² + w_RED·RED² + w_S·surfactant
//
// Points whose implied aqueous fraction falls below the floor, and points the
// pipeline rejects, score the penalty value instead.
type Objective struct {
	problem Problem
	floor   float64
	penalty float64
	weights Weights
}

// NewObjective binds a problem to the config's floor, penalty and weights.
func NewObjective(p Problem, cfg OptimizerConfig) Objective {
	return Objective{
		problem: p,
		floor:   cfg.AqueousFloor,
		penalty: cfg.Penalty,
		weights: cfg.Weights,
	}
}

// Aqueous returns the aqueous percentage implied by a point.
func (o Objective) Aqueous(x Point) float64 {
	return 100 - x.Solvent - o.problem.FixedCosolvent - x.Surfactant - x.Cosurfactant
}

// Analyze evaluates the pipeline at x. ok is false for infeasible points.
func (o Objective) Analyze(x Point) (a Analysis, ok bool) {
	aqueous := o.Aqueous(x)
	if aqueous < o.floor {
		return Analysis{}, false
	}
	f, err := NewFormulation(Phases{
		Solvent:      x.Solvent,
		Cosolvent:    o.problem.FixedCosolvent,
		Surfactant:   x.Surfactant,
		Cosurfactant: x.Cosurfactant,
		Aqueous:      aqueous,
	}, x.Salinity, CompositionRules{AqueousFloor: o.floor, Tolerance: 1e-6})
	if err != nil {
		return Analysis{}, false
	}
	a, err = analyze(f, o.problem.Components, o.problem.Resin)
	if err != nil {
		return Analysis{}, false
	}
	return a, true
}

// Value returns J(x), or the penalty for infeasible points.
func (o Objective) Value(x Point) float64 {
	a, ok := o.Analyze(x)
	if !ok {
		return o.penalty
	}
	m := a.Metrics
	return o.weights.HLD*m.HLD*m.HLD + o.weights.RED*m.RED*m.RED + o.weights.Surfactant*x.Surfactant
}

// OptimizationResult is the outcome of Optimize. Point, Formulation and
// Metrics describe the best start; they are only meaningful when Success.
type OptimizationResult struct {
	Success     bool
	Status      SolverStatus
	Point       Point
	Objective   float64
	Formulation Formulation
	Metrics     StabilityMetrics
	Iterations  int // Of the winning start
	Evaluations int // Across all starts
	Start       int // Index of the winning start; 0 is the seed
	Starts      int
}

// Err returns nil on success and an ErrOptimizationFailure otherwise.
func (r OptimizationResult) Err() error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%w: %s after %d iterations (objective %.6g)",
		ErrOptimizationFailure, r.Status, r.Iterations, r.Objective)
}

// Optimize searches the bounded sub-space (solvent, surfactant,
// cosurfactant, salinity) for the point minimizing the Objective.
//
// Solver non-convergence is reported through the result (Success=false),
// never as an error. The returned error is reserved for an invalid problem
// or config and for context cancellation.
//
// Starts run concurrently when cfg.Starts > 1. The winner is the best
// converged start, ties going to the lower index, so repeated calls with the
// same inputs return the same point.
func Optimize(ctx context.Context, p Problem, cfg OptimizerConfig) (OptimizationResult, error) {
	if err := cfg.Validate(); err != nil {
		return OptimizationResult{}, err
	}
	if err := p.Validate(); err != nil {
		return OptimizationResult{}, fmt.Errorf("optimize: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	starts := max(cfg.Starts, 1)
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	began := time.Now()
	obj := NewObjective(p, cfg)
	ranges := p.Bounds.ranges()
	seeds := startPoints(p, ranges, starts, cfg.Seed)

	logger.Debug("optimize",
		"starts", starts,
		"workers", workers,
		"seed", p.Seed.String(),
		"cosolvent", p.FixedCosolvent)

	runs := make([]solveResult, starts)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range seeds {
		g.Go(func() error {
			startedAt := time.Now()
			res, err := minimize(gctx, obj, seeds[i], ranges, cfg)
			if err != nil {
				return err
			}
			runs[i] = res
			if cfg.Observer != nil {
				cfg.Observer.Observe(gctx, "optimize.start", res.status == StatusConverged, time.Since(startedAt))
			}
			logger.Debug("start finished",
				"start", i,
				"status", res.status,
				"objective", res.f,
				"iterations", res.iterations)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return OptimizationResult{}, fmt.Errorf("optimize: %w", err)
	}

	best := pickBest(runs)
	res := OptimizationResult{
		Success:    runs[best].status == StatusConverged,
		Status:     runs[best].status,
		Point:      pointOf(runs[best].x),
		Objective:  runs[best].f,
		Iterations: runs[best].iterations,
		Start:      best,
		Starts:     starts,
	}
	for _, r := range runs {
		res.Evaluations += r.evaluations
	}
	if a, ok := obj.Analyze(res.Point); ok {
		res.Formulation = a.Formulation
		res.Metrics = a.Metrics
	}

	if cfg.Observer != nil {
		cfg.Observer.Observe(ctx, "optimize", res.Success, time.Since(began))
	}
	return res, nil
}

// startPoints returns the seed (projected into the box) followed by
// uniformly drawn random starts.
func startPoints(p Problem, ranges [dim]Range, n int, seed uint64) []vec {
	first := Point{
		Solvent:      p.Seed.Solvent(),
		Surfactant:   p.Seed.Surfactant(),
		Cosurfactant: p.Seed.Cosurfactant(),
		Salinity:     p.Seed.Salinity(),
	}.vector()
	for i := range first {
		first[i] = ranges[i].clamp(first[i])
	}

	points := make([]vec, 0, n)
	points = append(points, first)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for len(points) < n {
		var v vec
		for i, r := range ranges {
			v[i] = r.Min + rng.Float64()*(r.Max-r.Min)
		}
		points = append(points, v)
	}
	return points
}

// pickBest prefers converged runs, then the lower objective, then the lower index.
func pickBest(runs []solveResult) int {
	best := 0
	for i := 1; i < len(runs); i++ {
		a, b := runs[i], runs[best]
		aOK, bOK := a.status == StatusConverged, b.status == StatusConverged
		switch {
		case aOK && !bOK:
			best = i
		case aOK == bOK && a.f < b.f:
			best = i
		}
	}
	return best
}
