package emulsion

import (
	"context"
	"math"
)

// dim is the number of free variables: solvent, surfactant, cosurfactant, salinity.
const dim = 4

type vec [dim]float64

func (v vec) dot(o vec) float64 {
	var s float64
	for i := range v {
		s += v[i] * o[i]
	}
	return s
}

// SolverStatus explains why a start stopped.
type SolverStatus string

const (
	StatusConverged     SolverStatus = "CONVERGED"      // Gradient or objective tolerance met
	StatusMaxIterations SolverStatus = "MAX_ITERATIONS" // Iteration budget exhausted
	StatusLineSearch    SolverStatus = "LINE_SEARCH"    // No sufficient decrease along a descent direction
	StatusInfeasible    SolverStatus = "INFEASIBLE"     // Stuck at the penalty value
)

// Line search and finite-difference constants.
const (
	armijoC1       = 1e-4
	maxBacktracks  = 40
	fdStep         = 1e-6
	curvatureFloor = 1e-10
)

type solveResult struct {
	x           vec
	f           float64
	iterations  int
	evaluations int
	status      SolverStatus
}

// minimize runs a projected quasi-Newton method on the box: BFGS on the
// free variables, variables pinned at a bound by the gradient are held
// fixed, and every trial point is projected back into the box.
func minimize(ctx context.Context, obj Objective, x0 vec, ranges [dim]Range, cfg OptimizerConfig) (solveResult, error) {
	res := solveResult{status: StatusMaxIterations}

	eval := func(x vec) float64 {
		res.evaluations++
		return obj.Value(pointOf(x))
	}
	project := func(x vec) vec {
		for i := range x {
			x[i] = ranges[i].clamp(x[i])
		}
		return x
	}

	x := project(x0)
	f := eval(x)
	g := gradient(eval, x, ranges)
	h := identity()
	fresh := true // h carries no curvature information yet

	for res.iterations < cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return solveResult{}, err
		}
		if projectedGradientNorm(x, g, ranges) < cfg.GradientTolerance {
			res.status = StatusConverged
			break
		}

		free := freeVariables(x, g, ranges)
		d := direction(h, g, free)
		slope := g.dot(d)
		if slope >= 0 {
			h = identity()
			fresh = true
			d = direction(h, g, free)
			slope = g.dot(d)
			if slope >= 0 {
				res.status = StatusConverged
				break
			}
		}

		alpha := 1.0
		if fresh {
			alpha = math.Min(1, 1/math.Sqrt(g.dot(g)))
		}

		var (
			xn       vec
			fn       float64
			accepted bool
		)
		for range maxBacktracks {
			for i := range xn {
				xn[i] = x[i] + alpha*d[i]
			}
			xn = project(xn)
			fn = eval(xn)

			var step vec
			for i := range step {
				step[i] = xn[i] - x[i]
			}
			if fn <= f+armijoC1*g.dot(step) {
				accepted = true
				break
			}
			alpha /= 2
		}
		res.iterations++
		if !accepted {
			res.status = StatusLineSearch
			break
		}

		if xn == x {
			// Projection swallowed the whole step; retry along −g.
			h = identity()
			fresh = true
			continue
		}

		gn := gradient(eval, xn, ranges)

		var s, y vec
		for i := range s {
			s[i] = xn[i] - x[i]
			y[i] = gn[i] - g[i]
		}
		if ys := y.dot(s); ys > curvatureFloor {
			if fresh {
				h = scaled(ys / y.dot(y))
				fresh = false
			}
			h = bfgsUpdate(h, s, y, ys)
		}

		decrease := f - fn
		x, f, g = xn, fn, gn

		if decrease <= cfg.FunctionTolerance*math.Max(math.Max(math.Abs(f), math.Abs(f+decrease)), 1) {
			res.status = StatusConverged
			break
		}
	}

	if res.status == StatusMaxIterations && projectedGradientNorm(x, g, ranges) < cfg.GradientTolerance {
		res.status = StatusConverged
	}
	if f >= cfg.Penalty {
		res.status = StatusInfeasible
	}

	res.x, res.f = x, f
	return res, nil
}

// gradient estimates ∇f with central differences, falling back to a
// one-sided difference at a bound.
func gradient(eval func(vec) float64, x vec, ranges [dim]Range) vec {
	var g vec
	for i := range x {
		step := fdStep * math.Max(1, math.Abs(x[i]))
		up := math.Min(x[i]+step, ranges[i].Max)
		down := math.Max(x[i]-step, ranges[i].Min)
		if up <= down {
			continue
		}
		xp, xm := x, x
		xp[i], xm[i] = up, down
		g[i] = (eval(xp) - eval(xm)) / (up - down)
	}
	return g
}

// projectedGradientNorm is ‖P(x − g) − x‖∞, zero exactly at a KKT point of the box.
func projectedGradientNorm(x, g vec, ranges [dim]Range) float64 {
	var norm float64
	for i := range x {
		norm = math.Max(norm, math.Abs(ranges[i].clamp(x[i]-g[i])-x[i]))
	}
	return norm
}

// freeVariables excludes variables sitting on a bound with the gradient
// pushing outward.
func freeVariables(x, g vec, ranges [dim]Range) [dim]bool {
	var free [dim]bool
	for i := range x {
		atLower := x[i] <= ranges[i].Min && g[i] > 0
		atUpper := x[i] >= ranges[i].Max && g[i] < 0
		free[i] = !atLower && !atUpper
	}
	return free
}

type matrix [dim][dim]float64

func identity() matrix {
	return scaled(1)
}

func scaled(v float64) matrix {
	var m matrix
	for i := range m {
		m[i][i] = v
	}
	return m
}

// direction returns −H·g restricted to the free subspace.
func direction(h matrix, g vec, free [dim]bool) vec {
	var d vec
	for i := range d {
		if !free[i] {
			continue
		}
		for j := range g {
			if free[j] {
				d[i] -= h[i][j] * g[j]
			}
		}
	}
	return d
}

// bfgsUpdate applies the inverse-Hessian update
//
//	H⁺ = (I − ρ s yᵀ) H (I − ρ y sᵀ) + ρ s sᵀ,  ρ = 1 / yᵀs
func bfgsUpdate(h matrix, s, y vec, ys float64) matrix {
	rho := 1 / ys

	var hy vec
	for i := range hy {
		for j := range y {
			hy[i] += h[i][j] * y[j]
		}
	}
	yhy := y.dot(hy)

	var out matrix
	for i := range out {
		for j := range out[i] {
			out[i][j] = h[i][j] -
				rho*(hy[i]*s[j]+s[i]*hy[j]) +
				(rho*rho*yhy+rho)*s[i]*s[j]
		}
	}
	return out
}
