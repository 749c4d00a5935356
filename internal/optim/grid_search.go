// Package optim sweeps controller gains over a grid and keeps the
// combination that flew closest to the target apogee.
package optim

import (
	"context"
	"math"

	"github.com/akarsh/airbrakesim/internal/sim"
)

// BuildFunc constructs a fresh engine for one gain combination. Each
// evaluation gets its own engine so controller state never leaks
// between grid points.
type BuildFunc func(gains map[string]float64) (*sim.Engine, error)

// GridSearch evaluates every combination of the given gain values.
type GridSearch struct {
	gainNames []string
	ranges    [][]float64
}

func NewGridSearch(gains []string, ranges [][]float64) *GridSearch {
	return &GridSearch{gainNames: gains, ranges: ranges}
}

// Search flies one full flight per combination and returns the gains
// with the smallest cost. Cost is |apogee - target| so undershoot and
// overshoot penalize equally. Combinations whose engine fails to build
// or fly are skipped.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, cfg sim.RunConfig, target float64) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestGains map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), build, cfg, target, &best, &bestGains)

	if err := ctx.Err(); err != nil {
		return bestGains, best, err
	}
	return bestGains, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build BuildFunc,
	cfg sim.RunConfig,
	target float64,
	best *float64,
	bestGains *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.gainNames) {
		engine, err := build(current)
		if err != nil {
			return
		}
		result, err := engine.Run(ctx, cfg)
		if err != nil {
			return
		}

		cost := math.Abs(result.Apogee - target)
		if cost < *best {
			*best = cost
			*bestGains = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestGains)[k] = v
			}
		}
		return
	}

	name := g.gainNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val

		g.searchRecursive(ctx, depth+1, next, build, cfg, target, best, bestGains)
	}
}

// Linspace builds n evenly spaced values from lo to hi inclusive, for
// defining gain ranges.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	vals := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	return vals
}
