package sim

import (
	"context"
	"math"
	"sync"
)

// Factory builds a fresh engine (with its own controller and sensor)
// for one ensemble member. Per-run isolation comes from construction,
// not locking: controller state and history are never shared.
type Factory func(seed int64) (*Engine, error)

// Ensemble runs many flights in parallel with consecutive seeds.
type Ensemble struct {
	runs      int
	seedStart int64
	factory   Factory
}

func NewEnsemble(runs int, seedStart int64, factory Factory) *Ensemble {
	return &Ensemble{runs: runs, seedStart: seedStart, factory: factory}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.runs)
	errs := make([]error, e.runs)

	var wg sync.WaitGroup
	for i := 0; i < e.runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			engine, err := e.factory(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = engine.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Stats summarizes apogee dispersion across an ensemble.
type Stats struct {
	Runs         int
	Mean         float64
	Std          float64
	Min          float64
	Max          float64
	WithinWindow float64 // fraction of runs within +-window of target
}

func Summarize(results []*Result, target, window float64) Stats {
	s := Stats{Runs: len(results), Min: math.Inf(1), Max: math.Inf(-1)}
	if len(results) == 0 {
		return Stats{}
	}

	sum := 0.0
	hits := 0
	for _, r := range results {
		sum += r.Apogee
		if r.Apogee < s.Min {
			s.Min = r.Apogee
		}
		if r.Apogee > s.Max {
			s.Max = r.Apogee
		}
		if math.Abs(r.Apogee-target) <= window {
			hits++
		}
	}
	s.Mean = sum / float64(len(results))

	variance := 0.0
	for _, r := range results {
		d := r.Apogee - s.Mean
		variance += d * d
	}
	s.Std = math.Sqrt(variance / float64(len(results)))
	s.WithinWindow = float64(hits) / float64(len(results))

	return s
}
