package predict

import (
	"fmt"

	"github.com/akarsh/airbrakesim/internal/ode"
)

const (
	DefaultFixedStepSize = 0.05
	DefaultMaxIterations = 100000
)

// FixedStep integrates the coast ODE forward with RK4 at a constant
// step until the velocity crosses zero or the iteration cap is hit.
type FixedStep struct {
	stepSize   float64
	maxIter    int
	brakeRatio float64
	rk4        *ode.RK4
}

func NewFixedStep(stepSize float64, maxIter int) (*FixedStep, error) {
	if stepSize <= 0 {
		return nil, fmt.Errorf("step size must be positive, got %f", stepSize)
	}
	if maxIter <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", maxIter)
	}
	return &FixedStep{
		stepSize:   stepSize,
		maxIter:    maxIter,
		brakeRatio: DefaultBrakeDragRatio,
		rk4:        ode.NewRK4(),
	}, nil
}

func (p *FixedStep) Name() string { return "fixed_step" }

func (p *FixedStep) Apogee(c Conditions) Prediction {
	if c.VelocityZ <= 0 {
		return Prediction{Apogee: c.Altitude, Converged: true}
	}
	if c.Mass <= 0 {
		return Prediction{Apogee: c.Altitude, Converged: false}
	}

	sys := newAscent(c, p.brakeRatio)
	x := ode.Vector{c.Altitude, c.VelocityZ}
	t := 0.0
	best := c.Altitude

	for i := 0; i < p.maxIter; i++ {
		x = p.rk4.Step(sys, x, c.Deployment, t, p.stepSize)
		t += p.stepSize

		if x[0] > best {
			best = x[0]
		}
		if x[1] <= 0 {
			return Prediction{Apogee: x[0], Converged: true, Steps: i + 1}
		}
	}

	// Iteration cap exhausted before the crossing: recover with the
	// best altitude reached so far.
	return Prediction{Apogee: best, Converged: false, Steps: p.maxIter}
}
