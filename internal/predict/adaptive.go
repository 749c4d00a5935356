package predict

import (
	"fmt"
	"math"

	"github.com/akarsh/airbrakesim/internal/ode"
)

const (
	DefaultTolerance   = 1e-8
	DefaultInitialStep = 0.1

	// crossingIterations bounds the bisection that refines the
	// velocity-zero crossing inside the final step.
	crossingIterations = 64
)

// Adaptive integrates the coast ODE with an embedded Dormand-Prince
// 4(5) pair, resizing steps against a local error tolerance, and
// refines the velocity-zero crossing by bisection on the final
// sub-step length.
type Adaptive struct {
	tolerance   float64
	initialStep float64
	maxIter     int
	brakeRatio  float64
	rk45        *ode.RK45
	rk4         *ode.RK4
}

func NewAdaptive(tolerance, initialStep float64, maxIter int) (*Adaptive, error) {
	if tolerance <= 0 {
		return nil, fmt.Errorf("tolerance must be positive, got %g", tolerance)
	}
	if initialStep <= 0 {
		return nil, fmt.Errorf("initial step must be positive, got %f", initialStep)
	}
	if maxIter <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", maxIter)
	}
	return &Adaptive{
		tolerance:   tolerance,
		initialStep: initialStep,
		maxIter:     maxIter,
		brakeRatio:  DefaultBrakeDragRatio,
		rk45:        ode.NewRK45(),
		rk4:         ode.NewRK4(),
	}, nil
}

func (p *Adaptive) Name() string { return "adaptive" }

func (p *Adaptive) Apogee(c Conditions) Prediction {
	if c.VelocityZ <= 0 {
		return Prediction{Apogee: c.Altitude, Converged: true}
	}
	if c.Mass <= 0 {
		return Prediction{Apogee: c.Altitude, Converged: false}
	}

	sys := newAscent(c, p.brakeRatio)
	x := ode.Vector{c.Altitude, c.VelocityZ}
	t := 0.0
	dt := p.initialStep
	best := c.Altitude

	for i := 0; i < p.maxIter; i++ {
		xNew, dtNext, errRatio := p.rk45.StepAdaptive(sys, x, c.Deployment, t, dt, p.tolerance)

		if errRatio > 1 {
			// Rejected: retry from the same state with the
			// tightened step.
			dt = dtNext
			continue
		}

		if xNew[1] <= 0 {
			apogee := p.refineCrossing(sys, x, c.Deployment, t, dt)
			return Prediction{Apogee: apogee, Converged: true, Steps: i + 1}
		}

		x = xNew
		t += dt
		dt = dtNext
		if x[0] > best {
			best = x[0]
		}
	}

	return Prediction{Apogee: best, Converged: false, Steps: p.maxIter}
}

// refineCrossing bisects the sub-step length h in (0, dt] so that a
// single RK4 step of size h from x lands on the velocity-zero crossing,
// and returns the altitude there.
func (p *Adaptive) refineCrossing(sys ode.System, x ode.Vector, u, t, dt float64) float64 {
	lo, hi := 0.0, dt
	apogee := x[0]

	for i := 0; i < crossingIterations; i++ {
		mid := 0.5 * (lo + hi)
		trial := p.rk4.Step(sys, x, u, t, mid)

		if trial[1] > 0 {
			lo = mid
			apogee = trial[0]
		} else {
			hi = mid
			apogee = trial[0]
			if math.Abs(trial[1]) < 1e-12 {
				break
			}
		}
	}

	return apogee
}
