// Package ode provides the numerical integration kernels shared by the
// apogee predictors and the flight-dynamics engine: a fixed-step RK4
// scheme and an embedded Dormand-Prince 4(5) scheme with local error
// control.
package ode

import "math"

// Vector is a dense state vector.
type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// System is a controlled first-order ODE. The control input u is the
// air-brake deployment level, constant over a single step.
type System interface {
	Derive(x Vector, u float64, t float64) Vector
	Dim() int
}

// Stepper advances a system by one fixed step.
type Stepper interface {
	Step(sys System, x Vector, u float64, t, dt float64) Vector
}

// AdaptiveStepper additionally proposes the next step size from a local
// error estimate against tol.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, x Vector, u float64, t, dt, tol float64) (Vector, float64, float64)
}
