// Package predict estimates the apogee a coasting vehicle will reach
// from its current kinematic state and drag configuration.
//
// Three interchangeable predictors are provided:
//
//   - [ClosedForm]: zero-drag ballistic formula, the cheap fallback
//   - [FixedStep]: RK4 forward integration at a constant step
//   - [Adaptive]: embedded Dormand-Prince 4(5) with error control and
//     root refinement at the velocity-zero crossing
//
// Predictors are pure: identical inputs always produce identical
// predictions, and nothing observable is mutated between calls.
package predict

import (
	"github.com/akarsh/airbrakesim/internal/flight"
	"github.com/akarsh/airbrakesim/internal/ode"
)

// DefaultBrakeDragRatio scales the drag area added by fully deployed
// brakes relative to the clean airframe.
const DefaultBrakeDragRatio = 2.0

// Conditions is the input to a single prediction: the current kinematic
// state plus the drag configuration of the vehicle.
type Conditions struct {
	Altitude        float64 // m
	VelocityZ       float64 // m/s, positive up
	Mass            float64 // kg
	DragCoefficient float64 // baseline Cd
	ReferenceArea   float64 // m^2
	AirDensity      float64 // kg/m^3
	Deployment      float64 // brake deployment in [0,1]
}

// Prediction is the outcome of one predictor call. Converged is false
// when a step-based predictor exhausted its iteration cap before the
// velocity-zero crossing; Apogee then holds the best altitude reached.
type Prediction struct {
	Apogee    float64
	Converged bool
	Steps     int
}

// Predictor maps flight conditions to a predicted apogee altitude.
type Predictor interface {
	Apogee(c Conditions) Prediction
	Name() string
}

// ascent is the 1-DOF coast ODE: state [altitude, velocity], control
// input is the brake deployment level.
type ascent struct {
	mass       float64
	airDensity float64
	dragArea   float64 // Cd * A of the clean airframe
	brakeRatio float64
}

func (a *ascent) Dim() int { return 2 }

func (a *ascent) Derive(x ode.Vector, u float64, t float64) ode.Vector {
	v := x[1]
	area := a.dragArea * (1 + a.brakeRatio*u)
	drag := 0.5 * a.airDensity * v * v * area / a.mass
	accel := -flight.Gravity
	if v > 0 {
		accel -= drag
	} else {
		accel += drag
	}
	return ode.Vector{v, accel}
}

func newAscent(c Conditions, brakeRatio float64) *ascent {
	return &ascent{
		mass:       c.Mass,
		airDensity: c.AirDensity,
		dragArea:   c.DragCoefficient * c.ReferenceArea,
		brakeRatio: brakeRatio,
	}
}
