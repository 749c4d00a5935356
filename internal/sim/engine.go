// Package sim is the flight-dynamics engine that drives the air-brake
// controller: a 1-DOF vertical boost-and-coast simulation that invokes
// Controller.Step once per control period and folds the returned
// deployment into its own drag model.
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akarsh/airbrakesim/internal/airbrakes"
	"github.com/akarsh/airbrakesim/internal/flight"
	"github.com/akarsh/airbrakesim/internal/metrics"
	"github.com/akarsh/airbrakesim/internal/ode"
	"github.com/akarsh/airbrakesim/internal/predict"
)

// RunConfig controls one simulated flight. Dt is both the dynamics step
// and the control period.
type RunConfig struct {
	Dt      float64
	MaxTime float64
}

func (c RunConfig) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.MaxTime <= 0 {
		return fmt.Errorf("max time must be positive, got %f", c.MaxTime)
	}
	return nil
}

// SimError marks a non-fatal anomaly during a run.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

// Result is the engine-side flight record. The controller's own history
// is available separately from the controller instance.
type Result struct {
	Times       []float64
	Altitudes   []float64
	Velocities  []float64
	Deployments []float64
	Apogee      float64
	ApogeeTime  float64
	Steps       int
	Metrics     map[string]float64
	Errors      []error
}

// ascentDynamics is the engine's own 1-DOF model: thrust minus gravity
// minus quadratic drag from the airframe and the partially deployed
// brakes. State is [altitude, velocity]; the control input is the
// deployment level.
type ascentDynamics struct {
	vehicle    flight.Vehicle
	motor      flight.Motor
	atmos      flight.Atmosphere
	brakeRatio float64
}

func (d *ascentDynamics) Dim() int { return 2 }

func (d *ascentDynamics) Derive(x ode.Vector, u float64, t float64) ode.Vector {
	alt, v := x[0], x[1]
	mass := d.vehicle.DryMass + d.motor.PropellantAt(t)
	rho := d.atmos.Density(alt)
	area := d.vehicle.DragCoefficient * d.vehicle.ReferenceArea * (1 + d.brakeRatio*u)

	drag := 0.5 * rho * v * v * area / mass
	accel := d.motor.ThrustAt(t)/mass - flight.Gravity
	if v > 0 {
		accel -= drag
	} else {
		accel += drag
	}
	return ode.Vector{v, accel}
}

// Engine steps the dynamics and the controller in lockstep.
type Engine struct {
	dyn        *ascentDynamics
	ctl        *airbrakes.Controller
	integrator *ode.RK4
	metrics    []metrics.Metric
	logger     *zap.Logger
}

func NewEngine(vehicle flight.Vehicle, motor flight.Motor, atmos flight.Atmosphere, ctl *airbrakes.Controller) (*Engine, error) {
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}
	if err := motor.Validate(); err != nil {
		return nil, err
	}
	if err := atmos.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		dyn: &ascentDynamics{
			vehicle:    vehicle,
			motor:      motor,
			atmos:      atmos,
			brakeRatio: predict.DefaultBrakeDragRatio,
		},
		ctl:        ctl,
		integrator: ode.NewRK4(),
		logger:     zap.NewNop(),
	}, nil
}

func (e *Engine) AddMetric(m metrics.Metric) { e.metrics = append(e.metrics, m) }

func (e *Engine) SetLogger(l *zap.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Controller returns the controller under test, for history access.
func (e *Engine) Controller() *airbrakes.Controller { return e.ctl }

// Run flies the vehicle from the pad until apex (post-burnout velocity
// crossing zero) or MaxTime. The controller is consulted once per step;
// its deployment feeds the next dynamics step.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	steps := int(cfg.MaxTime/cfg.Dt) + 1
	result := &Result{
		Times:       make([]float64, 0, steps),
		Altitudes:   make([]float64, 0, steps),
		Velocities:  make([]float64, 0, steps),
		Deployments: make([]float64, 0, steps),
		Metrics:     make(map[string]float64),
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	x := ode.Vector{0, 0}
	t := 0.0

	for i := 0; t < cfg.MaxTime; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		state := flight.State{
			Time:       t,
			Altitude:   x[0],
			VelocityZ:  x[1],
			Mass:       e.dyn.vehicle.DryMass + e.dyn.motor.PropellantAt(t),
			AirDensity: e.dyn.atmos.Density(x[0]),
		}

		deployment := e.ctl.Step(state)

		for _, m := range e.metrics {
			m.Observe(state, deployment)
		}

		result.Times = append(result.Times, t)
		result.Altitudes = append(result.Altitudes, x[0])
		result.Velocities = append(result.Velocities, x[1])
		result.Deployments = append(result.Deployments, deployment)
		result.Steps++

		if x[0] > result.Apogee {
			result.Apogee = x[0]
			result.ApogeeTime = t
		}

		// Flight of interest ends at apex.
		if t > e.dyn.motor.BurnTime && x[1] <= 0 {
			break
		}

		next := e.integrator.Step(e.dyn, x, deployment, t, cfg.Dt)
		if !next.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			e.logger.Warn("dynamics produced invalid state",
				zap.Float64("time", t), zap.Int("step", i))
			break
		}

		x = next
		t += cfg.Dt
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback flies the same loop as Run but hands every step to
// the callback instead of recording a Result. Returning false stops the
// flight. Used by the live view.
func (e *Engine) RunWithCallback(ctx context.Context, cfg RunConfig, callback func(s flight.State, deployment float64) bool) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	x := ode.Vector{0, 0}
	t := 0.0

	for t < cfg.MaxTime {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		state := flight.State{
			Time:       t,
			Altitude:   x[0],
			VelocityZ:  x[1],
			Mass:       e.dyn.vehicle.DryMass + e.dyn.motor.PropellantAt(t),
			AirDensity: e.dyn.atmos.Density(x[0]),
		}
		deployment := e.ctl.Step(state)

		if !callback(state, deployment) {
			return nil
		}
		if t > e.dyn.motor.BurnTime && x[1] <= 0 {
			return nil
		}

		x = e.integrator.Step(e.dyn, x, deployment, t, cfg.Dt)
		if !x.IsValid() {
			return SimError{Time: t, Message: "invalid state (NaN/Inf)"}
		}
		t += cfg.Dt
	}

	return nil
}
