// Package airbrakes orchestrates the closed-loop air-brake control
// step: read state, corrupt with sensor noise, predict apogee, compute
// a command, actuate, record history, and hand the achieved deployment
// back to the flight-dynamics engine.
package airbrakes

import (
	"go.uber.org/zap"

	"github.com/akarsh/airbrakesim/internal/actuator"
	"github.com/akarsh/airbrakesim/internal/control"
	"github.com/akarsh/airbrakesim/internal/flight"
	"github.com/akarsh/airbrakesim/internal/predict"
	"github.com/akarsh/airbrakesim/internal/sensor"
)

// Phase is the controller state machine position.
type Phase int

const (
	// PhaseArmed holds the brakes retracted until the activation
	// condition is met.
	PhaseArmed Phase = iota
	// PhaseActive runs the full predict-control-actuate loop.
	PhaseActive
	// PhaseLocked freezes deployment after apex or below the floor
	// altitude; terminal.
	PhaseLocked
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseActive:
		return "active"
	case PhaseLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Controller owns the mutable per-flight control state. One instance
// serves exactly one flight; ensemble callers construct one per run.
// Not safe for concurrent use.
type Controller struct {
	cfg       Config
	vehicle   flight.Vehicle
	predictor predict.Predictor
	law       control.Law
	servo     *actuator.Servo
	noise     *sensor.Noise
	logger    *zap.Logger

	phase     Phase
	lawState  control.State
	commanded float64
	actual    float64
	history   *History
}

// New validates the configuration and builds a controller in the ARMED
// phase with brakes fully retracted.
func New(cfg Config, vehicle flight.Vehicle, predictor predict.Predictor, law control.Law) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	servo, err := actuator.New(cfg.LagTimeConstant, cfg.MaxDeploymentRate)
	if err != nil {
		return nil, err
	}

	capacity := int(cfg.MaxFlightTime/cfg.Period) + 1
	return &Controller{
		cfg:       cfg,
		vehicle:   vehicle,
		predictor: predictor,
		law:       law,
		servo:     servo,
		logger:    zap.NewNop(),
		phase:     PhaseArmed,
		history:   newHistory(capacity),
	}, nil
}

// SetSensor installs an optional measurement-noise model.
func (c *Controller) SetSensor(n *sensor.Noise) { c.noise = n }

// SetLogger installs a logger for non-fatal diagnostics.
func (c *Controller) SetLogger(l *zap.Logger) {
	if l != nil {
		c.logger = l
	}
}

func (c *Controller) Phase() Phase       { return c.phase }
func (c *Controller) Commanded() float64 { return c.commanded }
func (c *Controller) Actual() float64    { return c.actual }

// History exposes the flight record. Read-only for callers.
func (c *Controller) History() *History { return c.history }

// Step runs one control period and returns the achieved deployment for
// the caller to fold into its drag model. Numeric edge cases are
// absorbed here; Step never fails.
func (c *Controller) Step(s flight.State) float64 {
	switch c.phase {
	case PhaseLocked:
		return c.actual
	case PhaseArmed:
		if s.Time < c.cfg.ActivationTime || s.VelocityZ <= 0 {
			return c.actual
		}
		c.phase = PhaseActive
	}

	if s.VelocityZ <= 0 || s.Altitude < c.cfg.LockFloor {
		c.phase = PhaseLocked
		return c.actual
	}

	measured := s
	if c.noise != nil {
		measured = c.noise.Observe(s)
	}

	prediction := c.predictor.Apogee(predict.Conditions{
		Altitude:        measured.Altitude,
		VelocityZ:       measured.VelocityZ,
		Mass:            measured.Mass,
		DragCoefficient: c.vehicle.DragCoefficient,
		ReferenceArea:   c.vehicle.ReferenceArea,
		AirDensity:      measured.AirDensity,
		Deployment:      c.actual,
	})
	if !prediction.Converged {
		c.logger.Warn("apogee prediction did not converge",
			zap.String("predictor", c.predictor.Name()),
			zap.Float64("time", s.Time),
			zap.Float64("best_altitude", prediction.Apogee),
		)
	}

	out := c.law.Compute(prediction.Apogee, c.cfg.TargetApogee, c.cfg.Period, &c.lawState)
	c.commanded = out.Command
	c.actual = c.servo.Advance(c.commanded, c.actual, c.cfg.Period)

	c.history.append(s.Time, c.commanded, c.actual,
		prediction.Apogee, prediction.Apogee-c.cfg.TargetApogee,
		out.P, out.I, out.D, out.Signal)

	return c.actual
}
