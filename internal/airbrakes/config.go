package airbrakes

import "fmt"

const (
	DefaultPeriod          = 0.05
	DefaultLagTimeConstant = 0.3
	DefaultMaxRate         = 2.0
	DefaultMaxFlightTime   = 120.0
)

// Config is the immutable construction-time configuration of the
// controller. Non-physical values are rejected at construction, before
// any flight begins.
type Config struct {
	// TargetApogee is the apex altitude the controller steers toward, m.
	TargetApogee float64
	// Period is the fixed control-loop interval, s.
	Period float64
	// LagTimeConstant is the servo first-order lag, s.
	LagTimeConstant float64
	// MaxDeploymentRate is the servo slew limit, fraction/s.
	MaxDeploymentRate float64
	// ActivationTime gates ARMED -> ACTIVE; typically motor burnout, s.
	ActivationTime float64
	// LockFloor locks the controller below this altitude, m.
	LockFloor float64
	// MaxFlightTime sizes the history buffers, s.
	MaxFlightTime float64
}

func DefaultConfig(targetApogee float64) Config {
	return Config{
		TargetApogee:      targetApogee,
		Period:            DefaultPeriod,
		LagTimeConstant:   DefaultLagTimeConstant,
		MaxDeploymentRate: DefaultMaxRate,
		MaxFlightTime:     DefaultMaxFlightTime,
	}
}

func (c Config) Validate() error {
	if c.TargetApogee <= 0 {
		return fmt.Errorf("target apogee must be positive, got %f", c.TargetApogee)
	}
	if c.Period <= 0 {
		return fmt.Errorf("control period must be positive, got %f", c.Period)
	}
	if c.LagTimeConstant <= 0 {
		return fmt.Errorf("lag time constant must be positive, got %f", c.LagTimeConstant)
	}
	if c.MaxDeploymentRate <= 0 {
		return fmt.Errorf("max deployment rate must be positive, got %f", c.MaxDeploymentRate)
	}
	if c.ActivationTime < 0 {
		return fmt.Errorf("activation time must be non-negative, got %f", c.ActivationTime)
	}
	if c.LockFloor < 0 {
		return fmt.Errorf("lock floor must be non-negative, got %f", c.LockFloor)
	}
	if c.MaxFlightTime <= 0 {
		return fmt.Errorf("max flight time must be positive, got %f", c.MaxFlightTime)
	}
	return nil
}
