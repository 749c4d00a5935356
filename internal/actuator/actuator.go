// Package actuator models the air-brake servo as a first-order lag
// followed by a slew-rate limit, converting a commanded deployment into
// the physically achievable one.
package actuator

import "fmt"

// Servo parameters. The lag time constant captures transport delay in
// the drive train; MaxRate is the fastest achievable deployment change
// in fraction/second.
type Servo struct {
	lag     float64
	maxRate float64
}

func New(lagTimeConstant, maxRate float64) (*Servo, error) {
	if lagTimeConstant <= 0 {
		return nil, fmt.Errorf("lag time constant must be positive, got %f", lagTimeConstant)
	}
	if maxRate <= 0 {
		return nil, fmt.Errorf("max deployment rate must be positive, got %f", maxRate)
	}
	return &Servo{lag: lagTimeConstant, maxRate: maxRate}, nil
}

func (s *Servo) LagTimeConstant() float64 { return s.lag }
func (s *Servo) MaxRate() float64         { return s.maxRate }

// Advance moves the actual deployment toward the commanded one over dt:
// first-order lag, then the per-step change is clamped to the rate
// limit, then the result is clamped to [0,1].
func (s *Servo) Advance(commanded, actual, dt float64) float64 {
	next := actual + (commanded-actual)/s.lag*dt

	maxDelta := s.maxRate * dt
	if next > actual+maxDelta {
		next = actual + maxDelta
	} else if next < actual-maxDelta {
		next = actual - maxDelta
	}

	if next < 0 {
		next = 0
	} else if next > 1 {
		next = 1
	}
	return next
}
