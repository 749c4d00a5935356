// Package metrics provides per-flight summary metrics observed by the
// flight-dynamics engine once per control step.
package metrics

import (
	"math"

	"github.com/akarsh/airbrakesim/internal/flight"
)

// Metric accumulates one summary value over a flight.
type Metric interface {
	Name() string
	Observe(s flight.State, deployment float64)
	Value() float64
	Reset()
}

// ApogeeError reports the achieved apex altitude minus the target.
type ApogeeError struct {
	target  float64
	maxAlt  float64
	samples int
}

func NewApogeeError(target float64) *ApogeeError {
	return &ApogeeError{target: target, maxAlt: math.Inf(-1)}
}

func (a *ApogeeError) Name() string { return "apogee_error" }

func (a *ApogeeError) Observe(s flight.State, deployment float64) {
	a.samples++
	if s.Altitude > a.maxAlt {
		a.maxAlt = s.Altitude
	}
}

func (a *ApogeeError) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.maxAlt - a.target
}

func (a *ApogeeError) Reset() {
	a.maxAlt = math.Inf(-1)
	a.samples = 0
}

// ControlEffort reports mean absolute deployment over the flight.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s flight.State, deployment float64) {
	c.sum += math.Abs(deployment)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Saturation reports the fraction of steps spent at or above the
// given deployment threshold.
type Saturation struct {
	threshold float64
	hits      int
	samples   int
}

func NewSaturation(threshold float64) *Saturation {
	return &Saturation{threshold: threshold}
}

func (s *Saturation) Name() string { return "saturation" }

func (s *Saturation) Observe(st flight.State, deployment float64) {
	s.samples++
	if deployment >= s.threshold {
		s.hits++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.hits) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.hits = 0
	s.samples = 0
}
