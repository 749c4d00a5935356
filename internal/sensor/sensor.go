// Package sensor adds measurement noise to the kinematic inputs before
// they reach the apogee predictor. The noise source is an explicit
// seeded generator so ensemble runs stay reproducible.
package sensor

import (
	"fmt"
	"math/rand"

	"github.com/akarsh/airbrakesim/internal/flight"
)

// Noise applies additive Gaussian noise to altitude and vertical
// velocity. Zero standard deviations yield a perfect sensor.
type Noise struct {
	altitudeStd float64
	velocityStd float64
	rng         *rand.Rand
}

func New(altitudeStd, velocityStd float64, seed int64) (*Noise, error) {
	if altitudeStd < 0 || velocityStd < 0 {
		return nil, fmt.Errorf("noise standard deviations must be non-negative, got alt=%f vel=%f", altitudeStd, velocityStd)
	}
	return &Noise{
		altitudeStd: altitudeStd,
		velocityStd: velocityStd,
		rng:         rand.New(rand.NewSource(seed)),
	}, nil
}

// Observe returns the measured state: the true state with noise applied
// to altitude and vertical velocity. Time, mass and density pass
// through untouched.
func (n *Noise) Observe(truth flight.State) flight.State {
	measured := truth
	if n.altitudeStd > 0 {
		measured.Altitude += n.rng.NormFloat64() * n.altitudeStd
	}
	if n.velocityStd > 0 {
		measured.VelocityZ += n.rng.NormFloat64() * n.velocityStd
	}
	return measured
}
