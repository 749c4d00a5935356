package flight

import (
	"fmt"
	"math"
)

const (
	SeaLevelDensity       = 1.225  // kg/m^3
	AtmosphereScaleHeight = 8500.0 // m
)

// Atmosphere is an isothermal exponential density profile. It is enough
// for the coast altitudes this controller operates at.
type Atmosphere struct {
	SeaLevel    float64
	ScaleHeight float64
}

func NewAtmosphere() Atmosphere {
	return Atmosphere{
		SeaLevel:    SeaLevelDensity,
		ScaleHeight: AtmosphereScaleHeight,
	}
}

func (a Atmosphere) Validate() error {
	if a.SeaLevel <= 0 {
		return fmt.Errorf("sea-level density must be positive, got %f", a.SeaLevel)
	}
	if a.ScaleHeight <= 0 {
		return fmt.Errorf("scale height must be positive, got %f", a.ScaleHeight)
	}
	return nil
}

// Density returns air density at the given altitude above sea level.
func (a Atmosphere) Density(altitude float64) float64 {
	if altitude < 0 {
		altitude = 0
	}
	return a.SeaLevel * math.Exp(-altitude/a.ScaleHeight)
}
