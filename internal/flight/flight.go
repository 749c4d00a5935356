// Package flight holds the domain types shared by the air-brake
// controller and the flight-dynamics engine: the per-step kinematic
// state, the vehicle, and simple atmosphere and motor models.
package flight

import "fmt"

// Gravity is standard gravity in m/s^2.
const Gravity = 9.80665

// State is the kinematic snapshot handed to the controller once per
// control period. It is produced fresh by the caller each step and never
// retained.
type State struct {
	Time      float64 // s since liftoff
	Altitude  float64 // m above ground level
	VelocityZ float64 // m/s, positive up
	Mass      float64 // kg, current total mass
	AirDensity float64 // kg/m^3 at current altitude
}

// Vehicle describes the airframe as seen by the drag model.
type Vehicle struct {
	DryMass         float64 // kg without propellant
	DragCoefficient float64 // baseline Cd, brakes retracted
	ReferenceArea   float64 // m^2
}

func (v Vehicle) Validate() error {
	if v.DryMass <= 0 {
		return fmt.Errorf("dry mass must be positive, got %f", v.DryMass)
	}
	if v.DragCoefficient < 0 {
		return fmt.Errorf("drag coefficient must be non-negative, got %f", v.DragCoefficient)
	}
	if v.ReferenceArea <= 0 {
		return fmt.Errorf("reference area must be positive, got %f", v.ReferenceArea)
	}
	return nil
}
