package flight

import "fmt"

// Motor is a constant-thrust solid motor with linear propellant
// depletion over the burn.
type Motor struct {
	Thrust         float64 // N while burning
	BurnTime       float64 // s
	PropellantMass float64 // kg at ignition
}

func (m Motor) Validate() error {
	if m.Thrust < 0 {
		return fmt.Errorf("thrust must be non-negative, got %f", m.Thrust)
	}
	if m.BurnTime < 0 {
		return fmt.Errorf("burn time must be non-negative, got %f", m.BurnTime)
	}
	if m.PropellantMass < 0 {
		return fmt.Errorf("propellant mass must be non-negative, got %f", m.PropellantMass)
	}
	if m.BurnTime == 0 && m.PropellantMass > 0 {
		return fmt.Errorf("propellant without burn time")
	}
	return nil
}

// ThrustAt returns motor thrust at time t since ignition.
func (m Motor) ThrustAt(t float64) float64 {
	if t < 0 || t >= m.BurnTime {
		return 0
	}
	return m.Thrust
}

// PropellantAt returns remaining propellant mass at time t.
func (m Motor) PropellantAt(t float64) float64 {
	if t <= 0 {
		return m.PropellantMass
	}
	if t >= m.BurnTime {
		return 0
	}
	return m.PropellantMass * (1 - t/m.BurnTime)
}
