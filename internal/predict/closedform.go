package predict

import "github.com/akarsh/airbrakesim/internal/flight"

// ClosedForm is the zero-drag ballistic predictor. It ignores drag and
// deployment entirely, which makes it an always-available lower-cost
// baseline: apogee = altitude + v^2 / 2g.
type ClosedForm struct{}

func NewClosedForm() *ClosedForm {
	return &ClosedForm{}
}

func (p *ClosedForm) Name() string { return "closed_form" }

func (p *ClosedForm) Apogee(c Conditions) Prediction {
	if c.VelocityZ <= 0 {
		// At or past apex, no further climb.
		return Prediction{Apogee: c.Altitude, Converged: true}
	}
	apogee := c.Altitude + c.VelocityZ*c.VelocityZ/(2*flight.Gravity)
	return Prediction{Apogee: apogee, Converged: true}
}
