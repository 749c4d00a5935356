package control

import "fmt"

const (
	DefaultIntegralLimit  = 500.0
	DefaultDerivFilterTau = 0.2
)

// PID is the default control law. Overshoot (predicted above target)
// produces a positive error and therefore more deployment. The integral
// accumulator is clamped to bound windup during sustained saturation,
// and the derivative term runs through a first-order low-pass filter to
// suppress prediction noise.
type PID struct {
	Kp float64
	Ki float64
	Kd float64

	// IntegralLimit bounds the error accumulator (in error*seconds).
	IntegralLimit float64
	// FilterTau is the derivative low-pass time constant; zero
	// disables filtering.
	FilterTau float64
}

func NewPID(kp, ki, kd float64) (*PID, error) {
	if kp < 0 || ki < 0 || kd < 0 {
		return nil, fmt.Errorf("pid gains must be non-negative, got kp=%f ki=%f kd=%f", kp, ki, kd)
	}
	return &PID{
		Kp:            kp,
		Ki:            ki,
		Kd:            kd,
		IntegralLimit: DefaultIntegralLimit,
		FilterTau:     DefaultDerivFilterTau,
	}, nil
}

func (p *PID) Name() string { return "pid" }

func (p *PID) Compute(predicted, target, dt float64, s *State) Output {
	err := predicted - target

	pTerm := p.Kp * err

	if dt > 0 {
		s.Integral = clamp(s.Integral+err*dt, -p.IntegralLimit, p.IntegralLimit)
	}
	iTerm := p.Ki * s.Integral

	dTerm := 0.0
	if s.HasPrev && dt > 0 {
		raw := (err - s.PrevErr) / dt
		if p.FilterTau > 0 {
			alpha := dt / (dt + p.FilterTau)
			s.FilteredDeriv += alpha * (raw - s.FilteredDeriv)
		} else {
			s.FilteredDeriv = raw
		}
		dTerm = p.Kd * s.FilteredDeriv
	}
	s.PrevErr = err
	s.HasPrev = true

	signal := pTerm + iTerm + dTerm
	return Output{
		Command: clamp(signal, 0, 1),
		Signal:  signal,
		P:       pTerm,
		I:       iTerm,
		D:       dTerm,
	}
}

// GetParams returns tunable parameters for live adjustment.
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}

// SetParam adjusts a PID gain.
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	}
}
