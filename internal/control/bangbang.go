package control

import "fmt"

// BangBang deploys fully once the predicted overshoot exceeds a
// deadband and retracts fully otherwise. It keeps no memory; the law
// state is left untouched apart from the previous-error bookkeeping.
type BangBang struct {
	Deadband float64 // m of tolerated overshoot
}

func NewBangBang(deadband float64) (*BangBang, error) {
	if deadband < 0 {
		return nil, fmt.Errorf("deadband must be non-negative, got %f", deadband)
	}
	return &BangBang{Deadband: deadband}, nil
}

func (b *BangBang) Name() string { return "bang_bang" }

func (b *BangBang) Compute(predicted, target, dt float64, s *State) Output {
	err := predicted - target
	s.PrevErr = err
	s.HasPrev = true

	cmd := 0.0
	if err > b.Deadband {
		cmd = 1.0
	}
	return Output{Command: cmd, Signal: cmd}
}
