// Package control provides feedback laws mapping apogee-prediction
// error to a normalized air-brake deployment command.
//
// Laws implement the single-method [Law] interface:
//
//   - [PID]: proportional-integral-derivative with integral anti-windup
//     and an optional derivative low-pass filter (the default)
//   - [BangBang]: full deployment above a deadband, none below
//
// Law state (integral accumulator, previous error) is an explicit
// [State] value passed into each call, so controller instances used
// across parallel ensemble runs are trivially isolated and every step
// is replayable.
package control

// State carries the mutable memory of a control law between steps. The
// zero value is the correct pre-flight state.
type State struct {
	Integral      float64
	PrevErr       float64
	FilteredDeriv float64
	HasPrev       bool
}

func (s *State) Reset() {
	*s = State{}
}

// Output is the result of one control-step computation. Signal is the
// raw sum of terms before clamping; Command is clamped to [0,1].
type Output struct {
	Command float64
	Signal  float64
	P, I, D float64
}

// Law computes a deployment command from the predicted and target
// apogee. dt is the control period; s is mutated in place.
type Law interface {
	Compute(predicted, target, dt float64, s *State) Output
	Name() string
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
