package metrics

import (
	"math"
	"testing"

	"github.com/akarsh/airbrakesim/internal/flight"
)

func TestApogeeError(t *testing.T) {
	m := NewApogeeError(2000)

	for _, alt := range []float64{500, 1500, 2100, 1900} {
		m.Observe(flight.State{Altitude: alt}, 0)
	}

	if got := m.Value(); math.Abs(got-100) > 1e-12 {
		t.Errorf("apogee error: got %f, want 100", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset should zero the value")
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()

	for _, d := range []float64{0, 0.5, 1.0} {
		m.Observe(flight.State{}, d)
	}

	if got := m.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("control effort: got %f, want 0.5", got)
	}
}

func TestSaturation(t *testing.T) {
	m := NewSaturation(0.99)

	for _, d := range []float64{0, 0.5, 1.0, 1.0} {
		m.Observe(flight.State{}, d)
	}

	if got := m.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("saturation fraction: got %f, want 0.5", got)
	}
}
