package airbrakes_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/akarsh/airbrakesim/internal/airbrakes"
	"github.com/akarsh/airbrakesim/internal/control"
	"github.com/akarsh/airbrakesim/internal/flight"
	"github.com/akarsh/airbrakesim/internal/predict"
	"github.com/akarsh/airbrakesim/internal/sensor"
)

func testVehicle() flight.Vehicle {
	return flight.Vehicle{DryMass: 15, DragCoefficient: 0.5, ReferenceArea: 0.01}
}

func testConfig() airbrakes.Config {
	cfg := airbrakes.DefaultConfig(2300)
	cfg.ActivationTime = 2.0
	cfg.LockFloor = 100
	return cfg
}

func newController(cfg airbrakes.Config) *airbrakes.Controller {
	law, err := control.NewPID(0.01, 0.001, 0.002)
	Expect(err).NotTo(HaveOccurred())
	ctl, err := airbrakes.New(cfg, testVehicle(), predict.NewClosedForm(), law)
	Expect(err).NotTo(HaveOccurred())
	return ctl
}

// coastStates produces a plausible coast trajectory: ascending from
// 1000 m at 100 m/s under gravity, sampled at the control period.
func coastStates(cfg airbrakes.Config, n int) []flight.State {
	states := make([]flight.State, 0, n)
	alt, vel := 1000.0, 100.0
	for i := 0; i < n; i++ {
		t := cfg.ActivationTime + float64(i)*cfg.Period
		states = append(states, flight.State{
			Time: t, Altitude: alt, VelocityZ: vel, Mass: 15, AirDensity: 1.0,
		})
		alt += vel * cfg.Period
		vel -= flight.Gravity * cfg.Period
	}
	return states
}

var _ = Describe("Controller", func() {
	var cfg airbrakes.Config

	BeforeEach(func() {
		cfg = testConfig()
	})

	Describe("construction", func() {
		It("rejects a non-positive target apogee", func() {
			bad := cfg
			bad.TargetApogee = 0
			law, _ := control.NewPID(1, 0, 0)
			_, err := airbrakes.New(bad, testVehicle(), predict.NewClosedForm(), law)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive lag time constant", func() {
			bad := cfg
			bad.LagTimeConstant = -0.1
			law, _ := control.NewPID(1, 0, 0)
			_, err := airbrakes.New(bad, testVehicle(), predict.NewClosedForm(), law)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-physical vehicle", func() {
			law, _ := control.NewPID(1, 0, 0)
			badVehicle := testVehicle()
			badVehicle.DryMass = -1
			_, err := airbrakes.New(cfg, badVehicle, predict.NewClosedForm(), law)
			Expect(err).To(HaveOccurred())
		})

		It("starts armed with brakes retracted", func() {
			ctl := newController(cfg)
			Expect(ctl.Phase()).To(Equal(airbrakes.PhaseArmed))
			Expect(ctl.Actual()).To(BeZero())
		})
	})

	Describe("state machine", func() {
		It("stays armed before the activation time", func() {
			ctl := newController(cfg)
			out := ctl.Step(flight.State{Time: 0.5, Altitude: 200, VelocityZ: 150, Mass: 15, AirDensity: 1.2})
			Expect(out).To(BeZero())
			Expect(ctl.Phase()).To(Equal(airbrakes.PhaseArmed))
			Expect(ctl.History().Len()).To(BeZero())
		})

		It("activates once past the activation time while ascending", func() {
			ctl := newController(cfg)
			ctl.Step(flight.State{Time: 2.1, Altitude: 900, VelocityZ: 120, Mass: 15, AirDensity: 1.1})
			Expect(ctl.Phase()).To(Equal(airbrakes.PhaseActive))
			Expect(ctl.History().Len()).To(Equal(1))
		})

		It("locks at the velocity-zero crossing and stays locked", func() {
			ctl := newController(cfg)
			ctl.Step(flight.State{Time: 2.1, Altitude: 900, VelocityZ: 120, Mass: 15, AirDensity: 1.1})
			frozen := ctl.Step(flight.State{Time: 2.15, Altitude: 2400, VelocityZ: -1, Mass: 15, AirDensity: 1.0})
			Expect(ctl.Phase()).To(Equal(airbrakes.PhaseLocked))

			after := ctl.Step(flight.State{Time: 2.2, Altitude: 2350, VelocityZ: -20, Mass: 15, AirDensity: 1.0})
			Expect(after).To(Equal(frozen))
			Expect(ctl.Phase()).To(Equal(airbrakes.PhaseLocked))
		})

		It("locks below the floor altitude", func() {
			ctl := newController(cfg)
			ctl.Step(flight.State{Time: 2.1, Altitude: 900, VelocityZ: 120, Mass: 15, AirDensity: 1.1})
			ctl.Step(flight.State{Time: 2.15, Altitude: 50, VelocityZ: 30, Mass: 15, AirDensity: 1.2})
			Expect(ctl.Phase()).To(Equal(airbrakes.PhaseLocked))
		})
	})

	Describe("history", func() {
		It("grows by one entry per active step with strictly increasing time", func() {
			ctl := newController(cfg)
			states := coastStates(cfg, 50)
			for _, s := range states {
				ctl.Step(s)
			}

			h := ctl.History()
			Expect(h.Len()).To(Equal(50))
			for _, seq := range [][]float64{h.Commanded, h.Actual, h.Predicted, h.Error, h.P, h.I, h.D, h.Signal, h.LagError} {
				Expect(seq).To(HaveLen(h.Len()))
			}
			for i := 1; i < h.Len(); i++ {
				Expect(h.Time[i]).To(BeNumerically(">", h.Time[i-1]))
			}
		})

		It("records the lag error as commanded minus actual", func() {
			cfg.TargetApogee = 1200 // below the ballistic apex, so the brakes work
			ctl := newController(cfg)
			for _, s := range coastStates(cfg, 20) {
				ctl.Step(s)
			}
			h := ctl.History()
			for i := 0; i < h.Len(); i++ {
				Expect(h.LagError[i]).To(BeNumerically("~", h.Commanded[i]-h.Actual[i], 1e-12))
			}
		})
	})

	Describe("deployment invariants", func() {
		It("keeps deployment within [0,1] and under the rate limit", func() {
			cfg.TargetApogee = 1200 // forces sustained deployment demand
			ctl := newController(cfg)
			maxDelta := cfg.MaxDeploymentRate * cfg.Period

			prev := 0.0
			for _, s := range coastStates(cfg, 200) {
				out := ctl.Step(s)
				Expect(out).To(BeNumerically(">=", 0))
				Expect(out).To(BeNumerically("<=", 1))
				Expect(math.Abs(out - prev)).To(BeNumerically("<=", maxDelta+1e-12))
				prev = out
			}
		})
	})

	Describe("determinism", func() {
		It("produces bit-identical history for identical inputs and seed", func() {
			run := func() *airbrakes.History {
				ctl := newController(cfg)
				noise, err := sensor.New(3.0, 1.0, 99)
				Expect(err).NotTo(HaveOccurred())
				ctl.SetSensor(noise)
				for _, s := range coastStates(cfg, 100) {
					ctl.Step(s)
				}
				return ctl.History()
			}

			a := run()
			b := run()
			Expect(a.Time).To(Equal(b.Time))
			Expect(a.Commanded).To(Equal(b.Commanded))
			Expect(a.Actual).To(Equal(b.Actual))
			Expect(a.Predicted).To(Equal(b.Predicted))
			Expect(a.Signal).To(Equal(b.Signal))
		})
	})
})
