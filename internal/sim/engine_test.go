package sim

import (
	"context"
	"testing"

	"github.com/akarsh/airbrakesim/internal/airbrakes"
	"github.com/akarsh/airbrakesim/internal/control"
	"github.com/akarsh/airbrakesim/internal/flight"
	"github.com/akarsh/airbrakesim/internal/metrics"
	"github.com/akarsh/airbrakesim/internal/predict"
	"github.com/akarsh/airbrakesim/internal/sensor"
)

func testVehicle() flight.Vehicle {
	return flight.Vehicle{DryMass: 13.5, DragCoefficient: 0.5, ReferenceArea: 0.01}
}

func testMotor() flight.Motor {
	return flight.Motor{Thrust: 500, BurnTime: 3.0, PropellantMass: 1.5}
}

func testEngine(t *testing.T, targetApogee float64) *Engine {
	t.Helper()

	cfg := airbrakes.DefaultConfig(targetApogee)
	cfg.ActivationTime = testMotor().BurnTime

	pred, err := predict.NewFixedStep(predict.DefaultFixedStepSize, predict.DefaultMaxIterations)
	if err != nil {
		t.Fatalf("predictor: %v", err)
	}
	law, err := control.NewPID(0.05, 0.005, 0.01)
	if err != nil {
		t.Fatalf("law: %v", err)
	}
	ctl, err := airbrakes.New(cfg, testVehicle(), pred, law)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	engine, err := NewEngine(testVehicle(), testMotor(), flight.NewAtmosphere(), ctl)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return engine
}

func TestEngine_FlightReachesApex(t *testing.T) {
	engine := testEngine(t, 10000) // target far above reach: brakes stay shut

	result, err := engine.Run(context.Background(), RunConfig{Dt: 0.05, MaxTime: 60})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Apogee <= 100 {
		t.Errorf("flight barely left the pad: apogee %f", result.Apogee)
	}
	if result.ApogeeTime <= testMotor().BurnTime {
		t.Errorf("apogee before burnout: t=%f", result.ApogeeTime)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected sim errors: %v", result.Errors)
	}
	final := result.Velocities[len(result.Velocities)-1]
	if final > 0 {
		t.Errorf("run ended while still ascending: v=%f", final)
	}
}

func TestEngine_BrakesReduceApogee(t *testing.T) {
	cfg := RunConfig{Dt: 0.05, MaxTime: 60}

	unbraked, err := testEngine(t, 10000).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unbraked run: %v", err)
	}
	braked, err := testEngine(t, 100).Run(context.Background(), cfg) // always overshooting
	if err != nil {
		t.Fatalf("braked run: %v", err)
	}

	if braked.Apogee >= unbraked.Apogee {
		t.Errorf("brakes did not reduce apogee: %f vs %f", braked.Apogee, unbraked.Apogee)
	}

	deployed := false
	for _, d := range braked.Deployments {
		if d > 0.5 {
			deployed = true
		}
		if d < 0 || d > 1 {
			t.Fatalf("deployment %f escaped [0,1]", d)
		}
	}
	if !deployed {
		t.Error("expected substantial deployment during the braked flight")
	}
}

func TestEngine_ControllerHistoryMatchesActiveSteps(t *testing.T) {
	engine := testEngine(t, 100)

	result, err := engine.Run(context.Background(), RunConfig{Dt: 0.05, MaxTime: 60})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	h := engine.Controller().History()
	if h.Len() == 0 {
		t.Fatal("controller never activated")
	}
	if h.Len() >= result.Steps {
		t.Errorf("history (%d) should cover only the coast portion of %d steps", h.Len(), result.Steps)
	}
	for i := 1; i < h.Len(); i++ {
		if h.Time[i] <= h.Time[i-1] {
			t.Fatalf("history time not strictly increasing at %d", i)
		}
	}
}

func TestEngine_MetricsObserved(t *testing.T) {
	engine := testEngine(t, 100)
	engine.AddMetric(metrics.NewApogeeError(100))
	engine.AddMetric(metrics.NewControlEffort())
	engine.AddMetric(metrics.NewSaturation(0.99))

	result, err := engine.Run(context.Background(), RunConfig{Dt: 0.05, MaxTime: 60})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, ok := result.Metrics["apogee_error"]; !ok {
		t.Error("missing apogee_error metric")
	}
	if result.Metrics["control_effort"] <= 0 {
		t.Error("expected non-zero control effort in a braked flight")
	}
}

func TestEngine_InvalidRunConfig(t *testing.T) {
	engine := testEngine(t, 1000)

	if _, err := engine.Run(context.Background(), RunConfig{Dt: 0, MaxTime: 60}); err == nil {
		t.Error("zero dt accepted")
	}
	if _, err := engine.Run(context.Background(), RunConfig{Dt: 0.05, MaxTime: 0}); err == nil {
		t.Error("zero max time accepted")
	}
}

func TestEngine_DeterministicWithSensorSeed(t *testing.T) {
	run := func() *Result {
		engine := testEngine(t, 300)
		noise, err := sensor.New(2.0, 0.5, 1234)
		if err != nil {
			t.Fatalf("sensor: %v", err)
		}
		engine.Controller().SetSensor(noise)
		result, err := engine.Run(context.Background(), RunConfig{Dt: 0.05, MaxTime: 60})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return result
	}

	a := run()
	b := run()
	if a.Apogee != b.Apogee || a.Steps != b.Steps {
		t.Errorf("same seed diverged: apogee %f vs %f", a.Apogee, b.Apogee)
	}
	for i := range a.Deployments {
		if a.Deployments[i] != b.Deployments[i] {
			t.Fatalf("deployment diverged at step %d", i)
		}
	}
}
