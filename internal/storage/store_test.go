package storage

import (
	"testing"

	"github.com/akarsh/airbrakesim/internal/airbrakes"
	"github.com/akarsh/airbrakesim/internal/sim"
)

func sampleRun() (*sim.Result, *airbrakes.History) {
	result := &sim.Result{
		Times:       []float64{0, 0.05, 0.1},
		Altitudes:   []float64{0, 2.5, 7.4},
		Velocities:  []float64{0, 50, 98},
		Deployments: []float64{0, 0, 0.1},
		Apogee:      7.4,
		ApogeeTime:  0.1,
		Steps:       3,
		Metrics:     map[string]float64{"control_effort": 0.03},
	}
	history := &airbrakes.History{
		Time:      []float64{0.1},
		Commanded: []float64{0.5},
		Actual:    []float64{0.1},
		Predicted: []float64{420},
		Error:     []float64{120},
		P:         []float64{0.4},
		I:         []float64{0.05},
		D:         []float64{0.05},
		Signal:    []float64{0.5},
		LagError:  []float64{0.4},
	}
	return result, history
}

func TestStore_SaveListLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	result, history := sampleRun()
	meta := RunMetadata{
		Predictor:    "fixed_step",
		Law:          "pid",
		TargetApogee: 300,
		Seed:         7,
		Dt:           0.05,
	}

	runID, err := store.Save(meta, result, history)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	loaded, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Predictor != "fixed_step" || loaded.Apogee != 7.4 {
		t.Errorf("metadata round trip: %+v", loaded)
	}
	if loaded.Metrics["control_effort"] != 0.03 {
		t.Errorf("metrics not persisted: %+v", loaded.Metrics)
	}
}

func TestStore_LoadSeries(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	result, history := sampleRun()
	runID, err := store.Save(RunMetadata{}, result, history)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	header, cols, err := store.LoadSeries(runID, "flight.csv")
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if len(header) != 4 {
		t.Fatalf("expected 4 columns, got %v", header)
	}
	if len(cols[1]) != 3 || cols[1][2] != 7.4 {
		t.Errorf("altitude column wrong: %v", cols[1])
	}

	header, cols, err = store.LoadSeries(runID, "control.csv")
	if err != nil {
		t.Fatalf("load control series: %v", err)
	}
	if len(header) != 10 {
		t.Fatalf("expected 10 columns, got %v", header)
	}
	if len(cols[0]) != 1 {
		t.Errorf("expected 1 control row, got %d", len(cols[0]))
	}
}

func TestStore_ListEmpty(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
