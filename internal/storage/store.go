// Package storage persists flight runs for later plotting and export:
// one directory per run holding metadata.json, flight.csv (engine
// trajectory) and control.csv (controller history).
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/akarsh/airbrakesim/internal/airbrakes"
	"github.com/akarsh/airbrakesim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Predictor    string             `json:"predictor"`
	Law          string             `json:"law"`
	TargetApogee float64            `json:"target_apogee"`
	Apogee       float64            `json:"apogee"`
	ApogeeTime   float64            `json:"apogee_time"`
	Seed         int64              `json:"seed"`
	Dt           float64            `json:"dt"`
	Metrics      map[string]float64 `json:"metrics"`
}

func (s *Store) Save(meta RunMetadata, result *sim.Result, history *airbrakes.History) (string, error) {
	runID := fmt.Sprintf("flight_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Apogee = result.Apogee
	meta.ApogeeTime = result.ApogeeTime
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeFlightCSV(filepath.Join(runDir, "flight.csv"), result); err != nil {
		return "", err
	}
	if err := s.writeControlCSV(filepath.Join(runDir, "control.csv"), history); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) writeFlightCSV(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"time", "altitude", "velocity", "deployment"}); err != nil {
		return err
	}
	for i := range result.Times {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(result.Altitudes[i]),
			formatFloat(result.Velocities[i]),
			formatFloat(result.Deployments[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeControlCSV(path string, history *airbrakes.History) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"time", "commanded", "actual", "predicted", "error", "p", "i", "d", "signal", "lag_error"}
	if err := w.Write(header); err != nil {
		return err
	}
	if history == nil {
		return nil
	}
	for i := 0; i < history.Len(); i++ {
		row := []string{
			formatFloat(history.Time[i]),
			formatFloat(history.Commanded[i]),
			formatFloat(history.Actual[i]),
			formatFloat(history.Predicted[i]),
			formatFloat(history.Error[i]),
			formatFloat(history.P[i]),
			formatFloat(history.I[i]),
			formatFloat(history.D[i]),
			formatFloat(history.Signal[i]),
			formatFloat(history.LagError[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads one CSV file of a stored run and returns the header
// plus the numeric columns, for plotting.
func (s *Store) LoadSeries(runID, name string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("empty csv %s", name)
	}

	header := records[0]
	columns := make([][]float64, len(header))

	for _, record := range records[1:] {
		for j := range header {
			if j >= len(record) {
				continue
			}
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			columns[j] = append(columns[j], v)
		}
	}
	return header, columns, nil
}
