package airbrakes

// History is the append-only flight record: parallel, equally long,
// time-ordered sequences, one entry per ACTIVE control step. Buffers
// are pre-sized from the expected step count so the per-timestep hot
// loop does not reallocate. External consumers read it after the
// flight; only the controller writes.
type History struct {
	Time      []float64
	Commanded []float64
	Actual    []float64
	Predicted []float64
	Error     []float64
	P         []float64
	I         []float64
	D         []float64
	Signal    []float64
	LagError  []float64
}

func newHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		Time:      make([]float64, 0, capacity),
		Commanded: make([]float64, 0, capacity),
		Actual:    make([]float64, 0, capacity),
		Predicted: make([]float64, 0, capacity),
		Error:     make([]float64, 0, capacity),
		P:         make([]float64, 0, capacity),
		I:         make([]float64, 0, capacity),
		D:         make([]float64, 0, capacity),
		Signal:    make([]float64, 0, capacity),
		LagError:  make([]float64, 0, capacity),
	}
}

func (h *History) append(t, commanded, actual, predicted, err, p, i, d, signal float64) {
	h.Time = append(h.Time, t)
	h.Commanded = append(h.Commanded, commanded)
	h.Actual = append(h.Actual, actual)
	h.Predicted = append(h.Predicted, predicted)
	h.Error = append(h.Error, err)
	h.P = append(h.P, p)
	h.I = append(h.I, i)
	h.D = append(h.D, d)
	h.Signal = append(h.Signal, signal)
	h.LagError = append(h.LagError, commanded-actual)
}

func (h *History) Len() int { return len(h.Time) }
