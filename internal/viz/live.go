// Package viz renders a live terminal view of a flight: altitude and
// deployment strip charts plus the controller's current numbers.
package viz

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/akarsh/airbrakesim/internal/airbrakes"
	"github.com/akarsh/airbrakesim/internal/flight"
	"github.com/akarsh/airbrakesim/internal/sim"
)

const (
	graphWidth      = 70
	graphHeight     = 10
	historyCapacity = 600
)

// Frame is one rendered step of the flight.
type Frame struct {
	State      flight.State
	Deployment float64
	Phase      airbrakes.Phase
	Done       bool
}

type frameMsg Frame

// Model consumes frames produced by the engine goroutine and keeps the
// most recent window for the strip charts.
type Model struct {
	frames <-chan Frame
	cancel context.CancelFunc

	current       Frame
	altitudes     []float64
	deployments   []float64
	targetApogee  float64
	maxAltitude   float64
	done          bool
}

func NewModel(frames <-chan Frame, cancel context.CancelFunc, targetApogee float64) Model {
	return Model{
		frames:       frames,
		cancel:       cancel,
		targetApogee: targetApogee,
		altitudes:    make([]float64, 0, historyCapacity),
		deployments:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForFrame()
}

func (m Model) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-m.frames
		if !ok {
			return frameMsg(Frame{Done: true})
		}
		return frameMsg(frame)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case frameMsg:
		if msg.Done {
			m.done = true
			return m, nil
		}
		m.current = Frame(msg)
		m.altitudes = append(m.altitudes, msg.State.Altitude)
		m.deployments = append(m.deployments, msg.Deployment)
		if len(m.altitudes) > historyCapacity {
			m.altitudes = m.altitudes[1:]
			m.deployments = m.deployments[1:]
		}
		if msg.State.Altitude > m.maxAltitude {
			m.maxAltitude = msg.State.Altitude
		}
		return m, m.waitForFrame()
	}
	return m, nil
}

func (m Model) View() string {
	header := headerStyle.Render("airbrakesim live")

	var altGraph, deployGraph string
	if len(m.altitudes) > 1 {
		altGraph = asciigraph.Plot(m.altitudes,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("altitude [m]"),
		)
		deployGraph = asciigraph.Plot(m.deployments,
			asciigraph.Height(graphHeight/2),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("deployment [0-1]"),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
		)
	}

	stats := statsStyle.Render(
		row("phase", phaseStyle.Render(m.current.Phase.String())) + "\n" +
			row("t", fmt.Sprintf("%8.2f s", m.current.State.Time)) + "\n" +
			row("altitude", fmt.Sprintf("%8.1f m", m.current.State.Altitude)) + "\n" +
			row("velocity", fmt.Sprintf("%8.1f m/s", m.current.State.VelocityZ)) + "\n" +
			row("deployment", fmt.Sprintf("%8.2f", m.current.Deployment)) + "\n" +
			row("max altitude", fmt.Sprintf("%8.1f m", m.maxAltitude)) + "\n" +
			row("target", fmt.Sprintf("%8.1f m", m.targetApogee)),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		graphStyle.Render(altGraph+"\n\n"+deployGraph),
		stats,
	)

	footer := helpStyle.Render("q: quit")
	if m.done {
		footer = helpStyle.Render("flight complete - q: quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// RunLive flies the engine in a background goroutine, pacing it to wall
// clock, and blocks in the TUI until the user quits or the flight ends.
func RunLive(engine *sim.Engine, cfg sim.RunConfig, targetApogee float64) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan Frame, 16)
	go func() {
		defer close(frames)
		pace := time.Duration(cfg.Dt * float64(time.Second))
		_ = engine.RunWithCallback(ctx, cfg, func(s flight.State, deployment float64) bool {
			select {
			case frames <- Frame{State: s, Deployment: deployment, Phase: engine.Controller().Phase()}:
			case <-ctx.Done():
				return false
			}
			time.Sleep(pace)
			return true
		})
	}()

	p := tea.NewProgram(NewModel(frames, cancel, targetApogee))
	_, err := p.Run()
	return err
}
