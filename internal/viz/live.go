// Package viz renders simulation sessions in the terminal: a live
// bubbletea view of the vehicle in the x–z plane and asciigraph plots
// of stored trajectories.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/quadsim/internal/env"
	"github.com/san-kum/quadsim/internal/spatial"
)

const (
	canvasWidth    = 64
	canvasHeight   = 20
	rewardCapacity = 240
	armLength      = 0.4
)

type TickMsg time.Time

// Model drives one env session frame by frame.
type Model struct {
	env      *env.Env
	maxSteps int
	fps      int
	perFrame int

	canvas     *Canvas
	rewards    []float64
	steps      int
	running    bool
	terminated bool
	err        error
}

// NewModel wraps a session for live viewing. The env is reset on Init.
func NewModel(e *env.Env, maxSteps, fps int) Model {
	dt := e.Params().Dt
	perFrame := int(1 / (float64(fps) * dt))
	if perFrame < 1 {
		perFrame = 1
	}

	window := e.Params().PosThreshold + 1
	return Model{
		env:      e,
		maxSteps: maxSteps,
		fps:      fps,
		perFrame: perFrame,
		canvas:   NewCanvas(canvasWidth, canvasHeight, -window, window, -window, window),
		rewards:  make([]float64, 0, rewardCapacity),
		running:  true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	m.env.Reset()
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.env.Reset()
			m.steps = 0
			m.terminated = false
			m.err = nil
			m.rewards = m.rewards[:0]
			m.running = true
		}
		return m, nil

	case TickMsg:
		if m.running && !m.terminated && m.err == nil && m.steps < m.maxSteps {
			m.advance()
		}
		return m, m.tick()
	}

	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.perFrame; i++ {
		a, err := m.env.ComputeAction()
		if err != nil {
			m.err = err
			return
		}
		_, reward, terminated, _ := m.env.Step(a)
		m.steps++

		m.rewards = append(m.rewards, reward)
		if len(m.rewards) > rewardCapacity {
			m.rewards = m.rewards[1:]
		}
		if terminated {
			m.terminated = true
			return
		}
		if m.steps >= m.maxSteps {
			return
		}
	}
}

func (m Model) View() string {
	m.drawVehicle()

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("quadsim") + "\n\n")

	s := m.env.State()
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("t", fmt.Sprintf("%.2fs  (step %d)", m.env.Time(), m.steps))
	row("pos", fmt.Sprintf("(%.2f, %.2f, %.2f)", s.Pos.X, s.Pos.Y, s.Pos.Z))
	row("vel", fmt.Sprintf("(%.2f, %.2f, %.2f)", s.Vel.X, s.Vel.Y, s.Vel.Z))
	row("|q|", fmt.Sprintf("%.6f", s.AttNorm()))
	if len(m.rewards) > 0 {
		row("reward", fmt.Sprintf("%.3f", m.rewards[len(m.rewards)-1]))
	}

	switch {
	case m.err != nil:
		stats.WriteString("\n" + doneStyle.Render("controller error: "+m.err.Error()))
	case m.terminated:
		stats.WriteString("\n" + doneStyle.Render("episode terminated"))
	case !m.running:
		stats.WriteString("\n" + valueStyle.Render("paused"))
	}

	if len(m.rewards) > 1 {
		stats.WriteString("\n" + graphStyle.Render(
			asciigraph.Plot(m.rewards, asciigraph.Height(5), asciigraph.Width(28))))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats.String()),
	)
	return body + helpStyle.Render("\n  space pause · r reset · q quit\n")
}

// drawVehicle projects the vehicle's body x/z axes and the reference
// onto the world x–z plane.
func (m Model) drawVehicle() {
	m.canvas.Clear()

	// Ground line.
	m.canvas.Line(m.canvas.xMin, 0, m.canvas.xMax, 0, '-')

	ref := m.env.Reference()
	m.canvas.Set(ref.Pos.X, ref.Pos.Z, '*')

	s := m.env.State()
	bx := spatial.BodyX(s.Att).Mul(armLength)
	bz := spatial.BodyZ(s.Att).Mul(armLength)

	// Airframe arm along body x, thrust axis along body z.
	m.canvas.Line(s.Pos.X-bx.X, s.Pos.Z-bx.Z, s.Pos.X+bx.X, s.Pos.Z+bx.Z, '=')
	m.canvas.Line(s.Pos.X, s.Pos.Z, s.Pos.X+bz.X, s.Pos.Z+bz.Z, '|')
	m.canvas.Set(s.Pos.X, s.Pos.Z, 'O')
}

// Run blocks until the user quits the live view.
func Run(m Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
