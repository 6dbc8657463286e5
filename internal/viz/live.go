package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 150
	maxStepsPerTick = 1 << 16
	maxListedBodies = 8
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is a live view of a system being stepped in real time.
type Model struct {
	sys          *nbody.System
	initial      *nbody.System
	dt           float64
	stepsPerTick int
	steps        int
	t            float64
	title        string

	running    bool
	diverged   bool
	showTrails bool
	showHelp   bool

	canvas   *Canvas
	camera   *Camera
	trails   [][]nbody.Point
	energy   []float64
	energy0  float64
	theme    Theme
	styles   styleSet
	recorder *Recorder
	gifPath  string
	status   string
}

type LiveOption func(*Model)

// WithStepsPerTick sets how many steps run per frame.
func WithStepsPerTick(n int) LiveOption {
	return func(m *Model) { m.stepsPerTick = clampSteps(n) }
}

func WithTheme(name string) LiveOption {
	return func(m *Model) {
		m.theme = GetTheme(name)
		m.styles = newStyles(m.theme)
	}
}

// WithGIFPath sets where G recordings are written.
func WithGIFPath(path string) LiveOption {
	return func(m *Model) { m.gifPath = path }
}

// NewModel wraps sys in a live view. The system's state at this point is
// what R restores.
func NewModel(sys *nbody.System, dt float64, title string, opts ...LiveOption) Model {
	m := Model{
		sys:          sys,
		initial:      sys.Clone(),
		dt:           dt,
		stepsPerTick: 60,
		title:        title,
		running:      true,
		showTrails:   true,
		canvas:       NewCanvas(width, height),
		camera:       NewCamera(),
		trails:       make([][]nbody.Point, sys.Len()),
		energy:       make([]float64, 0, historyCapacity),
		energy0:      sys.TotalEnergy(),
		theme:        ThemeDeepSpace,
		gifPath:      "gravsim.gif",
	}
	m.styles = newStyles(m.theme)
	for _, opt := range opts {
		opt(&m)
	}
	m.camera.Fit(sys.Particles())
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Steps is the number of steps taken since the last reset.
func (m Model) Steps() int { return m.steps }

// StepsPerTick is the current stepping rate.
func (m Model) StepsPerTick() int { return m.stepsPerTick }

func (m Model) Running() bool { return m.running }

// System returns the live system.
func (m Model) System() *nbody.System { return m.sys }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.diverged {
				m.running = !m.running
			}
		case "+", "=":
			m.stepsPerTick = clampSteps(m.stepsPerTick * 2)
		case "-", "_":
			m.stepsPerTick = clampSteps(m.stepsPerTick / 2)
		case "r":
			m.reset()
		case "up", "k":
			m.camera.RotateX(0.1)
		case "down", "j":
			m.camera.RotateX(-0.1)
		case "left", "h":
			m.camera.RotateY(0.1)
		case "right", "l":
			m.camera.RotateY(-0.1)
		case "i":
			m.camera.ZoomIn()
		case "o":
			m.camera.ZoomOut()
		case "c":
			m.showTrails = !m.showTrails
		case "t":
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

func clampSteps(n int) int {
	return max(1, min(n, maxStepsPerTick))
}

// step advances the system by stepsPerTick steps.
func (m *Model) step() {
	for i := 0; i < m.stepsPerTick; i++ {
		m.sys.Step(m.dt)
		m.steps++
		m.t += m.dt
	}

	if !m.sys.Valid() {
		m.running = false
		m.diverged = true
		m.status = fmt.Sprintf("diverged at step %d", m.steps)
		return
	}

	m.energy = append(m.energy, m.sys.TotalEnergy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}

	if !m.showTrails {
		return
	}
	for i, p := range m.sys.Particles() {
		m.trails[i] = append(m.trails[i], p.Position)
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

// reset restores the initial state.
func (m *Model) reset() {
	m.sys = m.initial.Clone()
	m.steps = 0
	m.t = 0
	m.running = true
	m.diverged = false
	m.status = ""
	m.energy = m.energy[:0]
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
	m.camera.Reset()
	m.camera.Fit(m.sys.Particles())
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder()
		m.status = "recording"
		return
	}
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = "saved " + m.gifPath
	}
	m.recorder = nil
}

// draw renders bodies and trails onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	particles := m.sys.Particles()
	if !m.diverged {
		m.camera.Fit(particles)
	}

	pw, ph := m.canvas.PixelWidth(), m.canvas.PixelHeight()

	if m.showTrails {
		for _, trail := range m.trails {
			for _, pos := range trail {
				if x, y, ok := m.camera.Project(pos, pw, ph); ok {
					m.canvas.Set(x, y)
				}
			}
		}
	}

	heaviest := 0.0
	for _, p := range particles {
		heaviest = math.Max(heaviest, p.Mass)
	}
	for _, p := range particles {
		x, y, ok := m.camera.Project(p.Position, pw, ph)
		if !ok {
			continue
		}
		r := 0
		if p.Mass == heaviest {
			r = 2
		} else if p.Mass > heaviest*1e-3 {
			r = 1
		}
		m.canvas.Disc(x, y, r)
	}
}

// drift is the relative energy change since the last reset.
func (m Model) drift() float64 {
	if len(m.energy) == 0 || m.energy0 == 0 {
		return 0
	}
	return (m.energy[len(m.energy)-1] - m.energy0) / math.Abs(m.energy0)
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.styles
	var s strings.Builder

	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")

	switch {
	case m.diverged:
		s.WriteString(st.alert.Render("DIVERGED"))
	case m.running:
		s.WriteString(st.running.Render("RUNNING"))
	default:
		s.WriteString(st.paused.Render("PAUSED"))
	}
	if m.recorder != nil {
		s.WriteString(" " + st.alert.Render(fmt.Sprintf("REC %d", m.recorder.Len())))
	}
	s.WriteString("\n")
	if m.status != "" {
		s.WriteString(st.label.Render(m.status) + "\n")
	}
	s.WriteString("\n")

	if len(m.energy) > 1 && m.energy0 != 0 {
		rel := make([]float64, len(m.energy))
		for i, e := range m.energy {
			rel[i] = (e - m.energy0) / math.Abs(m.energy0)
		}
		chart := asciigraph.Plot(rel,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Precision(2),
			asciigraph.Caption("Energy drift"),
		)
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", formatSimTime(m.t))
	row("Steps", fmt.Sprintf("%d", m.steps))
	row("Steps/frame", fmt.Sprintf("%d", m.stepsPerTick))
	row("dt", fmt.Sprintf("%gs", m.dt))
	row("Bodies", fmt.Sprintf("%d", m.sys.Len()))
	row("Drift", fmt.Sprintf("%.3e", m.drift()))

	s.WriteString("\nBODIES\n")
	for i, p := range m.sys.Particles() {
		if i == maxListedBodies {
			s.WriteString(st.label.Render(fmt.Sprintf("  +%d more", m.sys.Len()-i)) + "\n")
			break
		}
		line := fmt.Sprintf("%-10s %.3e m/s", truncate(p.Name, 10), p.Velocity.Norm())
		s.WriteString("  " + st.value.Render(line) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause +/-:Speed R:Reset Q:Quit\nT:Theme G:Record C:Trails ?:Help"))

	canvasView := st.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  + / -    - Double/halve speed       ║
║  R        - Reset simulation         ║
║  Arrows   - Rotate view              ║
║  I / O    - Zoom in/out              ║
║  C        - Toggle trails            ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func formatSimTime(seconds float64) string {
	const day = 86400.0
	switch {
	case seconds >= 365.25*day:
		return fmt.Sprintf("%.2f yr", seconds/(365.25*day))
	case seconds >= day:
		return fmt.Sprintf("%.2f d", seconds/day)
	default:
		return fmt.Sprintf("%.0f s", seconds)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RunLive runs m full screen until the user quits.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
