package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pursuit/internal/metrics"
	"github.com/san-kum/pursuit/internal/sim"
)

const (
	defaultCanvasWidth  = 78
	defaultCanvasHeight = 22
	historyCapacity     = 120
	historyEvery        = 15
	statsWidth          = 44
)

type physicsTickMsg time.Time

// cullTickMsg carries the generation of the chain that scheduled it. Reset
// starts a new generation so a chain from before the reset dies out.
type cullTickMsg struct {
	gen int
	at  time.Time
}

type Options struct {
	TickInterval time.Duration
	CullInterval time.Duration
	Title        string
}

// Model is the bubbletea driver for a simulation: physics and culling run
// as two independent tick chains on the program's event loop.
type Model struct {
	sim      *sim.Simulation
	opts     Options
	canvas   *Canvas
	running  bool
	gen      int
	culling  bool
	history  []float64
	frames   int
	quitting bool
}

func NewModel(s *sim.Simulation, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "Pursuit"
	}
	return Model{
		sim:     s,
		opts:    opts,
		canvas:  NewCanvas(defaultCanvasWidth, defaultCanvasHeight),
		running: true,
		culling: s.CullArmed(),
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) physicsTick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg { return physicsTickMsg(t) })
}

func (m Model) cullTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.opts.CullInterval, func(t time.Time) tea.Msg { return cullTickMsg{gen: gen, at: t} })
}

func (m Model) Init() tea.Cmd {
	if m.culling {
		return tea.Batch(m.physicsTick(), m.cullTick())
	}
	return m.physicsTick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sim.Reset()
			m.gen++
			m.history = m.history[:0]
			m.frames = 0
			m.culling = m.sim.CullArmed()
			m.draw()
			if m.culling {
				return m, m.cullTick()
			}
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case physicsTickMsg:
		if m.running {
			m.sim.Tick()
			m.frames++
			if m.frames%historyEvery == 0 {
				m.record()
			}
		}
		m.draw()
		return m, m.physicsTick()
	case cullTickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if !m.running {
			return m, m.cullTick()
		}
		if m.sim.CullTick(msg.at) {
			return m, m.cullTick()
		}
		m.culling = false
	}
	return m, nil
}

func (m *Model) record() {
	if len(m.history) == historyCapacity {
		copy(m.history, m.history[1:])
		m.history = m.history[:historyCapacity-1]
	}
	m.history = append(m.history, float64(m.sim.LiveCount()))
}

func (m *Model) resize(w, h int) {
	cw := w - statsWidth - 4
	ch := h - 6
	if cw < 10 || ch < 5 {
		return
	}
	m.canvas = NewCanvas(cw, ch)
	m.draw()
}

func (m *Model) draw() {
	DrawBodies(m.canvas, m.sim.Arena(), m.sim.Snapshot())
}

// Title is the header line shown above the arena.
func (m Model) Title() string {
	return fmt.Sprintf("%s - %d circles remaining", m.opts.Title, m.sim.LiveCount())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	status := statusRunning.Render("RUNNING")
	if !m.running {
		status = statusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	counts := metrics.Count(m.sim.Snapshot())
	stats := m.sim.Stats()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.sim.Ticks()))
	row("Live", fmt.Sprintf("%d", m.sim.LiveCount()))
	row("Bouncing", fmt.Sprintf("%d", counts.Bouncing))
	row("Falling", fmt.Sprintf("%d", counts.Falling))
	row("Settled", fmt.Sprintf("%d", counts.Settled))
	row("Collisions", fmt.Sprintf("%d", stats.Collisions))
	cull := "on"
	if !m.culling {
		cull = "stopped"
	}
	row("Culling", cull)

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("live"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("SPACE:Pause  R:Reset  Q:Quit"))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.Render(
			func(run string) string { return bodyStyle.Render(run) },
			func(run string) string { return highlightStyle.Render(run) },
		)),
		statsStyle.Render(s.String()),
	)
	return titleStyle.Render(m.Title()) + "\n" + body
}

// Run starts an interactive session on the terminal.
func Run(s *sim.Simulation, opts Options) error {
	m := NewModel(s, opts)
	m.draw()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
