// Package tui is the terminal live view: a side-on canvas of the running
// scene, per-object stats and a height plot, with hot reload when the scene
// file changes on disk.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"physbridge/internal/bridge"
	"physbridge/internal/config"
	"physbridge/internal/scene"
)

const (
	canvasWidth     = 64
	canvasHeight    = 20
	historyCapacity = 240

	// World window mapped onto the canvas: x in [-xRange, xRange],
	// y in [yFloor, yFloor+yRange].
	xRange = 12.0
	yRange = 12.0
	yFloor = -1.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	trackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 2)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type reloadMsg string

type watchErrMsg struct{ err error }

// tickStats is shared with the bridge contact sink, which outlives any one
// copy of the tea model.
type tickStats struct {
	contacts int
	total    int
}

// Model drives the live view: one scene stepped at its configured dt.
type Model struct {
	path    string
	cfg     *config.Scene
	world   *scene.World
	watcher *config.Watcher
	stats   *tickStats

	canvas  [][]rune
	trail   []struct{ x, y int }
	heights []float64

	running bool
	elapsed float64
	steps   int
	err     error
}

// NewModel loads the scene at path (the built-in default when path is
// empty) and builds its world. When watch is set, edits to the file reload
// the scene in place.
func NewModel(path string, watch bool) (Model, error) {
	m := Model{
		path:    path,
		running: true,
		canvas:  newCanvas(),
		stats:   &tickStats{},
	}
	cfg, err := loadScene(path)
	if err != nil {
		return Model{}, err
	}
	if err := m.rebuild(cfg); err != nil {
		return Model{}, err
	}
	if watch && path != "" {
		w, err := config.NewWatcher(path)
		if err != nil {
			return Model{}, err
		}
		m.watcher = w
	}
	return m, nil
}

func loadScene(path string) (*config.Scene, error) {
	if path == "" {
		return config.DefaultScene(), nil
	}
	return config.Load(path)
}

func (m *Model) rebuild(cfg *config.Scene) error {
	w, err := scene.Build(cfg)
	if err != nil {
		return err
	}
	stats := m.stats
	w.Bridge.OnContact(func(a, b bridge.Handle, distance float64) {
		stats.contacts++
		stats.total++
	})
	m.cfg = cfg
	m.world = w
	m.elapsed = 0
	m.steps = 0
	m.trail = m.trail[:0]
	m.heights = m.heights[:0]
	*m.stats = tickStats{}
	return nil
}

func newCanvas() [][]rune {
	c := make([][]rune, canvasHeight)
	for i := range c {
		c[i] = make([]rune, canvasWidth)
	}
	return c
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(m.cfg.Dt)}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForChange())
	}
	return tea.Batch(cmds...)
}

func tick(dt float64) tea.Cmd {
	return tea.Tick(time.Duration(dt*float64(time.Second)), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForChange blocks on the watcher until the scene file changes.
func (m Model) waitForChange() tea.Cmd {
	w := m.watcher
	return func() tea.Msg {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			return reloadMsg(name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return watchErrMsg{err}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.watcher != nil {
				_ = m.watcher.Close()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if cfg, err := loadScene(m.path); err != nil {
				m.err = err
			} else if err := m.rebuild(cfg); err != nil {
				m.err = err
			} else {
				m.err = nil
			}
		}

	case reloadMsg:
		cfg, err := loadScene(m.path)
		if err != nil {
			m.err = err
			return m, m.waitForChange()
		}
		if err := m.rebuild(cfg); err != nil {
			m.err = err
			return m, m.waitForChange()
		}
		m.err = nil
		return m, m.waitForChange()

	case watchErrMsg:
		m.err = msg.err
		return m, m.waitForChange()

	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, tick(m.cfg.Dt)
	}
	return m, nil
}

func (m *Model) step() {
	m.stats.contacts = 0
	m.steps += m.world.Tick()
	m.elapsed += m.cfg.Dt

	if len(m.world.Handles) == 0 {
		return
	}
	tracked := m.world.Handles[m.cfg.Track]
	if p, err := m.world.Position(tracked); err == nil {
		m.heights = append(m.heights, p[1])
		if len(m.heights) > historyCapacity {
			m.heights = m.heights[1:]
		}
		if x, y, ok := project(p[0], p[1]); ok {
			m.trail = append(m.trail, struct{ x, y int }{x, y})
			if len(m.trail) > 100 {
				m.trail = m.trail[1:]
			}
		}
	}
}

// project maps world xy onto canvas coordinates.
func project(wx, wy float64) (int, int, bool) {
	x := int((wx + xRange) / (2 * xRange) * float64(canvasWidth-1))
	y := canvasHeight - 1 - int((wy-yFloor)/yRange*float64(canvasHeight-1))
	if x < 0 || x >= canvasWidth || y < 0 || y >= canvasHeight {
		return 0, 0, false
	}
	return x, y, true
}

func (m *Model) draw() {
	for y := range m.canvas {
		for x := range m.canvas[y] {
			m.canvas[y][x] = ' '
		}
	}
	for _, t := range m.trail {
		m.canvas[t.y][t.x] = '.'
	}
	for i, h := range m.world.Handles {
		p, err := m.world.Position(h)
		if err != nil {
			continue
		}
		x, y, ok := project(p[0], p[1])
		if !ok {
			continue
		}
		m.canvas[y][x] = glyph(m.cfg.Objects[i], i == m.cfg.Track)
	}
}

func glyph(o config.Object, tracked bool) rune {
	switch {
	case tracked:
		return '@'
	case o.Kinematic:
		return 'k'
	case o.Mass == 0:
		return '#'
	default:
		return 'o'
	}
}

func (m Model) View() string {
	var canvas strings.Builder
	for _, row := range m.canvas {
		canvas.WriteString(string(row))
		canvas.WriteByte('\n')
	}

	left := canvasStyle.Render(canvas.String())
	right := statsStyle.Render(m.statsView())
	out := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if len(m.heights) > 1 {
		plot := asciigraph.Plot(m.heights,
			asciigraph.Height(6),
			asciigraph.Width(canvasWidth),
			asciigraph.Caption(fmt.Sprintf("%s height", m.trackedName())))
		out += "\n" + graphStyle.Render(plot)
	}
	if m.err != nil {
		out += "\n" + errorStyle.Render("error: "+m.err.Error())
	}
	out += "\n" + helpStyle.Render("space pause · r reset · q quit")
	return out
}

func (m Model) trackedName() string {
	if m.cfg.Track >= 0 && m.cfg.Track < len(m.world.Names) {
		return m.world.Names[m.cfg.Track]
	}
	return "tracked"
}

func (m Model) statsView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("physbridge live") + "\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.2fs", m.elapsed))
	row("sub-steps", fmt.Sprintf("%d", m.steps))
	row("objects", fmt.Sprintf("%d", len(m.world.Handles)))
	row("contacts", fmt.Sprintf("%d (tick) / %d (total)", m.stats.contacts, m.stats.total))

	if len(m.world.Handles) > 0 {
		tracked := m.world.Handles[m.cfg.Track]
		b.WriteString("\n" + trackStyle.Render(m.trackedName()) + "\n")
		if p, err := m.world.Position(tracked); err == nil {
			row("position", fmt.Sprintf("%.2f %.2f %.2f", p[0], p[1], p[2]))
		}
		if resp, err := m.world.Bridge.Invoke(tracked, bridge.GetLinearVelocity); err == nil {
			v := resp.(bridge.Vector).Value
			row("velocity", fmt.Sprintf("%.2f %.2f %.2f", v[0], v[1], v[2]))
		}
		if resp, err := m.world.Bridge.Invoke(tracked, bridge.IsActive); err == nil {
			row("active", fmt.Sprintf("%v", resp.(bridge.Boolean).Value))
		}
	}
	if !m.running {
		b.WriteString("\n" + trackStyle.Render("paused"))
	}
	return b.String()
}

// Run starts the live view and blocks until the user quits.
func Run(path string, watch bool) error {
	m, err := NewModel(path, watch)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}
