package interact

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-laser-mirrors/laser"
	"github.com/jdginn/go-laser-mirrors/laser/capture"
	"github.com/jdginn/go-laser-mirrors/laser/config"
)

var (
	docStyle       = lipgloss.NewStyle().Margin(1, 2)
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	activatedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF3030"))
	idleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	statusStyle    = lipgloss.NewStyle().Italic(true)
)

// stepSeconds is how much camera motion one key press is worth.
const stepSeconds = 0.1

// lookStep is the pointer delta one arrow key press is worth.
const lookStep = 25.0

// listWidth and listHeight size the mirror list until the terminal reports
// its real size.
const (
	listWidth  = 72
	listHeight = 14
)

type mirrorItem struct {
	mirror   *laser.Mirror
	selected bool
}

func (i mirrorItem) Title() string { return i.mirror.Surface.Name }

func (i mirrorItem) Description() string {
	desc := fmt.Sprintf("at %s yaw %.1f tilt %.1f", formatVector(i.mirror.Position()), i.mirror.Yaw(), i.mirror.Tilt())
	if i.selected {
		desc = "selected, " + desc
	}
	return desc
}

func (i mirrorItem) FilterValue() string { return i.mirror.Surface.Name }

type tickMsg time.Time

type keyMap struct {
	Forward, Back, Left, Right            key.Binding
	LookLeft, LookRight, LookUp, LookDown key.Binding
	Press, Move, Release                  key.Binding
	RotateLeft, RotateRight               key.Binding
	Tilt, Delete, Snapshot                key.Binding
	Help, Quit                            key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Press, k.Tilt, k.Snapshot, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.Back, k.Left, k.Right},
		{k.LookLeft, k.LookRight, k.LookUp, k.LookDown},
		{k.Press, k.Move, k.Release, k.RotateLeft, k.RotateRight},
		{k.Tilt, k.Delete, k.Snapshot, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Forward:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "forward")),
	Back:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "back")),
	Left:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "left")),
	Right:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "right")),
	LookLeft:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "look left")),
	LookRight:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "look right")),
	LookUp:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "look up")),
	LookDown:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "look down")),
	Press:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "grab (twice: spawn)")),
	Move:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "drag to crosshair")),
	Release:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "release")),
	RotateLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "rotate left")),
	RotateRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "rotate right")),
	Tilt:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle tilt")),
	Delete:      key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete mirror")),
	Snapshot:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "save snapshot")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Options tunes the interactive session.
type Options struct {
	FrameInterval time.Duration
	// CaptureRoot is where snapshots are written.
	CaptureRoot string
}

type model struct {
	setup    *config.Setup
	opts     Options
	frame    laser.Frame
	help     help.Model
	mirrors  list.Model
	captures *capture.Dir
	status   string
	now      func() time.Time
}

func newModel(setup *config.Setup, opts Options) model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 30
	}
	mirrors := list.New(nil, list.NewDefaultDelegate(), listWidth, listHeight)
	mirrors.Title = "Mirrors"
	mirrors.SetShowHelp(false)
	mirrors.SetFilteringEnabled(false)
	m := model{setup: setup, opts: opts, help: help.New(), mirrors: mirrors, now: time.Now}
	m.refreshMirrors()
	return m
}

// refreshMirrors mirrors the placer into the list and moves the list cursor
// to the selected mirror.
func (m *model) refreshMirrors() tea.Cmd {
	placer := m.setup.Placer
	items := make([]list.Item, 0, len(placer.Mirrors()))
	cursor := -1
	for i, mirror := range placer.Mirrors() {
		selected := mirror == placer.Selected()
		if selected {
			cursor = i
		}
		items = append(items, mirrorItem{mirror: mirror, selected: selected})
	}
	cmd := m.mirrors.SetItems(items)
	if cursor >= 0 {
		m.mirrors.Select(cursor)
	}
	return cmd
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.frame = m.setup.World.Tick()
		return m, tea.Batch(m.tick(), m.refreshMirrors())
	case tea.WindowSizeMsg:
		h, _ := docStyle.GetFrameSize()
		m.help.Width = msg.Width - h
		m.mirrors.SetSize(msg.Width-h, listHeight)
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
		return m, m.refreshMirrors()
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) {
	cam := m.setup.Camera
	placer := m.setup.Placer
	m.status = ""

	switch {
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Forward):
		cam.Move(1, 0, stepSeconds)
	case key.Matches(msg, keys.Back):
		cam.Move(-1, 0, stepSeconds)
	case key.Matches(msg, keys.Left):
		cam.Move(0, -1, stepSeconds)
	case key.Matches(msg, keys.Right):
		cam.Move(0, 1, stepSeconds)
	case key.Matches(msg, keys.LookLeft):
		cam.Look(-lookStep, 0)
	case key.Matches(msg, keys.LookRight):
		cam.Look(lookStep, 0)
	case key.Matches(msg, keys.LookUp):
		cam.Look(0, lookStep)
	case key.Matches(msg, keys.LookDown):
		cam.Look(0, -lookStep)
	case key.Matches(msg, keys.Press):
		mirror, err := placer.Press(cam.Ray(), m.now())
		switch {
		case err != nil:
			m.status = err.Error()
		case mirror != nil:
			m.status = "selected " + mirror.Surface.Name
		}
	case key.Matches(msg, keys.Move):
		placer.Drag(cam.Ray(), 0)
	case key.Matches(msg, keys.Release):
		placer.Release()
	case key.Matches(msg, keys.RotateLeft):
		m.rotateSelected(lookStep)
	case key.Matches(msg, keys.RotateRight):
		m.rotateSelected(-lookStep)
	case key.Matches(msg, keys.Tilt):
		if err := placer.ToggleTilt(); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, keys.Delete):
		if err := placer.Delete(); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, keys.Snapshot):
		m.status = m.snapshot()
	}
}

func (m *model) rotateSelected(dx float64) {
	placer := m.setup.Placer
	if placer.Selected() == nil {
		m.status = laser.ErrNoSelection.Error()
		return
	}
	placer.Selected().Rotate(-dx * 0.5)
}

func (m *model) snapshot() string {
	if m.captures == nil {
		dir, err := capture.Create(m.opts.CaptureRoot)
		if err != nil {
			return err.Error()
		}
		m.captures = dir
	}
	png := m.captures.FramePath(m.frame.Number, "png")
	if err := m.setup.View.SavePNG(png, m.setup.Scene, m.frame, m.setup.Placer.Selected()); err != nil {
		return err.Error()
	}
	if err := laser.SaveFrameToJSON(m.captures.FramePath(m.frame.Number, "json"), m.frame, m.setup.Scene.Receivers(), m.setup.Placer); err != nil {
		return err.Error()
	}
	return "saved " + png
}

func formatVector(v pt.Vector) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

func (m model) View() string {
	var b strings.Builder
	cam := m.setup.Camera

	b.WriteString(titleStyle.Render(fmt.Sprintf("frame %d", m.frame.Number)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("camera %s yaw %.1f pitch %.1f\n\n", formatVector(cam.Position), cam.Yaw(), cam.Pitch()))

	for _, beam := range m.frame.Beams {
		target := "open space"
		if last := beam.Trace.Hits[len(beam.Trace.Hits)-1]; last != nil {
			target = last.Name
		}
		b.WriteString(fmt.Sprintf("beam %-12s %2d bounces, ends at %s on %s\n",
			beam.Emitter, beam.Trace.Bounces(), formatVector(beam.Trace.End()), target))
	}
	for _, name := range m.frame.Skipped {
		b.WriteString(idleStyle.Render(fmt.Sprintf("beam %-12s skipped", name)) + "\n")
	}
	b.WriteString("\n")

	for _, r := range m.setup.Scene.Receivers() {
		style := idleStyle
		if r.State() == laser.Activated {
			style = activatedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("● %s %s", r.Name, r.State())) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.mirrors.View() + "\n")

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(keys))
	return docStyle.Render(b.String())
}

// Run steps the world in real time and lets the user fly the camera and
// arrange mirrors until they quit.
func Run(setup *config.Setup, opts Options) error {
	p := tea.NewProgram(newModel(setup, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive session: %w", err)
	}
	return nil
}
