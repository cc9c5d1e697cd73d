// Package tui is a terminal dashboard for the instrument. It shows the
// feedback labels and tuner and turns key presses into commands.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayusman/theremin/internal/tuner"
	"github.com/ayusman/theremin/internal/ui"
)

// Slider steps for the key bindings.
const (
	SmoothingStep   = 0.05
	ChangeLimitStep = 5.0
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	mutedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	noteStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Padding(1, 3)

	bandColors = map[tuner.Band]string{
		tuner.BandInTune: "#00FF00",
		tuner.BandClose:  "#FFFF00",
		tuner.BandOff:    "#FFA500",
		tuner.BandFar:    "#FF0000",
	}

	labelOrder = []ui.Label{
		ui.LabelFrequency,
		ui.LabelVolume,
		ui.LabelFPS,
		ui.LabelRightHand,
		ui.LabelLeftHand,
	}
)

// LabelMsg updates one feedback label.
type LabelMsg struct {
	Label ui.Label
	Text  string
}

// TunerMsg updates the tuner reading.
type TunerMsg struct {
	Note  string
	Cents int
}

// FrameMsg reports that a frame was pushed.
type FrameMsg time.Time

// Model represents the dashboard state.
type Model struct {
	commands chan<- ui.Command

	labels    map[ui.Label]string
	note      string
	cents     int
	hasTuner  bool
	frames    int
	lastFrame time.Time

	muted       bool
	smoothing   float64
	changeLimit float64

	width  int
	height int
}

// NewModel creates a dashboard sending commands to commands, starting from
// the given slider positions.
func NewModel(commands chan<- ui.Command, smoothing, changeLimit float64) Model {
	return Model{
		commands:    commands,
		labels:      make(map[ui.Label]string),
		note:        tuner.NoNote,
		smoothing:   smoothing,
		changeLimit: changeLimit,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LabelMsg:
		if msg.Label == ui.LabelMute {
			m.muted = ui.IsMuted(msg.Text)
			break
		}
		m.labels[msg.Label] = msg.Text

	case TunerMsg:
		m.note = msg.Note
		m.cents = msg.Cents
		m.hasTuner = true

	case FrameMsg:
		m.frames++
		m.lastFrame = time.Time(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.send(ui.Quit())
		return m, tea.Quit
	case "m":
		m.send(ui.ToggleMute())
	case "+", "=":
		m.smoothing = round(math.Min(m.smoothing+SmoothingStep, ui.MaxSmoothingFactor))
		m.send(ui.SetSmoothing(m.smoothing))
	case "-", "_":
		m.smoothing = round(math.Max(m.smoothing-SmoothingStep, ui.MinSmoothingFactor))
		m.send(ui.SetSmoothing(m.smoothing))
	case "]":
		m.changeLimit = math.Min(m.changeLimit+ChangeLimitStep, ui.MaxChangeLimit)
		m.send(ui.SetChangeLimit(m.changeLimit))
	case "[":
		m.changeLimit = math.Max(m.changeLimit-ChangeLimitStep, ui.MinChangeLimit)
		m.send(ui.SetChangeLimit(m.changeLimit))
	}
	return m, nil
}

func (m Model) send(cmd ui.Command) {
	if m.commands != nil {
		ui.Send(m.commands, cmd)
	}
}

// round drops float noise from repeated slider steps.
func round(v float64) float64 {
	return math.Round(v*100) / 100
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Theremin"))
	b.WriteString("\n")

	if m.hasTuner {
		band := tuner.BandFor(m.cents)
		color := lipgloss.Color(bandColors[band])

		b.WriteString(noteStyle.Background(color).Foreground(lipgloss.Color("#000000")).Render(m.note))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(tuner.Gauge(m.cents)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Cents: %+d", m.cents)))
	} else {
		b.WriteString(infoStyle.Render("Raise your right hand to play..."))
	}
	b.WriteString("\n\n")

	for _, label := range labelOrder {
		if text, ok := m.labels[label]; ok {
			b.WriteString(infoStyle.Render(text))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("Smoothing: %.2f  Change limit: %.0f", m.smoothing, m.changeLimit)))
	if m.muted {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render("MUTED"))
	}
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("q quit | m mute | +/- smoothing | [/] change limit"))

	return b.String()
}
