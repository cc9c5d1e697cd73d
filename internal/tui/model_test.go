package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayusman/theremin/internal/ui"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func drain(ch chan ui.Command) []ui.Command {
	var out []ui.Command
	for {
		select {
		case cmd := <-ch:
			out = append(out, cmd)
		default:
			return out
		}
	}
}

func TestModel_Keys(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		want     []ui.Command
		wantQuit bool
	}{
		{"quit", []string{"q"}, []ui.Command{ui.Quit()}, true},
		{"ctrl+c quits", []string{"ctrl+c"}, []ui.Command{ui.Quit()}, true},
		{"mute toggle", []string{"m"}, []ui.Command{ui.ToggleMute()}, false},
		{"smoothing up", []string{"+"}, []ui.Command{ui.SetSmoothing(0.55)}, false},
		{"smoothing down twice", []string{"-", "-"}, []ui.Command{ui.SetSmoothing(0.45), ui.SetSmoothing(0.4)}, false},
		{"change limit up", []string{"]"}, []ui.Command{ui.SetChangeLimit(55)}, false},
		{"change limit down", []string{"["}, []ui.Command{ui.SetChangeLimit(45)}, false},
		{"unbound key", []string{"x"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := make(chan ui.Command, 8)
			m := NewModel(ch, 0.5, 50)

			var cmd tea.Cmd
			for _, k := range tt.keys {
				m, cmd = update(t, m, key(k))
			}

			got := drain(ch)
			if len(got) != len(tt.want) {
				t.Fatalf("commands = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("command %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}

			isQuit := cmd != nil && cmd() == tea.Quit()
			if isQuit != tt.wantQuit {
				t.Errorf("quit = %v, want %v", isQuit, tt.wantQuit)
			}
		})
	}
}

func TestModel_SlidersClamp(t *testing.T) {
	ch := make(chan ui.Command, 64)
	m := NewModel(ch, 0.9, 95)

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, key("+"))
		m, _ = update(t, m, key("]"))
	}
	if m.smoothing != ui.MaxSmoothingFactor || m.changeLimit != ui.MaxChangeLimit {
		t.Errorf("sliders = (%g, %g), want upper bounds", m.smoothing, m.changeLimit)
	}

	for i := 0; i < 40; i++ {
		m, _ = update(t, m, key("-"))
		m, _ = update(t, m, key("["))
	}
	if m.smoothing != ui.MinSmoothingFactor || m.changeLimit != ui.MinChangeLimit {
		t.Errorf("sliders = (%g, %g), want lower bounds", m.smoothing, m.changeLimit)
	}
}

func TestModel_NilCommandsDoesNotPanic(t *testing.T) {
	m := NewModel(nil, 0.5, 50)
	m, _ = update(t, m, key("m"))
	m, _ = update(t, m, key("+"))
	if m.muted {
		t.Error("mute key should wait for the session's mute label")
	}
}

func TestModel_MuteFollowsSession(t *testing.T) {
	commands := make(chan ui.Command, 4)
	m := NewModel(commands, 0.5, 50)

	m, _ = update(t, m, key("m"))
	if m.muted {
		t.Error("muted before the session confirmed")
	}
	if got := <-commands; got != ui.ToggleMute() {
		t.Errorf("sent %+v, want toggle", got)
	}

	m, _ = update(t, m, LabelMsg{Label: ui.LabelMute, Text: ui.FormatMute(true)})
	if !m.muted {
		t.Error("mute label from the session not applied")
	}
	if _, ok := m.labels[ui.LabelMute]; ok {
		t.Error("mute state should not be listed as a text label")
	}

	m, _ = update(t, m, LabelMsg{Label: ui.LabelMute, Text: ui.FormatMute(false)})
	if m.muted {
		t.Error("unmute label from the session not applied")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(nil, 0.5, 50)

	if v := m.View(); !strings.Contains(v, "Raise your right hand") {
		t.Errorf("idle view missing prompt:\n%s", v)
	}

	m, _ = update(t, m, LabelMsg{Label: ui.LabelFrequency, Text: ui.FormatFrequency(440)})
	m, _ = update(t, m, LabelMsg{Label: ui.LabelVolume, Text: ui.FormatVolume(60)})
	m, _ = update(t, m, TunerMsg{Note: "A", Cents: 0})
	m, _ = update(t, m, LabelMsg{Label: ui.LabelMute, Text: ui.FormatMute(true)})

	v := m.View()
	for _, want := range []string{"Freq : 440.00", "Vol : 60", "A", "Cents: +0", "MUTED", "Smoothing: 0.50"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
	if strings.Index(v, "Freq") > strings.Index(v, "Vol") {
		t.Error("labels should keep their display order")
	}
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestSink_SendsMessages(t *testing.T) {
	rec := &recordingSender{}
	var sink ui.Sink = NewSink(rec)

	sink.SetText(ui.LabelFPS, "FPS: 30")
	sink.DrawTuner("C#", -12)
	sink.DrawFrame(nil)

	if len(rec.msgs) != 3 {
		t.Fatalf("messages = %d, want 3", len(rec.msgs))
	}
	if got, ok := rec.msgs[0].(LabelMsg); !ok || got.Label != ui.LabelFPS || got.Text != "FPS: 30" {
		t.Errorf("first message = %#v", rec.msgs[0])
	}
	if got, ok := rec.msgs[1].(TunerMsg); !ok || got.Note != "C#" || got.Cents != -12 {
		t.Errorf("second message = %#v", rec.msgs[1])
	}
	if got, ok := rec.msgs[2].(FrameMsg); !ok || time.Since(time.Time(got)) > time.Minute {
		t.Errorf("third message = %#v", rec.msgs[2])
	}

	m := NewModel(nil, 0.5, 50)
	for _, msg := range rec.msgs {
		m, _ = update(t, m, msg)
	}
	if m.frames != 1 || m.note != "C#" || m.labels[ui.LabelFPS] != "FPS: 30" {
		t.Errorf("model did not absorb sink messages: %+v", m)
	}
}
