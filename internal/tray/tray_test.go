package tray

import (
	"testing"

	"github.com/ayusman/theremin/internal/ui"
)

func TestTray_MuteToggle(t *testing.T) {
	tr := New()
	if tr.IsMuted() {
		t.Fatal("new tray should not be muted")
	}

	var got []bool
	tr.OnMute(func(muted bool) { got = append(got, muted) })

	tr.handleMute()
	tr.handleMute()
	tr.handleMute()

	want := []bool{true, false, true}
	if len(got) != len(want) {
		t.Fatalf("callbacks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("callback %d = %v, want %v", i, got[i], want[i])
		}
	}
	if !tr.IsMuted() {
		t.Error("tray should end muted")
	}
}

func TestTray_FollowsSessionMute(t *testing.T) {
	tr := New()
	var got []bool
	tr.OnMute(func(muted bool) { got = append(got, muted) })

	// Muted from another surface.
	tr.SetText(ui.LabelMute, ui.FormatMute(true))
	if !tr.IsMuted() {
		t.Fatal("tray did not pick up the session's mute state")
	}

	tr.SetText(ui.LabelFrequency, ui.MutedText)
	if !tr.IsMuted() {
		t.Error("other labels must not change the mute state")
	}

	// The next click unmutes instead of repeating the mute.
	tr.handleMute()
	if len(got) != 1 || got[0] {
		t.Errorf("callbacks = %v, want [false]", got)
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New()

	// No callbacks registered yet.
	tr.handlePanel()
	tr.handleQuit()

	var panel, quit int
	tr.OnPanel(func() { panel++ })
	tr.OnQuit(func() { quit++ })

	tr.handlePanel()
	tr.handleQuit()

	if panel != 1 || quit != 1 {
		t.Errorf("panel = %d, quit = %d, want 1 each", panel, quit)
	}
}

func TestTray_DrawTuner(t *testing.T) {
	var sink ui.Sink = New()
	tr := sink.(*Tray)

	tests := []struct {
		note  string
		cents int
		want  string
	}{
		{"A", 3, "A +3"},
		{"C#", -12, "C# -12"},
		{"-", 0, ""},
	}

	for _, tt := range tests {
		tr.DrawTuner(tt.note, tt.cents)
		if got := tr.LastNote(); got != tt.want {
			t.Errorf("DrawTuner(%q, %d): LastNote() = %q, want %q", tt.note, tt.cents, got, tt.want)
		}
	}

	if got := noteTitle(""); got != "Last: none" {
		t.Errorf("noteTitle(\"\") = %q", got)
	}
	if got := muteTitle(true); got != "○ Muted" {
		t.Errorf("muteTitle(true) = %q", got)
	}
}
