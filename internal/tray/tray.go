// Package tray provides a system tray menu for the theremin: mute toggle,
// last played note, control panel link and quit.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
	"gocv.io/x/gocv"

	"github.com/ayusman/theremin/internal/tuner"
	"github.com/ayusman/theremin/internal/ui"
)

// Tray represents the system tray application. It is also a ui.Sink that
// shows the tuner reading and the session's mute state.
type Tray struct {
	onMute  func(muted bool)
	onPanel func()
	onQuit  func()
	muted   bool
	note    string
	mu      sync.RWMutex

	// Menu items stored for later updates
	menuMute *systray.MenuItem
	menuNote *systray.MenuItem
}

// New creates a new Tray instance, unmuted.
func New() *Tray {
	return &Tray{}
}

// OnMute sets the callback function to be called when mute is toggled.
func (t *Tray) OnMute(fn func(muted bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMute = fn
}

// OnPanel sets the callback function to be called when the panel menu item is clicked.
func (t *Tray) OnPanel(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPanel = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray event loop.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Theremin")
	systray.SetTooltip("Gesture-controlled theremin")

	t.mu.Lock()
	t.menuMute = systray.AddMenuItem(muteTitle(t.muted), "Silence the instrument")
	systray.AddSeparator()

	t.menuNote = systray.AddMenuItem(noteTitle(t.note), "Last played note")
	t.menuNote.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuPanel := systray.AddMenuItem("Open Panel...", "Open the control panel in the browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit the theremin")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuMute.ClickedCh:
				t.handleMute()
			case <-menuPanel.ClickedCh:
				t.handlePanel()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func muteTitle(muted bool) string {
	if muted {
		return "○ Muted"
	}
	return "● Playing"
}

func noteTitle(note string) string {
	if note == "" {
		return "Last: none"
	}
	return "Last: " + note
}

// handleMute handles the mute menu item click.
func (t *Tray) handleMute() {
	t.mu.Lock()
	t.muted = !t.muted
	muted := t.muted

	if t.menuMute != nil {
		t.menuMute.SetTitle(muteTitle(muted))
	}

	callback := t.onMute
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(muted)
	}
}

// handlePanel handles the panel menu item click.
func (t *Tray) handlePanel() {
	t.mu.RLock()
	callback := t.onPanel
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit runs the quit callback.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// IsMuted returns the current mute state.
func (t *Tray) IsMuted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.muted
}

// LastNote returns the last note shown in the menu.
func (t *Tray) LastNote() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.note
}

// SetText implements ui.Sink. Only the mute label is shown; it keeps the
// menu in step when another surface mutes the session.
func (t *Tray) SetText(label ui.Label, text string) {
	if label != ui.LabelMute {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.muted = ui.IsMuted(text)
	if t.menuMute != nil {
		t.menuMute.SetTitle(muteTitle(t.muted))
	}
}

// DrawFrame implements ui.Sink; the tray shows no video.
func (t *Tray) DrawFrame(*gocv.Mat) {}

// DrawTuner updates the last note menu item.
func (t *Tray) DrawTuner(note string, cents int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.note = ""
	if note != tuner.NoNote {
		t.note = fmt.Sprintf("%s %+d", note, cents)
	}
	if t.menuNote != nil {
		t.menuNote.SetTitle(noteTitle(t.note))
	}
}
