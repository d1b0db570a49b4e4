// Package tray provides a system tray menu for AirSketch.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Modes lists the pinch modes offered in the menu, in menu order.
var Modes = []string{"draw", "erase", "edit"}

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onMode     func(mode string)
	onUndo     func()
	onRedo     func()
	onClear    func()
	onSnapshot func()
	onSettings func()
	onQuit     func()
	enabled    bool
	mode       string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuModes     map[string]*systray.MenuItem
	menuLastShape *systray.MenuItem
}

// New creates a new Tray in draw mode with detection enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
		mode:    Modes[0],
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMode sets the callback called with the picked mode name.
func (t *Tray) OnMode(fn func(mode string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnUndo sets the undo callback.
func (t *Tray) OnUndo(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUndo = fn
}

// OnRedo sets the redo callback.
func (t *Tray) OnRedo(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRedo = fn
}

// OnClear sets the clear callback.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnSnapshot sets the snapshot callback.
func (t *Tray) OnSnapshot(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSnapshot = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
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

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("AirSketch")
	systray.SetTooltip("AirSketch hand drawing")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem("● Enabled", "Toggle hand tracking")
	systray.AddSeparator()

	t.menuModes = make(map[string]*systray.MenuItem, len(Modes))
	for _, m := range Modes {
		item := systray.AddMenuItemCheckbox(modeTitle(m), "Pinch to "+m, m == t.mode)
		t.menuModes[m] = item
	}
	systray.AddSeparator()

	menuUndo := systray.AddMenuItem("Undo", "Undo the last change")
	menuRedo := systray.AddMenuItem("Redo", "Redo the last undone change")
	menuClear := systray.AddMenuItem("Clear", "Clear the canvas")
	menuSnapshot := systray.AddMenuItem("Snapshot", "Save the canvas to the gallery")
	systray.AddSeparator()

	t.menuLastShape = systray.AddMenuItem("Last: none", "Last recognized shape")
	t.menuLastShape.Disable()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit AirSketch")
	modeItems := t.menuModes
	t.mu.Unlock()

	for _, m := range Modes {
		go func(mode string, item *systray.MenuItem) {
			for range item.ClickedCh {
				t.handleMode(mode)
			}
		}(m, modeItems[m])
	}

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuUndo.ClickedCh:
				t.call(func() func() { return t.onUndo })
			case <-menuRedo.ClickedCh:
				t.call(func() func() { return t.onRedo })
			case <-menuClear.ClickedCh:
				t.call(func() func() { return t.onClear })
			case <-menuSnapshot.ClickedCh:
				t.call(func() func() { return t.onSnapshot })
			case <-menuSettings.ClickedCh:
				t.call(func() func() { return t.onSettings })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func modeTitle(m string) string {
	switch m {
	case "draw":
		return "Draw"
	case "erase":
		return "Erase"
	case "edit":
		return "Edit"
	}
	return m
}

// call runs the callback picked under the read lock.
func (t *Tray) call(pick func() func()) {
	t.mu.RLock()
	callback := pick()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		if enabled {
			t.menuToggle.SetTitle("● Enabled")
		} else {
			t.menuToggle.SetTitle("○ Disabled")
		}
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleMode checks the picked mode and notifies the callback.
func (t *Tray) handleMode(mode string) {
	t.mu.Lock()
	t.mode = mode
	t.syncModes()
	callback := t.onMode
	t.mu.Unlock()

	if callback != nil {
		callback(mode)
	}
}

// syncModes ticks the current mode. t.mu must be held.
func (t *Tray) syncModes() {
	for m, item := range t.menuModes {
		if m == t.mode {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.call(func() func() { return t.onQuit })
	systray.Quit()
}

// SetMode reflects a mode changed elsewhere, such as the settings page.
func (t *Tray) SetMode(mode string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = mode
	t.syncModes()
}

// Mode returns the mode last picked or set.
func (t *Tray) Mode() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// SetLastShape updates the last recognized shape display in the menu.
func (t *Tray) SetLastShape(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastShape != nil {
		if name == "" {
			t.menuLastShape.SetTitle("Last: none")
		} else {
			t.menuLastShape.SetTitle("Last: " + name)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
