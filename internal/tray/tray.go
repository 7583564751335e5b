// Package tray provides the system tray menu for Mudra: a detection toggle,
// the last confirmed gesture and the active view.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onView     func(name string)
	onSettings func()
	onQuit     func()
	enabled    bool
	views      []string
	active     string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
	menuViews       map[string]*systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnView sets the callback called when a view is picked from the menu.
func (t *Tray) OnView(fn func(name string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onView = fn
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

// SetViews lists the selectable views. It must be called before Run.
func (t *Tray) SetViews(names []string, active string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.views = append([]string(nil), names...)
	t.active = active
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Gesture Engine")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture recognition")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem("Last: none", "Last confirmed gesture")
	t.menuLastGesture.Disable()
	systray.AddSeparator()

	menuView := systray.AddMenuItem("View", "Active view")
	t.menuViews = make(map[string]*systray.MenuItem, len(t.views))
	for _, name := range t.views {
		item := menuView.AddSubMenuItemCheckbox(name, "Dispatch frames to "+name, name == t.active)
		t.menuViews[name] = item
		go t.watchView(name, item)
	}
	systray.AddSeparator()
	t.mu.Unlock()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) watchView(name string, item *systray.MenuItem) {
	for range item.ClickedCh {
		t.handleView(name)
	}
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleView marks name as the active view and reports the pick.
func (t *Tray) handleView(name string) {
	t.SetActiveView(name)

	t.mu.RLock()
	callback := t.onView
	t.mu.RUnlock()

	if callback != nil {
		callback(name)
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetEnabled updates the toggle without invoking the callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetActiveView moves the check mark to name.
func (t *Tray) SetActiveView(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = name
	for n, item := range t.menuViews {
		if n == name {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture != nil {
		if name == "" {
			t.menuLastGesture.SetTitle("Last: none")
		} else {
			t.menuLastGesture.SetTitle("Last: " + name)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// ActiveView returns the checked view.
func (t *Tray) ActiveView() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}
