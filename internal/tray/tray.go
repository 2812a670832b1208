// Package tray provides the system tray controls for the gesture teleop daemon.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the operator's switchboard: it toggles gesture control, fires the
// emergency stop and shows the last latched command.
type Tray struct {
	onToggle        func(enabled bool)
	onEmergencyStop func()
	onDashboard     func()
	onQuit          func()
	enabled         bool
	mu              sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastCommand *systray.MenuItem
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

// OnEmergencyStop sets the callback function to be called when the emergency
// stop menu item is clicked.
func (t *Tray) OnEmergencyStop(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEmergencyStop = fn
}

// OnDashboard sets the callback function to be called when the dashboard menu item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
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
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Gesture Teleop")

	// Create menu items
	t.menuToggle = systray.AddMenuItem("● Driving", "Toggle gesture control")
	menuStop := systray.AddMenuItem("Emergency Stop", "Force the platform to STOP")
	systray.AddSeparator()

	t.menuLastCommand = systray.AddMenuItem("Last: STOP", "Last latched command")
	t.menuLastCommand.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Stop the platform and quit")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuStop.ClickedCh:
				t.handleEmergencyStop()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	// Update menu item text based on new state
	if enabled {
		t.menuToggle.SetTitle("● Driving")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleEmergencyStop handles the emergency stop menu item click. The tray
// stays enabled; the next mapped gesture drives again.
func (t *Tray) handleEmergencyStop() {
	t.mu.RLock()
	callback := t.onEmergencyStop
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
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

// Quit closes the tray loop without a menu click, e.g. on SIGINT.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetLastCommand updates the last command readout in the menu.
func (t *Tray) SetLastCommand(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastCommand != nil {
		if text == "" {
			t.menuLastCommand.SetTitle("Last: STOP")
		} else {
			t.menuLastCommand.SetTitle("Last: " + text)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
