package backend

import "sync"

// Window tracks whether the main view is shown or folded into the tray line.
type Window struct {
	mu      sync.Mutex
	visible bool
}

// WindowState is the result of the window commands.
type WindowState struct {
	Visible bool `json:"visible"`
}

func NewWindow() *Window {
	return &Window{visible: true}
}

func (w *Window) Show() WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = true
	return WindowState{Visible: true}
}

// Hide folds the window. Hiding a hidden window is a no-op.
func (w *Window) Hide() WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
	return WindowState{Visible: false}
}

func (w *Window) Toggle() WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = !w.visible
	return WindowState{Visible: w.visible}
}
