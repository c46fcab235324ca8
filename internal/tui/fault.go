package tui

import (
	"fmt"
	"log"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// faultMsg carries a panic recovered inside a command goroutine.
type faultMsg struct{ cause any }

// guard runs cmd and turns a panic into a faultMsg so it reaches the same
// error screen as a panic during Update.
func guard(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("command panic: %v\n%s", r, debug.Stack())
				msg = faultMsg{cause: r}
			}
		}()
		return cmd()
	}
}

// crash switches the app to the error screen and detaches every key scope.
// Ctrl+C is handled directly by Update from then on.
func (a *App) crash(cause any) {
	msg := fmt.Sprint(cause)
	if err, ok := cause.(error); ok {
		msg = err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	log.Printf("fault: %s (detaching %s)", msg, strings.Join(a.keys.Scopes(), ", "))
	a.fault = msg
	a.global.close()
	if a.screen != nil {
		a.screen.scope().close()
	}
}

func (a *App) renderFault() string {
	lines := []string{
		faultTitleStyle.Render("An unexpected error occurred"),
		"",
		"Please restart Worklog",
		"",
		mutedStyle.Render("Error: " + a.fault),
	}
	return appStyle.Render(faultStyle.Render(strings.Join(lines, "\n")) + "\n\n" + mutedStyle.Render("ctrl+c to quit"))
}
