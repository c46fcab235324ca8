package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	iconSuccess = "✅"
	iconError   = "❌"
)

type toast struct {
	id          int
	icon        string
	title       string
	description string
}

type toastExpiredMsg struct{ id int }

// pushToast shows a notification and schedules its removal.
func (a *App) pushToast(icon, title, description string) tea.Cmd {
	a.nextToast++
	t := toast{id: a.nextToast, icon: icon, title: title, description: description}
	a.toasts = append(a.toasts, t)
	ttl := time.Duration(a.cfg.UI.ToastSeconds) * time.Second
	return tea.Tick(ttl, func(time.Time) tea.Msg { return toastExpiredMsg{id: t.id} })
}

func (a *App) successToast(title, description string) tea.Cmd {
	return a.pushToast(iconSuccess, title, description)
}

func (a *App) errorToast(title string) tea.Cmd {
	return a.pushToast(iconError, title, "")
}

func (a *App) expireToast(id int) {
	for i, t := range a.toasts {
		if t.id == id {
			a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
			return
		}
	}
}

func (a *App) renderToasts() string {
	if len(a.toasts) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(a.toasts))
	for _, t := range a.toasts {
		var b strings.Builder
		b.WriteString(t.icon + " " + toastTitleStyle.Render(t.title))
		if t.description != "" {
			b.WriteString("\n" + subtitleStyle.Render(t.description))
		}
		style := toastStyle
		if t.icon == iconError {
			style = style.BorderForeground(colorError)
		} else {
			style = style.BorderForeground(colorSuccess)
		}
		boxes = append(boxes, style.Render(b.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}
