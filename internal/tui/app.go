package tui

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/worklog/internal/backend"
	"github.com/jask/worklog/internal/config"
	"github.com/jask/worklog/internal/keybind"
	"github.com/jask/worklog/internal/prefs"
)

type route string

const (
	routeHome    route = "/"
	routeNewTask route = "/tasks/new"
	routeTasks   route = "/tasks"
)

// screen is one routed view. Each screen owns a key scope that the app opens
// while the screen is shown and the window is visible.
type screen interface {
	scope() *keyScope
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view() string
	// leave runs once, when the app navigates away or quits.
	leave()
}

// App is the root bubbletea model.
type App struct {
	ctx    context.Context
	cfg    config.Config
	bridge *backend.Bridge
	drafts *prefs.Store
	user   string
	now    func() time.Time

	keys    *keybind.Dispatcher
	global  *keyScope
	route   route
	screen  screen
	visible bool

	toasts    []toast
	nextToast int
	help      help.Model
	width     int

	// fault is the message of a recovered panic; non-empty means the app is
	// showing the error screen.
	fault string
}

// Options configures New. Drafts may be nil to disable draft persistence.
type Options struct {
	Config config.Config
	Bridge *backend.Bridge
	Drafts *prefs.Store
	// User is the name sent with the greet command.
	User string
}

// New builds the app on the home screen. Key overrides are validated up front
// so a bad config fails at startup instead of silently keeping the defaults.
func New(ctx context.Context, opts Options) (*App, error) {
	if _, err := keybind.ApplyOverrides(nil, opts.Config.Keys); err != nil {
		return nil, err
	}
	if opts.Config.UI.ToastSeconds <= 0 {
		opts.Config.UI.ToastSeconds = 3
	}
	if opts.Config.UI.Truncate <= 0 {
		opts.Config.UI.Truncate = 80
	}
	user := opts.User
	if user == "" {
		user = "there"
	}

	a := &App{
		ctx:     ctx,
		cfg:     opts.Config,
		bridge:  opts.Bridge,
		drafts:  opts.Drafts,
		user:    user,
		now:     time.Now,
		keys:    keybind.New(),
		visible: true,
		help:    help.New(),
	}
	a.global = newKeyScope(a.keys, "global", a.cfg.Keys, a.globalBindings)
	a.global.open()
	a.route = routeHome
	a.screen = a.newScreen(routeHome)
	a.screen.scope().open()
	return a, nil
}

func (a *App) globalBindings() []keybind.Binding {
	return []keybind.Binding{
		keybind.On(keybind.Key(keybind.KeyEscape), func() tea.Cmd {
			return a.invokeWindow(backend.CmdHideWindow)
		}).Named("global.hide").WithHelp("hide"),
		keybind.On(keybind.Key(".", keybind.ModAlt), func() tea.Cmd {
			return a.invokeWindow(backend.CmdToggle)
		}).Named("global.toggle").WithHelp("show/hide"),
		keybind.On(keybind.Key("c", keybind.ModCtrl), a.quit).Named("global.quit").WithHelp("quit"),
	}
}

func (a *App) newScreen(r route) screen {
	switch r {
	case routeNewTask:
		return newFormScreen(a)
	case routeTasks:
		return newListScreen(a)
	default:
		return newHomeScreen(a)
	}
}

// navigate replaces the current screen. It may run in the middle of a key
// dispatch: the old scope stops firing at once and the new scope only sees
// the next event.
func (a *App) navigate(to route) tea.Cmd {
	if a.screen != nil {
		a.screen.scope().close()
		a.screen.leave()
	}
	a.route = to
	a.screen = a.newScreen(to)
	if a.visible {
		a.screen.scope().open()
	}
	return a.screen.init()
}

func (a *App) quit() tea.Cmd {
	if a.screen != nil {
		a.screen.leave()
	}
	return tea.Quit
}

// invoke runs a backend command off the update goroutine.
func (a *App) invoke(name string, args map[string]any, done func(backend.Result, error) tea.Msg) tea.Cmd {
	return guard(a.bridge.Cmd(a.ctx, name, args, done))
}

type windowMsg struct {
	visible bool
	err     error
}

func (a *App) invokeWindow(name string) tea.Cmd {
	return a.invoke(name, nil, func(r backend.Result, err error) tea.Msg {
		if err != nil {
			return windowMsg{err: err}
		}
		return windowMsg{visible: r.Get("visible").Bool()}
	})
}

// setVisible folds the app into the tray line or restores it. While hidden
// only the global scope listens.
func (a *App) setVisible(v bool) {
	if v == a.visible {
		return
	}
	a.visible = v
	if v {
		a.screen.scope().open()
	} else {
		a.screen.scope().close()
	}
}

// dropDraft clears the stored draft if it holds a task that has since been
// saved by a form the user already left.
func (a *App) dropDraft(task string) {
	if a.drafts == nil {
		return
	}
	d, err := a.drafts.LoadDraft()
	if err != nil {
		log.Printf("load draft: %v", err)
		return
	}
	if strings.TrimSpace(d.Text) != task {
		return
	}
	if err := a.drafts.ClearDraft(); err != nil {
		log.Printf("clear draft: %v", err)
	}
}

func (a *App) Init() tea.Cmd {
	return a.screen.init()
}

// Update is the fault boundary: a panic anywhere below it, key bindings
// included, ends on the error screen instead of tearing down the terminal.
func (a *App) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	if a.fault != "" {
		if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		return a, nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("update panic: %v\n%s", r, debug.Stack())
			a.crash(r)
			model, cmd = a, nil
		}
	}()
	return a, a.update(msg)
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.help.Width = m.Width
		return a.screen.update(m)
	case tea.KeyMsg:
		return a.handleKey(m)
	case windowMsg:
		if m.err != nil {
			return a.errorToast(fmt.Sprintf("Error: %v", m.err))
		}
		a.setVisible(m.visible)
		return nil
	case toastExpiredMsg:
		a.expireToast(m.id)
		return nil
	case faultMsg:
		a.crash(m.cause)
		return nil
	case taskSavedMsg:
		var cmd tea.Cmd
		if m.err != nil {
			cmd = a.errorToast(fmt.Sprintf("Error saving task: %v", m.err))
		} else {
			cmd = a.successToast("Added task: "+m.task, m.result)
			if m.from != a.screen {
				a.dropDraft(m.task)
			}
		}
		return tea.Batch(cmd, a.screen.update(m))
	case tasksLoadedMsg:
		var cmd tea.Cmd
		if m.err != nil {
			cmd = a.errorToast(fmt.Sprintf("Error loading tasks: %v", m.err))
		}
		return tea.Batch(cmd, a.screen.update(m))
	}
	return a.screen.update(msg)
}

// handleKey dispatches the key to every active scope. Keys that no binding
// claims are also passed to the screen as text input, provided the screen
// did not change during the dispatch.
func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	cur := a.screen
	cmd, claimed := a.keys.Dispatch(keybind.FromKeyMsg(m))
	if claimed || !a.visible || a.screen != cur {
		return cmd
	}
	return tea.Batch(cmd, cur.update(m))
}

func (a *App) View() (out string) {
	if a.fault != "" {
		return a.renderFault()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("view panic: %v\n%s", r, debug.Stack())
			a.crash(r)
			out = a.renderFault()
		}
	}()

	if !a.visible {
		return a.renderTray()
	}
	parts := []string{a.screen.view()}
	if t := a.renderToasts(); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, a.renderFooter())
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (a *App) renderFooter() string {
	bindings := append(a.screen.scope().current(), a.global.current()...)
	return "\n" + a.help.ShortHelpView(keybind.HelpBindings(bindings))
}

func (a *App) renderTray() string {
	hints := []string{"Worklog is hidden"}
	if b, ok := a.keys.Lookup("global.toggle"); ok {
		if label, ok := keybind.Describe(b); ok {
			hints = append(hints, label+" to show")
		}
	}
	if b, ok := a.keys.Lookup("global.quit"); ok {
		if label, ok := keybind.Describe(b); ok {
			hints = append(hints, label+" to quit")
		}
	}
	line := strings.Join(hints, " · ")
	if a.width > 0 {
		line = ansi.Truncate(line, a.width, "…")
	}
	return trayStyle.Render(line)
}

// contentWidth is the terminal width minus the app padding, or 0 before the
// first resize.
func (a *App) contentWidth() int {
	if a.width == 0 {
		return 0
	}
	return max(a.width-appStyle.GetHorizontalFrameSize(), 1)
}
