package tui

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/jask/worklog/internal/backend"
	"github.com/jask/worklog/internal/config"
	"github.com/jask/worklog/internal/database"
	"github.com/jask/worklog/internal/database/repository"
	"github.com/jask/worklog/internal/keybind"
	"github.com/jask/worklog/internal/prefs"
	"github.com/jask/worklog/internal/service"
)

type testEnv struct {
	app    *App
	bridge *backend.Bridge
	drafts *prefs.Store
	ctx    context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	db, err := database.Prepare(ctx, filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	b := backend.NewBridge()
	backend.RegisterCommands(b, &service.TaskService{Tasks: repository.NewTaskRepo(db)}, backend.NewWindow())

	return &testEnv{bridge: b, drafts: &prefs.Store{Dir: t.TempDir()}, ctx: ctx}
}

// start builds the app once the test has finished adjusting the bridge.
func (e *testEnv) start(t *testing.T, keys ...keybind.Override) *App {
	t.Helper()
	cfg := config.Config{
		UI:   config.UIConfig{ToastSeconds: 60, Truncate: 80},
		Keys: keys,
	}
	a, err := New(e.ctx, Options{Config: cfg, Bridge: e.bridge, Drafts: e.drafts, User: "Ada"})
	require.NoError(t, err)
	e.app = a
	settle(t, a, a.Init())
	return a
}

func (e *testEnv) press(t *testing.T, msgs ...tea.KeyMsg) {
	t.Helper()
	for _, m := range msgs {
		_, cmd := e.app.Update(m)
		settle(t, e.app, cmd)
	}
}

func (e *testEnv) saveTask(t *testing.T, desc string) {
	t.Helper()
	_, err := e.bridge.Invoke(e.ctx, backend.CmdSaveTask, map[string]any{"task": desc})
	require.NoError(t, err)
}

// settle runs cmd and feeds the resulting messages back into the app until
// nothing is left. Commands that block, such as ticks and cursor blinks, are
// dropped.
func settle(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	for depth := 0; cmd != nil && depth < 8; depth++ {
		var next []tea.Cmd
		for _, msg := range run(cmd) {
			if _, ok := msg.(tea.QuitMsg); ok {
				continue
			}
			_, c := a.Update(msg)
			if c != nil {
				next = append(next, c)
			}
		}
		cmd = tea.Batch(next...)
	}
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(250 * time.Millisecond):
		return nil
	}

	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	}
	results := make([][]tea.Msg, len(batch))
	var wg sync.WaitGroup
	for i, c := range batch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run(c)
		}()
	}
	wg.Wait()
	var out []tea.Msg
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func returnsQuit(cmd tea.Cmd) bool {
	for _, msg := range run(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }
func altRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true} }
func altKey(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k, Alt: true}
}
func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestHomeGreetsAndShowsHints(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t)

	require.Equal(t, routeHome, a.route)
	view := a.View()
	require.Contains(t, view, "Welcome to Worklog")
	require.Contains(t, view, "Hello, Ada! You've been greeted from Worklog!")
	require.Contains(t, view, "New task")
	require.Contains(t, view, "View tasks")
	require.Contains(t, view, keybind.GlyphAlt)
	require.Contains(t, view, "quit")
	require.Equal(t, []string{"global", "/"}, a.keys.Scopes())
}

func TestFormSavesTaskAndClears(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t)

	e.press(t, altRune('n'))
	require.Equal(t, routeNewTask, a.route)
	require.Equal(t, []string{"global", "/tasks/new"}, a.keys.Scopes())

	e.press(t, runes("write the report"))
	form := a.screen.(*formScreen)
	require.Equal(t, "write the report", form.input.Value())

	e.press(t, altKey(tea.KeyEnter))
	require.Empty(t, form.input.Value())
	require.False(t, form.saving)
	require.Len(t, a.toasts, 1)
	require.Equal(t, iconSuccess, a.toasts[0].icon)
	require.Equal(t, "Added task: write the report", a.toasts[0].title)
	require.Contains(t, a.toasts[0].description, "Saved as ")
	require.Contains(t, a.View(), "Added task: write the report")

	res, err := e.bridge.Invoke(e.ctx, backend.CmdGetTasks, nil)
	require.NoError(t, err)
	require.Equal(t, "write the report", res.Get("0.task_description").String())
}

func TestFormEmptySubmitShowsError(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t)

	e.press(t, altRune('n'), altKey(tea.KeyEnter))
	require.Equal(t, routeNewTask, a.route)
	require.Len(t, a.toasts, 1)
	require.Equal(t, iconError, a.toasts[0].icon)
	require.Equal(t, "Error saving task: invoke save_task: task description is empty", a.toasts[0].title)
}

func TestToastExpires(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t)

	_ = a.successToast("one", "")
	_ = a.errorToast("two")
	require.Len(t, a.toasts, 2)

	a.Update(toastExpiredMsg{id: a.toasts[0].id})
	require.Len(t, a.toasts, 1)
	require.Equal(t, "two", a.toasts[0].title)
}

func TestEscapeLeavesFormAndHidesWindow(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t)

	e.press(t, altRune('n'), key(tea.KeyEsc))
	require.Equal(t, routeHome, a.route)
	require.False(t, a.visible)
	require.Equal(t, []string{"global"}, a.keys.Scopes())
	require.Contains(t, a.View(), "Worklog is hidden")

	// Only the global scope listens while hidden.
	e.press(t, altRune('l'))
	require.Equal(t, routeHome, a.route)

	e.press(t, altRune('.'))
	require.True(t, a.visible)
	require.Equal(t, []string{"global", "/"}, a.keys.Scopes())

	e.press(t, altRune('l'))
	require.Equal(t, routeTasks, a.route)
}

func TestCancelReturnsHomeAndKeepsDraft(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t)

	e.press(t, altRune('n'), runes("half a thought"), altKey(tea.KeyBackspace))
	require.Equal(t, routeHome, a.route)
	require.True(t, a.visible)

	d, err := e.drafts.LoadDraft()
	require.NoError(t, err)
	require.Equal(t, "half a thought", d.Text)

	e.press(t, altRune('n'))
	require.Equal(t, "half a thought", a.screen.(*formScreen).input.Value())

	e.press(t, altKey(tea.KeyEnter))
	d, err = e.drafts.LoadDraft()
	require.NoError(t, err)
	require.Empty(t, d.Text)
}

func TestLeavingDuringFailedSaveKeepsDraft(t *testing.T) {
	e := newTestEnv(t)
	e.bridge.Register(backend.CmdSaveTask, func(context.Context, gjson.Result) (any, error) {
		return nil, errors.New("disk full")
	})
	a := e.start(t)

	e.press(t, altRune('n'), runes("keep me"))
	_, save := a.Update(altKey(tea.KeyEnter))
	require.True(t, a.screen.(*formScreen).saving)

	e.press(t, altKey(tea.KeyBackspace))
	require.Equal(t, routeHome, a.route)
	settle(t, a, save)

	require.Len(t, a.toasts, 1)
	require.Equal(t, "Error saving task: invoke save_task: disk full", a.toasts[0].title)
	d, err := e.drafts.LoadDraft()
	require.NoError(t, err)
	require.Equal(t, "keep me", d.Text)

	e.press(t, altRune('n'))
	require.Equal(t, "keep me", a.screen.(*formScreen).input.Value())
}

func TestLeavingDuringSuccessfulSaveDropsDraft(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t)

	e.press(t, altRune('n'), runes("ship it"))
	_, save := a.Update(altKey(tea.KeyEnter))
	e.press(t, altKey(tea.KeyBackspace), altRune('n'))
	form := a.screen.(*formScreen)
	require.Equal(t, "ship it", form.input.Value())

	settle(t, a, save)
	require.Len(t, a.toasts, 1)
	require.Equal(t, "Added task: ship it", a.toasts[0].title)
	require.Empty(t, form.input.Value())
	d, err := e.drafts.LoadDraft()
	require.NoError(t, err)
	require.Empty(t, d.Text)
}

func TestCtrlBackspaceCancels(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t)

	e.press(t, altRune('n'), key(tea.KeyCtrlH))
	require.Equal(t, routeHome, a.route)
}

func TestQuitSavesDraft(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t)

	e.press(t, altRune('n'), runes("unfinished"))
	_, cmd := a.Update(key(tea.KeyCtrlC))
	require.True(t, returnsQuit(cmd))

	d, err := e.drafts.LoadDraft()
	require.NoError(t, err)
	require.Equal(t, "unfinished", d.Text)
}

func TestOverridesRebindKeys(t *testing.T) {
	e := newTestEnv(t)
	a := e.start(t, keybind.Override{ID: "home.new", Keys: []string{"ctrl+t"}})

	e.press(t, altRune('n'))
	require.Equal(t, routeHome, a.route)

	e.press(t, key(tea.KeyCtrlT))
	require.Equal(t, routeNewTask, a.route)
}

func TestNewRejectsBadOverride(t *testing.T) {
	e := newTestEnv(t)
	cfg := config.Config{Keys: []keybind.Override{{ID: "home.new", Keys: []string{"hyper+x"}}}}
	_, err := New(e.ctx, Options{Config: cfg, Bridge: e.bridge})
	require.Error(t, err)
}
