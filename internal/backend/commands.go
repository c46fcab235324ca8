package backend

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/jask/worklog/internal/service"
)

// Command names understood by the bridge.
const (
	CmdGreet      = "greet"
	CmdSaveTask   = "save_task"
	CmdGetTasks   = "get_tasks"
	CmdShowWindow = "show_main_window"
	CmdHideWindow = "hide_main_window"
	CmdToggle     = "toggle_main_window"
)

// RegisterCommands installs the worklog command set.
func RegisterCommands(b *Bridge, tasks *service.TaskService, win *Window) {
	b.Register(CmdGreet, func(_ context.Context, args gjson.Result) (any, error) {
		return fmt.Sprintf("Hello, %s! You've been greeted from Worklog!", args.Get("name").String()), nil
	})

	b.Register(CmdSaveTask, func(ctx context.Context, args gjson.Result) (any, error) {
		task := args.Get("task")
		if !task.Exists() {
			return nil, fmt.Errorf("missing argument %q", "task")
		}
		res, err := tasks.Save(ctx, task.String())
		if err != nil {
			return nil, err
		}
		msg := "Saved as " + res.Task.ID
		if res.Similar != nil {
			msg += fmt.Sprintf(" (similar to %q)", res.Similar.Description)
		}
		return msg, nil
	})

	b.Register(CmdGetTasks, func(ctx context.Context, _ gjson.Result) (any, error) {
		return tasks.List(ctx)
	})

	b.Register(CmdShowWindow, func(context.Context, gjson.Result) (any, error) {
		return win.Show(), nil
	})
	b.Register(CmdHideWindow, func(context.Context, gjson.Result) (any, error) {
		return win.Hide(), nil
	})
	b.Register(CmdToggle, func(context.Context, gjson.Result) (any, error) {
		return win.Toggle(), nil
	})
}
