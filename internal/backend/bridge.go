// Package backend is the command boundary between screens and the rest of the
// program. Screens only ever call Invoke with a command name and a map of
// arguments; they never touch storage or window state directly.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrUnknownCommand is returned by Invoke for unregistered command names.
var ErrUnknownCommand = errors.New("unknown command")

// Handler runs one command. args is the JSON document built from the caller's
// argument map.
type Handler func(ctx context.Context, args gjson.Result) (any, error)

// Bridge routes named commands to handlers. Handlers run on bubbletea command
// goroutines, so the bridge is safe for concurrent use.
type Bridge struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewBridge() *Bridge {
	return &Bridge{handlers: make(map[string]Handler)}
}

// Register adds or replaces the handler for name.
func (b *Bridge) Register(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = h
}

// Commands lists registered command names, sorted.
func (b *Bridge) Commands() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Invoke runs the named command and returns its JSON-encoded result.
func (b *Bridge) Invoke(ctx context.Context, name string, args map[string]any) (Result, error) {
	b.mu.RLock()
	h, ok := b.handlers[name]
	b.mu.RUnlock()
	if !ok {
		return Result{}, fmt.Errorf("invoke %s: %w", name, ErrUnknownCommand)
	}

	payload, err := encodeArgs(args)
	if err != nil {
		return Result{}, fmt.Errorf("invoke %s: %w", name, err)
	}
	out, err := h(ctx, gjson.ParseBytes(payload))
	if err != nil {
		return Result{}, fmt.Errorf("invoke %s: %w", name, err)
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return Result{}, fmt.Errorf("invoke %s: encode result: %w", name, err)
	}
	return Result{Raw: raw}, nil
}

// Cmd wraps Invoke as a bubbletea command. done turns the outcome into the
// message delivered back to the program.
func (b *Bridge) Cmd(ctx context.Context, name string, args map[string]any, done func(Result, error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return done(b.Invoke(ctx, name, args))
	}
}

// Result is a command's JSON-encoded return value.
type Result struct {
	Raw json.RawMessage
}

// String returns the result as a string, unquoting JSON strings.
func (r Result) String() string {
	return gjson.ParseBytes(r.Raw).String()
}

// Get reads a gjson path from the result.
func (r Result) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Raw, path)
}

// Decode unmarshals the result into v.
func (r Result) Decode(v any) error {
	if len(r.Raw) == 0 {
		return fmt.Errorf("decode result: empty")
	}
	return json.Unmarshal(r.Raw, v)
}

func encodeArgs(args map[string]any) ([]byte, error) {
	doc := []byte(`{}`)
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var err error
		doc, err = sjson.SetBytes(doc, escapePath(k), args[k])
		if err != nil {
			return nil, fmt.Errorf("encode arg %q: %w", k, err)
		}
	}
	return doc, nil
}

var pathEscaper = strings.NewReplacer(`.`, `\.`, `*`, `\*`, `?`, `\?`, `|`, `\|`, `#`, `\#`, `@`, `\@`)

// escapePath keeps argument names literal for sjson.
func escapePath(k string) string { return pathEscaper.Replace(k) }
