// Package hotkey reports press and release edges of a single global key.
package hotkey

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	hook "github.com/robotn/gohook"
)

// DefaultKey is Right Ctrl.
const DefaultKey = "rctrl"

// ErrUnknownKey is returned by New for a key name gohook does not know.
var ErrUnknownKey = errors.New("hotkey: unknown key")

// aliases covers keys missing from gohook's name table. Codes are
// libuiohook virtual key codes.
var aliases = map[string]uint16{
	"rctrl": 3613,
}

var displayNames = map[string]string{
	"rctrl":  "Right Ctrl",
	"ctrl":   "Left Ctrl",
	"ralt":   "Right Alt",
	"alt":    "Left Alt",
	"rshift": "Right Shift",
	"shift":  "Left Shift",
	"rcmd":   "Right Cmd",
	"cmd":    "Left Cmd",
}

// DisplayName returns a human-readable label for a key name.
func DisplayName(name string) string {
	name = strings.ToLower(name)
	if d, ok := displayNames[name]; ok {
		return d
	}
	if len(name) > 1 {
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return strings.ToUpper(name)
}

// Listener watches the global keyboard hook for one key.
type Listener struct {
	name string
	code uint16

	start func() chan hook.Event
	end   func()
}

// New resolves a gohook key name such as "rctrl" or "f9", or a numeric
// key code.
func New(name string) (*Listener, error) {
	if name == "" {
		name = DefaultKey
	}
	name = strings.ToLower(name)
	code, ok := aliases[name]
	if !ok {
		code, ok = hook.Keycode[name]
	}
	if !ok {
		raw, err := strconv.ParseUint(name, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, name)
		}
		code = uint16(raw)
	}
	return &Listener{name: name, code: code, start: startHook, end: hook.End}, nil
}

func startHook() chan hook.Event { return hook.Start() }

func (l *Listener) Name() string { return l.name }

// Run delivers edges until ctx is cancelled or the hook stops. Both
// callbacks run on the listener goroutine and must return quickly.
// Auto-repeat while the key is held does not produce extra presses.
func (l *Listener) Run(ctx context.Context, onPress, onRelease func()) error {
	events := l.start()
	defer l.end()

	e := edge{code: l.code}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch e.feed(ev) {
			case pressed:
				onPress()
			case released:
				onRelease()
			}
		}
	}
}

type transition int

const (
	none transition = iota
	pressed
	released
)

// edge turns the raw hook stream into press and release edges.
type edge struct {
	code uint16
	down bool
}

func (e *edge) feed(ev hook.Event) transition {
	if ev.Keycode != e.code {
		return none
	}
	switch ev.Kind {
	case hook.KeyHold, hook.KeyDown:
		if !e.down {
			e.down = true
			return pressed
		}
	case hook.KeyUp:
		if e.down {
			e.down = false
			return released
		}
	}
	return none
}
