// Package desktop connects the dictation controller to the window system:
// focus capture and restore, synthetic typing, and the system clipboard.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"pttdictate/pkg/dictation"
)

const (
	KindAuto    = "auto"
	KindXDoTool = "xdotool"
	KindRobot   = "robotgo"
	KindNone    = "none"
)

// ErrUnavailable is returned when a desktop facility cannot be used.
var ErrUnavailable = errors.New("desktop: unavailable")

// NewWindowManager returns the window manager named by kind and the kind
// that was actually selected. "auto" prefers xdotool when it is on PATH.
func NewWindowManager(kind string) (dictation.WindowManager, string, error) {
	switch kind {
	case "", KindAuto:
		if path, err := exec.LookPath("xdotool"); err == nil {
			return NewXDoTool(path), KindXDoTool, nil
		}
		return NewRobot(), KindRobot, nil
	case KindXDoTool:
		path, err := exec.LookPath("xdotool")
		if err != nil {
			return nil, kind, fmt.Errorf("%w: xdotool not found on PATH", ErrUnavailable)
		}
		return NewXDoTool(path), kind, nil
	case KindRobot:
		return NewRobot(), kind, nil
	case KindNone:
		return Unavailable{}, kind, nil
	default:
		return nil, kind, fmt.Errorf("desktop: unknown window manager %q", kind)
	}
}

// Unavailable is a window manager and clipboard that always fails. It keeps
// the pipeline running on machines without a usable display.
type Unavailable struct{}

func (Unavailable) ActiveWindow(context.Context) (dictation.Window, error) {
	return "", ErrUnavailable
}

func (Unavailable) Activate(context.Context, dictation.Window) error { return ErrUnavailable }

func (Unavailable) TypeText(context.Context, string) error { return ErrUnavailable }

func (Unavailable) Copy(context.Context, string) error { return ErrUnavailable }
