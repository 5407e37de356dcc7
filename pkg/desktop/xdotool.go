package desktop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"pttdictate/pkg/dictation"
)

// XDoTool drives X11 windows through the xdotool command.
type XDoTool struct {
	bin string
}

func NewXDoTool(bin string) *XDoTool {
	if bin == "" {
		bin = "xdotool"
	}
	return &XDoTool{bin: bin}
}

func (x *XDoTool) ActiveWindow(ctx context.Context) (dictation.Window, error) {
	out, err := x.run(ctx, "getactivewindow")
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(out)
	if id == "" {
		return "", errors.New("xdotool: no active window")
	}
	return dictation.Window(id), nil
}

func (x *XDoTool) Activate(ctx context.Context, w dictation.Window) error {
	_, err := x.run(ctx, "windowactivate", "--sync", string(w))
	return err
}

// TypeText types text literally. Held modifiers are cleared first so the
// dictation hotkey does not turn keystrokes into shortcuts.
func (x *XDoTool) TypeText(ctx context.Context, text string) error {
	_, err := x.run(ctx, "type", "--clearmodifiers", "--", text)
	return err
}

func (x *XDoTool) run(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, x.bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("xdotool %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("xdotool %s: %w", args[0], err)
	}
	return stdout.String(), nil
}
