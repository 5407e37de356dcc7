package desktop

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-vgo/robotgo"

	"pttdictate/pkg/dictation"
)

// typeDelay gives the user time to let go of the hotkey before typing.
const typeDelay = 200 * time.Millisecond

var heldModifiers = []string{"ctrl", "rctrl", "shift", "alt", "cmd"}

// Robot uses robotgo. Windows are identified by the owning process id.
type Robot struct {
	delay time.Duration
}

func NewRobot() *Robot {
	return &Robot{delay: typeDelay}
}

func (r *Robot) ActiveWindow(context.Context) (dictation.Window, error) {
	pid := robotgo.GetPid()
	if pid <= 0 {
		return "", fmt.Errorf("%w: no active window", ErrUnavailable)
	}
	return dictation.Window(strconv.Itoa(pid)), nil
}

func (r *Robot) Activate(_ context.Context, w dictation.Window) error {
	pid, err := strconv.Atoi(string(w))
	if err != nil {
		return fmt.Errorf("robotgo: invalid window %q", w)
	}
	if err := robotgo.ActivePid(pid); err != nil {
		return fmt.Errorf("robotgo: activate %d: %w", pid, err)
	}
	return nil
}

func (r *Robot) TypeText(ctx context.Context, text string) error {
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	for _, key := range heldModifiers {
		_ = robotgo.KeyToggle(key, "up")
	}
	robotgo.TypeStr(text)
	return nil
}
