package desktop

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the OS clipboard. On Linux it shells out to
// xclip, xsel or wl-copy, whichever is installed.
type SystemClipboard struct{}

func (SystemClipboard) Copy(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility installed", ErrUnavailable)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
