package dictation

import (
	"context"
	"errors"
)

// ErrNoFocusTarget is recorded when no window was captured at recording start.
var ErrNoFocusTarget = errors.New("no target window saved")

// DeliveryReport records the outcome of each delivery target.
type DeliveryReport struct {
	Copied      bool
	CopyErr     error
	Typed       bool
	TypeSkipped bool
	TypeErr     error
}

// Delivery sends a transcript to the clipboard and the focus target. Each
// target is best-effort and independent of the other.
type Delivery struct {
	clipboard Clipboard
	windows   WindowManager
	reporter  Reporter
}

func NewDelivery(clipboard Clipboard, windows WindowManager, reporter Reporter) *Delivery {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Delivery{clipboard: clipboard, windows: windows, reporter: reporter}
}

// Deliver copies text and types it into focus. Empty text is never delivered.
func (d *Delivery) Deliver(ctx context.Context, sessionID string, focus Window, text string) DeliveryReport {
	var rep DeliveryReport
	if text == "" {
		return rep
	}

	if err := d.copy(ctx, text); err != nil {
		rep.CopyErr = err
		d.reporter.Report(Event{Kind: EventCopyFailed, SessionID: sessionID, Err: err})
	} else {
		rep.Copied = true
		d.reporter.Report(Event{Kind: EventCopied, SessionID: sessionID})
	}

	if focus == "" {
		rep.TypeSkipped = true
		rep.TypeErr = ErrNoFocusTarget
		d.reporter.Report(Event{Kind: EventTypeSkipped, SessionID: sessionID})
		return rep
	}
	if err := d.inject(ctx, focus, text); err != nil {
		rep.TypeErr = err
		d.reporter.Report(Event{Kind: EventTypeFailed, SessionID: sessionID, Err: err})
		return rep
	}
	rep.Typed = true
	d.reporter.Report(Event{Kind: EventTyped, SessionID: sessionID})
	return rep
}

func (d *Delivery) copy(ctx context.Context, text string) (err error) {
	if d.clipboard == nil {
		return errors.New("clipboard not configured")
	}
	defer recoverInto(&err, "clipboard")
	return d.clipboard.Copy(ctx, text)
}

func (d *Delivery) inject(ctx context.Context, focus Window, text string) (err error) {
	if d.windows == nil {
		return errors.New("window manager not configured")
	}
	defer recoverInto(&err, "window injection")
	if err := d.windows.Activate(ctx, focus); err != nil {
		return err
	}
	return d.windows.TypeText(ctx, text)
}
