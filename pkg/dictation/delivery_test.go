package dictation

import (
	"context"
	"errors"
	"testing"
)

func TestDeliveryClipboardFailureDoesNotSuppressInjection(t *testing.T) {
	t.Parallel()

	clipboard := &fakeClipboard{err: errors.New("xclip: not found")}
	windows := &fakeWindows{}
	events := &eventRecorder{}
	d := NewDelivery(clipboard, windows, events)

	rep := d.Deliver(context.Background(), "s1", "42", "hello")
	if rep.Copied || rep.CopyErr == nil {
		t.Fatalf("expected copy failure, got %+v", rep)
	}
	if !rep.Typed {
		t.Fatalf("expected text to be typed despite clipboard failure")
	}
	if got := windows.snapshot(); len(got) != 1 || got[0].window != "42" {
		t.Fatalf("unexpected injection: %+v", got)
	}
	if !events.has(EventCopyFailed) || !events.has(EventTyped) {
		t.Fatalf("unexpected events: %v", events.kinds())
	}
}

func TestDeliveryInjectionFailureKeepsClipboard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		windows *fakeWindows
	}{
		{"activate fails", &fakeWindows{activateErr: errBoom}},
		{"typing fails", &fakeWindows{typeErr: errBoom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clipboard := &fakeClipboard{}
			events := &eventRecorder{}
			rep := NewDelivery(clipboard, tt.windows, events).Deliver(context.Background(), "s1", "42", "hello")

			if !rep.Copied {
				t.Fatalf("expected clipboard copy")
			}
			if rep.Typed || !errors.Is(rep.TypeErr, errBoom) {
				t.Fatalf("expected type error, got %+v", rep)
			}
			if !events.has(EventTypeFailed) {
				t.Fatalf("expected type_failed event, got %v", events.kinds())
			}
		})
	}
}

func TestDeliveryEachTargetAttemptedOnce(t *testing.T) {
	t.Parallel()

	clipboard := &fakeClipboard{}
	windows := &fakeWindows{}
	NewDelivery(clipboard, windows, nil).Deliver(context.Background(), "s1", "7", "hi")

	if len(clipboard.snapshot()) != 1 {
		t.Fatalf("expected one clipboard write")
	}
	if windows.activations != 1 || len(windows.snapshot()) != 1 {
		t.Fatalf("expected one activation and one injection")
	}
}

func TestDeliverySkipsInjectionWithoutFocus(t *testing.T) {
	t.Parallel()

	windows := &fakeWindows{}
	rep := NewDelivery(&fakeClipboard{}, windows, nil).Deliver(context.Background(), "s1", "", "hi")

	if !rep.TypeSkipped || !errors.Is(rep.TypeErr, ErrNoFocusTarget) {
		t.Fatalf("expected skipped injection, got %+v", rep)
	}
	if windows.activations != 0 {
		t.Fatalf("expected no activation")
	}
}

func TestDeliveryEmptyTextIsNoop(t *testing.T) {
	t.Parallel()

	clipboard := &fakeClipboard{}
	windows := &fakeWindows{}
	rep := NewDelivery(clipboard, windows, nil).Deliver(context.Background(), "s1", "1", "")

	if rep.Copied || rep.Typed || rep.TypeSkipped {
		t.Fatalf("expected empty report, got %+v", rep)
	}
	if len(clipboard.snapshot()) != 0 || windows.activations != 0 {
		t.Fatalf("expected no delivery attempts")
	}
}

func TestDeliveryNilTargetsReportFailure(t *testing.T) {
	t.Parallel()

	rep := NewDelivery(nil, nil, nil).Deliver(context.Background(), "s1", "1", "x")
	if rep.CopyErr == nil || rep.TypeErr == nil {
		t.Fatalf("expected both targets to fail, got %+v", rep)
	}
}
