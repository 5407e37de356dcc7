package dictation

import "context"

// Window identifies a desktop window. Its value is only meaningful to the
// WindowManager that produced it.
type Window string

// AudioSource delivers mono float32 frames from the input device.
// onFrame runs on the audio subsystem's thread, not the caller's.
type AudioSource interface {
	Start(onFrame func(frame []float32)) error
	Stop() error
}

// Transcriber turns mono samples at the capture sample rate into text.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32) (string, error)
}

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// WindowManager captures and restores input focus and types literal text.
type WindowManager interface {
	ActiveWindow(ctx context.Context) (Window, error)
	Activate(ctx context.Context, w Window) error
	TypeText(ctx context.Context, text string) error
}
