package dictation

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

var separator = strings.Repeat("=", 50)

// Console prints human-readable status lines for each session event.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	hotkey string
}

// NewConsole returns a Console writing to w. hotkey is the label used in the
// ready prompt, e.g. "Right Ctrl".
func NewConsole(w io.Writer, hotkey string) *Console {
	return &Console{w: w, hotkey: hotkey}
}

// Banner prints the startup prompt once the model is loaded.
func (c *Console) Banner() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "Hold %s to speak, release to transcribe.\n", c.hotkey)
	fmt.Fprint(c.w, "Press Ctrl+C to exit.\n\n")
}

// Status prints one line outside of any session, such as model loading.
func (c *Console) Status(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format+"\n", args...)
}

func (c *Console) Report(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := c.w
	switch ev.Kind {
	case EventRecordingStarted:
		fmt.Fprint(w, "🎤 Recording...")
	case EventCaptureFailed:
		fmt.Fprintf(w, "\n(audio input unavailable: %v)\n", ev.Err)
	case EventRecordingStopped:
		fmt.Fprintf(w, " stopped (%.1fs)\n", ev.Audio.Seconds())
		fmt.Fprintln(w, separator)
	case EventNoAudio:
		fmt.Fprintln(w, "No audio recorded.")
	case EventTranscribing:
		fmt.Fprint(w, "Transcribing...")
	case EventTranscribed:
		fmt.Fprintf(w, " done (%.1fs)\n", ev.Elapsed.Seconds())
		fmt.Fprint(w, "\n📝 TRANSCRIPTION:\n\n")
		fmt.Fprintf(w, "    %s\n\n", ev.Text)
	case EventNoSpeech:
		fmt.Fprintln(w, " done")
		fmt.Fprintln(w, "\n⚠️  No speech detected.")
	case EventTranscriptionFailed:
		fmt.Fprintln(w, " failed")
		fmt.Fprintf(w, "(transcription error: %v)\n", ev.Err)
	case EventCopied:
		fmt.Fprintln(w, "(copied to clipboard)")
	case EventCopyFailed:
		fmt.Fprintf(w, "(clipboard unavailable: %v)\n", ev.Err)
	case EventTyped:
		fmt.Fprintln(w, "(typed to window)")
	case EventTypeSkipped:
		fmt.Fprintln(w, "(no target window saved)")
	case EventTypeFailed:
		fmt.Fprintf(w, "(typing error: %v)\n", ev.Err)
	case EventReady:
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "Ready. Hold %s to speak.\n\n", c.hotkey)
	}
}
