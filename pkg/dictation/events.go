package dictation

import "time"

// State models the press-to-talk lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
)

// EventKind identifies a status notification emitted during a session.
type EventKind string

const (
	EventRecordingStarted    EventKind = "recording_started"
	EventFocusUnavailable    EventKind = "focus_unavailable"
	EventCaptureFailed       EventKind = "capture_failed"
	EventRecordingStopped    EventKind = "recording_stopped"
	EventNoAudio             EventKind = "no_audio"
	EventTranscribing        EventKind = "transcribing"
	EventTranscribed         EventKind = "transcribed"
	EventNoSpeech            EventKind = "no_speech"
	EventTranscriptionFailed EventKind = "transcription_failed"
	EventCopied              EventKind = "copied"
	EventCopyFailed          EventKind = "copy_failed"
	EventTyped               EventKind = "typed"
	EventTypeSkipped         EventKind = "type_skipped"
	EventTypeFailed          EventKind = "type_failed"
	EventReady               EventKind = "ready"
)

// Event is a single status notification.
type Event struct {
	Kind      EventKind
	SessionID string
	Text      string
	Err       error
	// Audio is the length of captured audio, set on recording_stopped.
	Audio time.Duration
	// Elapsed is the transcription wall time, set once transcription returns.
	Elapsed time.Duration
}

// Reporter receives session events. Implementations must be safe for use
// from the hotkey goroutine and the transcription goroutine.
type Reporter interface {
	Report(ev Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ev Event)

func (f ReporterFunc) Report(ev Event) { f(ev) }

// MultiReporter fans events out in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(ev Event) {
	for _, r := range m {
		if r != nil {
			r.Report(ev)
		}
	}
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}
