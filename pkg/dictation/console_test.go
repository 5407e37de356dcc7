package dictation

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConsolePrintsSessionOutcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf, "Right Ctrl")

	c.Report(Event{Kind: EventRecordingStarted})
	c.Report(Event{Kind: EventRecordingStopped, Audio: 1500 * time.Millisecond})
	c.Report(Event{Kind: EventTranscribing})
	c.Report(Event{Kind: EventTranscribed, Text: "hello world"})
	c.Report(Event{Kind: EventCopied})
	c.Report(Event{Kind: EventTypeSkipped})
	c.Report(Event{Kind: EventReady})

	out := buf.String()
	for _, want := range []string{
		"Recording... stopped (1.5s)",
		"TRANSCRIPTION:",
		"    hello world",
		"(copied to clipboard)",
		"(no target window saved)",
		"Ready. Hold Right Ctrl to speak.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestConsoleEmptyOutcomes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf, "F9")
	c.Report(Event{Kind: EventNoAudio})
	c.Report(Event{Kind: EventNoSpeech})
	c.Report(Event{Kind: EventTranscriptionFailed, Err: errors.New("model crashed")})

	out := buf.String()
	for _, want := range []string{"No audio recorded.", "No speech detected.", "model crashed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestLogReporterLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	r := NewLogReporter(logger)

	r.Report(Event{Kind: EventRecordingStarted, SessionID: "s1"})
	r.Report(Event{Kind: EventTranscriptionFailed, SessionID: "s1", Err: errBoom})

	out := buf.String()
	if strings.Contains(out, "recording_started") {
		t.Fatalf("expected debug event to be filtered:\n%s", out)
	}
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "session=s1") {
		t.Fatalf("expected error record with session attr:\n%s", out)
	}
}

func TestMultiReporterFansOut(t *testing.T) {
	t.Parallel()

	a, b := &eventRecorder{}, &eventRecorder{}
	MultiReporter{a, nil, b}.Report(Event{Kind: EventReady})

	if !a.has(EventReady) || !b.has(EventReady) {
		t.Fatalf("expected both reporters to receive the event")
	}
}

func TestConsoleStatusAndBanner(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf, "Right Ctrl")
	c.Status("Loading %s model...", "whisper-cli")
	c.Banner()

	want := "Loading whisper-cli model...\nHold Right Ctrl to speak, release to transcribe.\nPress Ctrl+C to exit.\n\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}
