package notify

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"pttdictate/pkg/dictation"
)

type sink struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (s *sink) send(_, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, body)
	return s.err
}

func (s *sink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

func TestNotifierReportsTerminalOutcomes(t *testing.T) {
	t.Parallel()

	s := &sink{}
	n := newNotifier(s.send, nil)

	for _, ev := range []dictation.Event{
		{Kind: dictation.EventRecordingStarted},
		{Kind: dictation.EventTranscribing},
		{Kind: dictation.EventTranscribed, Text: "hello world"},
		{Kind: dictation.EventCopied},
		{Kind: dictation.EventNoSpeech},
		{Kind: dictation.EventTranscriptionFailed, Err: errors.New("boom")},
		{Kind: dictation.EventReady},
	} {
		n.Report(ev)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := s.snapshot()
	want := []string{"hello world", "No speech detected", "Transcription failed: boom"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("notifications = %q, want %q", got, want)
	}
}

func TestNotifierSurvivesSendErrors(t *testing.T) {
	t.Parallel()

	s := &sink{err: errors.New("no dbus")}
	n := newNotifier(s.send, nil)
	n.Report(dictation.Event{Kind: dictation.EventNoAudio})
	n.Report(dictation.Event{Kind: dictation.EventNoAudio})
	_ = n.Close()
	_ = n.Close()
	n.Report(dictation.Event{Kind: dictation.EventNoAudio})

	if got := len(s.snapshot()); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestNotifierDropsWhenBacklogFull(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var sent sync.WaitGroup
	sent.Add(1)
	var once sync.Once
	n := newNotifier(func(_, _ string) error {
		once.Do(sent.Done)
		<-release
		return nil
	}, nil)

	n.Report(dictation.Event{Kind: dictation.EventNoAudio})
	sent.Wait()
	for i := 0; i < backlog*2; i++ {
		n.Report(dictation.Event{Kind: dictation.EventNoAudio})
	}
	close(release)
	_ = n.Close()
}

func TestShorten(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ä", preview+10)
	got := []rune(shorten(long))
	if len(got) != preview || got[len(got)-1] != '…' {
		t.Fatalf("unexpected shortened text of %d runes", len(got))
	}
	if shorten("short") != "short" {
		t.Fatalf("short text should be unchanged")
	}
}
