// Package notify shows desktop notifications for finished dictation sessions.
package notify

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/beeep"

	"pttdictate/pkg/dictation"
)

const (
	title   = "Dictation"
	backlog = 8
	preview = 80
)

type message struct {
	title, body string
}

// Notifier is a dictation.Reporter that turns terminal session outcomes into
// desktop notifications. Report never blocks; notifications are shown from a
// single worker goroutine and dropped when the backlog is full.
type Notifier struct {
	send func(title, body string) error
	log  *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan message
	done   chan struct{}
}

func New(log *slog.Logger) *Notifier {
	return newNotifier(func(t, b string) error { return beeep.Notify(t, b, "") }, log)
}

func newNotifier(send func(title, body string) error, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	n := &Notifier{
		send:  send,
		log:   log,
		queue: make(chan message, backlog),
		done:  make(chan struct{}),
	}
	go n.loop()
	return n
}

func (n *Notifier) loop() {
	defer close(n.done)
	for m := range n.queue {
		if err := n.send(m.title, m.body); err != nil {
			n.log.Debug("desktop notification failed", "error", err)
		}
	}
}

func (n *Notifier) Report(ev dictation.Event) {
	body, ok := bodyFor(ev)
	if !ok {
		return
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.queue <- message{title: title, body: body}:
	default:
		n.log.Debug("notification dropped", "event", ev.Kind)
	}
}

// Close drains pending notifications and stops the worker. Later reports
// are ignored.
func (n *Notifier) Close() error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()
	<-n.done
	return nil
}

func bodyFor(ev dictation.Event) (string, bool) {
	switch ev.Kind {
	case dictation.EventTranscribed:
		return shorten(ev.Text), true
	case dictation.EventNoSpeech:
		return "No speech detected", true
	case dictation.EventNoAudio:
		return "No audio recorded", true
	case dictation.EventTranscriptionFailed:
		return fmt.Sprintf("Transcription failed: %v", ev.Err), true
	case dictation.EventCaptureFailed:
		return fmt.Sprintf("Microphone error: %v", ev.Err), true
	case dictation.EventTypeFailed:
		return fmt.Sprintf("Typing failed: %v", ev.Err), true
	}
	return "", false
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= preview {
		return s
	}
	return string(r[:preview-1]) + "…"
}
