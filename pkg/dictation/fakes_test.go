package dictation

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type fakeAudio struct {
	mu       sync.Mutex
	starts   int
	stops    int
	startErr error
	stopErr  error
	onFrame  func([]float32)
	active   bool
	// initial frames are emitted from Start, as a device would right after opening.
	initial [][]float32
}

func (f *fakeAudio) Start(onFrame func([]float32)) error {
	f.mu.Lock()
	f.starts++
	if f.startErr != nil {
		f.mu.Unlock()
		return f.startErr
	}
	f.onFrame = onFrame
	f.active = true
	initial := f.initial
	f.mu.Unlock()

	for _, frame := range initial {
		onFrame(frame)
	}
	return nil
}

func (f *fakeAudio) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.active = false
	return f.stopErr
}

// emit simulates one device callback.
func (f *fakeAudio) emit(frame []float32) {
	f.mu.Lock()
	cb, active := f.onFrame, f.active
	f.mu.Unlock()
	if active && cb != nil {
		cb(frame)
	}
}

func (f *fakeAudio) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops
}

type fakeTranscriber struct {
	mu      sync.Mutex
	text    string
	err     error
	panicV  any
	calls   int
	got     [][]float32
	release chan struct{}
	entered chan struct{}
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, samples []float32) (string, error) {
	f.mu.Lock()
	f.calls++
	f.got = append(f.got, samples)
	release, entered := f.release, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if f.panicV != nil {
		panic(f.panicV)
	}
	return f.text, f.err
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeClipboard struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeClipboard) Copy(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.err
}

func (f *fakeClipboard) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

type typed struct {
	window Window
	text   string
}

type fakeWindows struct {
	mu          sync.Mutex
	active      Window
	activeErr   error
	activateErr error
	typeErr     error
	focused     Window
	typed       []typed
	activations int
}

func (f *fakeWindows) ActiveWindow(context.Context) (Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, f.activeErr
}

func (f *fakeWindows) Activate(_ context.Context, w Window) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activations++
	if f.activateErr != nil {
		return f.activateErr
	}
	f.focused = w
	return nil
}

func (f *fakeWindows) TypeText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.typeErr != nil {
		return f.typeErr
	}
	f.typed = append(f.typed, typed{window: f.focused, text: text})
	return nil
}

func (f *fakeWindows) snapshot() []typed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]typed(nil), f.typed...)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) Report(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *eventRecorder) has(kind EventKind) bool {
	for _, k := range r.kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

func (r *eventRecorder) count(kind EventKind) int {
	n := 0
	for _, k := range r.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("s%d", n)
	}
}

var errBoom = errors.New("boom")

func frame(n int, v float32) []float32 {
	f := make([]float32, n)
	for i := range f {
		f[i] = v
	}
	return f
}
