package dictation

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultSampleRate is the capture rate expected by the transcription backends.
const DefaultSampleRate = 16000

// Option configures a Controller.
type Option func(*Controller)

// WithContext sets the context handed to transcription and delivery calls.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.ctx = ctx }
}

// WithSampleRate sets the rate used to report captured audio length.
func WithSampleRate(rate int) Option {
	return func(c *Controller) {
		if rate > 0 {
			c.sampleRate = rate
		}
	}
}

// WithMinRMS skips transcription of buffers quieter than level.
// Zero disables the check.
func WithMinRMS(level float64) Option {
	return func(c *Controller) { c.minRMS = level }
}

// WithSessionIDs overrides the session id generator.
func WithSessionIDs(next func() string) Option {
	return func(c *Controller) { c.newID = next }
}

// Controller is the press-to-talk state machine. OnPress and OnRelease are
// called serially from the hotkey goroutine and never block on transcription.
type Controller struct {
	audio    AudioSource
	windows  WindowManager
	pipeline *Pipeline
	reporter Reporter

	ctx        context.Context
	sampleRate int
	minRMS     float64
	newID      func() string

	mu      sync.Mutex
	state   State
	current *Session
	tasks   sync.WaitGroup
}

// NewController wires the collaborators of a dictation session.
func NewController(
	audio AudioSource,
	transcriber Transcriber,
	clipboard Clipboard,
	windows WindowManager,
	reporter Reporter,
	opts ...Option,
) *Controller {
	if reporter == nil {
		reporter = nopReporter{}
	}
	c := &Controller{
		audio:      audio,
		windows:    windows,
		reporter:   reporter,
		ctx:        context.Background(),
		sampleRate: DefaultSampleRate,
		newID:      uuid.NewString,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pipeline = NewPipeline(transcriber, NewDelivery(clipboard, windows, reporter), reporter, c.minRMS)
	return c
}

// OnPress starts a new session. It is ignored unless the controller is idle.
func (c *Controller) OnPress() {
	// Focus lookup and stream open below block briefly; neither waits on
	// transcription.
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return
	}

	id := c.newID()
	focus, err := c.activeWindow()
	if err != nil {
		focus = ""
		c.reporter.Report(Event{Kind: EventFocusUnavailable, SessionID: id, Err: err})
	}

	s := newSession(id, focus)
	c.current = s
	c.state = StateRecording
	c.reporter.Report(Event{Kind: EventRecordingStarted, SessionID: id})

	// A failed start leaves the session recording with no frames, so the
	// release reports "no audio" and the cycle completes normally.
	if err := c.audio.Start(func(frame []float32) { s.Append(frame) }); err != nil {
		c.reporter.Report(Event{Kind: EventCaptureFailed, SessionID: id, Err: err})
	}
}

// OnRelease ends recording and hands the session to a background task.
// It is ignored unless the controller is recording.
func (c *Controller) OnRelease() {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return
	}
	s := c.current
	s.stopRecording()
	c.state = StateTranscribing
	c.tasks.Add(1)
	c.mu.Unlock()

	go c.complete(s)
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until the in-flight transcription task, if any, has returned
// the controller to idle.
func (c *Controller) Wait() {
	c.tasks.Wait()
}

// Close discards an active recording and releases the input device. An
// in-flight transcription is left to finish on its own.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording {
		return nil
	}
	s := c.current
	s.Seal()
	c.current = nil
	c.state = StateIdle
	err := c.audio.Stop()
	c.reporter.Report(Event{Kind: EventReady, SessionID: s.ID})
	return err
}

func (c *Controller) activeWindow() (w Window, err error) {
	if c.windows == nil {
		return "", nil
	}
	defer recoverInto(&err, "active window")
	return c.windows.ActiveWindow(c.ctx)
}

func (c *Controller) complete(s *Session) {
	defer c.tasks.Done()
	defer c.finish(s)

	// Stop returns once the device delivers no more callbacks, so the
	// flatten below sees every accepted frame.
	if err := c.audio.Stop(); err != nil {
		c.reporter.Report(Event{Kind: EventCaptureFailed, SessionID: s.ID, Err: err})
	}
	audio := s.Seal()
	c.reporter.Report(Event{
		Kind:      EventRecordingStopped,
		SessionID: s.ID,
		Audio:     audioDuration(len(audio), c.sampleRate),
	})

	c.pipeline.Run(c.ctx, s, audio)
}

func (c *Controller) finish(s *Session) {
	c.mu.Lock()
	if c.current == s {
		c.current = nil
		c.state = StateIdle
	}
	c.mu.Unlock()

	c.reporter.Report(Event{Kind: EventReady, SessionID: s.ID})
}
