// Package audio captures microphone input through PortAudio.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

const (
	DefaultSampleRate      = 16000
	DefaultFramesPerBuffer = 1024
	channelCount           = 1
)

// ErrNoHandler is returned by Start when no frame callback is given.
var ErrNoHandler = errors.New("audio: frame handler is required")

// Config describes the input stream.
type Config struct {
	SampleRate      int
	FramesPerBuffer int
}

// Capture owns the default input device while started. Frames are delivered
// on PortAudio's callback thread.
type Capture struct {
	cfg Config

	mu     sync.Mutex
	stream *portaudio.Stream
	fwd    *forwarder
}

// New initialises PortAudio. Call Close to release it.
func New(cfg Config) (*Capture, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = DefaultFramesPerBuffer
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	return &Capture{cfg: cfg}, nil
}

// SampleRate returns the configured capture rate.
func (c *Capture) SampleRate() int { return c.cfg.SampleRate }

// DeviceName returns the name of the default input device.
func (c *Capture) DeviceName() (string, error) {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return "", fmt.Errorf("default input device: %w", err)
	}
	return dev.Name, nil
}

// Start opens a mono float32 stream on the default input device. Each buffer
// is copied before it is handed to onFrame. Starting twice is a no-op.
func (c *Capture) Start(onFrame func(frame []float32)) error {
	if onFrame == nil {
		return ErrNoHandler
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		return nil
	}

	fwd := newForwarder(onFrame)
	stream, err := portaudio.OpenDefaultStream(channelCount, 0, float64(c.cfg.SampleRate), c.cfg.FramesPerBuffer, fwd.handle)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}

	fwd.active.Store(true)
	if err := stream.Start(); err != nil {
		fwd.active.Store(false)
		_ = stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	c.stream = stream
	c.fwd = fwd
	return nil
}

// Stop halts forwarding, then stops and closes the stream. When it returns no
// further callbacks will run. Stop without Start is a no-op.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil
	}

	c.fwd.active.Store(false)
	stream := c.stream
	c.stream = nil
	c.fwd = nil

	stopErr := stream.Stop()
	closeErr := stream.Close()
	if stopErr != nil {
		stopErr = fmt.Errorf("stop input stream: %w", stopErr)
	}
	if closeErr != nil {
		closeErr = fmt.Errorf("close input stream: %w", closeErr)
	}
	return errors.Join(stopErr, closeErr)
}

// Close stops any active stream and terminates PortAudio.
func (c *Capture) Close() error {
	stopErr := c.Stop()
	if err := portaudio.Terminate(); err != nil {
		return errors.Join(stopErr, fmt.Errorf("portaudio terminate: %w", err))
	}
	return stopErr
}

// forwarder copies device buffers and passes them on while active.
type forwarder struct {
	active  atomic.Bool
	onFrame func([]float32)
}

func newForwarder(onFrame func([]float32)) *forwarder {
	return &forwarder{onFrame: onFrame}
}

func (f *forwarder) handle(in []float32) {
	if !f.active.Load() || len(in) == 0 {
		return
	}
	frame := make([]float32, len(in))
	copy(frame, in)
	f.onFrame(frame)
}
