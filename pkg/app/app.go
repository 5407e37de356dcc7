// Package app assembles the dictation runtime from a Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"pttdictate/pkg/audio"
	"pttdictate/pkg/config"
	"pttdictate/pkg/desktop"
	"pttdictate/pkg/dictation"
	"pttdictate/pkg/hotkey"
	"pttdictate/pkg/notify"
	"pttdictate/pkg/transcribe"
)

// Options overrides parts of the runtime graph. Zero values select the real
// devices.
type Options struct {
	Stdout    io.Writer
	Logger    *slog.Logger
	Reporters []dictation.Reporter
	Audio     dictation.AudioSource
	Clipboard dictation.Clipboard
	Windows   dictation.WindowManager
}

// Services is the assembled runtime graph.
type Services struct {
	Config     config.Config
	Controller *dictation.Controller
	Console    *dictation.Console
	Backend    transcribe.Backend
	Capture    *audio.Capture
	Desktop    string

	log     *slog.Logger
	closers []func() error
}

// Build wires the controller and its collaborators. ctx bounds every
// transcription and delivery call for the lifetime of the services.
func Build(ctx context.Context, cfg config.Config, opts Options) (*Services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Services{Config: cfg, log: opts.Logger}

	backend, err := transcribe.New(ctx, cfg.Transcribe())
	if err != nil {
		return nil, fmt.Errorf("transcription backend: %w", err)
	}
	s.Backend = backend
	s.closers = append(s.closers, backend.Close)

	windows := opts.Windows
	s.Desktop = "custom"
	if windows == nil {
		windows, s.Desktop, err = desktop.NewWindowManager(cfg.Desktop)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	clipboard := opts.Clipboard
	if clipboard == nil {
		clipboard = desktop.SystemClipboard{}
	}

	source := opts.Audio
	if source == nil {
		capture, err := audio.New(audio.Config{SampleRate: cfg.SampleRate, FramesPerBuffer: cfg.FramesPerBuffer})
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Capture = capture
		s.closers = append(s.closers, capture.Close)
		source = capture
	}

	s.Console = dictation.NewConsole(opts.Stdout, hotkey.DisplayName(cfg.Hotkey))
	reporters := dictation.MultiReporter{s.Console, dictation.NewLogReporter(opts.Logger)}
	if cfg.Notifications {
		n := notify.New(opts.Logger)
		reporters = append(reporters, n)
		s.closers = append(s.closers, n.Close)
	}
	reporters = append(reporters, opts.Reporters...)

	s.Controller = dictation.NewController(
		source,
		backend,
		clipboard,
		windows,
		reporters,
		dictation.WithContext(ctx),
		dictation.WithSampleRate(cfg.SampleRate),
		dictation.WithMinRMS(cfg.MinRMS),
	)

	opts.Logger.Debug("runtime assembled",
		"backend", backend.Name(),
		"desktop", s.Desktop,
		"sample_rate", cfg.SampleRate,
		"hotkey", cfg.Hotkey,
	)
	return s, nil
}

// Load prepares the backend and prints the model status lines. It must
// succeed before the hotkey listener starts.
func (s *Services) Load(ctx context.Context) error {
	s.Console.Status("Loading %s model...", s.Backend.Name())
	start := time.Now()
	if l, ok := s.Backend.(transcribe.Loader); ok {
		if err := l.Load(ctx); err != nil {
			return err
		}
	}
	if s.Capture != nil {
		if name, err := s.Capture.DeviceName(); err == nil {
			s.log.Info("audio input", "device", name, "sample_rate", s.Capture.SampleRate())
		} else {
			s.log.Warn("no default audio input", "error", err)
		}
	}
	s.Console.Status("Model ready (%s, %.1fs).", s.Backend.Name(), time.Since(start).Seconds())
	s.Console.Banner()
	return nil
}

// Close discards any recording in progress, waits for an in-flight
// transcription and releases every resource.
func (s *Services) Close() error {
	var errs []error
	if s.Controller != nil {
		if err := s.Controller.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Controller.Wait()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
