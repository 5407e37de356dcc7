// Package transcribe provides speech-to-text backends for mono float32 audio.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

const (
	BackendWhisperCLI = "whisper-cli"
	BackendGoogle     = "google"
	BackendGemini     = "gemini"
	BackendOpenAI     = "openai"

	defaultSampleRate = 16000
)

// ErrUnknownBackend is returned by New for an unsupported backend name.
var ErrUnknownBackend = errors.New("transcribe: unknown backend")

// Backend transcribes a complete utterance. Calls may take seconds.
type Backend interface {
	Name() string
	Transcribe(ctx context.Context, samples []float32) (string, error)
	Close() error
}

// Loader is implemented by backends that need to verify or load a model
// before the first transcription.
type Loader interface {
	Load(ctx context.Context) error
}

// Config selects and configures a backend.
type Config struct {
	Backend    string
	SampleRate int
	Language   string
	TempDir    string

	Whisper WhisperCLIConfig
	Google  GoogleConfig
	Gemini  GeminiConfig
	OpenAI  OpenAIConfig
}

var constructors = map[string]func(ctx context.Context, cfg Config) (Backend, error){
	BackendWhisperCLI: func(_ context.Context, cfg Config) (Backend, error) {
		w := cfg.Whisper
		w.SampleRate, w.TempDir = cfg.SampleRate, cfg.TempDir
		if w.Language == "" {
			w.Language = cfg.Language
		}
		return NewWhisperCLI(w)
	},
	BackendGoogle: func(ctx context.Context, cfg Config) (Backend, error) {
		g := cfg.Google
		g.SampleRate = cfg.SampleRate
		if g.Language == "" {
			g.Language = cfg.Language
		}
		return NewGoogle(ctx, g)
	},
	BackendGemini: func(_ context.Context, cfg Config) (Backend, error) {
		g := cfg.Gemini
		g.SampleRate, g.TempDir = cfg.SampleRate, cfg.TempDir
		return NewGemini(g)
	},
	BackendOpenAI: func(_ context.Context, cfg Config) (Backend, error) {
		o := cfg.OpenAI
		o.SampleRate, o.TempDir = cfg.SampleRate, cfg.TempDir
		if o.Language == "" {
			o.Language = cfg.Language
		}
		return NewOpenAI(o)
	},
}

// New builds the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Backend, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}
	ctor, ok := constructors[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownBackend, cfg.Backend, Backends())
	}
	return ctor(ctx, cfg)
}

// Known reports whether name is a supported backend.
func Known(name string) bool {
	_, ok := constructors[name]
	return ok
}

// Backends lists the supported backend names.
func Backends() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
