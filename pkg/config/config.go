// Package config loads startup settings from defaults, an optional YAML file
// and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"pttdictate/pkg/transcribe"
)

// Config holds every startup setting. It is read once and never reloaded.
type Config struct {
	Hotkey          string  `yaml:"hotkey"            env:"DICTATE_HOTKEY"`
	SampleRate      int     `yaml:"sample_rate"       env:"DICTATE_SAMPLE_RATE"`
	FramesPerBuffer int     `yaml:"frames_per_buffer" env:"DICTATE_FRAMES_PER_BUFFER"`
	Backend         string  `yaml:"backend"           env:"DICTATE_BACKEND"`
	Language        string  `yaml:"language"          env:"DICTATE_LANGUAGE"`
	MinRMS          float64 `yaml:"min_rms"           env:"DICTATE_MIN_RMS"`
	Desktop         string  `yaml:"desktop"           env:"DICTATE_DESKTOP"`
	Notifications   bool    `yaml:"notifications"     env:"DICTATE_NOTIFICATIONS"`
	Tray            bool    `yaml:"tray"              env:"DICTATE_TRAY"`
	LogLevel        string  `yaml:"log_level"         env:"DICTATE_LOG_LEVEL"`
	LogFile         string  `yaml:"log_file"          env:"DICTATE_LOG_FILE"`
	TempDir         string  `yaml:"temp_dir"          env:"DICTATE_TEMP_DIR"`

	Whisper WhisperConfig `yaml:"whisper" envPrefix:"DICTATE_WHISPER_"`
	Google  GoogleConfig  `yaml:"google"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
}

type WhisperConfig struct {
	Binary   string `yaml:"binary"    env:"BINARY"`
	Model    string `yaml:"model"     env:"MODEL"`
	ModelDir string `yaml:"model_dir" env:"MODEL_DIR"`
	Threads  int    `yaml:"threads"   env:"THREADS"`
}

type GoogleConfig struct {
	APIKey          string `yaml:"api_key"          env:"GOOGLE_API_KEY"`
	CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Model           string `yaml:"model"            env:"DICTATE_GOOGLE_MODEL"`
}

type GeminiConfig struct {
	APIKey   string  `yaml:"api_key"  env:"GEMINI_API_KEY"`
	Model    string  `yaml:"model"    env:"DICTATE_GEMINI_MODEL"`
	BaseURL  string  `yaml:"base_url" env:"DICTATE_GEMINI_BASE_URL"`
	Gain     float64 `yaml:"gain"     env:"DICTATE_GEMINI_GAIN"`
	Compress bool    `yaml:"compress" env:"DICTATE_GEMINI_COMPRESS"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"  env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	Model   string `yaml:"model"    env:"DICTATE_OPENAI_MODEL"`
	Prompt  string `yaml:"prompt"   env:"DICTATE_OPENAI_PROMPT"`
}

var desktopKinds = []string{"auto", "xdotool", "robotgo", "none"}

// Default returns the built-in settings: Right Ctrl, 16 kHz mono, local
// whisper.cpp with the small model.
func Default() Config {
	return Config{
		Hotkey:          "rctrl",
		SampleRate:      16000,
		FramesPerBuffer: 1024,
		Backend:         transcribe.BackendWhisperCLI,
		Desktop:         "auto",
		LogLevel:        "info",
		Whisper:         WhisperConfig{Model: transcribe.DefaultWhisperModel},
		Gemini:          GeminiConfig{Model: transcribe.DefaultGeminiModel, Gain: 1, Compress: true},
		OpenAI:          OpenAIConfig{Model: transcribe.DefaultOpenAIModel},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pttdictate/config.yaml or the
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pttdictate", "config.yaml")
}

// Load applies the YAML file at path and then the environment on top of
// Default. An empty path means DefaultPath, which may be absent; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate))
	}
	if c.FramesPerBuffer <= 0 {
		errs = append(errs, fmt.Errorf("frames_per_buffer must be positive, got %d", c.FramesPerBuffer))
	}
	if !transcribe.Known(c.Backend) {
		errs = append(errs, fmt.Errorf("backend %q is not one of %v", c.Backend, transcribe.Backends()))
	}
	if !slices.Contains(desktopKinds, c.Desktop) {
		errs = append(errs, fmt.Errorf("desktop %q is not one of %v", c.Desktop, desktopKinds))
	}
	if c.MinRMS < 0 {
		errs = append(errs, fmt.Errorf("min_rms must not be negative, got %g", c.MinRMS))
	}
	if c.Whisper.Threads < 0 {
		errs = append(errs, fmt.Errorf("whisper.threads must not be negative, got %d", c.Whisper.Threads))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Transcribe maps the settings onto the backend factory's configuration.
func (c Config) Transcribe() transcribe.Config {
	return transcribe.Config{
		Backend:    c.Backend,
		SampleRate: c.SampleRate,
		Language:   c.Language,
		TempDir:    c.TempDir,
		Whisper: transcribe.WhisperCLIConfig{
			Binary:   c.Whisper.Binary,
			Model:    c.Whisper.Model,
			ModelDir: c.Whisper.ModelDir,
			Threads:  c.Whisper.Threads,
		},
		Google: transcribe.GoogleConfig{
			APIKey:          c.Google.APIKey,
			CredentialsFile: c.Google.CredentialsFile,
			Model:           c.Google.Model,
		},
		Gemini: transcribe.GeminiConfig{
			APIKey:   c.Gemini.APIKey,
			Model:    c.Gemini.Model,
			BaseURL:  c.Gemini.BaseURL,
			Gain:     c.Gemini.Gain,
			Compress: c.Gemini.Compress,
		},
		OpenAI: transcribe.OpenAIConfig{
			APIKey:  c.OpenAI.APIKey,
			BaseURL: c.OpenAI.BaseURL,
			Model:   c.OpenAI.Model,
			Prompt:  c.OpenAI.Prompt,
		},
	}
}
