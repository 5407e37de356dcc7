package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultWhisperModel is the model size used when none is configured.
const DefaultWhisperModel = "small"

// ErrModelMissing is returned by Load when the model file does not exist.
var ErrModelMissing = errors.New("transcribe: whisper model not found")

// ErrBinaryMissing is returned when no whisper.cpp executable can be found.
var ErrBinaryMissing = errors.New("transcribe: whisper.cpp binary not found")

var whisperBinaries = []string{"whisper-cli", "whisper-cpp", "main"}

var whisperModelURLs = map[string]string{
	"tiny":     "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin",
	"base":     "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.bin",
	"small":    "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-small.bin",
	"medium":   "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-medium.bin",
	"large-v3": "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-large-v3.bin",
}

// WhisperCLIConfig configures the local whisper.cpp backend.
type WhisperCLIConfig struct {
	Binary   string // executable path; searched on PATH when empty
	Model    string // size name ("small") or path to a ggml .bin file
	ModelDir string
	Language string // empty or "auto" lets whisper detect the language
	Threads  int

	SampleRate int
	TempDir    string
}

// WhisperCLI runs the whisper.cpp command-line tool once per utterance.
type WhisperCLI struct {
	bin        string
	model      string
	modelName  string
	language   string
	threads    int
	sampleRate int
	tempDir    string
}

func NewWhisperCLI(cfg WhisperCLIConfig) (*WhisperCLI, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultWhisperModel
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}

	model, err := resolveWhisperModel(cfg.Model, cfg.ModelDir)
	if err != nil {
		return nil, err
	}

	return &WhisperCLI{
		bin:        findWhisperBinary(cfg.Binary),
		model:      model,
		modelName:  cfg.Model,
		language:   cfg.Language,
		threads:    cfg.Threads,
		sampleRate: cfg.SampleRate,
		tempDir:    cfg.TempDir,
	}, nil
}

func resolveWhisperModel(model, dir string) (string, error) {
	if strings.HasSuffix(model, ".bin") || strings.ContainsRune(model, filepath.Separator) {
		return model, nil
	}
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("resolve model dir: %w", err)
		}
		dir = filepath.Join(cache, "pttdictate", "models")
	}
	return filepath.Join(dir, "ggml-"+model+".bin"), nil
}

func findWhisperBinary(explicit string) string {
	if explicit != "" {
		if path, err := exec.LookPath(explicit); err == nil {
			return path
		}
		return ""
	}
	for _, name := range whisperBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func (w *WhisperCLI) Name() string { return BackendWhisperCLI }

// ModelPath returns the ggml model file passed to whisper.cpp.
func (w *WhisperCLI) ModelPath() string { return w.model }

// Load checks that the binary and model are present.
func (w *WhisperCLI) Load(context.Context) error {
	if w.bin == "" {
		return fmt.Errorf("%w (looked for %s)", ErrBinaryMissing, strings.Join(whisperBinaries, ", "))
	}
	if _, err := os.Stat(w.model); err != nil {
		if url, ok := whisperModelURLs[w.modelName]; ok {
			return fmt.Errorf("%w: %s (download from %s)", ErrModelMissing, w.model, url)
		}
		return fmt.Errorf("%w: %s", ErrModelMissing, w.model)
	}
	return nil
}

func (w *WhisperCLI) Transcribe(ctx context.Context, samples []float32) (string, error) {
	if w.bin == "" {
		return "", ErrBinaryMissing
	}

	base := tempBase(w.tempDir)
	wavPath, txtPath := base+".wav", base+".txt"
	defer os.Remove(wavPath)
	defer os.Remove(txtPath)

	if err := writeWAV(wavPath, samples, w.sampleRate); err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, w.bin, w.args(wavPath, base)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("whisper.cpp: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	out, err := os.ReadFile(txtPath)
	if err != nil {
		out = stdout.Bytes()
	}
	return joinLines(string(out)), nil
}

func (w *WhisperCLI) args(wavPath, outBase string) []string {
	args := []string{"-m", w.model, "-f", wavPath, "-nt", "-np", "-otxt", "-of", outBase}
	if w.language != "" {
		args = append(args, "-l", w.language)
	}
	if w.threads > 0 {
		args = append(args, "-t", strconv.Itoa(w.threads))
	}
	return args
}

func (w *WhisperCLI) Close() error { return nil }

// joinLines collapses whisper's per-segment lines into one line of text.
// Segments that are only a non-speech marker such as [BLANK_AUDIO] or
// (silence) are dropped.
func joinLines(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isMarker(line) {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

func isMarker(seg string) bool {
	if len(seg) < 2 {
		return false
	}
	open, close := seg[0], seg[len(seg)-1]
	if !(open == '[' && close == ']') && !(open == '(' && close == ')') {
		return false
	}
	return !strings.ContainsAny(seg[1:len(seg)-1], "[]()")
}
