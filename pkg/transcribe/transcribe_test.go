package transcribe

import (
	"context"
	"errors"
	"testing"
)

func TestNewUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Backend: "carrier-pigeon"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestBackendsSortedAndKnown(t *testing.T) {
	t.Parallel()

	names := Backends()
	want := []string{BackendGemini, BackendGoogle, BackendOpenAI, BackendWhisperCLI}
	if len(names) != len(want) {
		t.Fatalf("Backends() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Backends() = %v, want %v", names, want)
		}
		if !Known(want[i]) {
			t.Fatalf("expected %q to be known", want[i])
		}
	}
	if Known("") {
		t.Fatalf("empty name should not be known")
	}
}

func TestNewWhisperInheritsSharedSettings(t *testing.T) {
	t.Parallel()

	b, err := New(context.Background(), Config{
		Backend:  BackendWhisperCLI,
		Language: "fr",
		Whisper:  WhisperCLIConfig{Model: "/models/ggml-base.bin"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w, ok := b.(*WhisperCLI)
	if !ok {
		t.Fatalf("unexpected backend type %T", b)
	}
	if w.language != "fr" || w.sampleRate != defaultSampleRate || w.ModelPath() != "/models/ggml-base.bin" {
		t.Fatalf("unexpected settings: %+v", w)
	}
	if b.Name() != BackendWhisperCLI {
		t.Fatalf("unexpected name %q", b.Name())
	}
}

func TestNewGeminiWithoutKeyFails(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{Backend: BackendGemini}); err == nil {
		t.Fatalf("expected error")
	}
}
