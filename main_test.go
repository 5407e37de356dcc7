package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pttdictate/pkg/config"
	"pttdictate/pkg/dictation"
)

func TestApplyFlagsOnlyOverridesChanged(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--backend", "openai", "--tray", "--min-rms", "0.02"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	var f flags
	f.backend, _ = cmd.Flags().GetString("backend")
	f.tray, _ = cmd.Flags().GetBool("tray")
	f.minRMS, _ = cmd.Flags().GetFloat64("min-rms")

	cfg := config.Default()
	cfg.Hotkey = "ralt"
	applyFlags(cmd, f, &cfg)

	if cfg.Backend != "openai" || !cfg.Tray || cfg.MinRMS != 0.02 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.Hotkey != "ralt" || cfg.Desktop != "auto" {
		t.Fatalf("unchanged flags must keep configured values: %+v", cfg)
	}
}

func TestNewLoggerWritesPlainFile(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "dictate.log")
	cfg.LogLevel = "warn"

	logger, closeLog, err := newLogger(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible", "session", "s1")
	closeLog()

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") || !strings.Contains(out, "visible") || !strings.Contains(out, "session=s1") {
		t.Fatalf("unexpected log output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("file logs must not contain color codes")
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LogLevel = "chatty"
	if _, _, err := newLogger(cfg, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTrayIconsArePNG(t *testing.T) {
	t.Parallel()

	for name, icon := range map[string][]byte{"idle": iconIdle, "recording": iconRecording, "busy": iconBusy} {
		img, err := png.Decode(bytes.NewReader(icon))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 22 || b.Dy() != 22 {
			t.Fatalf("%s: unexpected bounds %v", name, b)
		}
	}
}

func TestTrayReporterIgnoresEventsBeforeSetup(t *testing.T) {
	t.Parallel()

	tr := newTrayReporter("Right Ctrl")
	tr.Report(dictation.Event{Kind: dictation.EventRecordingStarted})
	if tr.ready.Load() {
		t.Fatalf("reporter should not be ready before setup")
	}
}
