package dictation

import (
	"log/slog"
)

// LogReporter mirrors session events into a structured logger.
type LogReporter struct {
	logger *slog.Logger
}

func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(ev Event) {
	attrs := []any{"session", ev.SessionID}
	if ev.Err != nil {
		attrs = append(attrs, "error", ev.Err)
	}

	switch ev.Kind {
	case EventTranscriptionFailed:
		r.logger.Error("transcription failed", attrs...)
	case EventCaptureFailed, EventCopyFailed, EventTypeFailed:
		r.logger.Warn(string(ev.Kind), attrs...)
	case EventFocusUnavailable:
		r.logger.Debug("no active window", attrs...)
	case EventRecordingStopped:
		r.logger.Info("recording stopped", append(attrs, "audio", ev.Audio)...)
	case EventTranscribed:
		r.logger.Info("transcribed", append(attrs, "chars", len(ev.Text), "elapsed", ev.Elapsed)...)
	case EventNoSpeech:
		r.logger.Info("no speech detected", append(attrs, "elapsed", ev.Elapsed)...)
	default:
		r.logger.Debug(string(ev.Kind), attrs...)
	}
}
