package dictation

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// Outcome classifies how a session ended.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeNoAudio   Outcome = "no_audio"
	OutcomeNoSpeech  Outcome = "no_speech"
	OutcomeFailed    Outcome = "failed"
)

// Result is the outcome of one session's transcription and delivery.
type Result struct {
	Outcome  Outcome
	Text     string
	Delivery DeliveryReport
	Err      error
}

// Pipeline runs transcription and delivery for a sealed session. It is
// invoked off the hotkey goroutine and may block for seconds.
type Pipeline struct {
	transcriber Transcriber
	delivery    *Delivery
	reporter    Reporter
	minRMS      float64
}

func NewPipeline(transcriber Transcriber, delivery *Delivery, reporter Reporter, minRMS float64) *Pipeline {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Pipeline{transcriber: transcriber, delivery: delivery, reporter: reporter, minRMS: minRMS}
}

// Run transcribes audio and delivers non-empty text. Failures are reported
// and returned in the Result, never panicked.
func (p *Pipeline) Run(ctx context.Context, s *Session, audio []float32) Result {
	if len(audio) == 0 {
		p.reporter.Report(Event{Kind: EventNoAudio, SessionID: s.ID})
		return Result{Outcome: OutcomeNoAudio}
	}

	p.reporter.Report(Event{Kind: EventTranscribing, SessionID: s.ID})

	if p.minRMS > 0 && rms(audio) < p.minRMS {
		p.reporter.Report(Event{Kind: EventNoSpeech, SessionID: s.ID})
		return Result{Outcome: OutcomeNoSpeech}
	}

	start := time.Now()
	text, err := p.transcribe(ctx, audio)
	elapsed := time.Since(start)
	if err != nil {
		p.reporter.Report(Event{Kind: EventTranscriptionFailed, SessionID: s.ID, Err: err, Elapsed: elapsed})
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		p.reporter.Report(Event{Kind: EventNoSpeech, SessionID: s.ID, Elapsed: elapsed})
		return Result{Outcome: OutcomeNoSpeech}
	}
	p.reporter.Report(Event{Kind: EventTranscribed, SessionID: s.ID, Text: text, Elapsed: elapsed})

	rep := p.delivery.Deliver(ctx, s.ID, s.Focus, text)
	return Result{Outcome: OutcomeDelivered, Text: text, Delivery: rep}
}

func (p *Pipeline) transcribe(ctx context.Context, audio []float32) (text string, err error) {
	defer recoverInto(&err, "transcriber")
	return p.transcriber.Transcribe(ctx, audio)
}

func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func recoverInto(err *error, what string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s panic: %v", what, r)
	}
}
