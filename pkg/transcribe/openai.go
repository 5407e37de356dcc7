package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const DefaultOpenAIModel = "whisper-1"

// OpenAIConfig configures the OpenAI audio transcription backend. BaseURL
// may point at any server exposing a compatible /audio/transcriptions route.
type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	Prompt   string

	SampleRate int
	TempDir    string
}

// OpenAI uploads each utterance as a WAV file.
type OpenAI struct {
	client openai.Client
	cfg    OpenAIConfig
}

func NewOpenAI(cfg OpenAIConfig, extra ...option.RequestOption) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	return &OpenAI{client: openai.NewClient(opts...), cfg: cfg}, nil
}

func (o *OpenAI) Name() string { return BackendOpenAI }

func (o *OpenAI) Transcribe(ctx context.Context, samples []float32) (string, error) {
	data, err := encodeWAV(samples, o.cfg.SampleRate, o.cfg.TempDir)
	if err != nil {
		return "", err
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(data), "audio.wav", "audio/wav"),
		Model: openai.AudioModel(o.cfg.Model),
	}
	if o.cfg.Language != "" && o.cfg.Language != "auto" {
		params.Language = openai.String(o.cfg.Language)
	}
	if o.cfg.Prompt != "" {
		params.Prompt = openai.String(o.cfg.Prompt)
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	return resp.Text, nil
}

func (o *OpenAI) Close() error { return nil }
