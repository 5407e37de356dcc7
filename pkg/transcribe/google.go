package transcribe

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

// GoogleConfig configures the Cloud Speech-to-Text backend. Without an API
// key or credentials file the client falls back to application default
// credentials.
type GoogleConfig struct {
	APIKey          string
	CredentialsFile string
	Language        string
	Model           string

	SampleRate int
}

// Google calls the synchronous Recognize RPC of Cloud Speech-to-Text.
type Google struct {
	client *speech.Client
	cfg    GoogleConfig
}

func NewGoogle(ctx context.Context, cfg GoogleConfig) (*Google, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}
	if cfg.Language == "" || cfg.Language == "auto" {
		cfg.Language = "en-US"
	}

	var opts []option.ClientOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google speech client: %w", err)
	}
	return &Google{client: client, cfg: cfg}, nil
}

func (g *Google) Name() string { return BackendGoogle }

func (g *Google) Transcribe(ctx context.Context, samples []float32) (string, error) {
	resp, err := g.client.Recognize(ctx, g.request(samples))
	if err != nil {
		return "", fmt.Errorf("google recognize: %w", err)
	}
	return joinResults(resp.GetResults()), nil
}

func (g *Google) request(samples []float32) *speechpb.RecognizeRequest {
	return &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            int32(g.cfg.SampleRate),
			AudioChannelCount:          1,
			LanguageCode:               g.cfg.Language,
			Model:                      g.cfg.Model,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: linear16(samples)},
		},
	}
}

func (g *Google) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// joinResults concatenates the top alternative of each result.
func joinResults(results []*speechpb.SpeechRecognitionResult) string {
	var parts []string
	for _, r := range results {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
