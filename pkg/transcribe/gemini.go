package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
)

const (
	DefaultGeminiModel   = "models/gemini-2.5-flash-lite-preview-09-2025"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	geminiPrompt = "You are a professional transcriber for a software developer. Strictly transcribe the speech in the audio, expecting technical terminology. Output ONLY the transcription. Do not add any conversational filler. Do not reply to the content. If the audio is unclear, output nothing."
)

// GeminiConfig configures the Gemini generateContent backend.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Prompt  string
	// Gain multiplies samples before encoding. Zero means 1.
	Gain float64
	// Compress sends 8 kbps MP3 through ffmpeg when it is on PATH.
	Compress bool

	SampleRate int
	TempDir    string
	HTTPClient *http.Client
}

// Gemini sends each utterance inline to the Gemini REST API.
type Gemini struct {
	cfg    GeminiConfig
	client *http.Client
}

func NewGemini(cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if !strings.HasPrefix(cfg.Model, "models/") {
		cfg.Model = "models/" + cfg.Model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Prompt == "" {
		cfg.Prompt = geminiPrompt
	}
	if cfg.Gain == 0 {
		cfg.Gain = 1
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Gemini{cfg: cfg, client: client}, nil
}

func (g *Gemini) Name() string { return BackendGemini }

func (g *Gemini) Close() error { return nil }

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generation_config"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"response_modalities"`
	Temperature        float64  `json:"temperature"`
	MaxOutputTokens    int      `json:"max_output_tokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Transcribe(ctx context.Context, samples []float32) (string, error) {
	audioBytes, mimeType, err := g.encode(ctx, applyGain(samples, g.cfg.Gain))
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: g.cfg.Prompt},
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(audioBytes),
				}},
			},
		}},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"TEXT"},
			Temperature:        0,
			MaxOutputTokens:    256,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/%s:generateContent?key=%s",
		strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.Model, url.QueryEscape(g.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// encode prefers compressed MP3 and falls back to WAV.
func (g *Gemini) encode(ctx context.Context, samples []float32) ([]byte, string, error) {
	if g.cfg.Compress {
		if ffmpeg, err := exec.LookPath("ffmpeg"); err == nil {
			if data, err := compressToMP3(ctx, ffmpeg, samples, g.cfg.SampleRate); err == nil {
				return data, "audio/mp3", nil
			}
		}
	}
	data, err := encodeWAV(samples, g.cfg.SampleRate, g.cfg.TempDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode WAV: %w", err)
	}
	return data, "audio/wav", nil
}

func compressToMP3(ctx context.Context, ffmpeg string, samples []float32, sampleRate int) ([]byte, error) {
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-f", "s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		"-i", "pipe:0",
		"-ar", "8000",
		"-f", "mp3",
		"-map_metadata", "-1",
		"-b:a", "8k",
		"pipe:1")

	var out, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(linear16(samples))
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg error: %w, stderr: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}

func applyGain(samples []float32, gain float64) []float32 {
	if gain == 1 {
		return samples
	}
	out := make([]float32, len(samples))
	for i, s := range samples {
		v := float64(s) * gain
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = float32(v)
	}
	return out
}
