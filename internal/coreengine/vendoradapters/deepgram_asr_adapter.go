package vendoradapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"whisper-wpm-eval/internal/config"
)

// DeepgramASRAdapter implements the ASRAdapter interface for Deepgram's
// pre-recorded listen endpoint. Unlike the Whisper-style endpoint it
// takes the raw audio bytes as the request body, with the model selected
// by query parameter.
type DeepgramASRAdapter struct {
	cfg        config.TranscriptionConfig
	httpClient *http.Client
}

// NewDeepgramASRAdapter creates an adapter with the request timeout from
// the configuration.
func NewDeepgramASRAdapter(cfg config.TranscriptionConfig) *DeepgramASRAdapter {
	return &DeepgramASRAdapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// deepgramResponse is a simplified view of the response; only the first
// alternative of the first channel is used.
type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Recognize transcribes the audio payload through Deepgram.
func (a *DeepgramASRAdapter) Recognize(ctx context.Context, audio []byte, filename string) (string, string, error) {
	reqURL, err := url.Parse(a.cfg.Endpoint)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse Deepgram endpoint URL: %w", err)
	}
	query := reqURL.Query()
	if a.cfg.Model != "" {
		query.Set("model", a.cfg.Model)
	}
	reqURL.RawQuery = query.Encode()

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(audio))
	if err != nil {
		return "", "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+a.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to send transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read transcription response: %w", err)
	}
	raw := string(respBody)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", raw, &APIError{StatusCode: resp.StatusCode, Body: raw}
	}

	var parsed deepgramResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", raw, fmt.Errorf("failed to parse transcription response: %w", err)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", raw, fmt.Errorf("transcription response contains no alternatives")
	}
	return parsed.Results.Channels[0].Alternatives[0].Transcript, raw, nil
}
