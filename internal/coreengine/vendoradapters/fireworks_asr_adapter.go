package vendoradapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"whisper-wpm-eval/internal/config"
)

// APIError is returned when the transcription endpoint answers with a
// non-success status. It carries the status code and response body so the
// caller can log the exact failure before skipping the record.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("transcription request failed with status %d: %s", e.StatusCode, e.Body)
}

// FireworksASRAdapter implements the ASRAdapter interface for the
// Fireworks AI Whisper endpoint (an OpenAI-style audio/transcriptions
// API: multipart file plus model, temperature and vad_model form fields).
type FireworksASRAdapter struct {
	cfg        config.TranscriptionConfig
	httpClient *http.Client

	backoffBase time.Duration // tests shorten this
}

// NewFireworksASRAdapter creates an adapter with the request timeout from
// the configuration.
func NewFireworksASRAdapter(cfg config.TranscriptionConfig) *FireworksASRAdapter {
	return &FireworksASRAdapter{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		backoffBase: time.Second,
	}
}

// transcriptionResponse mirrors the JSON shape returned on success.
type transcriptionResponse struct {
	Text string `json:"text"`
}

// Recognize transcribes the audio payload. Transport failures and 5xx
// responses are retried up to cfg.Retries times with exponential backoff;
// 4xx responses are not retried since the request will not get better.
func (a *FireworksASRAdapter) Recognize(ctx context.Context, audio []byte, filename string) (string, string, error) {
	var lastErr error
	var lastRaw string

	for attempt := 0; attempt <= a.cfg.Retries; attempt++ {
		if attempt > 0 {
			backoff := a.backoffBase << (attempt - 1)
			log.Printf("Retrying transcription of %s in %v (attempt %d/%d): %v", filename, backoff, attempt+1, a.cfg.Retries+1, lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", lastRaw, ctx.Err()
			}
		}

		text, raw, err := a.recognizeOnce(ctx, audio, filename)
		if err == nil {
			return text, raw, nil
		}
		lastErr = err
		lastRaw = raw

		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode < 500 {
			break // client error, retrying cannot help
		}
	}
	return "", lastRaw, lastErr
}

func (a *FireworksASRAdapter) recognizeOnce(ctx context.Context, audio []byte, filename string) (string, string, error) {
	// 1. Build the multipart payload: file plus model configuration fields.
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", "", fmt.Errorf("failed to create multipart file field: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", "", fmt.Errorf("failed to write audio payload: %w", err)
	}
	fields := map[string]string{
		"model":       a.cfg.Model,
		"temperature": strconv.FormatFloat(a.cfg.Temperature, 'f', -1, 64),
		"vad_model":   a.cfg.VADModel,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return "", "", fmt.Errorf("failed to write form field %q: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", "", fmt.Errorf("failed to finalize multipart payload: %w", err)
	}

	// 2. Send the request.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint, &body)
	if err != nil {
		return "", "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

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

	// 3. Extract the transcript text.
	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", raw, fmt.Errorf("failed to parse transcription response: %w", err)
	}
	return parsed.Text, raw, nil
}
