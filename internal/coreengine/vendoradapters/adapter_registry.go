package vendoradapters

import (
	"fmt"

	"whisper-wpm-eval/internal/config"
)

// GetASRAdapter selects an ASRAdapter based on the configured vendor.
func GetASRAdapter(cfg config.TranscriptionConfig) (ASRAdapter, error) {
	switch cfg.Vendor {
	case "fireworks":
		return NewFireworksASRAdapter(cfg), nil
	case "deepgram":
		return NewDeepgramASRAdapter(cfg), nil
	case "mock":
		return &MockASRAdapter{DefaultText: "mock transcription"}, nil
	default:
		return nil, fmt.Errorf("no ASR adapter available for vendor: %q", cfg.Vendor)
	}
}
