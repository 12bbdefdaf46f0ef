package evaluationengine

import (
	"context"
	"fmt"
	"os"

	"whisper-wpm-eval/internal/dataset"
)

// LocalAudioSource reads audio files from the dataset directory,
// resolving the relative paths stored in metadata records.
type LocalAudioSource struct {
	Dataset *dataset.Store
}

// Fetch reads the audio file bytes from disk.
func (s *LocalAudioSource) Fetch(ctx context.Context, relativePath string) ([]byte, error) {
	path := s.Dataset.AudioPath(relativePath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("audio file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}
	return data, nil
}
