package vendoradapters

import (
	"context"
	"fmt"
)

// MockASRAdapter is an ASRAdapter used by tests and dry runs. It returns
// a canned transcript (or one configured per filename) without touching
// the network.
type MockASRAdapter struct {
	// Transcripts maps filename to the transcript to return. When a
	// filename is absent, DefaultText is used.
	Transcripts map[string]string
	DefaultText string

	// FailFor lists filenames whose recognition should fail, to exercise
	// the batch runner's skip path.
	FailFor map[string]bool

	// Calls records the filenames recognized, in order.
	Calls []string
}

// Recognize returns the canned transcript for the given filename.
func (m *MockASRAdapter) Recognize(ctx context.Context, audio []byte, filename string) (string, string, error) {
	m.Calls = append(m.Calls, filename)

	if m.FailFor[filename] {
		raw := `{"error": "simulated transcription failure"}`
		return "", raw, fmt.Errorf("simulated transcription failure for %s", filename)
	}

	text := m.DefaultText
	if t, ok := m.Transcripts[filename]; ok {
		text = t
	}
	raw := fmt.Sprintf(`{"text": %q, "simulated": true}`, text)
	return text, raw, nil
}
