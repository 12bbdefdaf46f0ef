package vendoradapters

import "context"

// ASRAdapter defines the interface for speech-to-text transcription
// backends. audio is the full file payload (mono 16kHz 16-bit PCM WAVE);
// filename is passed along so the remote side sees a sensible name.
// It returns the best-effort transcript and the raw response body so the
// exact backend output can be kept alongside computed metrics.
type ASRAdapter interface {
	Recognize(ctx context.Context, audio []byte, filename string) (recognizedText string, rawResponse string, err error)
}
