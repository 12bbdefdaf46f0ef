// Package dataset reads and appends the recording dataset: one WAV file
// per recording plus an append-only metadata.jsonl describing it. Records
// are immutable once written; the evaluator only ever reads them.
package dataset

// Annotations are the operator-supplied labels describing the conditions
// a recording was captured under.
type Annotations struct {
	Pace            string  `json:"pace"`
	MicDistance     string  `json:"mic_distance"`
	BackgroundNoise string  `json:"background_noise"`
	Notes           *string `json:"notes"`
}

// Equipment describes the capture hardware and format.
type Equipment struct {
	Microphone string `json:"microphone"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// RecordingMetadata is one line of metadata.jsonl.
type RecordingMetadata struct {
	ID              string      `json:"id"`
	Audio           string      `json:"audio"` // relative to the dataset dir, e.g. "audio/ab3f.wav"
	Sample          string      `json:"sample"`
	SampleFile      string      `json:"sample_file"`
	WordCount       int         `json:"word_count"`
	DurationSeconds float64     `json:"duration_seconds"`
	RecordedAt      string      `json:"recorded_at"` // YYYYMMDD_HHMMSS
	Annotations     Annotations `json:"annotations"`
	Equipment       Equipment   `json:"equipment"`
}
