// Package resultstore persists and reloads evaluation runs. Each run is
// identified by its timestamp (YYYYMMDD_HHMMSS) and written as three
// files in the results directory: eval_<ts>.json (full result array),
// transcripts_<ts>.jsonl (condensed transcripts) and summary_<ts>.json.
package resultstore

import (
	"whisper-wpm-eval/internal/coreengine/metricscalculator"
	"whisper-wpm-eval/internal/dataset"
)

// EvaluationResult is one scored recording. Immutable once written.
type EvaluationResult struct {
	ID              string                    `json:"id"`
	Sample          string                    `json:"sample"`
	SampleFile      string                    `json:"sample_file"`
	Annotations     dataset.Annotations       `json:"annotations"`
	DurationSeconds float64                   `json:"duration_seconds"`
	Transcription   string                    `json:"transcription"`
	Reference       string                    `json:"reference"`
	Metrics         metricscalculator.Metrics `json:"metrics"`
	WPM             float64                   `json:"wpm"`
}

// TranscriptLine is one line of transcripts_<ts>.jsonl.
type TranscriptLine struct {
	ID            string  `json:"id"`
	Transcription string  `json:"transcription"`
	WER           float64 `json:"wer"`
}

// GroupStats are the aggregate error rates for one annotation category
// value (one pace, or one background noise type).
type GroupStats struct {
	Count  int     `json:"count"`
	AvgWER float64 `json:"avg_wer"`
	MinWER float64 `json:"min_wer"`
	MaxWER float64 `json:"max_wer"`
}

// RunSummary is the aggregate view of a whole run, recomputed fresh each
// time, never updated incrementally.
type RunSummary struct {
	Timestamp       string                `json:"timestamp"`
	TotalRecordings int                   `json:"total_recordings"`
	AvgWER          float64               `json:"avg_wer"`
	AvgCER          float64               `json:"avg_cer"`
	MinWER          float64               `json:"min_wer"`
	MaxWER          float64               `json:"max_wer"`
	ByPace          map[string]GroupStats `json:"by_pace"`
	ByBackground    map[string]GroupStats `json:"by_background"`
}
