// Package evaluationengine runs the evaluation batch: it walks the
// recording metadata in file order, transcribes each audio file through
// the configured ASR adapter and scores the transcript against the
// reference sample.
//
// Per-record lifecycle: PENDING -> SKIPPED (audio missing),
// PENDING -> TRANSCRIBING -> SKIPPED (recognition failure), or
// PENDING -> TRANSCRIBING -> SCORED. Failures never abort the batch.
package evaluationengine

import (
	"context"
	"fmt"
	"log"
	"time"

	"whisper-wpm-eval/internal/aggregation"
	"whisper-wpm-eval/internal/coreengine/metricscalculator"
	"whisper-wpm-eval/internal/coreengine/vendoradapters"
	"whisper-wpm-eval/internal/dataset"
	"whisper-wpm-eval/internal/resultstore"
	"whisper-wpm-eval/internal/textnorm"
)

// AudioSource resolves the audio payload for a metadata record. The local
// implementation reads from the dataset directory; an object-store backed
// implementation fetches by object key.
type AudioSource interface {
	Fetch(ctx context.Context, relativePath string) ([]byte, error)
}

// SkippedRecord notes one record that produced no result, and why.
type SkippedRecord struct {
	ID     string
	Reason string
}

// RunOutcome is everything a finished batch produced.
type RunOutcome struct {
	Timestamp string
	Results   []resultstore.EvaluationResult
	Summary   resultstore.RunSummary
	Skipped   []SkippedRecord
}

// Engine wires the collaborators of one evaluation run. Construct it
// explicitly; it holds no hidden global state.
type Engine struct {
	Dataset *dataset.Store
	Samples *dataset.SampleLibrary
	Audio   AudioSource
	Adapter vendoradapters.ASRAdapter
}

// Run executes the full batch sequentially, one transcription and one
// metric computation at a time, in metadata file order.
func (e *Engine) Run(ctx context.Context) (*RunOutcome, error) {
	timestamp := time.Now().Format("20060102_150405")

	log.Println("Loading metadata...")
	records, err := e.Dataset.LoadMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to load recording metadata: %w", err)
	}
	log.Printf("Found %d recordings", len(records))

	outcome := &RunOutcome{Timestamp: timestamp}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Printf("[%d/%d] Processing %s", i+1, len(records), rec.ID)

		result, skip := e.evaluateRecord(ctx, rec)
		if skip != nil {
			outcome.Skipped = append(outcome.Skipped, *skip)
			continue
		}
		outcome.Results = append(outcome.Results, *result)
		log.Printf("  WER: %.2f%% | CER: %.2f%%", result.Metrics.WER*100, result.Metrics.CER*100)
	}

	outcome.Summary = aggregation.Summarize(timestamp, outcome.Results)
	return outcome, nil
}

// evaluateRecord processes a single metadata record. It returns either a
// scored result or the skip note; the batch continues in both cases.
func (e *Engine) evaluateRecord(ctx context.Context, rec dataset.RecordingMetadata) (*resultstore.EvaluationResult, *SkippedRecord) {
	audio, err := e.Audio.Fetch(ctx, rec.Audio)
	if err != nil {
		log.Printf("  WARNING: audio not available for %s: %v", rec.ID, err)
		return nil, &SkippedRecord{ID: rec.ID, Reason: fmt.Sprintf("audio not available: %v", err)}
	}

	reference, err := e.Samples.GroundTruth(rec.SampleFile)
	if err != nil {
		log.Printf("  WARNING: ground truth not available for %s: %v", rec.ID, err)
		return nil, &SkippedRecord{ID: rec.ID, Reason: fmt.Sprintf("ground truth not available: %v", err)}
	}

	transcription, _, err := e.Adapter.Recognize(ctx, audio, rec.ID+".wav")
	if err != nil {
		log.Printf("  ERROR: transcription failed for %s: %v", rec.ID, err)
		return nil, &SkippedRecord{ID: rec.ID, Reason: fmt.Sprintf("transcription failed: %v", err)}
	}

	metrics, err := metricscalculator.Calculate(textnorm.Normalize(reference), textnorm.Normalize(transcription))
	if err != nil {
		// Degenerate reference (empty after normalization). The record
		// cannot be scored meaningfully, so it is skipped like any other
		// per-record failure.
		log.Printf("  ERROR: metrics not computable for %s: %v", rec.ID, err)
		return nil, &SkippedRecord{ID: rec.ID, Reason: fmt.Sprintf("metrics not computable: %v", err)}
	}

	return &resultstore.EvaluationResult{
		ID:              rec.ID,
		Sample:          rec.Sample,
		SampleFile:      rec.SampleFile,
		Annotations:     rec.Annotations,
		DurationSeconds: rec.DurationSeconds,
		Transcription:   transcription,
		Reference:       reference,
		Metrics:         metrics,
		WPM:             metricscalculator.WordsPerMinute(metrics.ReferenceWords, rec.DurationSeconds),
	}, nil
}
