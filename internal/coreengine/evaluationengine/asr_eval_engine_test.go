package evaluationengine

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"whisper-wpm-eval/internal/coreengine/vendoradapters"
	"whisper-wpm-eval/internal/dataset"
)

// testFixture builds a dataset on disk: two samples, three recordings.
// Audio is fake bytes; the engine never parses it, the adapter does.
type testFixture struct {
	store   *dataset.Store
	samples *dataset.SampleLibrary
	adapter *vendoradapters.MockASRAdapter
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()

	datasetDir := t.TempDir()
	samplesDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(samplesDir, "sample_01.txt"), []byte("The quick brown fox.\n"), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if err := os.WriteFile(filepath.Join(samplesDir, "sample_02.txt"), []byte("Pack my box with five dozen jugs.\n"), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	store := dataset.NewStore(datasetDir, "metadata.jsonl", "audio")
	for _, rec := range []dataset.RecordingMetadata{
		newRecord("aaaa", "sample_01.txt", "normal", "none"),
		newRecord("bbbb", "sample_01.txt", "fast", "convo_other"),
		newRecord("cccc", "sample_02.txt", "slow", "music"),
	} {
		if err := store.AppendMetadata(rec); err != nil {
			t.Fatalf("append metadata: %v", err)
		}
	}

	return &testFixture{
		store:   store,
		samples: dataset.NewSampleLibrary(samplesDir),
		adapter: &vendoradapters.MockASRAdapter{
			Transcripts: map[string]string{
				"aaaa.wav": "The quick brown fox.",
				"bbbb.wav": "the quick red fox",
				"cccc.wav": "pack my box with five dozen jugs",
			},
			FailFor: map[string]bool{},
		},
	}
}

func newRecord(id, sampleFile, pace, background string) dataset.RecordingMetadata {
	return dataset.RecordingMetadata{
		ID:              id,
		Audio:           "audio/" + id + ".wav",
		Sample:          sampleFile[:len(sampleFile)-4],
		SampleFile:      sampleFile,
		WordCount:       4,
		DurationSeconds: 2.0,
		RecordedAt:      "20260815_101500",
		Annotations:     dataset.Annotations{Pace: pace, MicDistance: "normal", BackgroundNoise: background},
		Equipment:       dataset.Equipment{Microphone: "test", SampleRate: 16000, Channels: 1},
	}
}

func (f *testFixture) writeAudio(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		path := f.store.AudioPath("audio/" + id + ".wav")
		if err := os.WriteFile(path, []byte("fake-wav-"+id), 0o644); err != nil {
			t.Fatalf("write audio: %v", err)
		}
	}
}

func (f *testFixture) engine() *Engine {
	return &Engine{
		Dataset: f.store,
		Samples: f.samples,
		Audio:   &LocalAudioSource{Dataset: f.store},
		Adapter: f.adapter,
	}
}

func TestRunScoresAllRecords(t *testing.T) {
	f := newFixture(t)
	f.writeAudio(t, "aaaa", "bbbb", "cccc")

	outcome, err := f.engine().Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(outcome.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(outcome.Results))
	}
	if len(outcome.Skipped) != 0 {
		t.Fatalf("expected no skips, got %v", outcome.Skipped)
	}

	// Metadata file order is preserved.
	if outcome.Results[0].ID != "aaaa" || outcome.Results[1].ID != "bbbb" || outcome.Results[2].ID != "cccc" {
		t.Errorf("order not preserved: %s %s %s", outcome.Results[0].ID, outcome.Results[1].ID, outcome.Results[2].ID)
	}

	// Exact transcript, modulo case and punctuation, scores zero.
	if outcome.Results[0].Metrics.WER != 0 {
		t.Errorf("result aaaa WER = %v, want 0", outcome.Results[0].Metrics.WER)
	}
	// One substituted word out of four.
	if math.Abs(outcome.Results[1].Metrics.WER-0.25) > 1e-9 {
		t.Errorf("result bbbb WER = %v, want 0.25", outcome.Results[1].Metrics.WER)
	}

	// Reference text is carried, not the normalized form.
	if outcome.Results[0].Reference != "The quick brown fox." {
		t.Errorf("reference = %q", outcome.Results[0].Reference)
	}

	// WPM: 4 reference words over 2 seconds.
	if math.Abs(outcome.Results[0].WPM-120) > 1e-9 {
		t.Errorf("WPM = %v, want 120", outcome.Results[0].WPM)
	}

	if outcome.Summary.TotalRecordings != 3 {
		t.Errorf("summary total = %d, want 3", outcome.Summary.TotalRecordings)
	}
}

func TestRunSkipsMissingAudio(t *testing.T) {
	f := newFixture(t)
	f.writeAudio(t, "aaaa", "cccc") // bbbb.wav missing on disk

	outcome, err := f.engine().Run(context.Background())
	if err != nil {
		t.Fatalf("run must not fail on a missing audio file: %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(outcome.Results))
	}
	if len(outcome.Skipped) != 1 || outcome.Skipped[0].ID != "bbbb" {
		t.Fatalf("expected bbbb skipped, got %v", outcome.Skipped)
	}
	// The adapter must never be called for the missing record.
	for _, call := range f.adapter.Calls {
		if call == "bbbb.wav" {
			t.Error("adapter called for a record with missing audio")
		}
	}
}

func TestRunSkipsFailedTranscription(t *testing.T) {
	f := newFixture(t)
	f.writeAudio(t, "aaaa", "bbbb", "cccc")
	f.adapter.FailFor["bbbb.wav"] = true

	outcome, err := f.engine().Run(context.Background())
	if err != nil {
		t.Fatalf("run must not fail on a transcription error: %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(outcome.Results))
	}
	if outcome.Results[0].ID != "aaaa" || outcome.Results[1].ID != "cccc" {
		t.Errorf("unexpected surviving results: %s, %s", outcome.Results[0].ID, outcome.Results[1].ID)
	}
	if len(outcome.Skipped) != 1 || outcome.Skipped[0].ID != "bbbb" {
		t.Fatalf("expected bbbb skipped, got %v", outcome.Skipped)
	}
}

func TestRunLoadsGroundTruthOncePerSampleFile(t *testing.T) {
	f := newFixture(t)
	f.writeAudio(t, "aaaa", "bbbb", "cccc")

	// aaaa and bbbb share sample_01.txt. Delete it after priming the cache
	// through a first run to prove the second read comes from the cache.
	if _, err := f.samples.GroundTruth("sample_01.txt"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if err := os.Remove(filepath.Join(f.samples.Dir, "sample_01.txt")); err != nil {
		t.Fatalf("remove sample: %v", err)
	}

	outcome, err := f.engine().Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(outcome.Results) != 3 {
		t.Fatalf("expected 3 results via cached ground truth, got %d (skipped: %v)", len(outcome.Results), outcome.Skipped)
	}
}

func TestRunEmptyDataset(t *testing.T) {
	datasetDir := t.TempDir()
	store := dataset.NewStore(datasetDir, "metadata.jsonl", "audio")
	if err := os.WriteFile(store.MetadataPath(), nil, 0o644); err != nil {
		t.Fatalf("write empty metadata: %v", err)
	}
	engine := &Engine{
		Dataset: store,
		Samples: dataset.NewSampleLibrary(t.TempDir()),
		Audio:   &LocalAudioSource{Dataset: store},
		Adapter: &vendoradapters.MockASRAdapter{},
	}
	outcome, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(outcome.Results) != 0 || outcome.Summary.TotalRecordings != 0 {
		t.Errorf("expected empty outcome, got %+v", outcome)
	}
}
