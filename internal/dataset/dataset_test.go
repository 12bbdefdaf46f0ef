package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), "metadata.jsonl", "audio")
}

func sampleRecord(id string) RecordingMetadata {
	notes := "window open"
	return RecordingMetadata{
		ID:              id,
		Audio:           "audio/" + id + ".wav",
		Sample:          "sample_01_tech",
		SampleFile:      "sample_01_tech.txt",
		WordCount:       142,
		DurationSeconds: 58.4,
		RecordedAt:      "20260815_101500",
		Annotations: Annotations{
			Pace:            "normal",
			MicDistance:     "normal",
			BackgroundNoise: "none",
			Notes:           &notes,
		},
		Equipment: Equipment{
			Microphone: "Samson Q2U",
			SampleRate: 16000,
			Channels:   1,
		},
	}
}

func TestAppendAndLoadMetadata(t *testing.T) {
	store := testStore(t)

	first := sampleRecord("ab3f")
	second := sampleRecord("9c01")
	second.Annotations.Pace = "fast"
	second.Annotations.Notes = nil

	if err := store.AppendMetadata(first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := store.AppendMetadata(second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	records, err := store.LoadMetadata()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// File order must be preserved.
	if records[0].ID != "ab3f" || records[1].ID != "9c01" {
		t.Errorf("order not preserved: %q, %q", records[0].ID, records[1].ID)
	}
	if records[0].Annotations.Notes == nil || *records[0].Annotations.Notes != "window open" {
		t.Error("notes not round-tripped")
	}
	if records[1].Annotations.Notes != nil {
		t.Error("nil notes should stay null")
	}
	if records[1].Annotations.Pace != "fast" {
		t.Errorf("pace = %q, want fast", records[1].Annotations.Pace)
	}
}

func TestLoadMetadataSkipsBlankLines(t *testing.T) {
	store := testStore(t)
	content := `{"id":"aaaa","audio":"audio/aaaa.wav","sample":"s","sample_file":"s.txt","word_count":3,"duration_seconds":1.5,"recorded_at":"20260815_101500","annotations":{"pace":"normal","mic_distance":"normal","background_noise":"none","notes":null},"equipment":{"microphone":"m","sample_rate":16000,"channels":1}}

`
	if err := os.WriteFile(store.MetadataPath(), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := store.LoadMetadata()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestLoadMetadataRejectsMalformedLine(t *testing.T) {
	store := testStore(t)
	if err := os.WriteFile(store.MetadataPath(), []byte("{not json}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.LoadMetadata(); err == nil {
		t.Fatal("expected error for malformed metadata line")
	}
}

func TestAudioPath(t *testing.T) {
	store := NewStore("/data/dataset", "metadata.jsonl", "audio")
	got := store.AudioPath("audio/ab3f.wav")
	want := filepath.Join("/data/dataset", "audio", "ab3f.wav")
	if got != want {
		t.Errorf("AudioPath = %q, want %q", got, want)
	}
}

func TestSampleLibraryGroundTruthCaching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample_01_tech.txt")
	if err := os.WriteFile(path, []byte("The quick brown fox.\n"), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	lib := NewSampleLibrary(dir)
	text, err := lib.GroundTruth("sample_01_tech.txt")
	if err != nil {
		t.Fatalf("ground truth: %v", err)
	}
	if text != "The quick brown fox." {
		t.Errorf("text = %q", text)
	}

	// Deleting the file must not matter once cached.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	again, err := lib.GroundTruth("sample_01_tech.txt")
	if err != nil {
		t.Fatalf("cached ground truth: %v", err)
	}
	if again != text {
		t.Errorf("cache returned %q, want %q", again, text)
	}
}

func TestSampleLibraryList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sample_02_nature.txt", "sample_01_tech.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	lib := NewSampleLibrary(dir)
	names, err := lib.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "sample_01_tech.txt" || names[1] != "sample_02_nature.txt" {
		t.Errorf("unexpected listing: %v", names)
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("the quick  brown\nfox"); n != 4 {
		t.Errorf("WordCount = %d, want 4", n)
	}
	if n := WordCount(""); n != 0 {
		t.Errorf("WordCount of empty = %d, want 0", n)
	}
}
