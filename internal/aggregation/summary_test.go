package aggregation

import (
	"math"
	"testing"

	"whisper-wpm-eval/internal/coreengine/metricscalculator"
	"whisper-wpm-eval/internal/dataset"
	"whisper-wpm-eval/internal/resultstore"
)

func result(id, pace, background string, wer, cer float64) resultstore.EvaluationResult {
	return resultstore.EvaluationResult{
		ID:          id,
		Annotations: dataset.Annotations{Pace: pace, MicDistance: "normal", BackgroundNoise: background},
		Metrics:     metricscalculator.Metrics{WER: wer, CER: cer},
	}
}

func TestSummarize(t *testing.T) {
	results := []resultstore.EvaluationResult{
		result("a", "slow", "none", 0.10, 0.05),
		result("b", "normal", "none", 0.20, 0.10),
		result("c", "normal", "music", 0.30, 0.15),
		result("d", "fast", "music", 0.40, 0.20),
	}

	s := Summarize("20260815_120000", results)

	if s.Timestamp != "20260815_120000" {
		t.Errorf("timestamp = %q", s.Timestamp)
	}
	if s.TotalRecordings != 4 {
		t.Errorf("total = %d, want 4", s.TotalRecordings)
	}
	if math.Abs(s.AvgWER-0.25) > 1e-9 {
		t.Errorf("avg WER = %v, want 0.25", s.AvgWER)
	}
	if math.Abs(s.AvgCER-0.125) > 1e-9 {
		t.Errorf("avg CER = %v, want 0.125", s.AvgCER)
	}
	if s.MinWER != 0.10 || s.MaxWER != 0.40 {
		t.Errorf("WER range = %v..%v, want 0.10..0.40", s.MinWER, s.MaxWER)
	}

	normal, ok := s.ByPace["normal"]
	if !ok {
		t.Fatal("missing pace group 'normal'")
	}
	if normal.Count != 2 || math.Abs(normal.AvgWER-0.25) > 1e-9 {
		t.Errorf("normal pace stats = %+v", normal)
	}
	if normal.MinWER != 0.20 || normal.MaxWER != 0.30 {
		t.Errorf("normal pace range = %v..%v", normal.MinWER, normal.MaxWER)
	}

	music, ok := s.ByBackground["music"]
	if !ok {
		t.Fatal("missing background group 'music'")
	}
	if music.Count != 2 || math.Abs(music.AvgWER-0.35) > 1e-9 {
		t.Errorf("music background stats = %+v", music)
	}
}

// Per-group counts must sum to the total result count for each grouping
// dimension.
func TestSummarizeGroupCountsSumToTotal(t *testing.T) {
	results := []resultstore.EvaluationResult{
		result("a", "slow", "none", 0.1, 0.1),
		result("b", "", "convo_other", 0.2, 0.1),
		result("c", "fast", "", 0.3, 0.1),
		result("d", "fast", "music", 0.4, 0.1),
		result("e", "slow", "music", 0.5, 0.1),
	}
	s := Summarize("ts", results)

	paceTotal := 0
	for _, g := range s.ByPace {
		paceTotal += g.Count
	}
	if paceTotal != len(results) {
		t.Errorf("pace group counts sum to %d, want %d", paceTotal, len(results))
	}

	backgroundTotal := 0
	for _, g := range s.ByBackground {
		backgroundTotal += g.Count
	}
	if backgroundTotal != len(results) {
		t.Errorf("background group counts sum to %d, want %d", backgroundTotal, len(results))
	}

	// Empty annotation values land in "unknown", not a missing group.
	if s.ByPace["unknown"].Count != 1 {
		t.Errorf("unknown pace count = %d, want 1", s.ByPace["unknown"].Count)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("ts", nil)
	if s.TotalRecordings != 0 || s.AvgWER != 0 || len(s.ByPace) != 0 {
		t.Errorf("unexpected summary for empty input: %+v", s)
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	results := []resultstore.EvaluationResult{
		result("a", "slow", "none", 0.1, 0.1),
		result("b", "fast", "music", 0.2, 0.2),
	}
	first := Summarize("ts", results)
	second := Summarize("ts", results)
	if first.AvgWER != second.AvgWER || first.ByPace["slow"] != second.ByPace["slow"] {
		t.Error("Summarize is not deterministic for identical input")
	}
}
