package report

import (
	"bytes"
	"strings"
	"testing"

	"whisper-wpm-eval/internal/aggregation"
	"whisper-wpm-eval/internal/coreengine/metricscalculator"
	"whisper-wpm-eval/internal/dataset"
	"whisper-wpm-eval/internal/resultstore"
)

func sampleSummary() resultstore.RunSummary {
	return resultstore.RunSummary{
		Timestamp:       "20260115_093000",
		TotalRecordings: 3,
		AvgWER:          0.10,
		AvgCER:          0.04,
		MinWER:          0.0,
		MaxWER:          0.25,
		ByPace: map[string]resultstore.GroupStats{
			"normal": {Count: 2, AvgWER: 0.05, MinWER: 0.0, MaxWER: 0.10},
			"fast":   {Count: 1, AvgWER: 0.25, MinWER: 0.25, MaxWER: 0.25},
		},
		ByBackground: map[string]resultstore.GroupStats{
			"quiet": {Count: 3, AvgWER: 0.10, MinWER: 0.0, MaxWER: 0.25},
		},
	}
}

func sampleResults() []resultstore.EvaluationResult {
	return []resultstore.EvaluationResult{
		{
			ID:            "a1b2",
			Sample:        "sample_01",
			Transcription: "the quick brown fox",
			Reference:     "the quick brown fox",
			Metrics:       metricscalculator.Metrics{WER: 0.0, CER: 0.0},
			Annotations:   dataset.Annotations{Pace: "normal", BackgroundNoise: "quiet"},
		},
		{
			ID:            "c3d4",
			Sample:        "sample_02",
			Transcription: "the quick red fox",
			Reference:     "the quick brown fox",
			Metrics:       metricscalculator.Metrics{WER: 0.25, CER: 0.1},
			Annotations:   dataset.Annotations{Pace: "fast", BackgroundNoise: "quiet"},
		},
	}
}

func TestRenderMarkdownSections(t *testing.T) {
	md := RenderMarkdown(sampleSummary(), sampleResults(), nil)

	for _, want := range []string{
		"# Transcription Evaluation Report",
		"Run: `20260115_093000`",
		"Recordings scored: 3",
		"Average WER: 10.00%",
		"## Results by Pace",
		"| fast | 1 | 25.00% |",
		"| normal | 2 | 5.00% |",
		"## Results by Background Noise",
		"## Best and Worst Recordings",
		"Best: `a1b2`",
		"Worst: `c3d4`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q\n%s", want, md)
		}
	}

	if strings.Contains(md, "Contamination") {
		t.Error("contamination section should be absent without findings")
	}
}

func TestRenderMarkdownWithContamination(t *testing.T) {
	findings := []aggregation.ContaminationFinding{
		{
			ID:              "e5f6",
			BackgroundNoise: "convo_tv",
			WER:             0.40,
			NearMisses:      []string{"quik"},
			Contaminants:    []string{"hola", "amigo"},
		},
	}
	md := RenderMarkdown(sampleSummary(), sampleResults(), findings)

	for _, want := range []string{
		"## Background Speech Contamination",
		"| `e5f6` | convo_tv | 40.00% | quik | hola, amigo |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q\n%s", want, md)
		}
	}
}

func TestPrintConsoleSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintConsoleSummary(&buf, sampleSummary(), 1)
	out := buf.String()

	for _, want := range []string{
		"EVALUATION SUMMARY",
		"Recordings scored: 3",
		"Recordings skipped: 1",
		"Average WER: 10.00%",
		"By pace:",
		"By background noise:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console summary missing %q\n%s", want, out)
		}
	}
}

func TestPrintConsoleSummaryOmitsZeroSkipped(t *testing.T) {
	var buf bytes.Buffer
	PrintConsoleSummary(&buf, sampleSummary(), 0)
	if strings.Contains(buf.String(), "skipped") {
		t.Error("skipped line should be omitted when nothing was skipped")
	}
}
