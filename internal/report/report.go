// Package report renders a finished evaluation run for humans, as a
// Markdown document for sharing and as a console summary printed at the
// end of a batch.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"whisper-wpm-eval/internal/aggregation"
	"whisper-wpm-eval/internal/resultstore"
)

// RenderMarkdown produces the report document for one run.
func RenderMarkdown(summary resultstore.RunSummary, results []resultstore.EvaluationResult, findings []aggregation.ContaminationFinding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Transcription Evaluation Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", summary.Timestamp)
	fmt.Fprintf(&b, "- Recordings scored: %d\n", summary.TotalRecordings)
	fmt.Fprintf(&b, "- Average WER: %.2f%%\n", summary.AvgWER*100)
	fmt.Fprintf(&b, "- Average CER: %.2f%%\n", summary.AvgCER*100)
	fmt.Fprintf(&b, "- WER range: %.2f%% to %.2f%%\n", summary.MinWER*100, summary.MaxWER*100)
	b.WriteString("\n")

	writeGroupTable(&b, "Results by Pace", summary.ByPace)
	writeGroupTable(&b, "Results by Background Noise", summary.ByBackground)

	if len(results) > 0 {
		best, worst := extremes(results)
		b.WriteString("## Best and Worst Recordings\n\n")
		fmt.Fprintf(&b, "Best: `%s` (%s) with WER %.2f%%\n\n", best.ID, best.Sample, best.Metrics.WER*100)
		fmt.Fprintf(&b, "Worst: `%s` (%s) with WER %.2f%%\n\n", worst.ID, worst.Sample, worst.Metrics.WER*100)
		fmt.Fprintf(&b, "> Worst transcript: %s\n\n", strings.TrimSpace(worst.Transcription))
	}

	if len(findings) > 0 {
		b.WriteString("## Background Speech Contamination\n\n")
		b.WriteString("Recordings made over background conversations, with words the\nrecognizer added that do not appear in the reference text.\n\n")
		b.WriteString("| Recording | Background | WER | Near misses | Contaminants |\n")
		b.WriteString("|-----------|------------|-----|-------------|--------------|\n")
		for _, f := range findings {
			fmt.Fprintf(&b, "| `%s` | %s | %.2f%% | %s | %s |\n",
				f.ID, f.BackgroundNoise, f.WER*100,
				wordList(f.NearMisses), wordList(f.Contaminants))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeGroupTable(b *strings.Builder, title string, groups map[string]resultstore.GroupStats) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| Group | Count | Avg WER | Min WER | Max WER |\n")
	b.WriteString("|-------|-------|---------|---------|---------|\n")
	for _, name := range sortedKeys(groups) {
		g := groups[name]
		fmt.Fprintf(b, "| %s | %d | %.2f%% | %.2f%% | %.2f%% |\n",
			name, g.Count, g.AvgWER*100, g.MinWER*100, g.MaxWER*100)
	}
	b.WriteString("\n")
}

// PrintConsoleSummary writes the end-of-run summary block.
func PrintConsoleSummary(w io.Writer, summary resultstore.RunSummary, skipped int) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "EVALUATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Recordings scored: %d\n", summary.TotalRecordings)
	if skipped > 0 {
		fmt.Fprintf(w, "Recordings skipped: %d\n", skipped)
	}
	fmt.Fprintf(w, "Average WER: %.2f%%\n", summary.AvgWER*100)
	fmt.Fprintf(w, "Average CER: %.2f%%\n", summary.AvgCER*100)
	fmt.Fprintf(w, "WER range: %.2f%% - %.2f%%\n", summary.MinWER*100, summary.MaxWER*100)

	printConsoleGroups(w, "By pace:", summary.ByPace)
	printConsoleGroups(w, "By background noise:", summary.ByBackground)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func printConsoleGroups(w io.Writer, title string, groups map[string]resultstore.GroupStats) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, name := range sortedKeys(groups) {
		g := groups[name]
		fmt.Fprintf(w, "  %-14s n=%-3d avg WER %.2f%%\n", name, g.Count, g.AvgWER*100)
	}
}

// extremes returns the results with the lowest and highest WER.
func extremes(results []resultstore.EvaluationResult) (best, worst resultstore.EvaluationResult) {
	best, worst = results[0], results[0]
	for _, r := range results[1:] {
		if r.Metrics.WER < best.Metrics.WER {
			best = r
		}
		if r.Metrics.WER > worst.Metrics.WER {
			worst = r
		}
	}
	return best, worst
}

func sortedKeys(groups map[string]resultstore.GroupStats) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func wordList(words []string) string {
	if len(words) == 0 {
		return "none"
	}
	return strings.Join(words, ", ")
}
