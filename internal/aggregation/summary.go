// Package aggregation derives run-level statistics from a completed
// evaluation. Everything here is a pure function of the result set:
// identical input always yields an identical summary.
package aggregation

import (
	"whisper-wpm-eval/internal/resultstore"
)

// Summarize computes the run summary: overall mean/min/max error rates and
// per-group statistics keyed by speaking pace and by background noise.
func Summarize(timestamp string, results []resultstore.EvaluationResult) resultstore.RunSummary {
	summary := resultstore.RunSummary{
		Timestamp:       timestamp,
		TotalRecordings: len(results),
		ByPace:          groupStats(results, paceKey),
		ByBackground:    groupStats(results, backgroundKey),
	}
	if len(results) == 0 {
		return summary
	}

	var werSum, cerSum float64
	minWER, maxWER := results[0].Metrics.WER, results[0].Metrics.WER
	for _, r := range results {
		werSum += r.Metrics.WER
		cerSum += r.Metrics.CER
		if r.Metrics.WER < minWER {
			minWER = r.Metrics.WER
		}
		if r.Metrics.WER > maxWER {
			maxWER = r.Metrics.WER
		}
	}
	summary.AvgWER = werSum / float64(len(results))
	summary.AvgCER = cerSum / float64(len(results))
	summary.MinWER = minWER
	summary.MaxWER = maxWER
	return summary
}

func paceKey(r resultstore.EvaluationResult) string {
	if r.Annotations.Pace == "" {
		return "unknown"
	}
	return r.Annotations.Pace
}

func backgroundKey(r resultstore.EvaluationResult) string {
	if r.Annotations.BackgroundNoise == "" {
		return "unknown"
	}
	return r.Annotations.BackgroundNoise
}

func groupStats(results []resultstore.EvaluationResult, key func(resultstore.EvaluationResult) string) map[string]resultstore.GroupStats {
	groups := make(map[string][]float64)
	for _, r := range results {
		k := key(r)
		groups[k] = append(groups[k], r.Metrics.WER)
	}

	stats := make(map[string]resultstore.GroupStats, len(groups))
	for k, wers := range groups {
		g := resultstore.GroupStats{Count: len(wers), MinWER: wers[0], MaxWER: wers[0]}
		var sum float64
		for _, w := range wers {
			sum += w
			if w < g.MinWER {
				g.MinWER = w
			}
			if w > g.MaxWER {
				g.MaxWER = w
			}
		}
		g.AvgWER = sum / float64(len(wers))
		stats[k] = g
	}
	return stats
}
