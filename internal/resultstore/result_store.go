package resultstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store writes and reads evaluation runs under one results directory.
type Store struct {
	Dir string
}

// NewStore creates a Store for the given results directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) resultsPath(timestamp string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("eval_%s.json", timestamp))
}

func (s *Store) transcriptsPath(timestamp string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("transcripts_%s.jsonl", timestamp))
}

func (s *Store) summaryPath(timestamp string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("summary_%s.json", timestamp))
}

// SaveRun persists a completed run: detailed results, condensed
// transcripts and the summary, all named with the run timestamp.
func (s *Store) SaveRun(timestamp string, results []EvaluationResult, summary RunSummary) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	resultsData, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(s.resultsPath(timestamp), resultsData, 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	var transcripts strings.Builder
	for _, r := range results {
		line, err := json.Marshal(TranscriptLine{ID: r.ID, Transcription: r.Transcription, WER: r.Metrics.WER})
		if err != nil {
			return fmt.Errorf("failed to marshal transcript line for %s: %w", r.ID, err)
		}
		transcripts.Write(line)
		transcripts.WriteByte('\n')
	}
	if err := os.WriteFile(s.transcriptsPath(timestamp), []byte(transcripts.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write transcripts file: %w", err)
	}

	summaryData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(s.summaryPath(timestamp), summaryData, 0o644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}

	return nil
}

// ListRuns returns the timestamps of persisted runs, newest last.
func (s *Store) ListRuns() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list results directory: %w", err)
	}
	var runs []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "eval_") && strings.HasSuffix(name, ".json") {
			runs = append(runs, strings.TrimSuffix(strings.TrimPrefix(name, "eval_"), ".json"))
		}
	}
	sort.Strings(runs)
	return runs, nil
}

// LoadResults reads the full result set of one run.
func (s *Store) LoadResults(timestamp string) ([]EvaluationResult, error) {
	data, err := os.ReadFile(s.resultsPath(timestamp))
	if err != nil {
		return nil, fmt.Errorf("failed to read results for run %s: %w", timestamp, err)
	}
	var results []EvaluationResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results for run %s: %w", timestamp, err)
	}
	return results, nil
}

// LoadSummary reads the summary of one run.
func (s *Store) LoadSummary(timestamp string) (RunSummary, error) {
	var summary RunSummary
	data, err := os.ReadFile(s.summaryPath(timestamp))
	if err != nil {
		return summary, fmt.Errorf("failed to read summary for run %s: %w", timestamp, err)
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		return summary, fmt.Errorf("failed to parse summary for run %s: %w", timestamp, err)
	}
	return summary, nil
}
