package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"whisper-wpm-eval/internal/aggregation"
	"whisper-wpm-eval/internal/config"
	"whisper-wpm-eval/internal/report"
	"whisper-wpm-eval/internal/resultstore"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file (defaults apply when omitted)")
	runTimestamp := flag.String("run", "", "run timestamp to report on (default: latest)")
	outPath := flag.String("out", "", "output file (default: report_<run>.md in the results directory)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store := resultstore.NewStore(cfg.Results.Dir)

	timestamp := *runTimestamp
	if timestamp == "" {
		runs, err := store.ListRuns()
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			log.Fatalf("No evaluation runs found in %s", cfg.Results.Dir)
		}
		timestamp = runs[len(runs)-1]
		log.Printf("Using latest run %s", timestamp)
	}

	summary, err := store.LoadSummary(timestamp)
	if err != nil {
		log.Fatalf("Failed to load summary for run %s: %v", timestamp, err)
	}
	results, err := store.LoadResults(timestamp)
	if err != nil {
		log.Fatalf("Failed to load results for run %s: %v", timestamp, err)
	}

	findings := aggregation.AnalyzeContamination(results)
	markdown := report.RenderMarkdown(summary, results, findings)

	target := *outPath
	if target == "" {
		target = filepath.Join(cfg.Results.Dir, "report_"+timestamp+".md")
	}
	if err := os.WriteFile(target, []byte(markdown), 0o644); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	log.Printf("Report written to %s", target)

	report.PrintConsoleSummary(os.Stdout, summary, 0)
}
