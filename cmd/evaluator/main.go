package main

import (
	"context"
	"flag"
	"log"
	"os"

	"whisper-wpm-eval/internal/config"
	"whisper-wpm-eval/internal/coreengine/evaluationengine"
	"whisper-wpm-eval/internal/coreengine/vendoradapters"
	"whisper-wpm-eval/internal/dataset"
	"whisper-wpm-eval/internal/objectstore"
	"whisper-wpm-eval/internal/report"
	"whisper-wpm-eval/internal/resultstore"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file (defaults apply when omitted)")
	fromObjectStore := flag.Bool("from-object-store", false, "fetch audio from the object store instead of the local dataset directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The credential check happens before any work. A batch that fails on
	// its first API call after loading the whole dataset wastes a run.
	if err := cfg.Transcription.RequireAPIKey(); err != nil {
		log.Fatalf("%v", err)
	}

	datasetStore := dataset.NewStore(cfg.Dataset.Dir, cfg.Dataset.MetadataFile, cfg.Dataset.AudioDir)
	samples := dataset.NewSampleLibrary(cfg.Dataset.SamplesDir)

	var audio evaluationengine.AudioSource
	if *fromObjectStore {
		if !cfg.ObjectStore.Enabled {
			log.Fatalf("-from-object-store requires object_store.enabled in the configuration")
		}
		store, err := objectstore.NewMinioStore(cfg.ObjectStore)
		if err != nil {
			log.Fatalf("Failed to initialize object store: %v", err)
		}
		audio = store
	} else {
		audio = &evaluationengine.LocalAudioSource{Dataset: datasetStore}
	}

	adapter, err := vendoradapters.GetASRAdapter(cfg.Transcription)
	if err != nil {
		log.Fatalf("Failed to initialize transcription adapter: %v", err)
	}

	engine := &evaluationengine.Engine{
		Dataset: datasetStore,
		Samples: samples,
		Audio:   audio,
		Adapter: adapter,
	}

	outcome, err := engine.Run(context.Background())
	if err != nil {
		log.Fatalf("Evaluation run failed: %v", err)
	}

	results := resultstore.NewStore(cfg.Results.Dir)
	if err := results.SaveRun(outcome.Timestamp, outcome.Results, outcome.Summary); err != nil {
		log.Fatalf("Failed to save run results: %v", err)
	}
	log.Printf("Results saved to %s (run %s)", cfg.Results.Dir, outcome.Timestamp)

	report.PrintConsoleSummary(os.Stdout, outcome.Summary, len(outcome.Skipped))
}
